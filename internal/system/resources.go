package system

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// DiskReport summarizes usage of the filesystem holding a path.
type DiskReport struct {
	Total       uint64
	Used        uint64
	Available   uint64
	UsedPercent float64
}

// CheckDisk returns usage for the filesystem containing path.
func CheckDisk(path string) (DiskReport, error) {
	u, err := disk.Usage(path)
	if err != nil {
		return DiskReport{}, fmt.Errorf("failed to get disk usage for %s: %w", path, err)
	}
	return DiskReport{
		Total:       u.Total,
		Used:        u.Used,
		Available:   u.Free,
		UsedPercent: u.UsedPercent,
	}, nil
}

// IsLowDiskSpace returns true if disk usage is above the threshold percentage
func IsLowDiskSpace(path string, thresholdPercent float64) (bool, error) {
	r, err := CheckDisk(path)
	if err != nil {
		return false, err
	}
	return r.UsedPercent >= thresholdPercent, nil
}

// MemoryReport summarizes physical memory on the host.
type MemoryReport struct {
	Total       uint64
	Available   uint64
	UsedPercent float64
}

func CheckMemory() (MemoryReport, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return MemoryReport{}, fmt.Errorf("failed to get memory info: %w", err)
	}
	return MemoryReport{
		Total:       vm.Total,
		Available:   vm.Available,
		UsedPercent: vm.UsedPercent,
	}, nil
}
