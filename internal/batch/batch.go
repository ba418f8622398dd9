package batch

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is a YAML batch of download URLs to hand to the control service.
type File struct {
	Version int   `yaml:"version"`
	Jobs    []Job `yaml:"jobs"`
}

type Job struct {
	URL string `yaml:"url"`
}

func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if f.Version != 1 {
		return nil, fmt.Errorf("unsupported batch version: %d", f.Version)
	}
	if len(f.Jobs) == 0 {
		return nil, fmt.Errorf("batch has no jobs")
	}
	for i, j := range f.Jobs {
		if strings.TrimSpace(j.URL) == "" {
			return nil, fmt.Errorf("job %d has no url", i+1)
		}
	}
	return &f, nil
}

func Save(path string, f *File) error {
	b, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// FromURLs builds a batch file from a plain list, skipping blank lines
// and #-comments. Used by `batch import` to convert text lists.
func FromURLs(urls []string) *File {
	f := &File{Version: 1}
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || strings.HasPrefix(u, "#") {
			continue
		}
		f.Jobs = append(f.Jobs, Job{URL: u})
	}
	return f
}
