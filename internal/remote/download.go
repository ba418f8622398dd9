package remote

import (
	"encoding/json"
	"fmt"
	"time"
)

// Download is one server-tracked transfer as reported by the list
// endpoint. Records are replaced wholesale on every refresh and never
// mutated field-by-field locally.
type Download struct {
	Name             string
	Status           Status
	StartedAt        time.Time
	LastStatusChange time.Time
	RetryCount       int
}

type downloadWire struct {
	Name             string    `json:"name"`
	Status           string    `json:"status"`
	StartTime        time.Time `json:"startTime"`
	LastStatusChange time.Time `json:"lastStatusChange"`
	RetryCount       int       `json:"retryCount"`
}

func (d *Download) UnmarshalJSON(b []byte) error {
	var w downloadWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	st, err := ParseStatus(w.Status)
	if err != nil {
		return fmt.Errorf("download %q: %w", w.Name, err)
	}
	if w.RetryCount < 0 {
		return fmt.Errorf("download %q: negative retryCount %d", w.Name, w.RetryCount)
	}
	d.Name = w.Name
	d.Status = st
	d.StartedAt = w.StartTime
	d.LastStatusChange = w.LastStatusChange
	d.RetryCount = w.RetryCount
	return nil
}

func (d Download) MarshalJSON() ([]byte, error) {
	return json.Marshal(downloadWire{
		Name:             d.Name,
		Status:           d.Status.String(),
		StartTime:        d.StartedAt,
		LastStatusChange: d.LastStatusChange,
		RetryCount:       d.RetryCount,
	})
}
