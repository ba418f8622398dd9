package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexghenderson/downloader-ctl/internal/remote"
)

// ControlServer is a fake download-control service. It serves a mutable
// list on GET /downloads and records every create and control POST so
// tests can assert exactly what the client sent.
type ControlServer struct {
	*httptest.Server

	mu         sync.Mutex
	downloads  []remote.Download
	creates    []string
	controls   []ControlCall
	failNext   int
	failStatus int
}

// ControlCall is one recorded POST /downloads/{name}/{action}.
type ControlCall struct {
	Name   string
	Action string
}

func NewControlServer() *ControlServer {
	s := &ControlServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *ControlServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNext > 0 {
		s.failNext--
		w.WriteHeader(s.failStatus)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/downloads":
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.downloads)

	case r.Method == http.MethodPost && r.URL.Path == "/downloads":
		var body struct {
			URL string `json:"url"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.creates = append(s.creates, body.URL)
		w.WriteHeader(http.StatusCreated)

	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/downloads/"):
		// net/http hands us the decoded path, so escaped names arrive
		// as their logical spelling here.
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/downloads/"), "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.controls = append(s.controls, ControlCall{Name: parts[0], Action: parts[1]})
		w.WriteHeader(http.StatusAccepted)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// SetDownloads replaces the list served on the next GET /downloads.
func (s *ControlServer) SetDownloads(downloads []remote.Download) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloads = downloads
}

// FailNext makes the next n requests answer with the given status.
func (s *ControlServer) FailNext(n, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = n
	s.failStatus = status
}

// Creates returns the recorded create URLs in arrival order.
func (s *ControlServer) Creates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.creates...)
}

// Controls returns the recorded control calls in arrival order.
func (s *ControlServer) Controls() []ControlCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ControlCall(nil), s.controls...)
}

// SampleDownload builds a plausible list record for tests.
func SampleDownload(name, status string) remote.Download {
	st, err := remote.ParseStatus(status)
	if err != nil {
		panic("testutil.SampleDownload: " + err.Error())
	}
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return remote.Download{
		Name:             name,
		Status:           st,
		StartedAt:        started,
		LastStatusChange: started.Add(5 * time.Minute),
		RetryCount:       0,
	}
}

// TempFile creates a file with content under a per-test directory.
func TempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// BoolPtr returns a pointer to a bool (useful for optional config fields)
func BoolPtr(b bool) *bool {
	return &b
}
