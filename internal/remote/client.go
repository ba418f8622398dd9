package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

// Version is stamped by the main package so requests identify the build.
var Version = "dev"

// Action is one of the control verbs the service accepts for an
// existing download.
type Action string

const (
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
	ActionPause   Action = "pause"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionStop, ActionRestart, ActionPause:
		return a, nil
	}
	return "", fmt.Errorf("unknown control action %q (want stop, restart or pause)", s)
}

// Client issues the control service's HTTP operations. It owns no state
// beyond connection configuration; every call is a fresh round trip
// with no caching, no batching, and no local retry.
type Client struct {
	base string
	http *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: newHTTPClient(timeout),
	}
}

func (c *Client) BaseURL() string { return c.base }

// ListDownloads fetches the full download list. One record with an
// unparsable status or timestamp fails the whole call; partial lists
// are never returned.
func (c *Client) ListDownloads(ctx context.Context) ([]Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/downloads", nil)
	if err != nil {
		return nil, &TransportError{Op: "list downloads", Err: err}
	}
	req.Header.Set("User-Agent", userAgent(Version))
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "list downloads", Err: err}
	}
	defer drain(resp.Body)
	if !is2xx(resp.StatusCode) {
		return nil, &HTTPError{Status: resp.StatusCode, Method: http.MethodGet, Path: "/downloads"}
	}
	var list []Download
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, &TransportError{Op: "decode downloads", Err: err}
	}
	return list, nil
}

// CreateDownload asks the service to start tracking a new download.
func (c *Client) CreateDownload(ctx context.Context, url string) error {
	body, err := json.Marshal(struct {
		URL string `json:"url"`
	}{URL: url})
	if err != nil {
		return &TransportError{Op: "encode create", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/downloads", bytes.NewReader(body))
	if err != nil {
		return &TransportError{Op: "create download", Err: err}
	}
	req.Header.Set("User-Agent", userAgent(Version))
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: "create download", Err: err}
	}
	defer drain(resp.Body)
	if !is2xx(resp.StatusCode) {
		return &HTTPError{Status: resp.StatusCode, Method: http.MethodPost, Path: "/downloads"}
	}
	return nil
}

// ApplyControl sends one control verb against a named download.
func (c *Client) ApplyControl(ctx context.Context, name string, action Action) error {
	p := fmt.Sprintf("/downloads/%s/%s", neturl.PathEscape(name), action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+p, nil)
	if err != nil {
		return &TransportError{Op: string(action) + " " + name, Err: err}
	}
	req.Header.Set("User-Agent", userAgent(Version))
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: string(action) + " " + name, Err: err}
	}
	defer drain(resp.Body)
	if !is2xx(resp.StatusCode) {
		return &HTTPError{Status: resp.StatusCode, Method: http.MethodPost, Path: p}
	}
	return nil
}

func is2xx(code int) bool { return code >= 200 && code <= 299 }

// drain discards any remaining body so the connection can be reused.
func drain(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 4096))
	_ = rc.Close()
}
