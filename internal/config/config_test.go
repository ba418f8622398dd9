package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeFile(t, "version: 1\nserver:\n  url: http://127.0.0.1:8642\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Server.TimeoutSeconds != 10 {
		t.Fatalf("timeout default: got %d", c.Server.TimeoutSeconds)
	}
	if c.Refresh.IntervalSeconds != 3 {
		t.Fatalf("interval default: got %d", c.Refresh.IntervalSeconds)
	}
	if c.UI.Theme != "dark" {
		t.Fatalf("theme default: got %q", c.UI.Theme)
	}
	if c.Logging.Level != "info" {
		t.Fatalf("level default: got %q", c.Logging.Level)
	}
	if !c.JournalEnabled() {
		t.Fatal("journal should default to enabled")
	}
	if c.Journal.Path == "" {
		t.Fatal("journal path default should be filled in")
	}
	if !c.AutoSelectFirst() {
		t.Fatal("select_first should default to true")
	}
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("DL_TEST_HOST", "ctl.example.com")
	path := writeFile(t, "version: 1\nserver:\n  url: http://${DL_TEST_HOST}:9000\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Server.URL != "http://ctl.example.com:9000" {
		t.Fatalf("env expansion: got %q", c.Server.URL)
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"bad version", "version: 2\n", "unsupported config version"},
		{"negative timeout", "version: 1\nserver:\n  timeout_seconds: -5\n", "timeout_seconds"},
		{"negative interval", "version: 1\nrefresh:\n  interval_seconds: -1\n", "interval_seconds"},
		{"bad scheme", "version: 1\nserver:\n  url: ftp://host/\n", "scheme must be http or https"},
		{"bad theme", "version: 1\nui:\n  theme: solarized\n", "ui.theme invalid"},
		{"bad level", "version: 1\nlogging:\n  level: verbose\n", "logging.level invalid"},
		{"metrics path missing", "version: 1\nmetrics:\n  prometheus_textfile:\n    enabled: true\n", "prometheus_textfile.path required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, tc.yaml)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q; got %v", tc.want, err)
			}
		})
	}
}

func TestOptionalBoolSemantics(t *testing.T) {
	path := writeFile(t, "version: 1\nui:\n  select_first: false\njournal:\n  enabled: false\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.AutoSelectFirst() {
		t.Fatal("select_first: false should disable auto-select")
	}
	if c.JournalEnabled() {
		t.Fatal("journal.enabled: false should disable the journal")
	}
	if c.Journal.Path != "" {
		t.Fatalf("no default journal path for a disabled journal; got %q", c.Journal.Path)
	}
}

func TestResolvePathChain(t *testing.T) {
	t.Setenv(EnvConfig, "/env/config.yml")
	got, err := ResolvePath("/flag/config.yml")
	if err != nil || got != "/flag/config.yml" {
		t.Fatalf("flag should win: got %q, %v", got, err)
	}
	got, err = ResolvePath("")
	if err != nil || got != "/env/config.yml" {
		t.Fatalf("env should win over default: got %q, %v", got, err)
	}

	t.Setenv(EnvConfig, "")
	got, err = ResolvePath("")
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if !strings.HasSuffix(got, filepath.Join(".config", "downloader-ctl", "config.yml")) {
		t.Fatalf("unexpected default path: %q", got)
	}
}

func TestBaseURLChain(t *testing.T) {
	c := &Config{Version: 1, Server: Server{URL: "http://from-config:1"}}

	t.Setenv(EnvURL, "http://from-env:2")
	got, err := BaseURL("http://from-flag:3", c)
	if err != nil || got != "http://from-flag:3" {
		t.Fatalf("flag should win: got %q, %v", got, err)
	}
	got, err = BaseURL("", c)
	if err != nil || got != "http://from-env:2" {
		t.Fatalf("env should win over config: got %q, %v", got, err)
	}

	t.Setenv(EnvURL, "")
	got, err = BaseURL("", c)
	if err != nil || got != "http://from-config:1" {
		t.Fatalf("config should be the fallback: got %q, %v", got, err)
	}

	_, err = BaseURL("", nil)
	if err == nil || !strings.Contains(err.Error(), "no server URL configured") {
		t.Fatalf("expected a no-URL error; got %v", err)
	}
	_, err = BaseURL("ftp://host/", nil)
	if err == nil || !strings.Contains(err.Error(), "scheme") {
		t.Fatalf("expected a scheme error; got %v", err)
	}
}

func TestValidateDetailedFindings(t *testing.T) {
	c := &Config{Version: 1}
	c.Refresh.IntervalSeconds = 1
	c.Journal.Path = "/tmp/journal.db"
	no := false
	c.Journal.Enabled = &no

	findings := c.ValidateDetailed()
	var fields []string
	for _, f := range findings {
		fields = append(fields, f.Field)
	}
	joined := strings.Join(fields, ",")
	for _, want := range []string{"server.url", "refresh.interval_seconds", "journal.path"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected a finding for %s; got %v", want, fields)
		}
	}
	for _, f := range findings {
		if f.Message == "" {
			t.Fatalf("finding for %s has no message", f.Field)
		}
	}
}
