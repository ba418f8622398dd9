package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfig and EnvURL are the environment fallbacks for the config
// path and the server base URL. Flags always win over both.
const (
	EnvConfig = "DOWNLOADER_CTL_CONFIG"
	EnvURL    = "DOWNLOADER_CTL_URL"
)

// Config mirrors the YAML schema. Missing optional values are filled by
// applyDefaults in Load.
type Config struct {
	Version int     `yaml:"version"`
	Server  Server  `yaml:"server"`
	Refresh Refresh `yaml:"refresh"`
	UI      UI      `yaml:"ui"`
	Logging Logging `yaml:"logging"`
	Journal Journal `yaml:"journal"`
	Metrics Metrics `yaml:"metrics"`
}

type Server struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Refresh struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

type UI struct {
	Theme string `yaml:"theme"` // dark | light
	// SelectFirst controls whether an empty list auto-selects row 0 when
	// downloads appear. Absent means true.
	SelectFirst *bool `yaml:"select_first"`
}

type Logging struct {
	Level string `yaml:"level"` // debug|info|warn|error
	// File receives diagnostics while the dashboard owns the terminal.
	// Empty means a per-user default under the state directory.
	File string `yaml:"file"`
}

type Journal struct {
	Enabled *bool  `yaml:"enabled"` // absent means true
	Path    string `yaml:"path"`
}

type Metrics struct {
	PrometheusTextfile PromTextfile `yaml:"prometheus_textfile"`
}

type PromTextfile struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// AutoSelectFirst reports the ui.select_first policy with its default.
func (c *Config) AutoSelectFirst() bool {
	return c.UI.SelectFirst == nil || *c.UI.SelectFirst
}

// JournalEnabled reports the journal.enabled switch with its default.
func (c *Config) JournalEnabled() bool {
	return c.Journal.Enabled == nil || *c.Journal.Enabled
}

// DefaultPath is the config file consulted when neither the --config
// flag nor DOWNLOADER_CTL_CONFIG is set.
func DefaultPath() (string, error) {
	h, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(h, ".config", "downloader-ctl", "config.yml"), nil
}

// ResolvePath applies the flag > env > default-path chain.
func ResolvePath(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env, nil
	}
	return DefaultPath()
}

// BaseURL applies the flag > env > config chain for the server URL.
func BaseURL(flagURL string, c *Config) (string, error) {
	u := strings.TrimSpace(flagURL)
	if u == "" {
		u = strings.TrimSpace(os.Getenv(EnvURL))
	}
	if u == "" && c != nil {
		u = strings.TrimSpace(c.Server.URL)
	}
	if u == "" {
		return "", fmt.Errorf("no server URL configured: pass --url, set %s, or set server.url in the config (run 'downloader-ctl config wizard')", EnvURL)
	}
	if err := checkURL(u); err != nil {
		return "", err
	}
	return u, nil
}

// Load reads, parses, expands, defaults, and validates a YAML config file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	expanded, err := expandTilde(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	// Expand ${ENV} placeholders before unmarshalling
	b = []byte(os.ExpandEnv(string(b)))
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	if err := c.expandPaths(); err != nil {
		return nil, err
	}
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) expandPaths() error {
	var err error
	if c.Logging.File, err = expandTilde(c.Logging.File); err != nil {
		return err
	}
	if c.Journal.Path, err = expandTilde(c.Journal.Path); err != nil {
		return err
	}
	if c.Metrics.PrometheusTextfile.Path, err = expandTilde(c.Metrics.PrometheusTextfile.Path); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyDefaults() error {
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = 10
	}
	if c.Refresh.IntervalSeconds == 0 {
		c.Refresh.IntervalSeconds = 3
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "dark"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.JournalEnabled() && c.Journal.Path == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.Journal.Path = filepath.Join(h, ".local", "share", "downloader-ctl", "journal.db")
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version: %d", c.Version)
	}
	if c.Server.TimeoutSeconds < 0 {
		return errors.New("server.timeout_seconds must be >= 0")
	}
	if c.Refresh.IntervalSeconds < 0 {
		return errors.New("refresh.interval_seconds must be >= 0")
	}
	if c.Server.URL != "" {
		if err := checkURL(c.Server.URL); err != nil {
			return fmt.Errorf("server.url: %w", err)
		}
	}
	switch strings.ToLower(c.UI.Theme) {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.theme invalid: %s", c.UI.Theme)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level invalid: %s", c.Logging.Level)
	}
	if c.Metrics.PrometheusTextfile.Enabled && c.Metrics.PrometheusTextfile.Path == "" {
		return errors.New("metrics.prometheus_textfile.path required when enabled")
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return nil
}

func expandTilde(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p[0] != '~' {
		return p, nil
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if p == "~" {
		return h, nil
	}
	return filepath.Join(h, p[2:]), nil
}

// EnsureDir creates the directory for artifacts that need one (journal,
// metrics textfile, log file).
func EnsureDir(path string, perm os.FileMode) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, perm)
}
