package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/alexghenderson/downloader-ctl/internal/config"
	friendlyerrors "github.com/alexghenderson/downloader-ctl/internal/errors"
	"github.com/alexghenderson/downloader-ctl/internal/journal"
	"github.com/alexghenderson/downloader-ctl/internal/lockfile"
	"github.com/alexghenderson/downloader-ctl/internal/logging"
	"github.com/alexghenderson/downloader-ctl/internal/metrics"
	"github.com/alexghenderson/downloader-ctl/internal/remote"
	ui "github.com/alexghenderson/downloader-ctl/internal/tui"
	cw "github.com/alexghenderson/downloader-ctl/internal/tui/configwizard"
)

func handleTUI(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file")
	urlFlag := fs.String("url", "", "Control service base URL (overrides env and config)")
	logLevel := fs.String("log-level", "", "log level (default: logging.level from the config)")
	logFile := fs.String("log-file", "", "log file path (default: logging.file from the config)")
	noLock := fs.Bool("no-lock", false, "skip the single-instance lock")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := config.ResolvePath(*cfgPath)
	if err != nil {
		return errors.New("--config is required or set " + config.EnvConfig)
	}
	// Missing config file: offer the first-run wizard instead of failing.
	c, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			c, err = runFirstTimeWizard(path)
			if err != nil {
				return err
			}
		} else {
			return err
		}
	}

	base, err := config.BaseURL(*urlFlag, c)
	if err != nil {
		return err
	}

	if !*noLock {
		lk, err := lockfile.Acquire(lockfile.DefaultPath())
		if err != nil {
			return err
		}
		defer func() { _ = lk.Release() }()
	}

	level := *logLevel
	if level == "" {
		level = c.Logging.Level
	}
	lf := *logFile
	if lf == "" {
		lf = c.Logging.File
	}
	if lf == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		lf = filepath.Join(h, ".local", "state", "downloader-ctl", "downloader-ctl.log")
	}
	// Diagnostics go to a file; the dashboard owns the terminal.
	log, closeLog, err := logging.NewFile(level, false, lf)
	if err != nil {
		return friendlyerrors.PathError(lf, err)
	}
	defer func() { _ = closeLog() }()

	jrnl, err := journal.Open(c)
	if err != nil {
		log.Warnf("action journal unavailable: %v", err)
		jrnl = nil
	}
	defer func() { _ = jrnl.Close() }()

	met := metrics.New(c)
	client := remote.New(base, time.Duration(c.Server.TimeoutSeconds)*time.Second)

	// Synchronous startup refresh. Its failure is fatal: a dashboard
	// that cannot reach the service on launch should say so, not sit
	// on an empty screen.
	list, err := client.ListDownloads(ctx)
	if err != nil {
		return friendlyerrors.ClassifyRemote(err)
	}

	m := ui.New(c, client, jrnl, met, log, version)
	m.Preload(list, time.Now())
	log.Infof("dashboard started: %s (%d downloads)", base, len(list))
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

// runFirstTimeWizard asks for the minimum viable config, writes it to
// path, and loads it back so defaults and expansion apply.
func runFirstTimeWizard(path string) (*config.Config, error) {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	defaults := &config.Config{
		Version: 1,
		Server:  config.Server{URL: "http://127.0.0.1:8642", TimeoutSeconds: 10},
		Refresh: config.Refresh{IntervalSeconds: 3},
		UI:      config.UI{Theme: "dark"},
		Logging: config.Logging{Level: "info"},
	}
	wiz := cw.New(defaults)
	p := tea.NewProgram(wiz)
	m, err := p.Run()
	if err != nil {
		return nil, err
	}
	w, ok := m.(*cw.Wizard)
	if !ok {
		return nil, errors.New("unexpected wizard model")
	}
	cfg := w.Config()
	if cfg == nil {
		return nil, errors.New("config wizard was cancelled")
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return nil, err
	}
	fmt.Printf("wrote config to %s\n", path)
	return config.Load(path)
}
