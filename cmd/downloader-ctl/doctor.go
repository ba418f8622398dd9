package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/alexghenderson/downloader-ctl/internal/config"
	friendlyerrors "github.com/alexghenderson/downloader-ctl/internal/errors"
	"github.com/alexghenderson/downloader-ctl/internal/journal"
	"github.com/alexghenderson/downloader-ctl/internal/remote"
	"github.com/alexghenderson/downloader-ctl/internal/system"
)

// Check represents a single diagnostic check
type Check struct {
	Name        string
	Run         func(ctx context.Context) CheckResult
	Critical    bool // If true, failure suggests the dashboard won't work
	Description string
}

// CheckResult represents the result of a diagnostic check
type CheckResult struct {
	Passed     bool
	Warning    bool // Passed but with warnings
	Message    string
	Suggestion string
}

func handleDoctor(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file")
	urlFlag := fs.String("url", "", "Control service base URL (overrides env and config)")
	verbose := fs.Bool("verbose", false, "Show detailed output for each check")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Try to load config, but don't fail if it doesn't exist
	path, _ := config.ResolvePath(*cfgPath)
	var cfg *config.Config
	var cfgErr error
	if path != "" {
		cfg, cfgErr = config.Load(path)
	}

	// Resolve the base URL once; several checks build on it.
	base, baseErr := config.BaseURL(*urlFlag, cfg)

	fmt.Printf("Running downloader-ctl diagnostics...\n\n")

	checks := []Check{
		{
			Name:        "Config file exists",
			Critical:    true,
			Description: "Configuration file should exist for the dashboard to work",
			Run: func(ctx context.Context) CheckResult {
				if path == "" {
					return CheckResult{
						Passed:     false,
						Message:    "No config path specified",
						Suggestion: fmt.Sprintf("Set %s or use --config\nRun 'downloader-ctl config wizard' to create a configuration", config.EnvConfig),
					}
				}
				if _, err := os.Stat(path); err != nil {
					return CheckResult{
						Passed:     false,
						Message:    fmt.Sprintf("Config file not found: %s", path),
						Suggestion: "Run 'downloader-ctl config wizard' to create a configuration",
					}
				}
				return CheckResult{
					Passed:  true,
					Message: fmt.Sprintf("Found: %s", path),
				}
			},
		},
		{
			Name:        "Config is valid",
			Critical:    true,
			Description: "Configuration must be valid YAML with sane values",
			Run: func(ctx context.Context) CheckResult {
				if cfgErr != nil {
					return CheckResult{
						Passed:     false,
						Message:    "Config parsing failed",
						Suggestion: fmt.Sprintf("Fix config errors:\n%v\n\nRun 'downloader-ctl config validate' for details", cfgErr),
					}
				}
				if cfg == nil {
					return CheckResult{
						Passed:  false,
						Message: "Config not loaded",
					}
				}
				if issues := cfg.ValidateDetailed(); len(issues) > 0 {
					return CheckResult{
						Passed:     true,
						Warning:    true,
						Message:    fmt.Sprintf("Valid, with %d advisory finding(s)", len(issues)),
						Suggestion: "Run 'downloader-ctl config validate' for details",
					}
				}
				return CheckResult{
					Passed:  true,
					Message: "Valid",
				}
			},
		},
		{
			Name:        "Server URL configured",
			Critical:    true,
			Description: "A base URL must come from --url, the env, or the config",
			Run: func(ctx context.Context) CheckResult {
				if baseErr != nil {
					return CheckResult{
						Passed:     false,
						Message:    "No usable server URL",
						Suggestion: baseErr.Error(),
					}
				}
				return CheckResult{
					Passed:  true,
					Message: base,
				}
			},
		},
		{
			Name:        "Server reachable",
			Critical:    true,
			Description: "DNS resolution and a TCP connection to the service",
			Run: func(ctx context.Context) CheckResult {
				if baseErr != nil {
					return CheckResult{Passed: false, Message: "No base URL to check"}
				}
				if err := system.CheckServerReachable(ctx, base); err != nil {
					return CheckResult{
						Passed:     false,
						Message:    "Network check failed",
						Suggestion: err.Error(),
					}
				}
				return CheckResult{
					Passed:  true,
					Message: "DNS and TCP OK",
				}
			},
		},
		{
			Name:        "Service answers /downloads",
			Critical:    true,
			Description: "The list endpoint must respond with decodable statuses",
			Run: func(ctx context.Context) CheckResult {
				if baseErr != nil {
					return CheckResult{Passed: false, Message: "No base URL to check"}
				}
				cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()
				list, err := remote.New(base, 5*time.Second).ListDownloads(cctx)
				if err != nil {
					fe := friendlyerrors.ClassifyRemote(err)
					return CheckResult{
						Passed:     false,
						Message:    fe.Message,
						Suggestion: fe.Suggestion,
					}
				}
				return CheckResult{
					Passed:  true,
					Message: fmt.Sprintf("Tracking %d download(s)", len(list)),
				}
			},
		},
		{
			Name:        "Action journal",
			Critical:    false,
			Description: "The audit journal should be writable when enabled",
			Run: func(ctx context.Context) CheckResult {
				if cfg == nil {
					return CheckResult{Passed: false, Message: "Config not loaded"}
				}
				if !cfg.JournalEnabled() {
					return CheckResult{Passed: true, Message: "Disabled in config"}
				}
				db, err := journal.Open(cfg)
				if err != nil {
					fe := friendlyerrors.JournalError(err)
					return CheckResult{
						Passed:     false,
						Message:    fe.Message,
						Suggestion: fe.Suggestion,
					}
				}
				defer func() { _ = db.Close() }()
				if err := db.Ping(); err != nil {
					return CheckResult{
						Passed:  false,
						Message: fmt.Sprintf("Journal not usable: %v", err),
					}
				}
				return CheckResult{
					Passed:  true,
					Message: fmt.Sprintf("Writable: %s", db.Path),
				}
			},
		},
		{
			Name:        "Disk space for state",
			Critical:    false,
			Description: "Journal, metrics, and log writes need some headroom",
			Run: func(ctx context.Context) CheckResult {
				dir := stateDir(cfg)
				report, err := system.CheckDisk(dir)
				if err != nil {
					return CheckResult{
						Passed:  true,
						Warning: true,
						Message: fmt.Sprintf("Could not check disk space: %v", err),
					}
				}
				if report.Available < 100*1024*1024 {
					return CheckResult{
						Passed:     false,
						Message:    fmt.Sprintf("Very low disk space: %s free on %s", humanize.IBytes(report.Available), dir),
						Suggestion: "Free up space or move journal/log paths to another volume",
					}
				}
				return CheckResult{
					Passed:  true,
					Message: fmt.Sprintf("%s available on %s", humanize.IBytes(report.Available), dir),
				}
			},
		},
		{
			Name:        "System memory",
			Critical:    false,
			Description: "The dashboard and its sqlite journal need a modest amount of memory",
			Run: func(ctx context.Context) CheckResult {
				report, err := system.CheckMemory()
				if err != nil {
					return CheckResult{
						Passed:  true,
						Warning: true,
						Message: fmt.Sprintf("Could not check memory: %v", err),
					}
				}
				if report.Available < 256*1024*1024 {
					return CheckResult{
						Passed:     true,
						Warning:    true,
						Message:    fmt.Sprintf("Low memory: %s available", humanize.IBytes(report.Available)),
						Suggestion: "Close other applications if the dashboard feels sluggish",
					}
				}
				return CheckResult{
					Passed:  true,
					Message: fmt.Sprintf("%s available", humanize.IBytes(report.Available)),
				}
			},
		},
		{
			Name:        "Interactive terminal",
			Critical:    false,
			Description: "The dashboard needs stdout to be a terminal",
			Run: func(ctx context.Context) CheckResult {
				if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
					return CheckResult{Passed: true, Message: "stdout is a TTY"}
				}
				return CheckResult{
					Passed:     true,
					Warning:    true,
					Message:    "stdout is not a TTY",
					Suggestion: "'tui' needs an interactive terminal; one-shot commands still work",
				}
			},
		},
		{
			Name:        "Proxy environment",
			Critical:    false,
			Description: "Proxy variables apply to every service connection",
			Run: func(ctx context.Context) CheckResult {
				proxies := system.DetectProxySettings()
				if len(proxies) == 0 {
					return CheckResult{Passed: true, Message: "No proxy variables set"}
				}
				parts := make([]string, 0, len(proxies))
				for k, v := range proxies {
					parts = append(parts, fmt.Sprintf("%s=%s", k, v))
				}
				sort.Strings(parts)
				return CheckResult{
					Passed:     true,
					Warning:    true,
					Message:    strings.Join(parts, " "),
					Suggestion: "Connections to the control service will go through this proxy",
				}
			},
		},
	}

	// Run all checks
	passedCount := 0
	failedCount := 0
	warningCount := 0
	criticalFailed := 0

	for _, check := range checks {
		if *verbose {
			fmt.Printf("[ ] %s...\n", check.Name)
		}

		start := time.Now()
		result := check.Run(ctx)
		duration := time.Since(start)

		symbol := "✓"
		if !result.Passed {
			symbol = "✗"
			failedCount++
			if check.Critical {
				criticalFailed++
			}
		} else if result.Warning {
			symbol = "⚠"
			warningCount++
			passedCount++
		} else {
			passedCount++
		}

		fmt.Printf("%s %s", symbol, check.Name)
		if *verbose {
			fmt.Printf(" (%.2fs)", duration.Seconds())
		}
		fmt.Println()

		if result.Message != "" {
			fmt.Printf("  %s\n", result.Message)
		}

		if result.Suggestion != "" {
			for _, line := range strings.Split(result.Suggestion, "\n") {
				fmt.Printf("  → %s\n", line)
			}
		}

		if *verbose || !result.Passed || result.Warning {
			fmt.Println()
		}
	}

	// Summary
	fmt.Printf("\nDiagnostic Summary:\n")
	fmt.Printf("  Total checks: %d\n", len(checks))
	fmt.Printf("  Passed:       %d\n", passedCount)
	fmt.Printf("  Warnings:     %d\n", warningCount)
	fmt.Printf("  Failed:       %d\n", failedCount)

	if criticalFailed > 0 {
		fmt.Println("\n⚠ Some critical checks failed. The dashboard will likely not work.")
		fmt.Println("Please fix the issues above.")
		return fmt.Errorf("%d critical checks failed", criticalFailed)
	}

	if failedCount > 0 || warningCount > 0 {
		fmt.Println("\n⚠ Some checks have warnings. downloader-ctl will work but some features may be limited.")
	} else {
		fmt.Println("\n✓ All checks passed! downloader-ctl is ready to use.")
	}

	return nil
}

// stateDir is where on-disk artifacts land; the disk check runs against it.
func stateDir(cfg *config.Config) string {
	if cfg != nil && cfg.Journal.Path != "" {
		return filepath.Dir(cfg.Journal.Path)
	}
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return filepath.Join(h, ".local", "share", "downloader-ctl")
	}
	return os.TempDir()
}
