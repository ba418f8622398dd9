package config

import (
	"fmt"
	"strings"

	friendlyerrors "github.com/alexghenderson/downloader-ctl/internal/errors"
)

// ValidationError represents a detailed config validation error
type ValidationError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Config validation error in '%s': %s", e.Field, e.Message)
}

// ValidateDetailed performs comprehensive validation with friendly error messages
func (c *Config) ValidateDetailed() []ValidationError {
	var errs []ValidationError

	if c.Version != 1 {
		errs = append(errs, ValidationError{
			Field:      "version",
			Value:      c.Version,
			Message:    fmt.Sprintf("Unsupported version: %d", c.Version),
			Suggestion: "Use version: 1",
		})
	}

	if strings.TrimSpace(c.Server.URL) == "" {
		errs = append(errs, ValidationError{
			Field:      "server.url",
			Message:    "No server URL in the config",
			Suggestion: fmt.Sprintf("Set the download controller endpoint:\n  server:\n    url: http://127.0.0.1:8642\nor pass --url / set %s per invocation", EnvURL),
		})
	} else if err := checkURL(c.Server.URL); err != nil {
		errs = append(errs, ValidationError{
			Field:      "server.url",
			Value:      c.Server.URL,
			Message:    err.Error(),
			Suggestion: "Use a full http:// or https:// URL",
		})
	}

	if c.Server.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:      "server.timeout_seconds",
			Value:      c.Server.TimeoutSeconds,
			Message:    "Must be >= 0",
			Suggestion: "Recommended: 5-30 seconds",
		})
	}

	if c.Server.TimeoutSeconds > 300 {
		errs = append(errs, ValidationError{
			Field:      "server.timeout_seconds",
			Value:      c.Server.TimeoutSeconds,
			Message:    "Very long timeout (>5 minutes)",
			Suggestion: "Control calls are small; 5-30 seconds is plenty",
		})
	}

	if c.Refresh.IntervalSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:      "refresh.interval_seconds",
			Value:      c.Refresh.IntervalSeconds,
			Message:    "Must be >= 0",
			Suggestion: "Recommended: 3 seconds",
		})
	}

	if c.Refresh.IntervalSeconds == 1 {
		errs = append(errs, ValidationError{
			Field:      "refresh.interval_seconds",
			Value:      c.Refresh.IntervalSeconds,
			Message:    "Very aggressive polling (every second)",
			Suggestion: "Consider 3 or more to spare the service",
		})
	}

	switch strings.ToLower(c.UI.Theme) {
	case "", "dark", "light":
	default:
		errs = append(errs, ValidationError{
			Field:      "ui.theme",
			Value:      c.UI.Theme,
			Message:    "Invalid theme",
			Suggestion: "Use one of: dark, light",
		})
	}

	lvl := strings.ToLower(c.Logging.Level)
	switch lvl {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:      "logging.level",
			Value:      c.Logging.Level,
			Message:    "Invalid log level",
			Suggestion: "Use one of: debug, info, warn, error",
		})
	}

	if c.Metrics.PrometheusTextfile.Enabled && c.Metrics.PrometheusTextfile.Path == "" {
		errs = append(errs, ValidationError{
			Field:      "metrics.prometheus_textfile.path",
			Message:    "Required when the textfile sink is enabled",
			Suggestion: "Point it at your node_exporter textfile directory:\n  path: /var/lib/node_exporter/textfile/downloader-ctl.prom",
		})
	}

	if !c.JournalEnabled() && c.Journal.Path != "" {
		errs = append(errs, ValidationError{
			Field:      "journal.path",
			Value:      c.Journal.Path,
			Message:    "Set but journal.enabled is false",
			Suggestion: "Remove the path or enable the journal",
		})
	}

	return errs
}

// ValidateWithFriendlyErrors returns a user-friendly validation error
func (c *Config) ValidateWithFriendlyErrors() error {
	errs := c.ValidateDetailed()
	if len(errs) == 0 {
		return nil
	}

	var msg strings.Builder
	msg.WriteString("Configuration validation failed:\n\n")

	for i, err := range errs {
		msg.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
		if err.Value != nil {
			msg.WriteString(fmt.Sprintf("   Current value: %v\n", err.Value))
		}
		if err.Suggestion != "" {
			for _, line := range strings.Split(err.Suggestion, "\n") {
				msg.WriteString(fmt.Sprintf("   → %s\n", line))
			}
		}
		msg.WriteString("\n")
	}

	return friendlyerrors.NewFriendlyError("Config validation failed", msg.String())
}
