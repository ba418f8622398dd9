package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/alexghenderson/downloader-ctl/internal/remote"
)

// UserFriendlyError provides actionable error messages for end users
type UserFriendlyError struct {
	Message    string // User-facing message explaining what went wrong
	Suggestion string // Actionable steps to fix the issue
	DocsLink   string // Optional link to documentation
	Details    error  // Original error for debugging/logs
}

func (e *UserFriendlyError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString("How to fix:\n")
		sb.WriteString(e.Suggestion)
	}

	if e.DocsLink != "" {
		sb.WriteString("\n\n")
		sb.WriteString("Documentation: ")
		sb.WriteString(e.DocsLink)
	}

	return sb.String()
}

func (e *UserFriendlyError) Unwrap() error {
	return e.Details
}

// NewFriendlyError creates a user-friendly error
func NewFriendlyError(message, suggestion string) *UserFriendlyError {
	return &UserFriendlyError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// WithDetails adds the underlying error details
func (e *UserFriendlyError) WithDetails(err error) *UserFriendlyError {
	e.Details = err
	return e
}

// WithDocs adds a documentation link
func (e *UserFriendlyError) WithDocs(link string) *UserFriendlyError {
	e.DocsLink = link
	return e
}

// ClassifyRemote maps a remote client failure to a friendly error with
// suggestions aimed at the control-service deployment.
func ClassifyRemote(err error) *UserFriendlyError {
	var he *remote.HTTPError
	if errors.As(err, &he) {
		return httpError(he)
	}
	var ue *remote.UnknownStatusError
	if errors.As(err, &ue) {
		return &UserFriendlyError{
			Message:    fmt.Sprintf("The service reported a status this tool does not know: %q", ue.Raw),
			Suggestion: "The control service is probably newer than this client. Upgrade downloader-ctl.",
			Details:    err,
		}
	}
	var te *remote.TransportError
	if errors.As(err, &te) {
		return NetworkError(err)
	}
	return &UserFriendlyError{
		Message:    "Request to the control service failed",
		Suggestion: "Run 'downloader-ctl doctor' to check connectivity",
		Details:    err,
	}
}

func httpError(he *remote.HTTPError) *UserFriendlyError {
	msg := fmt.Sprintf("The control service answered %d for %s %s", he.Status, he.Method, he.Path)
	suggestion := "Check the service logs"

	switch {
	case he.Status == http.StatusUnauthorized || he.Status == http.StatusForbidden:
		msg = fmt.Sprintf("The control service rejected the request (%d)", he.Status)
		suggestion = "The endpoint appears to require credentials this tool does not send.\nIf the service sits behind an authenticating proxy, point server.url at a direct endpoint."
	case he.Status == http.StatusNotFound:
		msg = "The control service has no such endpoint or download"
		suggestion = "1. Verify server.url points at a download controller, not a generic web server\n2. Refresh the list; the download may have been removed"
	case he.Status >= 500:
		msg = fmt.Sprintf("The control service failed internally (%d)", he.Status)
		suggestion = "The problem is on the service side. Check its logs and try again."
	}

	return &UserFriendlyError{
		Message:    msg,
		Suggestion: suggestion,
		Details:    he,
	}
}

// NetworkError returns a network-related error with helpful suggestions
func NetworkError(err error) *UserFriendlyError {
	msg := "Network error occurred"
	suggestion := "Check the connection to the control service and try again"

	if err != nil {
		errStr := err.Error()

		// DNS resolution failure
		if strings.Contains(errStr, "no such host") || strings.Contains(errStr, "name resolution") {
			msg = "Cannot resolve the control service hostname"
			suggestion = "1. Check the host in server.url (or --url)\n2. Verify DNS settings\n3. Try: ping <host>"
		}

		// Connection refused
		if strings.Contains(errStr, "connection refused") {
			msg = "The control service refused the connection"
			suggestion = "Is the download-control service running?\n1. Check the service process\n2. Verify the port in server.url"
		}

		// Timeout
		if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
			msg = "Connection to the control service timed out"
			suggestion = "Service is slow or unreachable. Try:\n1. Raise server.timeout_seconds\n2. Check the network path to the service"
		}

		// Certificate errors
		if strings.Contains(errStr, "certificate") || strings.Contains(errStr, "x509") {
			msg = "SSL/TLS certificate verification failed"
			suggestion = "The service presents a certificate this host does not trust.\nInstall the issuing CA, or use the service's plain-http endpoint on a trusted network."
		}
	}

	return &UserFriendlyError{
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}

// ConfigError returns configuration-related errors
func ConfigError(field, issue string) *UserFriendlyError {
	return &UserFriendlyError{
		Message:    fmt.Sprintf("Configuration error in field '%s': %s", field, issue),
		Suggestion: "Run 'downloader-ctl config validate' to check your configuration\nOr run 'downloader-ctl config wizard' to create one interactively",
	}
}

// JournalError returns action-journal errors with recovery suggestions
func JournalError(err error) *UserFriendlyError {
	msg := "Action journal error"
	suggestion := "Try running: downloader-ctl doctor"

	if err != nil {
		errStr := err.Error()

		if strings.Contains(errStr, "locked") {
			msg = "The action journal is locked by another process"
			suggestion = "Close other downloader-ctl instances and try again"
		}

		if strings.Contains(errStr, "corrupt") || strings.Contains(errStr, "malformed") {
			msg = "The action journal is corrupted"
			suggestion = "The journal is audit history only; moving it aside is safe:\n  mv ~/.local/share/downloader-ctl/journal.db{,.broken}"
		}
	}

	return &UserFriendlyError{
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}

// PathError returns file/directory path related errors
func PathError(path string, err error) *UserFriendlyError {
	msg := fmt.Sprintf("Path error: %s", path)
	suggestion := "Check that the path exists and you have permission to access it"

	if err != nil {
		errStr := err.Error()

		if strings.Contains(errStr, "permission denied") {
			msg = fmt.Sprintf("Permission denied: %s", path)
			suggestion = fmt.Sprintf("Ensure you have write permission:\n  chmod u+w %s", path)
		}

		if strings.Contains(errStr, "no such file or directory") {
			msg = fmt.Sprintf("Directory does not exist: %s", path)
			suggestion = fmt.Sprintf("Create the directory:\n  mkdir -p %s", path)
		}

		if strings.Contains(errStr, "not a directory") {
			msg = fmt.Sprintf("Path exists but is not a directory: %s", path)
			suggestion = "Remove the file or choose a different path"
		}
	}

	return &UserFriendlyError{
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}

// DiskSpaceError reports insufficient room for an on-disk artifact.
func DiskSpaceError(path string, availableBytes, requiredBytes uint64) *UserFriendlyError {
	return &UserFriendlyError{
		Message: fmt.Sprintf("Low disk space for %s: %s free, want at least %s",
			path, humanize.IBytes(availableBytes), humanize.IBytes(requiredBytes)),
		Suggestion: "Free some space or point the journal/metrics paths at another volume",
	}
}
