package remote

import (
	"fmt"
	"strings"
)

// StatusKind enumerates the lifecycle states the control service reports.
type StatusKind int

const (
	StatusDownloading StatusKind = iota
	StatusInitializing
	StatusRetrying
	StatusOffline
	StatusPaused
	StatusPausedForExclusiveShow
	StatusPausedForTicketShow
	StatusError
	StatusCompleted
)

var statusKeywords = map[StatusKind]string{
	StatusDownloading:            "Downloading",
	StatusInitializing:           "Initializing",
	StatusRetrying:               "Retrying",
	StatusOffline:                "Offline",
	StatusPaused:                 "Paused",
	StatusPausedForExclusiveShow: "PausedForExclusiveShow",
	StatusPausedForTicketShow:    "PausedForTicketShow",
	StatusError:                  "Error",
	StatusCompleted:              "Completed",
}

var statusByKeyword = func() map[string]StatusKind {
	m := make(map[string]StatusKind, len(statusKeywords))
	for k, name := range statusKeywords {
		m[strings.ToLower(name)] = k
	}
	return m
}()

func (k StatusKind) String() string {
	if name, ok := statusKeywords[k]; ok {
		return name
	}
	return fmt.Sprintf("StatusKind(%d)", int(k))
}

// Status is one lifecycle state plus an optional detail message.
// Message is meaningful only for Retrying and Error; empty means absent.
type Status struct {
	Kind    StatusKind
	Message string
}

// UnknownStatusError reports a status string outside the known grammar.
type UnknownStatusError struct {
	Raw string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown download status %q", e.Raw)
}

// ParseStatus decodes a wire status string. The keyword is matched
// case-insensitively; Retrying and Error additionally accept a
// "Keyword: detail" form where everything after the first ": " becomes
// the message with its original casing. Anything else fails.
func ParseStatus(raw string) (Status, error) {
	if kind, ok := statusByKeyword[strings.ToLower(raw)]; ok {
		return Status{Kind: kind}, nil
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "retrying: ") {
		return Status{Kind: StatusRetrying, Message: raw[len("retrying: "):]}, nil
	}
	if strings.HasPrefix(lower, "error: ") {
		return Status{Kind: StatusError, Message: raw[len("error: "):]}, nil
	}
	return Status{}, &UnknownStatusError{Raw: raw}
}

// String is the exact inverse of ParseStatus: canonical keyword, plus
// ": " and the message when one is present.
func (s Status) String() string {
	name := statusKeywords[s.Kind]
	if s.Message != "" && (s.Kind == StatusRetrying || s.Kind == StatusError) {
		return name + ": " + s.Message
	}
	return name
}
