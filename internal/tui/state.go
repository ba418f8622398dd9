package tui

import (
	"time"

	"github.com/alexghenderson/downloader-ctl/internal/remote"
)

// Mode is the dashboard input mode.
type Mode int

const (
	// ModeNormal routes keys to navigation and control actions.
	ModeNormal Mode = iota
	// ModeAdding routes keys into the new-download URL buffer.
	ModeAdding
)

// State holds what the dashboard knows between refreshes: the last server
// snapshot, the cursor, and the add-input buffer. It has no locking; the
// update loop is its only writer.
type State struct {
	downloads   []remote.Download
	selected    int // -1 when nothing is selected
	mode        Mode
	buffer      []rune
	selectFirst bool
	lastRefresh time.Time
}

func NewState(selectFirst bool) *State {
	return &State{selected: -1, selectFirst: selectFirst}
}

// ReplaceDownloads swaps in a fresh server snapshot. The cursor is kept
// in bounds rather than followed by name: an empty list clears it, a
// shorter list clamps it to the last row, and when nothing was selected
// the select-first policy may pick row zero.
func (s *State) ReplaceDownloads(downloads []remote.Download, at time.Time) {
	s.downloads = downloads
	s.lastRefresh = at
	switch {
	case len(downloads) == 0:
		s.selected = -1
	case s.selected >= len(downloads):
		s.selected = len(downloads) - 1
	case s.selected < 0 && s.selectFirst:
		s.selected = 0
	}
}

func (s *State) SelectNext() {
	if len(s.downloads) == 0 {
		s.selected = -1
		return
	}
	if s.selected < 0 {
		s.selected = 0
		return
	}
	if s.selected < len(s.downloads)-1 {
		s.selected++
	}
}

func (s *State) SelectPrevious() {
	if len(s.downloads) == 0 {
		s.selected = -1
		return
	}
	if s.selected <= 0 {
		s.selected = 0
		return
	}
	s.selected--
}

func (s *State) SelectFirst() {
	if len(s.downloads) == 0 {
		s.selected = -1
		return
	}
	s.selected = 0
}

func (s *State) SelectLast() {
	if len(s.downloads) == 0 {
		s.selected = -1
		return
	}
	s.selected = len(s.downloads) - 1
}

// Selected returns the download under the cursor, if any.
func (s *State) Selected() (remote.Download, bool) {
	if s.selected < 0 || s.selected >= len(s.downloads) {
		return remote.Download{}, false
	}
	return s.downloads[s.selected], true
}

// SelectedName returns the name under the cursor, if any.
func (s *State) SelectedName() (string, bool) {
	d, ok := s.Selected()
	if !ok {
		return "", false
	}
	return d.Name, true
}

func (s *State) EnterAddMode() {
	s.mode = ModeAdding
}

// ExitAddMode returns to normal mode and drops whatever was typed.
// Normal mode never carries a buffer.
func (s *State) ExitAddMode() {
	s.mode = ModeNormal
	s.buffer = nil
}

// PushRune appends to the buffer. Mode gating is the caller's job; the
// buffer itself accepts input in any mode.
func (s *State) PushRune(r rune) {
	s.buffer = append(s.buffer, r)
}

// PopRune removes the most recent rune, if any.
func (s *State) PopRune() {
	if len(s.buffer) > 0 {
		s.buffer = s.buffer[:len(s.buffer)-1]
	}
}

// TakeBuffer returns the buffer contents and clears them. The mode is
// left alone; pair with ExitAddMode when the input session ends.
func (s *State) TakeBuffer() string {
	out := string(s.buffer)
	s.buffer = nil
	return out
}

func (s *State) Buffer() string { return string(s.buffer) }

func (s *State) Downloads() []remote.Download { return s.downloads }

func (s *State) SelectedIndex() int { return s.selected }

func (s *State) Mode() Mode { return s.mode }

func (s *State) LastRefresh() time.Time { return s.lastRefresh }
