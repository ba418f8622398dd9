package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexghenderson/downloader-ctl/internal/config"
	"github.com/alexghenderson/downloader-ctl/internal/remote"
)

// setupTestModel creates a dashboard model with no live backend. Tests
// that need a real server pair the model with testutil.ControlServer.
func setupTestModel(t *testing.T) *Model {
	t.Helper()

	cfg := &config.Config{Version: 1}
	cfg.Server.URL = "http://127.0.0.1:1"
	cfg.Refresh.IntervalSeconds = 3
	cfg.UI.Theme = "dark"

	model := New(cfg, remote.New(cfg.Server.URL, time.Second), nil, nil, nil, "test-version")
	model.w = 120
	model.h = 40
	return model
}

func TestNavigation_MoveSelection(t *testing.T) {
	model := setupTestModel(t)
	model.st.ReplaceDownloads(mkDownloads("a", "b", "c"), time.Now())

	t.Run("Navigate down with j key", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if m.st.SelectedIndex() != 1 {
			t.Errorf("Expected SelectedIndex=1, got %d", m.st.SelectedIndex())
		}
	})

	t.Run("Navigate down with down arrow", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyDown}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if m.st.SelectedIndex() != 2 {
			t.Errorf("Expected SelectedIndex=2, got %d", m.st.SelectedIndex())
		}
	})

	t.Run("Cannot navigate beyond max", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if m.st.SelectedIndex() != 2 {
			t.Errorf("Expected SelectedIndex=2, got %d", m.st.SelectedIndex())
		}
	})

	t.Run("Navigate up with k key", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if m.st.SelectedIndex() != 1 {
			t.Errorf("Expected SelectedIndex=1, got %d", m.st.SelectedIndex())
		}
	})

	t.Run("Navigate up with up arrow", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyUp}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if m.st.SelectedIndex() != 0 {
			t.Errorf("Expected SelectedIndex=0, got %d", m.st.SelectedIndex())
		}
	})

	t.Run("Cannot navigate below zero", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if m.st.SelectedIndex() != 0 {
			t.Errorf("Expected SelectedIndex=0, got %d", m.st.SelectedIndex())
		}
	})

	t.Run("Jump to last with G", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if m.st.SelectedIndex() != 2 {
			t.Errorf("Expected SelectedIndex=2, got %d", m.st.SelectedIndex())
		}
	})

	t.Run("Jump to first with g", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if m.st.SelectedIndex() != 0 {
			t.Errorf("Expected SelectedIndex=0, got %d", m.st.SelectedIndex())
		}
	})
}

func TestNavigation_QuitKey(t *testing.T) {
	model := setupTestModel(t)

	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"Ctrl+C", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"q key", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := model.Update(tt.msg)

			if cmd == nil {
				t.Error("Expected quit command, got nil")
			}
		})
	}
}

func TestNavigation_HelpToggle(t *testing.T) {
	model := setupTestModel(t)

	t.Run("Show help with ? key", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if !m.showHelp {
			t.Error("Expected showHelp=true after ? key")
		}
	})

	t.Run("Navigation keys are inert while help is open", func(t *testing.T) {
		model.st.ReplaceDownloads(mkDownloads("a", "b"), time.Now())
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if m.st.SelectedIndex() != 0 {
			t.Errorf("Expected SelectedIndex=0 with help open, got %d", m.st.SelectedIndex())
		}
	})

	t.Run("Hide help with ? key toggle", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if m.showHelp {
			t.Error("Expected showHelp=false after ? key toggle")
		}
	})
}

func TestNavigation_InspectorToggle(t *testing.T) {
	model := setupTestModel(t)

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")}
	updatedModel, _ := model.Update(msg)
	m := updatedModel.(*Model)

	if !m.showInspector {
		t.Error("Expected showInspector=true after i key")
	}

	updatedModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updatedModel.(*Model)

	if m.showInspector {
		t.Error("Expected showInspector=false after Enter toggle")
	}
}

func TestNavigation_WindowResize(t *testing.T) {
	model := setupTestModel(t)

	msg := tea.WindowSizeMsg{Width: 200, Height: 50}
	updatedModel, _ := model.Update(msg)
	m := updatedModel.(*Model)

	if m.w != 200 {
		t.Errorf("Expected width=200, got %d", m.w)
	}
	if m.h != 50 {
		t.Errorf("Expected height=50, got %d", m.h)
	}
}

func TestAddMode_EntryTypingAndCancel(t *testing.T) {
	model := setupTestModel(t)

	t.Run("a key enters add mode", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if m.st.Mode() != ModeAdding {
			t.Fatalf("Expected ModeAdding, got %v", m.st.Mode())
		}
	})

	t.Run("typed runes land in the buffer", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("http://x/a.iso")}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if got := m.st.Buffer(); got != "http://x/a.iso" {
			t.Errorf("Buffer = %q, want %q", got, "http://x/a.iso")
		}
	})

	t.Run("navigation keys do not move selection in add mode", func(t *testing.T) {
		model.st.ReplaceDownloads(mkDownloads("a", "b"), time.Now())
		before := model.st.SelectedIndex()
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if m.st.SelectedIndex() != before {
			t.Errorf("Expected SelectedIndex=%d, got %d", before, m.st.SelectedIndex())
		}
		if got := m.st.Buffer(); got != "http://x/a.isoj" {
			t.Errorf("Buffer = %q, want trailing j appended", got)
		}
	})

	t.Run("backspace removes one rune", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyBackspace}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if got := m.st.Buffer(); got != "http://x/a.iso" {
			t.Errorf("Buffer = %q, want %q", got, "http://x/a.iso")
		}
	})

	t.Run("escape drops the buffer and returns to normal", func(t *testing.T) {
		msg := tea.KeyMsg{Type: tea.KeyEsc}
		updatedModel, _ := model.Update(msg)
		m := updatedModel.(*Model)

		if m.st.Mode() != ModeNormal {
			t.Errorf("Expected ModeNormal, got %v", m.st.Mode())
		}
		if got := m.st.Buffer(); got != "" {
			t.Errorf("Expected empty buffer, got %q", got)
		}
	})
}

func TestAddMode_EnterWithEmptyBufferDispatchesNothing(t *testing.T) {
	model := setupTestModel(t)

	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	updatedModel, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := updatedModel.(*Model)

	if cmd != nil {
		t.Error("Expected no command for empty submit")
	}
	if m.st.Mode() != ModeNormal {
		t.Errorf("Expected ModeNormal after empty submit, got %v", m.st.Mode())
	}
}
