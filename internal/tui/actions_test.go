package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexghenderson/downloader-ctl/internal/config"
	"github.com/alexghenderson/downloader-ctl/internal/journal"
	"github.com/alexghenderson/downloader-ctl/internal/remote"
	"github.com/alexghenderson/downloader-ctl/internal/testutil"
)

func setupServerModel(t *testing.T) (*Model, *testutil.ControlServer) {
	t.Helper()

	srv := testutil.NewControlServer()
	t.Cleanup(srv.Close)

	cfg := &config.Config{Version: 1}
	cfg.Server.URL = srv.URL
	cfg.Refresh.IntervalSeconds = 3
	cfg.UI.Theme = "dark"

	model := New(cfg, remote.New(srv.URL, 2*time.Second), nil, nil, nil, "test-version")
	model.w = 120
	model.h = 40
	return model, srv
}

// runRefresh pushes one full refresh through the command pipeline.
func runRefresh(t *testing.T, model *Model) *Model {
	t.Helper()

	msg := model.refreshCmd()()
	rmsg, ok := msg.(refreshMsg)
	if !ok {
		t.Fatalf("Expected refreshMsg, got %T", msg)
	}
	if rmsg.err != nil {
		t.Fatalf("refresh failed: %v", rmsg.err)
	}
	updated, _ := model.Update(rmsg)
	return updated.(*Model)
}

func TestControlKeysDispatchSelectedDownload(t *testing.T) {
	model, srv := setupServerModel(t)
	srv.SetDownloads([]remote.Download{
		testutil.SampleDownload("ubuntu.iso", "Downloading"),
		testutil.SampleDownload("fedora.iso", "Paused"),
	})
	model = runRefresh(t, model)

	if name, _ := model.st.SelectedName(); name != "ubuntu.iso" {
		t.Fatalf("Expected first row selected, got %q", name)
	}

	cases := []struct {
		key  string
		verb string
	}{
		{"s", "stop"},
		{"r", "restart"},
		{"p", "pause"},
	}
	for _, tt := range cases {
		t.Run(tt.verb, func(t *testing.T) {
			_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)})
			if cmd == nil {
				t.Fatal("Expected a dispatch command, got nil")
			}
			done, ok := cmd().(actionDoneMsg)
			if !ok {
				t.Fatal("Expected actionDoneMsg from dispatch")
			}
			if done.verb != tt.verb {
				t.Errorf("Expected verb=%q, got %q", tt.verb, done.verb)
			}
			if done.target != "ubuntu.iso" {
				t.Errorf("Expected target=%q, got %q", "ubuntu.iso", done.target)
			}
			if done.err != nil {
				t.Errorf("dispatch error: %v", done.err)
			}
		})
	}

	controls := srv.Controls()
	if len(controls) != 3 {
		t.Fatalf("Expected 3 control calls, got %d", len(controls))
	}
	want := []testutil.ControlCall{
		{Name: "ubuntu.iso", Action: "stop"},
		{Name: "ubuntu.iso", Action: "restart"},
		{Name: "ubuntu.iso", Action: "pause"},
	}
	for i, w := range want {
		if controls[i] != w {
			t.Errorf("control %d = %+v, want %+v", i, controls[i], w)
		}
	}
}

func TestControlWithNoSelectionDispatchesNothing(t *testing.T) {
	model, srv := setupServerModel(t)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if cmd != nil {
		t.Error("Expected no command with no selection")
	}
	if len(srv.Controls()) != 0 {
		t.Errorf("Expected no control calls, got %d", len(srv.Controls()))
	}
}

func TestActionDoneTriggersTrailingRefresh(t *testing.T) {
	model, srv := setupServerModel(t)
	srv.SetDownloads([]remote.Download{testutil.SampleDownload("a.bin", "Completed")})

	updated, cmd := model.Update(actionDoneMsg{verb: "stop", target: "a.bin"})
	model = updated.(*Model)

	if cmd == nil {
		t.Fatal("Expected trailing refresh command")
	}
	rmsg, ok := cmd().(refreshMsg)
	if !ok {
		t.Fatal("Expected refreshMsg from trailing refresh")
	}
	if rmsg.err != nil {
		t.Fatalf("trailing refresh failed: %v", rmsg.err)
	}
	if len(rmsg.downloads) != 1 {
		t.Errorf("Expected 1 download, got %d", len(rmsg.downloads))
	}
	if len(model.toasts) == 0 {
		t.Error("Expected a toast after the action")
	}
}

func TestFailedActionStillRefreshesAndToasts(t *testing.T) {
	model, srv := setupServerModel(t)
	srv.SetDownloads([]remote.Download{testutil.SampleDownload("a.bin", "Downloading")})
	model = runRefresh(t, model)

	srv.FailNext(1, 500)
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if cmd == nil {
		t.Fatal("Expected a dispatch command")
	}
	done := cmd().(actionDoneMsg)
	if done.err == nil {
		t.Fatal("Expected dispatch error from failing server")
	}

	updated, refresh := model.Update(done)
	model = updated.(*Model)
	if refresh == nil {
		t.Error("Expected trailing refresh even after a failed action")
	}
	if len(model.toasts) == 0 {
		t.Error("Expected a failure toast")
	} else if !strings.Contains(model.toasts[len(model.toasts)-1].msg, "failed") {
		t.Errorf("toast = %q, want failure notice", model.toasts[len(model.toasts)-1].msg)
	}
}

func TestAddSubmitDispatchesCreate(t *testing.T) {
	model, srv := setupServerModel(t)

	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("http://mirror.example/x.bin")})
	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m := updated.(*Model)

	if m.st.Mode() != ModeNormal {
		t.Errorf("Expected ModeNormal after submit, got %v", m.st.Mode())
	}
	if got := m.st.Buffer(); got != "" {
		t.Errorf("Expected drained buffer, got %q", got)
	}
	if cmd == nil {
		t.Fatal("Expected create command")
	}

	done, ok := cmd().(actionDoneMsg)
	if !ok {
		t.Fatal("Expected actionDoneMsg from create")
	}
	if done.verb != "add" {
		t.Errorf("Expected verb=add, got %q", done.verb)
	}
	if done.target != "x.bin" {
		t.Errorf("Expected target=x.bin, got %q", done.target)
	}
	if done.err != nil {
		t.Errorf("create error: %v", done.err)
	}

	creates := srv.Creates()
	if len(creates) != 1 || creates[0] != "http://mirror.example/x.bin" {
		t.Errorf("Creates = %v, want the submitted URL", creates)
	}
}

func TestRefreshFailureKeepsPreviousList(t *testing.T) {
	model, srv := setupServerModel(t)
	srv.SetDownloads([]remote.Download{
		testutil.SampleDownload("a.bin", "Downloading"),
		testutil.SampleDownload("b.bin", "Paused"),
	})
	model = runRefresh(t, model)

	srv.FailNext(1, 500)
	msg := model.refreshCmd()()
	rmsg := msg.(refreshMsg)
	if rmsg.err == nil {
		t.Fatal("Expected refresh error from failing server")
	}

	updated, _ := model.Update(rmsg)
	model = updated.(*Model)

	if len(model.st.Downloads()) != 2 {
		t.Errorf("Expected stale list of 2 downloads, got %d", len(model.st.Downloads()))
	}
	view := model.View()
	if strings.Contains(view, "unexpected status") {
		t.Error("refresh failure leaked into the view")
	}
}

func TestTickSchedulesWork(t *testing.T) {
	model, _ := setupServerModel(t)

	_, cmd := model.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("Expected batched refresh and next tick, got nil")
	}
}

func TestViewRendering(t *testing.T) {
	model, _ := setupServerModel(t)

	t.Run("empty list placeholder", func(t *testing.T) {
		if view := model.View(); !strings.Contains(view, "(no downloads)") {
			t.Error("Expected empty-list placeholder in view")
		}
	})

	t.Run("rows and statuses", func(t *testing.T) {
		model.st.ReplaceDownloads([]remote.Download{
			testutil.SampleDownload("ubuntu.iso", "Downloading"),
			testutil.SampleDownload("broken.bin", "Error: disk full"),
		}, time.Now())
		view := model.View()
		for _, want := range []string{"ubuntu.iso", "Downloading", "Error: disk full"} {
			if !strings.Contains(view, want) {
				t.Errorf("Expected view to contain %q", want)
			}
		}
	})

	t.Run("add overlay", func(t *testing.T) {
		model.st.EnterAddMode()
		for _, r := range "http://x" {
			model.st.PushRune(r)
		}
		view := model.View()
		if !strings.Contains(view, "Add download") {
			t.Error("Expected add overlay title")
		}
		if !strings.Contains(view, "http://x") {
			t.Error("Expected typed URL in overlay")
		}
		model.st.ExitAddMode()
	})
}

func TestActionsLandInJournal(t *testing.T) {
	srv := testutil.NewControlServer()
	t.Cleanup(srv.Close)

	cfg := &config.Config{Version: 1}
	cfg.Server.URL = srv.URL
	cfg.Refresh.IntervalSeconds = 3
	cfg.UI.Theme = "dark"
	cfg.Journal.Path = filepath.Join(t.TempDir(), "journal.db")

	jr, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() { _ = jr.Close() })

	model := New(cfg, remote.New(srv.URL, 2*time.Second), jr, nil, nil, "test-version")
	model.Update(actionDoneMsg{verb: "stop", target: "ubuntu.iso"})

	entries, err := jr.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 journal entry, got %d", len(entries))
	}
	if entries[0].Action != "stop" || entries[0].Target != "ubuntu.iso" {
		t.Errorf("entry = %+v, want stop ubuntu.iso", entries[0])
	}
	if entries[0].Outcome != journal.OutcomeOK {
		t.Errorf("outcome = %q, want %q", entries[0].Outcome, journal.OutcomeOK)
	}
}
