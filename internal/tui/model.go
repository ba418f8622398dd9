package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexghenderson/downloader-ctl/internal/config"
	"github.com/alexghenderson/downloader-ctl/internal/journal"
	"github.com/alexghenderson/downloader-ctl/internal/logging"
	"github.com/alexghenderson/downloader-ctl/internal/metrics"
	"github.com/alexghenderson/downloader-ctl/internal/remote"
)

// Model is the dashboard. One bubbletea update loop owns every field;
// network calls run as commands and come back as messages, so nothing
// here needs a mutex.
type Model struct {
	st       *State
	client   *remote.Client
	jrnl     *journal.DB
	met      *metrics.Manager
	log      *logging.Logger
	th       Theme
	themeIdx int
	w, h     int
	interval time.Duration
	version  string

	showHelp      bool
	showInspector bool
	showToasts    bool
	toasts        []toast
}

type toast struct {
	msg  string
	when time.Time
	ttl  time.Duration
}

// New builds the dashboard model. jrnl and met may be nil when those
// features are disabled.
func New(cfg *config.Config, client *remote.Client, jrnl *journal.DB, met *metrics.Manager, log *logging.Logger, version string) *Model {
	interval := time.Duration(cfg.Refresh.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 3 * time.Second
	}
	themeIdx := themeIndexByName(cfg.UI.Theme)
	return &Model{
		st:       NewState(cfg.AutoSelectFirst()),
		client:   client,
		jrnl:     jrnl,
		met:      met,
		log:      log,
		th:       themePresets()[themeIdx],
		themeIdx: themeIdx,
		interval: interval,
		version:  version,
	}
}

// Preload seeds the list from the startup refresh so the first frame
// already shows downloads. Called before the program starts, never
// after.
func (m *Model) Preload(downloads []remote.Download, at time.Time) {
	m.st.ReplaceDownloads(downloads, at)
	m.met.ObserveRefresh(len(downloads), at)
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.tickCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.st.Mode() == ModeAdding {
			return m.updateAdding(msg)
		}
		return m.updateNormal(msg)

	case tickMsg:
		// The cadence is fixed. The next tick is scheduled regardless of
		// how the refresh it triggers turns out.
		return m, tea.Batch(m.refreshCmd(), m.tickCmd())

	case refreshMsg:
		if msg.err != nil {
			// The previous list stays on screen. Failures go to the log
			// file, not the UI.
			m.met.IncRefreshFailures()
			m.log.Warnf("refresh failed: %v", msg.err)
			return m, nil
		}
		m.st.ReplaceDownloads(msg.downloads, msg.at)
		m.met.ObserveRefresh(len(msg.downloads), msg.at)
		if err := m.met.Write(); err != nil {
			m.log.Warnf("metrics write failed: %v", err)
		}
		return m, nil

	case actionDoneMsg:
		m.noteAction(msg)
		// Every action ends with a list refresh, whether it worked or not.
		return m, m.refreshCmd()
	}
	return m, nil
}

func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "j", "down":
		m.st.SelectNext()
	case "k", "up":
		m.st.SelectPrevious()
	case "g":
		m.st.SelectFirst()
	case "G":
		m.st.SelectLast()
	case "a":
		m.st.EnterAddMode()
	case "s":
		return m, m.controlCmd(remote.ActionStop)
	case "r":
		return m, m.controlCmd(remote.ActionRestart)
	case "p":
		return m, m.controlCmd(remote.ActionPause)
	case "R":
		return m, m.refreshCmd()
	case "enter", "i":
		m.showInspector = !m.showInspector
	case "H":
		m.showToasts = !m.showToasts
	case "T":
		m.themeIdx = (m.themeIdx + 1) % len(themePresets())
		m.th = themePresets()[m.themeIdx]
	}
	return m, nil
}

func (m *Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.st.ExitAddMode()

	case tea.KeyEnter:
		url := strings.TrimSpace(m.st.TakeBuffer())
		m.st.ExitAddMode()
		if url == "" {
			return m, nil
		}
		return m, m.createCmd(url)

	case tea.KeyBackspace:
		m.st.PopRune()

	case tea.KeyRunes, tea.KeySpace:
		runes := msg.Runes
		if msg.Type == tea.KeySpace && len(runes) == 0 {
			runes = []rune{' '}
		}
		for _, r := range runes {
			m.st.PushRune(r)
		}
	}
	return m, nil
}

// noteAction records a finished operator action: toast, journal, metrics.
func (m *Model) noteAction(msg actionDoneMsg) {
	outcome := journal.OutcomeOK
	detail := ""
	if msg.err != nil {
		outcome = journal.OutcomeError
		detail = msg.err.Error()
		m.addToast(fmt.Sprintf("%s failed: %v", msg.verb, msg.err))
		m.log.Errorf("%s %s: %v", msg.verb, msg.target, msg.err)
	} else {
		m.addToast(fmt.Sprintf("%s requested: %s", msg.verb, msg.target))
		m.log.Infof("%s %s: ok", msg.verb, msg.target)
	}
	m.met.IncControlActions()
	if err := m.jrnl.Record(journal.Entry{
		Action:  msg.verb,
		Target:  msg.target,
		URL:     msg.url,
		Outcome: outcome,
		Detail:  detail,
	}); err != nil {
		m.log.Warnf("journal write failed: %v", err)
	}
}
