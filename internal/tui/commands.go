package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/alexghenderson/downloader-ctl/internal/remote"
	"github.com/alexghenderson/downloader-ctl/internal/util"
)

// Messages

type tickMsg time.Time

// refreshMsg carries one list fetch, successful or not.
type refreshMsg struct {
	downloads []remote.Download
	err       error
	at        time.Time
}

// actionDoneMsg reports a finished control or create call.
type actionDoneMsg struct {
	verb   string
	target string
	url    string
	err    error
}

// Commands. Each closure captures only the client and plain values, so
// they are safe to run off the update loop.

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) refreshCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		downloads, err := client.ListDownloads(context.Background())
		return refreshMsg{downloads: downloads, err: err, at: time.Now()}
	}
}

// controlCmd sends one verb against the selected download. With nothing
// selected there is nothing to do and no command is returned.
func (m *Model) controlCmd(action remote.Action) tea.Cmd {
	name, ok := m.st.SelectedName()
	if !ok {
		return nil
	}
	client := m.client
	return func() tea.Msg {
		err := client.ApplyControl(context.Background(), name, action)
		return actionDoneMsg{verb: string(action), target: name, err: err}
	}
}

func (m *Model) createCmd(url string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.CreateDownload(context.Background(), url)
		return actionDoneMsg{verb: "add", target: util.URLPathBase(url), url: url, err: err}
	}
}

// Toast notifications

func (m *Model) addToast(s string) {
	m.toasts = append(m.toasts, toast{msg: s, when: time.Now(), ttl: 5 * time.Second})
	m.gcToasts()
}

func (m *Model) gcToasts() {
	now := time.Now()
	fresh := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Sub(t.when) < t.ttl {
			fresh = append(fresh, t)
		}
	}
	m.toasts = fresh
}

func (m *Model) renderToasts() string {
	m.gcToasts()
	if len(m.toasts) == 0 {
		return ""
	}
	return m.th.label.Render(m.toasts[len(m.toasts)-1].msg)
}

// Command bars

func (m *Model) renderCommandsBar() string {
	// concise single-line commands reference
	return m.th.footer.Render("a add • s stop • r restart • p pause • j/k nav • g/G first/last • i inspector • R refresh • T theme • H toasts • ? help • q quit")
}

func (m *Model) renderAddCommandsBar() string {
	return m.th.footer.Render("type URL • Enter submit • Backspace erase • Esc cancel")
}

// Help screen

func (m *Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(m.th.head.Render("Help") + "\n")
	sb.WriteString("Nav: j/k up/down • g/G first/last\n")
	sb.WriteString("Actions: s stop • r restart • p pause (selected download)\n")
	sb.WriteString("Add: a to enter a URL; Enter submits, Esc cancels\n")
	sb.WriteString("Refresh: automatic every " + m.interval.String() + "; R forces one now\n")
	sb.WriteString("Inspector: i or Enter toggles the detail panel\n")
	sb.WriteString("Theme: T cycle presets\n")
	sb.WriteString("Toasts: H toggle drawer\n")
	sb.WriteString("\n")
	sb.WriteString("Quit: q\n")
	return sb.String()
}

// Toast drawer

func (m *Model) renderToastDrawer() string {
	if len(m.toasts) == 0 {
		return m.th.label.Render("(no recent notifications)")
	}
	var sb strings.Builder
	for i := len(m.toasts) - 1; i >= 0; i-- { // newest first
		t := m.toasts[i]
		sb.WriteString(fmt.Sprintf("%s  %s\n", t.msg, m.th.label.Render(humanize.Time(t.when))))
	}
	return sb.String()
}
