package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/alexghenderson/downloader-ctl/internal/remote"
)

const inspectorWidth = 42

func (m *Model) View() string {
	if m.w == 0 {
		m.w = 120
	}
	if m.h == 0 {
		m.h = 30
	}

	title := m.th.title.Render("downloader-ctl " + m.version)
	header := m.th.border.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		title+"  ",
		m.th.label.Render(m.client.BaseURL())+"  ",
		m.th.label.Render(m.renderStats()),
	))

	var mid string
	switch {
	case m.showHelp:
		mid = m.th.border.Width(m.w - 2).Render(m.renderHelp())
	case m.showInspector:
		mainW := m.w - inspectorWidth - 6
		if mainW < 40 {
			mainW = 40
		}
		mid = lipgloss.JoinHorizontal(lipgloss.Top,
			m.th.border.Width(mainW).Render(m.renderTable()),
			m.th.border.Width(inspectorWidth).Render(m.renderInspector()),
		)
	default:
		mid = m.th.border.Width(m.w - 2).Render(m.renderTable())
	}

	parts := []string{header}
	if m.st.Mode() == ModeAdding {
		parts = append(parts, m.th.border.Width(m.w-2).Render(m.renderAddInput()))
	}
	parts = append(parts, mid)
	if m.showToasts {
		parts = append(parts, m.th.border.Width(m.w-2).Render(m.renderToastDrawer()))
	}

	bar := m.renderCommandsBar()
	if m.st.Mode() == ModeAdding {
		bar = m.renderAddCommandsBar()
	}
	footer := bar
	if t := m.renderToasts(); t != "" {
		footer = lipgloss.JoinHorizontal(lipgloss.Top, bar, "  ", t)
	}
	parts = append(parts, m.th.border.Render(footer))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderStats() string {
	var active, paused, retrying, failed, done int
	for _, d := range m.st.Downloads() {
		switch d.Status.Kind {
		case remote.StatusDownloading, remote.StatusInitializing:
			active++
		case remote.StatusPaused, remote.StatusPausedForExclusiveShow, remote.StatusPausedForTicketShow:
			paused++
		case remote.StatusRetrying:
			retrying++
		case remote.StatusError, remote.StatusOffline:
			failed++
		case remote.StatusCompleted:
			done++
		}
	}
	refreshed := "never"
	if !m.st.LastRefresh().IsZero() {
		refreshed = humanize.Time(m.st.LastRefresh())
	}
	return fmt.Sprintf("Active:%d Paused:%d Retrying:%d Failed:%d Done:%d • refreshed %s",
		active, paused, retrying, failed, done, refreshed)
}

func (m *Model) renderTable() string {
	rows := m.st.Downloads()
	var sb strings.Builder
	sb.WriteString(m.th.head.Render(fmt.Sprintf("  %-28s  %-22s  %-16s  %-16s  %7s", "NAME", "STATUS", "STARTED", "CHANGED", "RETRIES")))
	sb.WriteString("\n")
	maxRows := m.h - 9
	if maxRows < 3 {
		maxRows = len(rows)
	}
	for i, d := range rows {
		name := fmt.Sprintf("%-28s", truncateMiddle(d.Name, 28))
		status := fmt.Sprintf("%-22s", truncateMiddle(d.Status.String(), 22))
		started := fmt.Sprintf("%-16s", age(d.StartedAt))
		changed := fmt.Sprintf("%-16s", age(d.LastStatusChange))
		retries := fmt.Sprintf("%7d", d.RetryCount)
		if i == m.st.SelectedIndex() {
			sb.WriteString(m.th.rowSelected.Render("▸ " + name + "  " + status + "  " + started + "  " + changed + "  " + retries))
		} else {
			sb.WriteString("  " + name + "  " + m.th.statusStyle(d.Status).Render(status) + "  " + started + "  " + changed + "  " + retries)
		}
		sb.WriteString("\n")
		if i+1 >= maxRows {
			break
		}
	}
	if len(rows) == 0 {
		sb.WriteString(m.th.label.Render("(no downloads)"))
	}
	return sb.String()
}

func (m *Model) renderInspector() string {
	d, ok := m.st.Selected()
	if !ok {
		return m.th.label.Render("No selection")
	}
	var sb strings.Builder
	sb.WriteString(m.th.head.Render("Details"))
	sb.WriteString("\n")
	sb.WriteString(m.th.label.Render("Name:"))
	sb.WriteString("\n")
	sb.WriteString(d.Name)
	sb.WriteString("\n\n")
	sb.WriteString(m.th.label.Render("Status:"))
	sb.WriteString("\n")
	sb.WriteString(wordwrap.String(d.Status.String(), inspectorWidth-4))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("%s %s\n", m.th.label.Render("Started:"), stamp(d.StartedAt)))
	sb.WriteString(fmt.Sprintf("%s %s\n", m.th.label.Render("Changed:"), stamp(d.LastStatusChange)))
	sb.WriteString(fmt.Sprintf("%s %d\n", m.th.label.Render("Retries:"), d.RetryCount))
	return sb.String()
}

func (m *Model) renderAddInput() string {
	return m.th.head.Render("Add download") + "\n> " + m.st.Buffer() + m.th.title.Render("▌")
}

func age(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05") + " (" + humanize.Time(t) + ")"
}
