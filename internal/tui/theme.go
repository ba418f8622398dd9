package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexghenderson/downloader-ctl/internal/remote"
)

// Theme and styling helpers

type Theme struct {
	border      lipgloss.Style
	title       lipgloss.Style
	label       lipgloss.Style
	row         lipgloss.Style
	rowSelected lipgloss.Style
	head        lipgloss.Style
	footer      lipgloss.Style
	ok          lipgloss.Style
	warn        lipgloss.Style
	bad         lipgloss.Style
}

func defaultTheme() Theme {
	b := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return Theme{
		border:      b.BorderForeground(lipgloss.Color("63")),
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		label:       lipgloss.NewStyle().Faint(true),
		row:         lipgloss.NewStyle(),
		rowSelected: lipgloss.NewStyle().Bold(true),
		head:        lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true),
		footer:      lipgloss.NewStyle().Faint(true),
		ok:          lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		warn:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		bad:         lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func themePresets() []Theme {
	dark := defaultTheme()
	light := Theme{
		border:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("240")),
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		label:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		row:         lipgloss.NewStyle(),
		rowSelected: lipgloss.NewStyle().Bold(true),
		head:        lipgloss.NewStyle().Foreground(lipgloss.Color("162")).Bold(true),
		footer:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		ok:          lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
		warn:        lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		bad:         lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	}
	return []Theme{dark, light}
}

func themeIndexByName(name string) int {
	presets := themePresets()
	names := []string{"dark", "light"}
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return i % len(presets)
		}
	}
	return 0
}

// statusStyle picks the color bucket for a status cell.
func (th Theme) statusStyle(st remote.Status) lipgloss.Style {
	switch st.Kind {
	case remote.StatusDownloading, remote.StatusCompleted:
		return th.ok
	case remote.StatusError, remote.StatusOffline:
		return th.bad
	default:
		return th.warn
	}
}

// String utilities

func truncateMiddle(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max < 7 {
		return s[:max]
	}
	left := (max - 3) / 2
	right := max - 3 - left
	return s[:left] + "..." + s[len(s)-right:]
}
