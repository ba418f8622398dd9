package configwizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexghenderson/downloader-ctl/internal/config"
)

// Wizard collects the handful of settings a first run needs and builds
// a config from them.
type Wizard struct {
	inputs []textinput.Model
	focus  int
	done   bool
	out    *config.Config
}

func New(defaults *config.Config) *Wizard {
	w := &Wizard{}
	fields := make([]textinput.Model, 0, 4)
	mk := func(ph, val string) textinput.Model {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = ph
		ti.SetValue(val)
		ti.CharLimit = 256
		return ti
	}

	url := ""
	interval := "3"
	level := "info"
	jrnl := "true"
	if defaults != nil {
		if defaults.Server.URL != "" {
			url = defaults.Server.URL
		}
		if defaults.Refresh.IntervalSeconds > 0 {
			interval = fmt.Sprint(defaults.Refresh.IntervalSeconds)
		}
		if defaults.Logging.Level != "" {
			level = defaults.Logging.Level
		}
		if !defaults.JournalEnabled() {
			jrnl = "false"
		}
	}
	fields = append(fields, mk("server.url (http://host:port)", url))
	fields = append(fields, mk("refresh.interval_seconds", interval))
	fields = append(fields, mk("logging.level (debug|info|warn|error)", level))
	fields = append(fields, mk("journal.enabled (true|false)", jrnl))

	w.inputs = fields
	w.focus = 0
	w.inputs[0].Focus()
	return w
}

func (w *Wizard) Init() tea.Cmd { return nil }

func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		switch m.String() {
		case "ctrl+c":
			w.done = true
			return w, tea.Quit
		case "tab", "shift+tab", "enter", "up", "down":
			if m.String() == "enter" && w.focus == len(w.inputs)-1 {
				w.done = true
				w.out = w.buildConfig()
				return w, tea.Quit
			}
			if m.String() == "up" || m.String() == "shift+tab" {
				w.focus--
				if w.focus < 0 {
					w.focus = 0
				}
			} else {
				w.focus++
				if w.focus >= len(w.inputs) {
					w.focus = len(w.inputs) - 1
				}
			}
			for j := range w.inputs {
				if j == w.focus {
					w.inputs[j].Focus()
				} else {
					w.inputs[j].Blur()
				}
			}
		}
	}
	// Update all inputs
	cmds := make([]tea.Cmd, len(w.inputs))
	for i := range w.inputs {
		w.inputs[i], cmds[i] = w.inputs[i].Update(msg)
	}
	return w, tea.Batch(cmds...)
}

func (w *Wizard) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("downloader-ctl config wizard") + "\n")
	b.WriteString("Fill in fields. Tab/Shift-Tab to navigate, Enter on the last field to submit. Ctrl+C to quit.\n\n")
	labels := []string{
		"server.url",
		"refresh.interval_seconds",
		"logging.level",
		"journal.enabled",
	}
	for i, input := range w.inputs {
		marker := " "
		if i == w.focus {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-28s %s\n", marker, labels[i]+":", input.View()))
	}
	if w.done {
		b.WriteString("\nDone. Saving...\n")
	}
	return b.String()
}

func (w *Wizard) buildConfig() *config.Config {
	get := func(i int) string { return strings.TrimSpace(w.inputs[i].Value()) }
	parseBool := func(s string) bool {
		return strings.EqualFold(s, "true") || s == "1" || strings.EqualFold(s, "y") || strings.EqualFold(s, "yes")
	}
	parseInt := func(s string, def int) int {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
			return n
		}
		return def
	}

	o := &config.Config{Version: 1}
	o.Server.URL = get(0)
	o.Refresh.IntervalSeconds = parseInt(get(1), 3)
	level := strings.ToLower(get(2))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		level = "info"
	}
	o.Logging.Level = level
	enabled := parseBool(get(3))
	o.Journal.Enabled = &enabled
	return o
}

// Config returns the built config after the wizard quits, nil if aborted.
func (w *Wizard) Config() *config.Config { return w.out }
