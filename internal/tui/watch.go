package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/notehtml/internal/styles"
	"github.com/gerunddev/notehtml/internal/watch"
)

const maxHistory = 5

// PollMsg is sent when the watcher publishes a note or fails to
type PollMsg struct {
	Result *watch.PollResult
}

// watchModel is the Bubble Tea model for the watch dashboard
type watchModel struct {
	spinner  spinner.Model
	path     string
	interval time.Duration
	last     *watch.PollResult
	updates  int
	failures int
	history  []string
	quitting bool
}

// InitWatchModel creates a new watch dashboard model
func InitWatchModel(path string, interval time.Duration) watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return watchModel{
		spinner:  s,
		path:     path,
		interval: interval,
	}
}

func (m watchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case PollMsg:
		m.last = msg.Result
		if msg.Result.Err != nil {
			m.failures++
		} else if msg.Result.Changed {
			m.updates++
		}
		m.history = append(m.history, historyLine(msg.Result))
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m watchModel) View() string {
	if m.quitting {
		return styles.DimStyle.Render("Stopped watching "+m.path) + "\n"
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("notehtml watch"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s Watching %s every %v\n\n", m.spinner.View(), styles.HighlightStyle.Render(m.path), m.interval))

	if m.last == nil {
		b.WriteString(styles.DimStyle.Render("Waiting for the first update..."))
		b.WriteString("\n")
	} else {
		n := m.last.Note
		if n.Empty() {
			b.WriteString(styles.WarningStyle.Render("No note published yet"))
		} else {
			b.WriteString(fmt.Sprintf("Revision:  %s\n", n.Revision))
			b.WriteString(fmt.Sprintf("Updated:   %s\n", n.UpdatedAt.Format(time.DateTime)))
			b.WriteString(fmt.Sprintf("Markdown:  %d bytes\n", len(n.RawMarkdown)))
			b.WriteString(fmt.Sprintf("HTML:      %d bytes", len(n.HTML)))
			if m.last.ExportPath != "" {
				b.WriteString("\nExport:    " + m.last.ExportPath)
			}
		}
		b.WriteString("\n\n")
		b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf("%d update(s)", m.updates)))
		if m.failures > 0 {
			b.WriteString(", " + styles.ErrorStyle.Render(fmt.Sprintf("%d rejected", m.failures)))
		}
		b.WriteString("\n\n")
		for _, line := range m.history {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("q: quit"))
	b.WriteString("\n")
	return b.String()
}

func historyLine(r *watch.PollResult) string {
	ts := r.EndTime.Format(time.TimeOnly)
	if r.Err != nil {
		return styles.ErrorStyle.Render("✗ "+ts) + " " + r.Err.Error()
	}
	return styles.SuccessStyle.Render("✓ "+ts) + " " + r.Note.Revision.String()
}
