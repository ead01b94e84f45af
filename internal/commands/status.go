package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/notehtml/internal/config"
	"github.com/gerunddev/notehtml/internal/daemon"
	"github.com/gerunddev/notehtml/internal/state"
	"github.com/gerunddev/notehtml/internal/styles"
)

// Status displays configuration, watched payloads and the last update
func Status() {
	e := loadEnv()
	defer e.cleanup()

	fmt.Println(styles.TitleStyle.Render("notehtml status"))
	fmt.Println()

	fmt.Println(panel(
		row("Config", config.ConfigPath()),
		row("State", config.StateFilePath()),
		row("Log", e.cfg.LogFile),
		row("Export", e.cfg.ExportDir),
		row("Key", e.cfg.MarkdownKey),
		row("Interval", e.cfg.Interval.String()),
	))

	if info, ok := daemon.New("").Running(); ok {
		fmt.Println(panel(
			row("Watcher", styles.SuccessStyle.Render(fmt.Sprintf("running (PID %d)", info.PID))),
			row("Payload", info.Payload),
			row("Since", info.Started.Format(time.DateTime)),
		))
	} else {
		fmt.Println(styles.DimStyle.Render("No background watcher running"))
	}

	summary := ParseLogFile(e.cfg.LogFile, 200)
	if summary.LastRevision != "" {
		fmt.Println(panel(
			row("Last update", summary.LastUpdate.Format(time.DateTime)),
			row("Revision", summary.LastRevision),
			row("Rejected", fmt.Sprintf("%d", summary.Rejected)),
		))
	} else {
		fmt.Println(styles.DimStyle.Render("No note updates logged yet"))
	}

	st, err := state.Load(config.StateFilePath())
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Failed to load state: " + err.Error()))
		return
	}
	if len(st.Files) == 0 {
		fmt.Println(styles.DimStyle.Render("No watched payloads"))
		return
	}

	paths := make([]string, 0, len(st.Files))
	for path := range st.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	fmt.Println()
	fmt.Println(styles.HighlightStyle.Render(fmt.Sprintf("Watched payloads (%d)", len(paths))))
	for _, path := range paths {
		fs := st.Files[path]
		revision := fs.Revision
		if revision == "" {
			revision = styles.WarningStyle.Render("never published")
		}
		lines := []string{
			row("Payload", path),
			row("Revision", revision),
			row("Modified", st.GetMTime(path).Format(time.DateTime)),
		}
		if fs.Export != "" {
			lines = append(lines, row("Export", fs.Export))
		}
		fmt.Println(panel(lines...))
	}
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, styles.LabelStyle.Render(label), styles.NormalTextStyle.Render(value))
}

func panel(rows ...string) string {
	return styles.PanelStyle.Render(strings.Join(rows, "\n"))
}
