package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gerunddev/notehtml/internal/config"
	"github.com/gerunddev/notehtml/internal/converter"
	"github.com/gerunddev/notehtml/internal/logger"
	"github.com/gerunddev/notehtml/internal/note"
	"github.com/gerunddev/notehtml/internal/payload"
	"github.com/gerunddev/notehtml/internal/styles"
)

// LogSummary is what ParseLogFile extracts from the log
type LogSummary struct {
	Lines        []string
	LastUpdate   time.Time
	LastRevision string
	Rejected     int
}

// ParseLogFile reads the last N lines from the log file and extracts note update info
func ParseLogFile(logPath string, maxLines int) LogSummary {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return LogSummary{Lines: []string{"Unable to read log file"}}
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	// Get last N lines
	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	summary := LogSummary{Lines: lines[startIdx:]}

	for _, line := range summary.Lines {
		if strings.Contains(line, "payload rejected") {
			summary.Rejected++
		}
	}

	// Look for most recent "note updated" line
	for i := len(summary.Lines) - 1; i >= 0; i-- {
		line := summary.Lines[i]
		if !strings.Contains(line, "note updated") {
			continue
		}

		// Format: 2025-11-27 14:11:57 INFO note updated revision=...
		if len(line) > 19 {
			if t, err := time.Parse(time.DateTime, line[:19]); err == nil {
				summary.LastUpdate = t
			}
		}

		if idx := strings.Index(line, "revision="); idx != -1 {
			rest := line[idx+len("revision="):]
			if end := strings.IndexByte(rest, ' '); end != -1 {
				rest = rest[:end]
			}
			summary.LastRevision = rest
		}
		break
	}

	return summary
}

// env bundles what every command needs
type env struct {
	cfg     *config.Config
	log     *logger.Logger
	cleanup func()
}

// loadEnv loads configuration and opens the log file.
// Logs never go to stdout so command output stays clean.
func loadEnv() *env {
	cfg, err := config.Load()
	if err != nil {
		fail("Error loading config", err)
	}

	level := logger.ParseLevel(cfg.LogLevel)
	log, cleanup, err := logger.NewFileLogger(cfg.LogFile, level)
	if err != nil {
		log = logger.NewWithLevel(os.Stderr, level)
		cleanup = func() {}
	}
	log.ConfigLoaded(cfg.MarkdownKey, cfg.ExportDir, cfg.Interval)

	return &env{cfg: cfg, log: log, cleanup: cleanup}
}

func (e *env) newStore() *note.Store {
	return note.NewStore(converter.NewConverter(),
		note.WithLogger(e.log),
		note.WithMarkdownKey(e.cfg.MarkdownKey))
}

// loadNote reads a payload file and sets it up in a fresh store
func (e *env) loadNote(path string) (note.Note, error) {
	store := e.newStore()

	raw, err := payload.ReadFile(path, store.MarkdownKey())
	if err != nil {
		e.log.PayloadError(path, err)
		return note.Note{}, err
	}
	if err := store.Setup(raw); err != nil {
		return note.Note{}, fmt.Errorf("%s: %w", path, err)
	}
	return store.Current(), nil
}

// flagValue returns the value following name in args
func flagValue(args []string, name string) (string, bool) {
	for i, arg := range args {
		if arg == name && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

// hasFlag reports whether name appears in args
func hasFlag(args []string, name string) bool {
	for _, arg := range args {
		if arg == name {
			return true
		}
	}
	return false
}

// positional returns args that are neither flags nor flag values
func positional(args []string, valueFlags ...string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "--") {
			for _, f := range valueFlags {
				if arg == f {
					i++
					break
				}
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}

func fail(msg string, err error) {
	fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render(fmt.Sprintf("✗ %s: %v", msg, err)))
	os.Exit(1)
}
