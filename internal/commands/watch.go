package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/gerunddev/notehtml/internal/config"
	"github.com/gerunddev/notehtml/internal/daemon"
	"github.com/gerunddev/notehtml/internal/export"
	"github.com/gerunddev/notehtml/internal/state"
	"github.com/gerunddev/notehtml/internal/styles"
	"github.com/gerunddev/notehtml/internal/tui"
	"github.com/gerunddev/notehtml/internal/watch"
)

// Watch republishes a payload file into the note whenever it changes
func Watch(args []string) {
	files := positional(args, "--interval")
	if len(files) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: notehtml watch <payload> [--interval 2s] [--no-export] [--plain] [--detach]")
		os.Exit(1)
	}
	path, err := filepath.Abs(files[0])
	if err != nil {
		fail("Invalid payload path", err)
	}

	if hasFlag(args, "--detach") {
		startDetached(path, args)
		return
	}

	e := loadEnv()
	defer e.cleanup()

	interval := e.cfg.Interval
	if v, ok := flagValue(args, "--interval"); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			e.cleanup()
			fail("Invalid interval", fmt.Errorf("%q", v))
		}
		interval = d
	}

	// a detached child owns the PID file for its lifetime
	if hasFlag(args, "--daemon") {
		d := daemon.New("")
		if err := d.WritePID(path); err != nil {
			e.cleanup()
			fail("Failed to write PID file", err)
		}
		defer d.Remove()
	}

	st, err := state.Load(config.StateFilePath())
	if err != nil {
		e.cleanup()
		fail("Error loading state", err)
	}

	opts := watch.Options{
		Path:      path,
		StatePath: config.StateFilePath(),
		ExportDir: e.cfg.ExportDir,
	}
	if hasFlag(args, "--no-export") {
		opts.ExportDir = ""
	}

	exp := export.NewExporter(export.Options{Sanitize: e.cfg.Sanitize, Minify: e.cfg.Minify}, e.log)
	w := watch.NewWatcher(opts, e.newStore(), st, exp, e.log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if hasFlag(args, "--plain") || hasFlag(args, "--daemon") {
		g.Go(func() error {
			return w.Run(ctx, interval, func(r *watch.PollResult) {
				if r.Err != nil {
					fmt.Println(styles.ErrorStyle.Render("✗ " + r.String()))
					return
				}
				fmt.Println(styles.SuccessStyle.Render("✓ " + r.String()))
			})
		})
	} else {
		p := tea.NewProgram(tui.InitWatchModel(path, interval), tea.WithInput(os.Stdin))

		g.Go(func() error {
			return w.Run(ctx, interval, func(r *watch.PollResult) {
				p.Send(tui.PollMsg{Result: r})
			})
		})
		g.Go(func() error {
			// quitting the dashboard stops the watcher
			defer stop()
			_, err := p.Run()
			return err
		})
		g.Go(func() error {
			<-ctx.Done()
			p.Quit()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.cleanup()
		fail("Watch stopped", err)
	}
	e.log.Info("watch stopped", "path", path)
}

// startDetached re-runs the watch in the background without a dashboard
func startDetached(path string, args []string) {
	childArgs := []string{"watch", path, "--daemon"}
	if v, ok := flagValue(args, "--interval"); ok {
		childArgs = append(childArgs, "--interval", v)
	}
	if hasFlag(args, "--no-export") {
		childArgs = append(childArgs, "--no-export")
	}

	pid, err := daemon.New("").Start(childArgs)
	if err != nil {
		fail("Failed to start watcher", err)
	}
	fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf("✓ Watching %s in the background (PID %d)", path, pid)))
}

// Stop stops the background watcher
func Stop() {
	d := daemon.New("")
	info, ok := d.Running()
	if !ok {
		fmt.Println(styles.DimStyle.Render("No background watcher running"))
		return
	}
	if err := d.Stop(); err != nil {
		fail("Failed to stop watcher", err)
	}
	fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf("✓ Stopped watcher for %s (PID %d)", info.Payload, info.PID)))
}
