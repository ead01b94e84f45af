package daemon

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/adrg/xdg"
)

// ErrNotRunning is returned when no background watcher is alive
var ErrNotRunning = errors.New("watcher not running")

// Info describes a background watcher
type Info struct {
	PID     int
	Payload string
	Started time.Time
}

// Daemon manages the PID file of a background watcher
type Daemon struct {
	pidPath string
}

// DefaultPIDPath returns the PID file location in the XDG state directory
func DefaultPIDPath() string {
	return filepath.Join(xdg.StateHome, "notehtml", "watch.pid")
}

// New creates a daemon handle backed by pidPath
func New(pidPath string) *Daemon {
	if pidPath == "" {
		pidPath = DefaultPIDPath()
	}
	return &Daemon{pidPath: pidPath}
}

// PIDPath returns the PID file path
func (d *Daemon) PIDPath() string {
	return d.pidPath
}

// WritePID records the current process as the watcher for payload
func (d *Daemon) WritePID(payload string) error {
	if err := os.MkdirAll(filepath.Dir(d.pidPath), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}

	content := fmt.Sprintf("%d\n%s\n", os.Getpid(), payload)
	if err := os.WriteFile(d.pidPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Read parses the PID file without checking the process
func (d *Daemon) Read() (Info, error) {
	content, err := os.ReadFile(d.pidPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, ErrNotRunning
		}
		return Info{}, fmt.Errorf("failed to read PID file: %w", err)
	}

	lines := strings.SplitN(strings.TrimRight(string(content), "\n"), "\n", 2)
	pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Info{}, fmt.Errorf("invalid PID in file: %w", err)
	}

	info := Info{PID: pid}
	if len(lines) > 1 {
		info.Payload = lines[1]
	}
	// PID file mtime approximates the start time
	if st, err := os.Stat(d.pidPath); err == nil {
		info.Started = st.ModTime()
	}
	return info, nil
}

// Remove deletes the PID file
func (d *Daemon) Remove() error {
	if err := os.Remove(d.pidPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// Running returns the live watcher, removing a stale PID file
func (d *Daemon) Running() (Info, bool) {
	info, err := d.Read()
	if err != nil {
		return Info{}, false
	}

	process, err := os.FindProcess(info.PID)
	if err != nil {
		return Info{}, false
	}

	// signal 0 probes for existence
	if err := process.Signal(syscall.Signal(0)); err != nil {
		_ = d.Remove()
		return Info{}, false
	}
	return info, true
}

// Stop sends SIGTERM to the background watcher
func (d *Daemon) Stop() error {
	info, ok := d.Running()
	if !ok {
		return ErrNotRunning
	}

	process, err := os.FindProcess(info.PID)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}
	return nil
}

// Start re-executes the current binary with args in the background
func (d *Daemon) Start(args []string) (int, error) {
	if info, ok := d.Running(); ok {
		return 0, fmt.Errorf("watcher already running with PID %d for %s", info.PID, info.Payload)
	}

	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to get executable path: %w", err)
	}

	cmd := exec.Command(executable, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start watcher: %w", err)
	}
	pid := cmd.Process.Pid

	if err := cmd.Process.Release(); err != nil {
		return 0, fmt.Errorf("failed to release watcher process: %w", err)
	}
	return pid, nil
}
