package daemon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"casement/internal/config"
	"casement/internal/control"
	"casement/internal/logging"
	"casement/internal/router"
	"casement/internal/windows"
)

// Daemon ties the window manager loop and the optional control server
// together and enforces single-instance execution through a lock file.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	manager *windows.Manager

	lockPath string
	lock     *flock.Flock

	controlSrv *control.Server

	running  atomic.Bool
	cancel   context.CancelFunc
	loopDone chan struct{}
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, manager *windows.Manager, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || manager == nil {
		return nil, errors.New("daemon requires config and window manager")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.RuntimeDir, "casementd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		manager:  manager,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock, launches the window manager loop, and
// brings up the control server when enabled. A control server that fails to
// start disables only the control subsystem; the window host keeps running.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another casement daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.loopDone = make(chan struct{})
	go func() {
		defer close(d.loopDone)
		d.manager.Run(runCtx)
	}()

	if d.cfg.Control.Enabled {
		timeout := time.Duration(d.cfg.Control.DispatchTimeout) * time.Second
		srv, err := control.NewServer(runCtx, d.cfg.Control.Address, d.manager.Queue(), timeout, d.logger)
		if err != nil {
			d.logger.Error("control server unavailable",
				logging.Error(err),
				logging.String("address", d.cfg.Control.Address),
				logging.String(logging.FieldEventType, "control_start_failed"),
				logging.String(logging.FieldErrorHint, "fix control.address or remove the stale socket; the window host keeps running"))
		} else {
			d.controlSrv = srv
			srv.Serve()
		}
	}

	d.running.Store(true)
	d.logger.Info("casement daemon started",
		logging.String("lock", d.lockPath),
		logging.Bool("control_enabled", d.controlSrv != nil))

	if d.cfg.Editor.SpawnInitial {
		d.spawnInitialWindow(runCtx)
	}
	return nil
}

// spawnInitialWindow opens the first window through the same command path
// remote clients use.
func (d *Daemon) spawnInitialWindow(ctx context.Context) {
	submitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slot, err := d.manager.Queue().Submit(submitCtx, router.CreateWindow{})
	if err == nil {
		_, err = slot.Wait(submitCtx)
	}
	if err != nil {
		d.logger.Warn("initial window failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "initial_window_failed"),
			logging.String(logging.FieldErrorHint, "check editor.nvim_path"))
	}
}

// Stop shuts down the control server and the manager loop and releases the
// instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.controlSrv != nil {
		d.controlSrv.Close()
		d.controlSrv = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.loopDone != nil {
		<-d.loopDone
		d.loopDone = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("casement daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Running reports whether Start succeeded and Stop has not run yet.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the instance lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}
