package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/pilebones/go-udev/netlink"

	"camsync/internal/config"
	"camsync/internal/logging"
)

// Handler is invoked on each camera attach event.
type Handler func(ctx context.Context) error

// Watcher listens for usb attach events and triggers the provided handler.
type Watcher struct {
	cfg     *config.Config
	logger  *slog.Logger
	handler Handler

	lockPath string
	lock     *flock.Flock
	syncing  atomic.Bool

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// New constructs a watcher. The lock file lives alongside the logs so a
// second `camsync watch` cannot start against the same catalog.
func New(cfg *config.Config, handler Handler, logger *slog.Logger) (*Watcher, error) {
	if cfg == nil || handler == nil {
		return nil, errors.New("watcher requires config and handler")
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, "camsync.lock")
	return &Watcher{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "watcher"),
		handler:  handler,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and begins listening for netlink events.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return errors.New("watcher already running")
	}

	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another camsync watcher is already running")
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		_ = w.lock.Unlock()
		return fmt.Errorf("connect to netlink socket: %w", err)
	}

	w.conn = conn
	w.quit = make(chan struct{})
	w.running = true

	quit := w.quit
	go w.monitorLoop(ctx, quit)

	w.logger.Info("watcher started", logging.String("lock", w.lockPath))
	return nil
}

// Stop shuts down the monitor and releases the instance lock.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	if w.quit != nil {
		close(w.quit)
		w.quit = nil
	}
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	if err := w.lock.Unlock(); err != nil {
		w.logger.Warn("failed to release watcher lock", logging.Error(err))
	}
	w.running = false

	w.logger.Info("watcher stopped")
}

// Running reports whether the watcher is active.
func (w *Watcher) Running() bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	events := make(chan netlink.UEvent)
	errs := make(chan error)

	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(events, errs, buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-events:
			w.handleEvent(ctx, uevent)
		case err := <-errs:
			w.logger.Warn("netlink monitor error", logging.Error(err))
		}
	}
}

// buildMatcher matches usb device attach events. gphoto2-recognized cameras
// carry ID_GPHOTO2=1 in their udev environment.
func buildMatcher() netlink.Matcher {
	action := "add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":  "usb",
			"ID_GPHOTO2": "1",
		},
	})
	return rules
}

func (w *Watcher) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	if !w.syncing.CompareAndSwap(false, true) {
		w.logger.Debug("sync already in progress, ignoring attach event",
			logging.String("kobj", uevent.KObj),
		)
		return
	}

	w.logger.Info("camera attached",
		logging.String("kobj", uevent.KObj),
		logging.String("action", string(uevent.Action)),
	)

	go func() {
		defer w.syncing.Store(false)
		if err := w.handler(ctx); err != nil {
			w.logger.Error("sync after attach failed", logging.Error(err))
		}
	}()
}
