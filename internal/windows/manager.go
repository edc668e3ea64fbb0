package windows

import (
	"context"
	"fmt"
	"log/slog"

	"casement/internal/config"
	"casement/internal/logging"
	"casement/internal/router"
)

const commandQueueDepth = 16

type window struct {
	id      router.WindowID
	session *Session
}

// Manager is the single owning execution context for window state. All
// mutation happens inside Run; other goroutines reach the list only through
// the command queue.
type Manager struct {
	cfg    *config.Config
	logger *slog.Logger
	queue  *router.Queue

	// Touched only by the Run loop.
	routes []*window
	active router.WindowID
	nextID uint64

	exits chan router.WindowID
	done  chan struct{}
}

// NewManager constructs a window manager for the given configuration.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "windows"),
		queue:  router.NewQueue(commandQueueDepth),
		exits:  make(chan router.WindowID),
		done:   make(chan struct{}),
	}
}

// Queue returns the inbound command queue connection handlers submit to.
func (m *Manager) Queue() *router.Queue {
	return m.queue
}

// Run drains the command queue and reaps exited sessions until ctx ends.
// It is the owning loop: every Router method runs on this goroutine.
func (m *Manager) Run(ctx context.Context) {
	m.logger.Debug("window manager loop started")
	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return
		case env := <-m.queue.Drain():
			outcome, err := router.Execute(m, env.Cmd)
			if !env.Reply.Fulfill(outcome, err) {
				m.logger.Warn("reply slot already fulfilled",
					logging.String(logging.FieldEventType, "reply_slot_reused"),
					logging.String(logging.FieldErrorHint, "a command was answered twice; this is a bug"))
			}
		case id := <-m.exits:
			m.removeWindow(id)
		}
	}
}

// ListRoutes implements router.Router.
func (m *Manager) ListRoutes() []router.Route {
	routes := make([]router.Route, 0, len(m.routes))
	for _, w := range m.routes {
		routes = append(routes, router.Route{ID: w.id, Active: w.id == m.active})
	}
	return routes
}

// Activate implements router.Router.
func (m *Manager) Activate(id router.WindowID) error {
	for _, w := range m.routes {
		if w.id == id {
			m.active = id
			m.logger.Info("window activated",
				logging.String(logging.FieldWindowID, id.String()),
				logging.String(logging.FieldEventType, "window_activate"))
			return nil
		}
	}
	return fmt.Errorf("%w: %s", router.ErrNotFound, id)
}

// Create implements router.Router.
func (m *Manager) Create(args []string) (router.WindowID, error) {
	session, err := StartSession(m.cfg.Editor, args)
	if err != nil {
		return 0, fmt.Errorf("create window: %w", err)
	}

	m.nextID++
	id := router.WindowID(m.nextID)
	m.routes = append(m.routes, &window{id: id, session: session})
	// A freshly created window receives focus.
	m.active = id

	go m.watchSession(id, session)

	m.logger.Info("window created",
		logging.String(logging.FieldWindowID, id.String()),
		logging.Int("pid", session.PID()),
		logging.Int("arg_count", len(args)),
		logging.String(logging.FieldEventType, "window_create"))
	return id, nil
}

func (m *Manager) watchSession(id router.WindowID, session *Session) {
	err := session.Wait()
	if err != nil {
		m.logger.Debug("session exited with error",
			logging.String(logging.FieldWindowID, id.String()),
			logging.Error(err))
	}
	select {
	case m.exits <- id:
	case <-m.done:
	}
}

func (m *Manager) removeWindow(id router.WindowID) {
	for i, w := range m.routes {
		if w.id != id {
			continue
		}
		m.routes = append(m.routes[:i], m.routes[i+1:]...)
		if m.active == id {
			m.active = 0
		}
		m.logger.Info("window closed",
			logging.String(logging.FieldWindowID, id.String()),
			logging.String(logging.FieldEventType, "window_close"))
		return
	}
}

func (m *Manager) shutdown() {
	m.queue.Close()
	close(m.done)
	for _, w := range m.routes {
		w.session.Stop()
	}
	m.routes = nil
	m.active = 0
	m.logger.Debug("window manager loop stopped")
}
