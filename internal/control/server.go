package control

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"casement/internal/logging"
	"casement/internal/router"
)

// Server exposes the window host over JSON-RPC on a local endpoint. The
// subsystem is opt-in; nothing constructs a Server unless control.enabled is
// set.
type Server struct {
	endpoint        Endpoint
	queue           *router.Queue
	dispatchTimeout time.Duration
	logger          *slog.Logger
	listener        net.Listener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer parses address and binds the listener. Both parse and bind
// failures are returned to the caller, which decides whether they abort the
// host (they should not; see the daemon).
func NewServer(ctx context.Context, address string, queue *router.Queue, dispatchTimeout time.Duration, logger *slog.Logger) (*Server, error) {
	if queue == nil {
		return nil, errors.New("control server requires a router queue")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if dispatchTimeout <= 0 {
		dispatchTimeout = 30 * time.Second
	}

	endpoint, err := ParseAddress(address)
	if err != nil {
		return nil, fmt.Errorf("parse control address %q: %w", address, err)
	}

	listener, err := listenEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		endpoint:        endpoint,
		queue:           queue,
		dispatchTimeout: dispatchTimeout,
		logger:          logging.NewComponentLogger(logger, "control"),
		listener:        listener,
		ctx:             serverCtx,
		cancel:          cancel,
	}, nil
}

// Endpoint returns the bound endpoint.
func (s *Server) Endpoint() Endpoint {
	return s.endpoint
}

// Serve starts accepting connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Info("control listener ready",
		logging.String("address", s.endpoint.String()),
		logging.String(logging.FieldEventType, "control_listen"))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "control_accept_failed"),
					logging.String(logging.FieldErrorHint, "check socket permissions; clients may fail to connect"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.handleConn(c, uuid.NewString())
			}(conn)
		}
	}()
}

// Close stops the server and removes a socket file left on disk.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := cleanupEndpoint(s.endpoint); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("address", s.endpoint.String()),
			logging.Error(err),
			logging.String(logging.FieldEventType, "control_socket_cleanup_failed"),
			logging.String(logging.FieldErrorHint, "remove the socket file manually before the next start"))
	}
}
