//go:build !windows

package control

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

func listenEndpoint(endpoint Endpoint) (net.Listener, error) {
	switch endpoint.Kind {
	case KindUnix:
		// A previous run may have left the socket file behind.
		if err := os.Remove(endpoint.Target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove existing socket: %w", err)
		}
		listener, err := net.Listen("unix", endpoint.Target)
		if err != nil {
			return nil, fmt.Errorf("listen on socket: %w", err)
		}
		return listener, nil
	case KindPipe:
		return nil, errors.New("named pipes are only supported on windows")
	default:
		return nil, fmt.Errorf("unsupported transport %q", endpoint.Kind)
	}
}

func dialEndpoint(endpoint Endpoint, timeout time.Duration) (net.Conn, error) {
	switch endpoint.Kind {
	case KindUnix:
		return net.DialTimeout("unix", endpoint.Target, timeout)
	case KindPipe:
		return nil, errors.New("named pipes are only supported on windows")
	default:
		return nil, fmt.Errorf("unsupported transport %q", endpoint.Kind)
	}
}

func cleanupEndpoint(endpoint Endpoint) error {
	if endpoint.Kind != KindUnix {
		return nil
	}
	if err := os.Remove(endpoint.Target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
