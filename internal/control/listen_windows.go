//go:build windows

package control

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/Microsoft/go-winio"
)

func listenEndpoint(endpoint Endpoint) (net.Listener, error) {
	switch endpoint.Kind {
	case KindPipe:
		listener, err := winio.ListenPipe(endpoint.Target, nil)
		if err != nil {
			return nil, fmt.Errorf("listen on pipe: %w", err)
		}
		return listener, nil
	case KindUnix:
		if err := os.Remove(endpoint.Target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove existing socket: %w", err)
		}
		listener, err := net.Listen("unix", endpoint.Target)
		if err != nil {
			return nil, fmt.Errorf("listen on socket: %w", err)
		}
		return listener, nil
	default:
		return nil, fmt.Errorf("unsupported transport %q", endpoint.Kind)
	}
}

func dialEndpoint(endpoint Endpoint, timeout time.Duration) (net.Conn, error) {
	switch endpoint.Kind {
	case KindPipe:
		return winio.DialPipe(endpoint.Target, &timeout)
	case KindUnix:
		return net.DialTimeout("unix", endpoint.Target, timeout)
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
