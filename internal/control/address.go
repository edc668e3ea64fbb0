package control

import (
	"errors"
	"strings"
)

// TransportKind selects the local byte-stream mechanism behind an endpoint.
type TransportKind string

const (
	// KindUnix is a Unix domain socket bound to a filesystem path.
	KindUnix TransportKind = "unix"
	// KindPipe is a Windows named pipe in the \\.\pipe\ namespace.
	KindPipe TransportKind = "pipe"
)

const pipePrefix = `\\.\pipe\`

// Endpoint is one parsed listener address: transport kind plus the target
// path or pipe name. Parsed once at startup.
type Endpoint struct {
	Kind   TransportKind
	Target string
}

// String renders the endpoint in the address syntax it was parsed from.
func (e Endpoint) String() string {
	if e.Kind == KindPipe {
		return e.Target
	}
	return "unix:" + e.Target
}

// ParseAddress parses a listener address. A value prefixed "unix:", or any
// value containing a path separator, selects the socket transport at that
// path. A value prefixed "pipe:", or already fully qualified in the pipe
// namespace, selects the named-pipe transport; bare names are qualified.
func ParseAddress(address string) (Endpoint, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Endpoint{}, errors.New("empty address")
	}

	if rest, ok := strings.CutPrefix(address, "unix:"); ok {
		if rest == "" {
			return Endpoint{}, errors.New("unix: address requires a socket path")
		}
		return Endpoint{Kind: KindUnix, Target: rest}, nil
	}

	if rest, ok := strings.CutPrefix(address, "pipe:"); ok {
		if rest == "" {
			return Endpoint{}, errors.New("pipe: address requires a pipe name")
		}
		return Endpoint{Kind: KindPipe, Target: normalizePipeName(rest)}, nil
	}

	if strings.HasPrefix(address, pipePrefix) {
		return Endpoint{Kind: KindPipe, Target: address}, nil
	}

	if strings.ContainsAny(address, `/\`) {
		return Endpoint{Kind: KindUnix, Target: address}, nil
	}

	return Endpoint{}, errors.New("unsupported address format (expected unix:<path> or pipe:<name>)")
}

func normalizePipeName(name string) string {
	if strings.HasPrefix(name, pipePrefix) {
		return name
	}
	return pipePrefix + name
}
