package router

import (
	"errors"
	"strconv"
)

// WindowID identifies one open editor window. IDs are allocated
// monotonically by the window manager and never reused, so an id held by an
// in-flight request can not come to describe a different window.
type WindowID uint64

// String renders the id as a decimal string. Window ids cross the JSON
// boundary as strings to sidestep the precision limits of JSON numbers.
func (id WindowID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseWindowID parses a decimal window id string.
func ParseWindowID(value string) (WindowID, error) {
	raw, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return WindowID(raw), nil
}

// Route is the control plane's view of one open window. At most one route
// among all open routes is active at any instant.
type Route struct {
	ID     WindowID
	Active bool
}

// Command is the closed union of control operations. Exactly the three
// variants below exist; Execute switches over them exhaustively.
type Command interface {
	isCommand()
}

// ListWindows requests a snapshot of all open routes.
type ListWindows struct{}

// ActivateWindow requests input focus for the window with the given id.
type ActivateWindow struct {
	ID WindowID
}

// CreateWindow requests a new window backed by a fresh editor session, with
// extra startup arguments forwarded verbatim.
type CreateWindow struct {
	NvimArgs []string
}

func (ListWindows) isCommand()    {}
func (ActivateWindow) isCommand() {}
func (CreateWindow) isCommand()   {}

// Outcome is the successful result of executing a command. Routes is set for
// ListWindows, Created for CreateWindow; ActivateWindow carries no payload.
type Outcome struct {
	Routes  []Route
	Created WindowID
}

// ErrNotFound reports an activate request naming a window that is not among
// the current routes.
var ErrNotFound = errors.New("window not found")

// Router is the boundary the owning loop exposes to command execution. Only
// that loop may call these methods.
type Router interface {
	// ListRoutes returns a snapshot of open routes in enumeration order.
	ListRoutes() []Route
	// Activate focuses the window with the given id. Returns ErrNotFound
	// when no such route exists, or a platform error when focusing fails.
	Activate(id WindowID) error
	// Create opens a new window with the given extra editor arguments and
	// returns its id.
	Create(args []string) (WindowID, error)
}

// Execute runs cmd against r and shapes the result into an Outcome. It must
// only be invoked from the context that owns r.
func Execute(r Router, cmd Command) (Outcome, error) {
	switch c := cmd.(type) {
	case ListWindows:
		return Outcome{Routes: r.ListRoutes()}, nil
	case ActivateWindow:
		if err := r.Activate(c.ID); err != nil {
			return Outcome{}, err
		}
		return Outcome{}, nil
	case CreateWindow:
		id, err := r.Create(c.NvimArgs)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Created: id}, nil
	default:
		return Outcome{}, errors.New("unknown command")
	}
}
