package control

import (
	"context"
	"encoding/json"
	"errors"

	"log/slog"

	"casement/internal/logging"
	"casement/internal/router"
)

// dispatchLine turns one request line into exactly one response. Protocol,
// method, and validation failures are answered locally; valid commands are
// forwarded to the window manager and the caller suspends on the reply slot.
func (s *Server) dispatchLine(line []byte, logger *slog.Logger) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		// The malformed payload cannot be trusted to carry a valid id.
		return errorResponse(nil, CodeParseError, "Parse error: "+err.Error())
	}

	var cmd router.Command
	switch req.Method {
	case MethodListWindows:
		cmd = router.ListWindows{}
	case MethodActivateWindow:
		id, perr := parseActivateParams(req.Params)
		if perr != "" {
			return errorResponse(req.ID, CodeInvalidParams, perr)
		}
		cmd = router.ActivateWindow{ID: id}
	case MethodCreateWindow:
		args, perr := parseCreateParams(req.Params)
		if perr != "" {
			return errorResponse(req.ID, CodeInvalidParams, perr)
		}
		cmd = router.CreateWindow{NvimArgs: args}
	default:
		return errorResponse(req.ID, CodeMethodNotFound, "Method not found")
	}

	logger.Debug("request forwarded", logging.String(logging.FieldMethod, req.Method))
	return s.forward(cmd, req.ID, logger)
}

func (s *Server) forward(cmd router.Command, id json.RawMessage, logger *slog.Logger) Response {
	ctx, cancel := context.WithTimeout(s.ctx, s.dispatchTimeout)
	defer cancel()

	slot, err := s.queue.Submit(ctx, cmd)
	if err != nil {
		return errorResponse(id, CodeInternalError, "Failed to dispatch request: "+err.Error())
	}

	outcome, err := slot.Wait(ctx)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("request timed out",
			logging.Duration("timeout", s.dispatchTimeout),
			logging.String(logging.FieldEventType, "control_dispatch_timeout"),
			logging.String(logging.FieldErrorHint, "the window manager loop is not draining its queue"))
		return errorResponse(id, CodeInternalError, "Timed out waiting for window manager")
	case err != nil:
		return errorResponse(id, CodeInternalError, err.Error())
	}

	switch cmd.(type) {
	case router.ListWindows:
		infos := make([]WindowInfo, 0, len(outcome.Routes))
		for _, route := range outcome.Routes {
			infos = append(infos, WindowInfo{WindowID: route.ID.String(), IsActive: route.Active})
		}
		return resultResponse(id, infos)
	case router.ActivateWindow:
		return resultResponse(id, ActivateResult{OK: true})
	case router.CreateWindow:
		return resultResponse(id, CreateResult{WindowID: outcome.Created.String()})
	default:
		return errorResponse(id, CodeInternalError, "Unexpected command")
	}
}

// parseActivateParams extracts and parses params.window_id. The returned
// message is empty on success; any failure maps to invalid params without
// the window manager ever being consulted.
func parseActivateParams(params json.RawMessage) (router.WindowID, string) {
	if len(params) == 0 {
		return 0, "Missing params"
	}
	var p struct {
		WindowID json.RawMessage `json:"window_id"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return 0, "Missing params"
	}
	if p.WindowID == nil {
		return 0, "Missing window_id"
	}
	var value string
	if err := json.Unmarshal(p.WindowID, &value); err != nil {
		return 0, "Missing window_id"
	}
	id, err := router.ParseWindowID(value)
	if err != nil {
		return 0, "Invalid window_id"
	}
	return id, ""
}

// parseCreateParams extracts params.nvim_args. Params and nvim_args are both
// optional; a present nvim_args that is not an array of strings is rejected.
func parseCreateParams(params json.RawMessage) ([]string, string) {
	if len(params) == 0 {
		return nil, ""
	}
	var p struct {
		NvimArgs json.RawMessage `json:"nvim_args"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, "Missing params"
	}
	if p.NvimArgs == nil {
		return nil, ""
	}
	var args []string
	if err := json.Unmarshal(p.NvimArgs, &args); err != nil {
		return nil, "nvim_args must be an array of strings"
	}
	return args, ""
}
