package control

import (
	"encoding/json"
	"fmt"
)

// Supported wire methods.
const (
	MethodListWindows    = "ListWindows"
	MethodActivateWindow = "ActivateWindow"
	MethodCreateWindow   = "CreateWindow"
)

// JSON-RPC 2.0 error codes used on the wire.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32000
)

// Request is one JSON-RPC 2.0 call. ID is client-supplied and opaque; it is
// echoed verbatim in the response and never interpreted.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is one JSON-RPC 2.0 reply. Exactly one of Result and Error is
// set. A nil ID marshals as JSON null, which is what a request without a
// usable id gets back.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *WireError      `json:"error,omitempty"`
}

// WireError is the JSON-RPC error object.
type WireError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface so client callers can errors.As on
// failures returned by the daemon.
func (e *WireError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// WindowInfo is one ListWindows result entry. Window ids travel as decimal
// strings, never JSON numbers.
type WindowInfo struct {
	WindowID string `json:"window_id"`
	IsActive bool   `json:"is_active"`
}

// ActivateResult is the ActivateWindow success payload.
type ActivateResult struct {
	OK bool `json:"ok"`
}

// CreateResult is the CreateWindow success payload.
type CreateResult struct {
	WindowID string `json:"window_id"`
}

func errorResponse(id json.RawMessage, code int, message string) Response {
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &WireError{Code: code, Message: message},
	}
}

func resultResponse(id json.RawMessage, result any) Response {
	raw, err := json.Marshal(result)
	if err != nil {
		return errorResponse(id, CodeInternalError, fmt.Sprintf("encode result: %v", err))
	}
	return Response{JSONRPC: "2.0", ID: id, Result: raw}
}
