package control

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"
)

const dialTimeout = 2 * time.Second

// Client provides typed access to a running window host over either
// transport. It is not safe for concurrent use; calls are strictly
// sequential, matching the per-connection FIFO the server guarantees.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
	nextID uint64
}

// Dial connects to the control endpoint at the given address.
func Dial(address string) (*Client, error) {
	endpoint, err := ParseAddress(address)
	if err != nil {
		return nil, fmt.Errorf("parse control address %q: %w", address, err)
	}
	conn, err := dialEndpoint(endpoint, dialTimeout)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(method string, params any) (json.RawMessage, error) {
	c.nextID++
	req := Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(strconv.FormatUint(c.nextID, 10)),
		Method:  method,
	}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encode params: %w", err)
		}
		req.Params = raw
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	payload = append(payload, '\n')
	if _, err := c.conn.Write(payload); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}

// ListWindows returns all open window routes in enumeration order.
func (c *Client) ListWindows() ([]WindowInfo, error) {
	raw, err := c.call(MethodListWindows, nil)
	if err != nil {
		return nil, err
	}
	var infos []WindowInfo
	if err := json.Unmarshal(raw, &infos); err != nil {
		return nil, fmt.Errorf("decode window list: %w", err)
	}
	return infos, nil
}

// ActivateWindow focuses the window with the given decimal id.
func (c *Client) ActivateWindow(windowID string) error {
	params := map[string]string{"window_id": windowID}
	raw, err := c.call(MethodActivateWindow, params)
	if err != nil {
		return err
	}
	var result ActivateResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("decode activate result: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("daemon reported activation failure")
	}
	return nil
}

// CreateWindow opens a new window, forwarding nvimArgs verbatim, and returns
// the new window's decimal id.
func (c *Client) CreateWindow(nvimArgs []string) (string, error) {
	var params any
	if nvimArgs != nil {
		params = map[string][]string{"nvim_args": nvimArgs}
	}
	raw, err := c.call(MethodCreateWindow, params)
	if err != nil {
		return "", err
	}
	var result CreateResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode create result: %w", err)
	}
	return result.WindowID, nil
}
