package control_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"casement/internal/control"
	"casement/internal/logging"
	"casement/internal/router"
	"casement/internal/testsupport"
	"casement/internal/windows"
)

func startHost(t *testing.T, opts ...testsupport.ConfigOption) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests use unix socket addresses")
	}

	cfg := testsupport.NewConfig(t, opts...)
	mgr := windows.NewManager(cfg, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		mgr.Run(ctx)
	}()

	srv, err := control.NewServer(ctx, cfg.Control.Address, mgr.Queue(),
		time.Duration(cfg.Control.DispatchTimeout)*time.Second, logging.NewNop())
	if err != nil {
		t.Fatalf("control.NewServer: %v", err)
	}
	srv.Serve()

	t.Cleanup(func() {
		srv.Close()
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("manager loop did not stop")
		}
	})

	time.Sleep(50 * time.Millisecond)
	return cfg.Control.Address
}

func rawDial(t *testing.T, address string) (net.Conn, *bufio.Reader) {
	t.Helper()
	path := strings.TrimPrefix(address, "unix:")
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, bufio.NewReader(conn)
}

func roundTrip(t *testing.T, conn net.Conn, reader *bufio.Reader, line string) control.Response {
	t.Helper()
	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		t.Fatalf("write %q: %v", line, err)
	}
	raw, err := reader.ReadBytes('\n')
	if err != nil {
		t.Fatalf("read response for %q: %v", line, err)
	}
	var resp control.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decode response %q: %v", raw, err)
	}
	return resp
}

func TestWireScenario(t *testing.T) {
	address := startHost(t, testsupport.WithStubbedNvim())
	conn, reader := rawDial(t, address)

	resp := roundTrip(t, conn, reader, `{"jsonrpc":"2.0","id":1,"method":"ListWindows"}`)
	if resp.Error != nil {
		t.Fatalf("list against zero windows failed: %#v", resp.Error)
	}
	if string(resp.ID) != "1" {
		t.Fatalf("expected id echoed, got %s", resp.ID)
	}
	if string(resp.Result) != "[]" {
		t.Fatalf("expected empty array result, got %s", resp.Result)
	}

	resp = roundTrip(t, conn, reader, `{"jsonrpc":"2.0","id":2,"method":"CreateWindow","params":{"nvim_args":["-S","session.vim"]}}`)
	if resp.Error != nil {
		t.Fatalf("create failed: %#v", resp.Error)
	}
	var created control.CreateResult
	if err := json.Unmarshal(resp.Result, &created); err != nil {
		t.Fatalf("decode create result: %v", err)
	}
	if created.WindowID != "1" {
		t.Fatalf("expected first window id \"1\", got %q", created.WindowID)
	}

	resp = roundTrip(t, conn, reader, `{"jsonrpc":"2.0","id":3,"method":"ActivateWindow","params":{"window_id":"1"}}`)
	if resp.Error != nil {
		t.Fatalf("activate failed: %#v", resp.Error)
	}
	if string(resp.Result) != `{"ok":true}` {
		t.Fatalf("unexpected activate result: %s", resp.Result)
	}

	resp = roundTrip(t, conn, reader, `{"jsonrpc":"2.0","id":4,"method":"ActivateWindow","params":{"window_id":"999"}}`)
	if resp.Error == nil || resp.Error.Code != control.CodeInternalError {
		t.Fatalf("expected -32000 for unknown window, got %#v", resp)
	}
	if string(resp.ID) != "4" {
		t.Fatalf("expected id echoed on error, got %s", resp.ID)
	}
}

func TestMalformedLineKeepsConnectionOpen(t *testing.T) {
	address := startHost(t, testsupport.WithStubbedNvim())
	conn, reader := rawDial(t, address)

	resp := roundTrip(t, conn, reader, `{"jsonrpc":"2.0","id":`)
	if resp.Error == nil || resp.Error.Code != control.CodeParseError {
		t.Fatalf("expected -32700, got %#v", resp)
	}
	if string(resp.ID) != "null" {
		t.Fatalf("parse errors must carry a null id, got %s", resp.ID)
	}

	// Blank lines are skipped, and the same connection keeps working.
	if _, err := conn.Write([]byte("\n\n")); err != nil {
		t.Fatalf("write blank lines: %v", err)
	}
	resp = roundTrip(t, conn, reader, `{"jsonrpc":"2.0","id":7,"method":"ListWindows"}`)
	if resp.Error != nil {
		t.Fatalf("well-formed line after garbage failed: %#v", resp.Error)
	}
	if string(resp.ID) != "7" {
		t.Fatalf("expected id 7, got %s", resp.ID)
	}
}

func TestUnknownMethodEchoesID(t *testing.T) {
	address := startHost(t, testsupport.WithStubbedNvim())
	conn, reader := rawDial(t, address)

	resp := roundTrip(t, conn, reader, `{"jsonrpc":"2.0","id":"abc","method":"CloseWindow"}`)
	if resp.Error == nil || resp.Error.Code != control.CodeMethodNotFound {
		t.Fatalf("expected -32601, got %#v", resp)
	}
	if string(resp.ID) != `"abc"` {
		t.Fatalf("expected opaque id echoed verbatim, got %s", resp.ID)
	}
}

func TestInvalidParams(t *testing.T) {
	address := startHost(t, testsupport.WithStubbedNvim())
	conn, reader := rawDial(t, address)

	lines := []string{
		`{"jsonrpc":"2.0","id":1,"method":"ActivateWindow"}`,
		`{"jsonrpc":"2.0","id":2,"method":"ActivateWindow","params":{}}`,
		`{"jsonrpc":"2.0","id":3,"method":"ActivateWindow","params":{"window_id":5}}`,
		`{"jsonrpc":"2.0","id":4,"method":"ActivateWindow","params":{"window_id":"nope"}}`,
		`{"jsonrpc":"2.0","id":5,"method":"ActivateWindow","params":{"window_id":"-1"}}`,
		`{"jsonrpc":"2.0","id":6,"method":"CreateWindow","params":{"nvim_args":"-S"}}`,
		`{"jsonrpc":"2.0","id":7,"method":"CreateWindow","params":{"nvim_args":[1,2]}}`,
	}
	for _, line := range lines {
		resp := roundTrip(t, conn, reader, line)
		if resp.Error == nil || resp.Error.Code != control.CodeInvalidParams {
			t.Fatalf("expected -32602 for %s, got %#v", line, resp)
		}
	}

	// None of the rejected requests may have reached the window manager.
	resp := roundTrip(t, conn, reader, `{"jsonrpc":"2.0","id":8,"method":"ListWindows"}`)
	if resp.Error != nil {
		t.Fatalf("list failed: %#v", resp.Error)
	}
	if string(resp.Result) != "[]" {
		t.Fatalf("invalid params must not mutate window state: %s", resp.Result)
	}
}

func TestClientRoundTrip(t *testing.T) {
	address := startHost(t, testsupport.WithStubbedNvim())

	client, err := control.Dial(address)
	if err != nil {
		t.Fatalf("control.Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	id, err := client.CreateWindow([]string{"-S", "session.vim"})
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}

	infos, err := client.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	if len(infos) != 1 || infos[0].WindowID != id || !infos[0].IsActive {
		t.Fatalf("unexpected window list: %#v", infos)
	}

	if err := client.ActivateWindow(id); err != nil {
		t.Fatalf("ActivateWindow: %v", err)
	}

	err = client.ActivateWindow("999")
	var wireErr *control.WireError
	if !errors.As(err, &wireErr) || wireErr.Code != control.CodeInternalError {
		t.Fatalf("expected wire error -32000, got %v", err)
	}
}

func TestConcurrentListWindowsSeeConsistentSnapshots(t *testing.T) {
	address := startHost(t, testsupport.WithStubbedNvim())

	seed, err := control.Dial(address)
	if err != nil {
		t.Fatalf("control.Dial: %v", err)
	}
	t.Cleanup(func() { seed.Close() })
	for i := 0; i < 2; i++ {
		if _, err := seed.CreateWindow(nil); err != nil {
			t.Fatalf("CreateWindow %d: %v", i, err)
		}
	}

	var wg sync.WaitGroup
	for c := 0; c < 2; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client, err := control.Dial(address)
			if err != nil {
				t.Errorf("dial: %v", err)
				return
			}
			defer client.Close()
			for i := 0; i < 20; i++ {
				infos, err := client.ListWindows()
				if err != nil {
					t.Errorf("ListWindows: %v", err)
					return
				}
				if len(infos) != 2 {
					t.Errorf("torn snapshot: %#v", infos)
					return
				}
				active := 0
				for _, info := range infos {
					if info.IsActive {
						active++
					}
				}
				if active > 1 {
					t.Errorf("more than one active window: %#v", infos)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestDispatchTimeoutSurfacesInternalError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tests use unix socket addresses")
	}

	// A queue nobody drains: the bounded wait must expire with -32000
	// instead of hanging the connection forever.
	queue := router.NewQueue(4)
	t.Cleanup(queue.Close)

	address := "unix:" + filepath.Join(t.TempDir(), "stalled.sock")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv, err := control.NewServer(ctx, address, queue, 100*time.Millisecond, logging.NewNop())
	if err != nil {
		t.Fatalf("control.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)
	time.Sleep(50 * time.Millisecond)

	conn, reader := rawDial(t, address)
	resp := roundTrip(t, conn, reader, `{"jsonrpc":"2.0","id":1,"method":"ListWindows"}`)
	if resp.Error == nil || resp.Error.Code != control.CodeInternalError {
		t.Fatalf("expected -32000 timeout, got %#v", resp)
	}
}

func TestNewServerRejectsBadAddress(t *testing.T) {
	queue := router.NewQueue(1)
	t.Cleanup(queue.Close)

	if _, err := control.NewServer(context.Background(), "badname", queue, time.Second, logging.NewNop()); err == nil {
		t.Fatal("expected parse error for bare name address")
	}
}
