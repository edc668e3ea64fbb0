package windows

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"casement/internal/config"
)

// Session is one embedded editor process. The host keeps the child's stdin
// open for the lifetime of the window; nvim --embed treats stdin EOF as a
// quit request, so closing it is how Stop asks the session to exit.
type Session struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	args  []string
}

// StartSession spawns one embedded editor process with the configured base
// arguments followed by the per-window extras.
func StartSession(editor config.Editor, extraArgs []string) (*Session, error) {
	args := make([]string, 0, 1+len(editor.BaseArgs)+len(extraArgs))
	args = append(args, "--embed")
	args = append(args, editor.BaseArgs...)
	args = append(args, extraArgs...)

	cmd := exec.Command(editor.NvimPath, args...)
	cmd.Env = os.Environ()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open session stdin: %w", err)
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return nil, fmt.Errorf("spawn %s: %w", editor.NvimPath, err)
	}

	return &Session{cmd: cmd, stdin: stdin, args: args}, nil
}

// PID returns the editor process id.
func (s *Session) PID() int {
	if s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Args returns the full argument list the session was spawned with.
func (s *Session) Args() []string {
	return append([]string(nil), s.args...)
}

// Wait blocks until the editor process exits.
func (s *Session) Wait() error {
	return s.cmd.Wait()
}

// Stop terminates the editor process. Stdin is closed first; nvim exits on
// the EOF, the kill covers a child that does not.
func (s *Session) Stop() {
	_ = s.stdin.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
}
