// Package testsupport provides per-test configuration and stub editor
// binaries for exercising the window host without a real nvim install.
package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"casement/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.RuntimeDir = filepath.Join(base, "run")
	cfgVal.Control.Enabled = true
	cfgVal.Control.Address = "unix:" + filepath.Join(base, "run", "control.sock")
	cfgVal.Control.DispatchTimeout = 5

	for _, dir := range []string{cfgVal.Paths.LogDir, cfgVal.Paths.RuntimeDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithStubbedNvim points editor.nvim_path at a shell script that blocks on
// stdin until the host closes it, mimicking a long-lived embedded session.
func WithStubbedNvim() ConfigOption {
	return stubNvim("#!/bin/sh\ncat >/dev/null\nexit 0\n")
}

// WithExitingNvim points editor.nvim_path at a script that exits immediately,
// for tests covering session reaping.
func WithExitingNvim() ConfigOption {
	return stubNvim("#!/bin/sh\nexit 0\n")
}

// WithFailingNvim points editor.nvim_path at a path that cannot be executed,
// for tests covering spawn failures.
func WithFailingNvim() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Editor.NvimPath = filepath.Join(b.baseDir, "missing-nvim")
	}
}

func stubNvim(script string) ConfigOption {
	return func(b *configBuilder) {
		if runtime.GOOS == "windows" {
			b.t.Skip("stub nvim scripts require a POSIX shell")
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "nvim")
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write stub nvim: %v", err)
		}
		b.cfg.Editor.NvimPath = target
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
