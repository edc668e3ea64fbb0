package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"casement/internal/config"
)

func TestDefaultsValidate(t *testing.T) {
	cfg, path, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if exists {
		t.Fatalf("expected exists=false for %s", path)
	}
	if cfg.Control.Enabled {
		t.Fatal("control socket must be disabled by default")
	}
	if cfg.Control.DispatchTimeout != 30 {
		t.Fatalf("unexpected dispatch timeout: %d", cfg.Control.DispatchTimeout)
	}
	if cfg.Editor.NvimPath != "nvim" {
		t.Fatalf("unexpected nvim path: %q", cfg.Editor.NvimPath)
	}
	if cfg.Control.Address == "" {
		t.Fatal("expected default control address derived from runtime dir")
	}
	if !strings.Contains(cfg.Control.Address, string(os.PathSeparator)) {
		t.Fatalf("default address should be a socket path, got %q", cfg.Control.Address)
	}
}

func TestLoadParsesControlSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[control]
enabled = true
address = "unix:` + filepath.ToSlash(filepath.Join(dir, "ctl.sock")) + `"
dispatch_timeout = 5

[editor]
nvim_path = "/usr/bin/nvim"
base_args = ["--clean"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if !cfg.Control.Enabled {
		t.Fatal("expected control.enabled")
	}
	if !strings.HasPrefix(cfg.Control.Address, "unix:") {
		t.Fatalf("expected unix: prefix preserved, got %q", cfg.Control.Address)
	}
	if cfg.Control.DispatchTimeout != 5 {
		t.Fatalf("unexpected dispatch timeout: %d", cfg.Control.DispatchTimeout)
	}
	if len(cfg.Editor.BaseArgs) != 1 || cfg.Editor.BaseArgs[0] != "--clean" {
		t.Fatalf("unexpected base args: %#v", cfg.Editor.BaseArgs)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero dispatch timeout", func(c *config.Config) { c.Control.DispatchTimeout = 0 }},
		{"enabled without address", func(c *config.Config) {
			c.Control.Enabled = true
			c.Control.Address = ""
		}},
		{"empty nvim path", func(c *config.Config) { c.Editor.NvimPath = "" }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Logging.Format = "console"
			cfg.Logging.Level = "info"
			cfg.Control.Address = "unix:/tmp/ctl.sock"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Control.Enabled {
		t.Fatal("sample config must leave the control socket disabled")
	}
}
