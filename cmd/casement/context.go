package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"casement/internal/config"
	"casement/internal/control"
)

type commandContext struct {
	addressFlag *string
	configFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(addressFlag, configFlag *string) *commandContext {
	return &commandContext{
		addressFlag: addressFlag,
		configFlag:  configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// address resolves the control endpoint, preferring the --address flag over
// the configured value.
func (c *commandContext) address() string {
	if c.addressFlag != nil {
		if addr := strings.TrimSpace(*c.addressFlag); addr != "" {
			return addr
		}
	}
	if cfg := c.configValue(); cfg != nil {
		return cfg.Control.Address
	}
	return defaultAddress()
}

func (c *commandContext) withClient(fn func(*control.Client) error) error {
	client, err := c.dialClient()
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func (c *commandContext) dialClient() (*control.Client, error) {
	address := c.address()
	client, err := control.Dial(address)
	if err != nil {
		return nil, wrapDialError(err, address)
	}
	return client, nil
}

func wrapDialError(err error, address string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to window host: endpoint %s not found; start it with `casement start`", address)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to window host: endpoint %s refused the connection; verify casementd is running", address)
	default:
		return fmt.Errorf("connect to window host: %w", err)
	}
}

func defaultAddress() string {
	runtimeDir, err := config.ExpandPath("~/.local/share/casement/run")
	if err != nil {
		return filepath.Join(os.TempDir(), "control.sock")
	}
	return filepath.Join(runtimeDir, "control.sock")
}
