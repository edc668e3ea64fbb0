package config

const (
	defaultLogDir          = "~/.local/share/casement/logs"
	defaultRuntimeDir      = "~/.local/share/casement/run"
	defaultNvimPath        = "nvim"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultDispatchTimeout = 30
)

// Default returns a Config populated with repository defaults. The control
// socket stays disabled until explicitly enabled.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:     defaultLogDir,
			RuntimeDir: defaultRuntimeDir,
		},
		Control: Control{
			Enabled:         false,
			DispatchTimeout: defaultDispatchTimeout,
		},
		Editor: Editor{
			NvimPath: defaultNvimPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
