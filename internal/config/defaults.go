package config

const (
	defaultConfigPath  = "~/.config/bcimerge/config.toml"
	defaultLogDir      = "~/.local/share/bcimerge/logs"
	defaultCatalogPath = "~/.local/share/bcimerge/catalog.db"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultDevice      = "emotiv"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Catalog: Catalog{
			Enabled: true,
			Path:    defaultCatalogPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Defaults: Defaults{
			Device: defaultDevice,
		},
	}
}
