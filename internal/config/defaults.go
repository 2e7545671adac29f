package config

const (
	defaultDataDir             = "~/.local/share/jellywatch"
	defaultLogDir              = "~/.local/share/jellywatch/logs"
	defaultBind                = "127.0.0.1:7575"
	defaultLogFormat           = ""
	defaultLogLevel            = "info"
	defaultJellyfinPageSize    = 200
	defaultJellyfinTimeout     = 60
	defaultDiscordTimeout      = 10
	defaultSyncIntervalMinutes = 360
	defaultVacuumIntervalHours = 24
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			Bind:    defaultBind,
		},
		Jellyfin: Jellyfin{
			PageSize:       defaultJellyfinPageSize,
			RequestTimeout: defaultJellyfinTimeout,
		},
		Discord: Discord{
			Username:       "Jellywatch",
			RequestTimeout: defaultDiscordTimeout,
			FilterRenames:  true,
			FilterDeletes:  true,
		},
		Sync: Sync{
			Enabled:             false,
			IntervalMinutes:     defaultSyncIntervalMinutes,
			VacuumIntervalHours: defaultVacuumIntervalHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
