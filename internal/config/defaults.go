package config

const (
	defaultConfigPath          = "~/.config/dlsort/config.toml"
	defaultWatchDir            = "~/Downloads"
	defaultStateDir            = "~/.local/share/dlsort"
	defaultOtherFolder         = "Other"
	defaultMinAgeSeconds       = 3.0
	defaultPollIntervalSeconds = 3.0
	defaultSettleAttempts      = 3
	defaultWorkers             = 8
	defaultMaxEventsPerSecond  = 50.0
	defaultWatchMode           = WatchModeAuto
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogRetentionDays    = 30
)

// Watch modes accepted by watch.mode.
const (
	WatchModeAuto   = "auto"
	WatchModeNotify = "notify"
	WatchModePoll   = "poll"
)

// DefaultCategories returns the built-in category mapping.
func DefaultCategories() map[string][]string {
	return map[string][]string{
		"Images":        {"jpg", "jpeg", "png", "gif", "webp", "tiff", "svg", "heic"},
		"Videos":        {"mp4", "mov", "mkv", "avi", "webm"},
		"Audio":         {"mp3", "wav", "m4a", "flac", "aac", "ogg"},
		"Documents":     {"pdf", "doc", "docx", "txt", "rtf", "odt", "pages", "md"},
		"Spreadsheets":  {"xls", "xlsx", "csv", "ods"},
		"Presentations": {"ppt", "pptx", "key"},
		"Archives":      {"zip", "rar", "7z", "tar", "gz", "bz2", "tar.gz", "tar.bz2"},
		"Code":          {"py", "js", "ts", "json", "yml", "yaml", "toml", "html", "css", "sh", "go", "rs"},
		"Installers":    {"dmg", "pkg", "app", "exe", "msi"},
		"Fonts":         {"ttf", "otf", "woff", "woff2"},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WatchDir: defaultWatchDir,
			StateDir: defaultStateDir,
		},
		Organize: Organize{
			OtherFolder:   defaultOtherFolder,
			IgnoreHidden:  true,
			MinAgeSeconds: defaultMinAgeSeconds,
			DryRun:        false,
			ScanExisting:  true,
		},
		Watch: Watch{
			Enabled:             true,
			Mode:                defaultWatchMode,
			PollIntervalSeconds: defaultPollIntervalSeconds,
			SettleAttempts:      defaultSettleAttempts,
			Workers:             defaultWorkers,
			MaxEventsPerSecond:  defaultMaxEventsPerSecond,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Categories: DefaultCategories(),
	}
}
