package config

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// HTTP Client Defaults
	DefaultHTTPTimeoutSecs = 30
	DefaultHTTPUserAgent   = "filtersync"

	// Sync Defaults
	DefaultStateFileName   = "filter_watermarks.json"
	DefaultMarkerExtension = "filter"
	DefaultAPIBaseURL      = "https://api.github.com"
	DefaultDownloadBaseURL = "https://github.com"
	DefaultSteamAppID      = "2694490"
)
