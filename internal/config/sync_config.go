package config

// SyncConfig defines configuration for the sync pipeline
type SyncConfig struct {
	// TargetDir, when set, bypasses game directory discovery entirely.
	TargetDir       string            `json:"target_dir,omitempty" yaml:"target_dir,omitempty" validate:"omitempty,dirpath"`
	StateFileName   string            `json:"state_file,omitempty" yaml:"state_file,omitempty"`
	MarkerExtension string            `json:"marker_extension,omitempty" yaml:"marker_extension,omitempty"`
	Aliases         map[string]string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	APIBaseURL      string            `json:"api_base_url,omitempty" yaml:"api_base_url,omitempty" validate:"omitempty,url"`
	DownloadBaseURL string            `json:"download_base_url,omitempty" yaml:"download_base_url,omitempty" validate:"omitempty,url"`
	SteamAppID      string            `json:"steam_app_id,omitempty" yaml:"steam_app_id,omitempty"`
}

// NewDefaultSyncConfig creates default sync configuration
func NewDefaultSyncConfig() SyncConfig {
	return SyncConfig{
		StateFileName:   DefaultStateFileName,
		MarkerExtension: DefaultMarkerExtension,
		APIBaseURL:      DefaultAPIBaseURL,
		DownloadBaseURL: DefaultDownloadBaseURL,
		SteamAppID:      DefaultSteamAppID,
	}
}
