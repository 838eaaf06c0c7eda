package config

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	LogConfig        LogConfig        `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	HTTPClientConfig HTTPClientConfig `json:"http_client_config,omitempty" yaml:"http_client_config,omitempty"`
	SyncConfig       SyncConfig       `json:"sync_config,omitempty" yaml:"sync_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LogConfig:        NewDefaultLogConfig(),
		HTTPClientConfig: NewDefaultHTTPClientConfig(),
		SyncConfig:       NewDefaultSyncConfig(),
	}
}
