package config

// HTTPClientConfig defines configuration for the outbound HTTP client
type HTTPClientConfig struct {
	TimeoutSeconds     int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"omitempty,gt=0"`
	UserAgent          string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	Proxy              string `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify,omitempty" yaml:"insecure_skip_verify,omitempty"`
}

// NewDefaultHTTPClientConfig creates default HTTP client configuration
func NewDefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		TimeoutSeconds:     DefaultHTTPTimeoutSecs,
		UserAgent:          DefaultHTTPUserAgent,
		InsecureSkipVerify: false,
	}
}
