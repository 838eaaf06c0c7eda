package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"

	"filtersync/internal/config"
	"filtersync/internal/errorwrapper"
)

// Client wraps net/http.Client with the application's transport settings.
// It exposes the two fetch shapes the sync pipeline needs: structured JSON
// and raw bytes.
type Client struct {
	client    *http.Client
	userAgent string
	logger    zerolog.Logger
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(cfg config.HTTPClientConfig, logger zerolog.Logger) (*Client, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to parse proxy URL")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		logger.Info().Str("proxy", cfg.Proxy).Msg("HTTP client configured with proxy")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds <= 0 {
		timeout = time.Duration(config.DefaultHTTPTimeoutSecs) * time.Second
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultHTTPUserAgent
	}

	logger.Debug().
		Dur("timeout", timeout).
		Bool("insecure_skip_verify", cfg.InsecureSkipVerify).
		Str("user_agent", userAgent).
		Msg("HTTP client created")

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		userAgent: userAgent,
		logger:    logger,
	}, nil
}

// FetchJSON performs a GET request and decodes the JSON response body into out.
// A non-success status is returned as an HTTPError; a body that fails to
// decode is returned as a ProtocolError.
func (c *Client) FetchJSON(ctx context.Context, rawURL string, headers map[string]string, out any) error {
	body, err := c.fetch(ctx, rawURL, headers)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errorwrapper.NewProtocolError(rawURL, "response body is not the expected JSON structure", err)
	}
	return nil
}

// FetchBytes performs a GET request and returns the raw response body.
// A non-success status is returned as an HTTPError.
func (c *Client) FetchBytes(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	return c.fetch(ctx, rawURL, headers)
}

func (c *Client) fetch(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create HTTP request")
	}

	req.Header.Set("User-Agent", c.userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "*/*")
	}

	c.logger.Debug().Str("url", rawURL).Msg("Performing HTTP GET")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorwrapper.NewHTTPErrorWithURL(resp.StatusCode, http.StatusText(resp.StatusCode), rawURL)
	}

	return buf.Bytes(), nil
}
