package client

import (
	"net/http"
	"time"

	"github.com/effective-security/toolbox/auth"
	"github.com/effective-security/toolbox/store"
	"github.com/effective-security/toolbox/tool"
)

// Option configures a Client at creation time.
type Option func(*Client)

// WithHTTPClient sets the HTTP client to use. The caller keeps ownership of
// its lifecycle, Close will not release its connections.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.ownsClient = false
	}
}

// WithTimeout sets the request timeout of the owned HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithManifestStore enables manifest caching with the given store.
func WithManifestStore(s store.ManifestStore) Option {
	return func(c *Client) {
		c.manifests = s
	}
}

// WithManifestTTL sets the expiration for cached manifests.
// Zero means no expiration.
func WithManifestTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.manifestTTL = ttl
	}
}

// WithToolCallback sets the Callback attached to every loaded tool.
func WithToolCallback(cb tool.Callback) Option {
	return func(c *Client) {
		c.toolCallback = cb
	}
}

// WithClientHeaderTokenSource adds a header attached to every server request,
// resolved from the token source at request time.
func WithClientHeaderTokenSource(name string, src auth.TokenSource) Option {
	return func(c *Client) {
		if c.clientHeaders == nil {
			c.clientHeaders = map[string]auth.TokenSource{}
		}
		c.clientHeaders[name] = src
	}
}

// WithDefaultToolOptions sets tool options applied to every loaded tool,
// before any per-load options.
func WithDefaultToolOptions(ops ...tool.Option) Option {
	return func(c *Client) {
		c.defaultToolOptions = append(c.defaultToolOptions, ops...)
	}
}
