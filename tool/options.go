package tool

import (
	"github.com/effective-security/toolbox/auth"
)

// Option is a function that can be used to modify the behavior of the tool Config.
type Option func(*Config)

// Config holds all configurable aspects for creating or deriving a tool.
type Config struct {
	// AuthSources maps authentication source names to token sources.
	AuthSources map[string]auth.TokenSource

	// BoundParams maps parameter names to fixed values or ValueProviders.
	BoundParams map[string]any

	// Strict causes binding of unknown or authenticated parameters to fail,
	// instead of being dropped with a warning.
	Strict bool

	// Callback receives tool call events.
	Callback Callback

	// ClientHeaders are resolved and attached to every server request.
	ClientHeaders map[string]auth.TokenSource
}

// NewConfig builds a tool Config, strict by default.
func NewConfig(ops ...Option) *Config {
	cfg := &Config{
		Strict: true,
	}
	for _, op := range ops {
		op(cfg)
	}
	return cfg
}

// WithAuthTokenSources registers token sources for the corresponding
// authentication source names.
func WithAuthTokenSources(sources map[string]auth.TokenSource) Option {
	return func(c *Config) {
		if c.AuthSources == nil {
			c.AuthSources = make(map[string]auth.TokenSource, len(sources))
		}
		for name, src := range sources {
			c.AuthSources[name] = src
		}
	}
}

// WithAuthTokenSource registers a token source for a given authentication source.
func WithAuthTokenSource(name string, src auth.TokenSource) Option {
	return WithAuthTokenSources(map[string]auth.TokenSource{name: src})
}

// WithBoundParams fixes values for the given parameters.
func WithBoundParams(bound map[string]any) Option {
	return func(c *Config) {
		if c.BoundParams == nil {
			c.BoundParams = make(map[string]any, len(bound))
		}
		for name, val := range bound {
			c.BoundParams[name] = val
		}
	}
}

// WithBoundParam fixes the value of a single parameter.
func WithBoundParam(name string, value any) Option {
	return WithBoundParams(map[string]any{name: value})
}

// WithStrict controls whether invalid bound parameters fail or are dropped.
func WithStrict(strict bool) Option {
	return func(c *Config) {
		c.Strict = strict
	}
}

// WithCallback allows setting a custom Callback Handler.
func WithCallback(callback Callback) Option {
	return func(c *Config) {
		c.Callback = callback
	}
}

// WithClientHeaders sets headers attached to every server request.
func WithClientHeaders(headers map[string]auth.TokenSource) Option {
	return func(c *Config) {
		if c.ClientHeaders == nil {
			c.ClientHeaders = make(map[string]auth.TokenSource, len(headers))
		}
		for name, src := range headers {
			c.ClientHeaders[name] = src
		}
	}
}
