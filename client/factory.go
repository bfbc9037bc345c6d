package client

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolbox/tool"
	"github.com/effective-security/xlog"
)

// Factory creates and caches Toolbox clients from configuration.
type Factory interface {
	// DefaultClient returns the client for the first configured server.
	DefaultClient() (*Client, error)
	// ClientByName returns the client for the named server.
	ClientByName(name string) (*Client, error)
	// LoadTools loads the configured toolset of the named server.
	LoadTools(ctx context.Context, name string, ops ...tool.Option) ([]*tool.Tool, error)
	// Close closes all created clients.
	Close() error
}

// Load returns a Factory from a configuration file.
func Load(location string, ops ...Option) (Factory, error) {
	cfg, err := LoadConfig(location)
	if err != nil {
		return nil, err
	}
	return NewFactory(cfg, ops...), nil
}

type factory struct {
	cfg *Config
	ops []Option

	byName map[string]*Client
	lock   sync.Mutex
}

// NewFactory creates a new client factory,
// the options are applied to every created client.
func NewFactory(cfg *Config, ops ...Option) Factory {
	return &factory{
		cfg:    cfg,
		ops:    ops,
		byName: make(map[string]*Client),
	}
}

func (f *factory) DefaultClient() (*Client, error) {
	if len(f.cfg.Servers) == 0 {
		return nil, errors.New("no servers configured")
	}
	return f.ClientByName(f.cfg.Servers[0].Name)
}

func (f *factory) ClientByName(name string) (*Client, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if client, ok := f.byName[name]; ok {
		return client, nil
	}

	for _, cfg := range f.cfg.Servers {
		if cfg.Name == name {
			client, err := New(cfg.URL, f.ops...)
			if err != nil {
				return nil, err
			}

			logger.KV(xlog.DEBUG,
				"status", "created_client",
				"name", cfg.Name,
				"url", cfg.URL)

			f.byName[name] = client
			return client, nil
		}
	}
	return nil, errors.Errorf("server not found for name: %s", name)
}

func (f *factory) LoadTools(ctx context.Context, name string, ops ...tool.Option) ([]*tool.Tool, error) {
	var srv *ServerConfig
	for _, cfg := range f.cfg.Servers {
		if cfg.Name == name {
			srv = cfg
			break
		}
	}
	if srv == nil {
		return nil, errors.Errorf("server not found for name: %s", name)
	}

	client, err := f.ClientByName(name)
	if err != nil {
		return nil, err
	}
	return client.LoadToolset(ctx, srv.Toolset, ops...)
}

func (f *factory) Close() error {
	f.lock.Lock()
	defer f.lock.Unlock()

	var errs error
	for _, client := range f.byName {
		if err := client.Close(); err != nil {
			errs = errors.CombineErrors(errs, err)
		}
	}
	return errs
}
