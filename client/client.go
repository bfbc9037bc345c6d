// Package client loads tools and toolsets from a Toolbox server.
package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolbox/api"
	"github.com/effective-security/toolbox/auth"
	"github.com/effective-security/toolbox/pkg/metricskey"
	"github.com/effective-security/toolbox/store"
	"github.com/effective-security/toolbox/tool"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolbox", "client")

// Client is a Toolbox server client. It is safe for concurrent use.
// Close releases the connections of the HTTP client the Client owns,
// a client supplied via WithHTTPClient is left to its owner.
type Client struct {
	baseURL    string
	host       string
	httpClient *http.Client
	ownsClient bool
	closeOnce  sync.Once

	manifests   store.ManifestStore
	manifestTTL time.Duration

	clientHeaders      map[string]auth.TokenSource
	toolCallback       tool.Callback
	defaultToolOptions []tool.Option
}

// New creates a Client for the Toolbox server at the given base URL.
func New(baseURL string, ops ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid server URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, errors.Newf("invalid server URL: %q", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		host:       u.Host,
		ownsClient: true,
	}
	for _, op := range ops {
		op(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c, nil
}

// Close releases the network resources of the owned HTTP client.
// It is safe to call multiple times and from concurrent goroutines.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		if c.ownsClient {
			c.httpClient.CloseIdleConnections()
		}
	})
	return nil
}

// LoadTool loads the tool with the given name from the Toolbox server.
// The options affect only the returned tool.
func (c *Client) LoadTool(ctx context.Context, name string, ops ...tool.Option) (*tool.Tool, error) {
	if name == "" {
		return nil, errors.New("tool name is required")
	}
	manifest, err := c.loadManifest(ctx, "tool", name)
	if err != nil {
		return nil, err
	}
	ts, ok := manifest.Tools[name]
	if !ok {
		return nil, errors.Newf("tool %q not found in manifest", name)
	}
	return c.newTool(name, ts, ops)
}

// LoadToolset loads the tools of the named toolset from the Toolbox server,
// or all tools when the name is empty. The options affect only the returned
// tools.
func (c *Client) LoadToolset(ctx context.Context, name string, ops ...tool.Option) ([]*tool.Tool, error) {
	manifest, err := c.loadManifest(ctx, "toolset", name)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(manifest.Tools))
	for toolName := range manifest.Tools {
		names = append(names, toolName)
	}
	sort.Strings(names)

	tools := make([]*tool.Tool, 0, len(names))
	for _, toolName := range names {
		t, err := c.newTool(toolName, manifest.Tools[toolName], ops)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, nil
}

func (c *Client) newTool(name string, ts api.ToolSchema, ops []tool.Option) (*tool.Tool, error) {
	all := make([]tool.Option, 0, len(c.defaultToolOptions)+len(ops)+2)
	all = append(all, c.defaultToolOptions...)
	if c.toolCallback != nil {
		all = append(all, tool.WithCallback(c.toolCallback))
	}
	if len(c.clientHeaders) > 0 {
		all = append(all, tool.WithClientHeaders(c.clientHeaders))
	}
	all = append(all, ops...)
	return tool.New(name, ts, c.baseURL, c.httpClient, all...)
}

func (c *Client) loadManifest(ctx context.Context, kind, name string) (*api.ManifestSchema, error) {
	key := kind + "/" + name
	if c.manifests != nil {
		m, err := c.manifests.Get(ctx, key)
		if err != nil {
			logger.ContextKV(ctx, xlog.WARNING, "reason", "manifest_store_get", "key", key, "err", err.Error())
		} else if m != nil {
			return m, nil
		}
	}

	started := time.Now()
	m, err := c.fetchManifest(ctx, c.baseURL+"/api/"+kind+"/"+name)
	metricskey.PerfManifestLoad.MeasureSince(started, c.host)
	if err != nil {
		metricskey.StatsToolboxLoadsFailed.IncrCounter(1, c.host)
		return nil, err
	}
	metricskey.StatsToolboxLoadsSucceeded.IncrCounter(1, c.host)

	if c.manifests != nil {
		if err := c.manifests.Set(ctx, key, m, c.manifestTTL); err != nil {
			logger.ContextKV(ctx, xlog.WARNING, "reason", "manifest_store_set", "key", key, "err", err.Error())
		}
	}
	return m, nil
}

func (c *Client) fetchManifest(ctx context.Context, url string) (*api.ManifestSchema, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create manifest request")
	}
	for name, src := range c.clientHeaders {
		value, err := src.Token(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve client header %q", name)
		}
		req.Header.Set(name, value)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch manifest")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manifest response")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return nil, errors.WithStack(api.NewError(res.StatusCode, body))
	}
	return api.DecodeManifest(body)
}
