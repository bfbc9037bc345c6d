// Package tool provides callable wrappers for tools hosted on a Toolbox
// server. A Tool is immutable: binding parameters or adding auth token
// sources returns a new instance, already distributed copies are unaffected.
package tool

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolbox/api"
	"github.com/effective-security/toolbox/auth"
	"github.com/effective-security/xlog"
	"github.com/invopop/jsonschema"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolbox", "tool")

var (
	// ErrFailedUnmarshalInput is returned when the tool input is not valid JSON.
	ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")
	// ErrAuthRequired is returned when a tool with auth parameters is invoked
	// without a registered token source.
	ErrAuthRequired = errors.New("tool requires authentication: register the token sources before use")
)

// ITool is a tool for the llm agent to interact with different applications.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	Description() string
	// Parameters returns the parameters definition of the function, to be used in the prompt.
	Parameters() any

	// Call executes the tool with the given input and returns the result.
	// If the tool fails to parse the input, it should return ErrFailedUnmarshalInput error.
	Call(context.Context, string) (string, error)
}

// Callback receives tool call events.
type Callback interface {
	OnToolStart(context.Context, ITool, string)
	OnToolEnd(context.Context, ITool, string, string)
	OnToolError(context.Context, ITool, string, error)
}

// Tool is a remote Toolbox tool bound to the client that loaded it.
type Tool struct {
	name        string
	description string
	schema      api.ToolSchema

	visibleParams []api.ParameterSchema
	authParams    []api.ParameterSchema
	boundParams   map[string]any
	authSources   map[string]auth.TokenSource

	funcParams *jsonschema.Schema

	baseURL       string
	httpClient    *http.Client
	clientHeaders map[string]auth.TokenSource
	callback      Callback
}

// ensure Tool implements the agent tool interface
var _ ITool = (*Tool)(nil)

// New creates a tool from its manifest schema. The base URL and HTTP client
// are shared with the loading client.
func New(name string, schema api.ToolSchema, baseURL string, httpClient *http.Client, ops ...Option) (*Tool, error) {
	cfg := NewConfig(ops...)

	if name == "" {
		return nil, errors.New("tool name is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	t := &Tool{
		name:          name,
		description:   schema.Description,
		schema:        schema,
		boundParams:   map[string]any{},
		authSources:   cfg.AuthSources,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		httpClient:    httpClient,
		clientHeaders: cfg.ClientHeaders,
		callback:      cfg.Callback,
	}
	if t.authSources == nil {
		t.authSources = map[string]auth.TokenSource{}
	}

	for i := range schema.Parameters {
		p := schema.Parameters[i]
		if p.RequiresAuth() {
			t.authParams = append(t.authParams, p)
		} else if _, bound := cfg.BoundParams[p.Name]; !bound {
			t.visibleParams = append(t.visibleParams, p)
		}
	}

	// Reject binds for parameters that are authenticated or missing from the
	// schema. In non-strict mode they are dropped with a warning.
	var problems []string
	for name, val := range cfg.BoundParams {
		switch {
		case paramByName(t.authParams, name) != nil:
			problems = append(problems, "parameter "+name+" already authenticated and cannot be bound")
		case paramByName(schema.Parameters, name) == nil:
			problems = append(problems, "parameter "+name+" missing and cannot be bound")
		default:
			t.boundParams[name] = val
		}
	}
	if len(problems) > 0 {
		if cfg.Strict {
			return nil, errors.Newf("failed to bind parameters of tool %q: %s", name, strings.Join(problems, "; "))
		}
		logger.KV(xlog.WARNING, "tool", name, "reason", "invalid_bound_params", "problems", strings.Join(problems, "; "))
	}

	t.funcParams = api.FunctionSchema(t.visibleParams)

	// Surface missing auth early so callers can register sources before use.
	if missing := t.missingAuthParams(); len(missing) > 0 {
		logger.KV(xlog.WARNING,
			"tool", name,
			"reason", "missing_auth",
			"params", strings.Join(missing, ","),
		)
	}

	return t, nil
}

func paramByName(params []api.ParameterSchema, name string) *api.ParameterSchema {
	for i := range params {
		if params[i].Name == name {
			return &params[i]
		}
	}
	return nil
}

// missingAuthParams returns the auth parameters that have no registered token
// source among their permitted auth sources.
func (t *Tool) missingAuthParams() []string {
	var missing []string
	for i := range t.authParams {
		p := &t.authParams[i]
		found := false
		for _, src := range p.AuthSources {
			if _, ok := t.authSources[src]; ok {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

// Name returns the name of the Tool.
func (t *Tool) Name() string {
	return t.name
}

// Description returns the description of the tool, to be used in the prompt.
func (t *Tool) Description() string {
	return t.description
}

// Parameters returns the schema of the parameters the caller may supply:
// bound and authenticated parameters are hidden.
func (t *Tool) Parameters() any {
	return t.funcParams
}

// Definition returns the tool definition in the function-call shape accepted
// by LLM providers.
func (t *Tool) Definition() *api.Tool {
	return &api.Tool{
		Type: "function",
		Function: &api.FunctionDefinition{
			Name:        t.name,
			Description: t.description,
			Parameters:  t.funcParams,
		},
	}
}

// copyWith derives a new Tool from the full manifest schema with merged auth
// sources and bound parameters. The receiver is not modified.
func (t *Tool) copyWith(sources map[string]auth.TokenSource, bound map[string]any, strict bool) (*Tool, error) {
	mergedSources := make(map[string]auth.TokenSource, len(t.authSources)+len(sources))
	for k, v := range t.authSources {
		mergedSources[k] = v
	}
	for k, v := range sources {
		mergedSources[k] = v
	}
	mergedBound := make(map[string]any, len(t.boundParams)+len(bound))
	for k, v := range t.boundParams {
		mergedBound[k] = v
	}
	for k, v := range bound {
		mergedBound[k] = v
	}

	return New(t.name, t.schema, t.baseURL, t.httpClient,
		WithAuthTokenSources(mergedSources),
		WithBoundParams(mergedBound),
		WithStrict(strict),
		WithCallback(t.callback),
		WithClientHeaders(t.clientHeaders),
	)
}

// AddAuthTokenSources registers token sources for the corresponding
// authentication sources and returns a new Tool instance.
func (t *Tool) AddAuthTokenSources(sources map[string]auth.TokenSource, ops ...Option) (*Tool, error) {
	cfg := NewConfig(ops...)

	var dupes []string
	for name := range sources {
		if _, ok := t.authSources[name]; ok {
			dupes = append(dupes, name)
		}
	}
	if len(dupes) > 0 {
		return nil, errors.Newf("auth sources %q already registered in tool %q", strings.Join(dupes, ","), t.name)
	}

	return t.copyWith(sources, nil, cfg.Strict)
}

// AddAuthTokenSource registers a token source for a given authentication
// source and returns a new Tool instance.
func (t *Tool) AddAuthTokenSource(source string, src auth.TokenSource, ops ...Option) (*Tool, error) {
	return t.AddAuthTokenSources(map[string]auth.TokenSource{source: src}, ops...)
}

// BindParams fixes values for the given parameters and returns a new Tool
// instance. A bound parameter is hidden from the caller and can not be
// overridden at invocation time. The value may be a ValueProvider, resolved
// on every call.
func (t *Tool) BindParams(bound map[string]any, ops ...Option) (*Tool, error) {
	var dupes []string
	for name := range bound {
		if _, ok := t.boundParams[name]; ok {
			dupes = append(dupes, name)
		}
	}
	if len(dupes) > 0 {
		return nil, errors.Newf("parameters %q already bound in tool %q", strings.Join(dupes, ","), t.name)
	}

	cfg := NewConfig(ops...)
	return t.copyWith(nil, bound, cfg.Strict)
}

// BindParam fixes the value of a single parameter and returns a new Tool
// instance.
func (t *Tool) BindParam(name string, value any, ops ...Option) (*Tool, error) {
	return t.BindParams(map[string]any{name: value}, ops...)
}
