// Package api defines the wire model of the Toolbox server:
// tool manifests, parameter schemas, and invocation request/response shapes.
package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"sigs.k8s.io/yaml"
)

// ParameterSchema describes a single tool parameter, as declared in the
// manifest. Parameters flagged with AuthSources are populated by the Toolbox
// server from a verified ID token, never by the caller.
type ParameterSchema struct {
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	Description string           `json:"description,omitempty"`
	Required    bool             `json:"required,omitempty"`
	AuthSources []string         `json:"authSources,omitempty"`
	Items       *ParameterSchema `json:"items,omitempty"`
}

// RequiresAuth reports whether the parameter value is supplied by the server
// from an authentication source.
func (p *ParameterSchema) RequiresAuth() bool {
	return len(p.AuthSources) > 0
}

// ToolSchema describes a single tool from the manifest.
type ToolSchema struct {
	Description string            `json:"description"`
	Parameters  []ParameterSchema `json:"parameters"`
}

// ManifestSchema is the document returned by the Toolbox server for
// /api/tool/{name} and /api/toolset/{name} requests.
type ManifestSchema struct {
	ServerVersion string                `json:"serverVersion"`
	Tools         map[string]ToolSchema `json:"tools"`
}

// ErrorResponse is the error payload returned by the Toolbox server.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
}

// Error is an error reported by the Toolbox server, either as a non-success
// HTTP status or as a tool execution error. It is returned to the caller as
// is, so that server-side failures stay distinguishable from client failures.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("toolbox server error: status %d: %s", e.StatusCode, e.Message)
	}
	return "toolbox server error: " + e.Message
}

// NewError builds an Error from a server response body, which can be either
// an ErrorResponse document or plain text.
func NewError(statusCode int, body []byte) *Error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return &Error{StatusCode: statusCode, Message: er.Error}
	}
	return &Error{StatusCode: statusCode, Message: strings.TrimSpace(string(body))}
}

// InvokeResponse is the payload returned by a tool invocation.
// Exactly one of Result or Error is populated.
type InvokeResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// DecodeManifest parses a manifest document. The current server returns JSON;
// earlier releases served YAML, so both are accepted.
func DecodeManifest(bs []byte) (*ManifestSchema, error) {
	m := new(ManifestSchema)
	if err := json.Unmarshal(bs, m); err != nil {
		if yerr := yaml.Unmarshal(bs, m); yerr != nil {
			return nil, errors.Wrap(err, "failed to decode manifest")
		}
	}
	if len(m.Tools) == 0 {
		return nil, errors.New("manifest has no tools")
	}
	return m, nil
}
