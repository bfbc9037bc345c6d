package tool_test

import (
	"testing"

	"github.com/effective-security/toolbox/api"
	"github.com/effective-security/toolbox/auth"
	"github.com/effective-security/toolbox/llmutils"
	"github.com/effective-security/toolbox/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flightSchema() api.ToolSchema {
	return api.ToolSchema{
		Description: "Search for flights",
		Parameters: []api.ParameterSchema{
			{Name: "origin", Type: "string", Description: "Origin airport", Required: true},
			{Name: "seats", Type: "integer", Description: "Number of seats"},
			{Name: "email", Type: "string", Description: "User email", AuthSources: []string{"my-google-auth"}},
		},
	}
}

func Test_New(t *testing.T) {
	tl, err := tool.New("search_flights", flightSchema(), "https://toolbox.local", nil)
	require.NoError(t, err)

	assert.Equal(t, "search_flights", tl.Name())
	assert.Equal(t, "Search for flights", tl.Description())

	// auth parameters are hidden from the caller schema
	exp := `{
	"properties": {
		"origin": {
			"type": "string",
			"description": "Origin airport"
		},
		"seats": {
			"type": "integer",
			"description": "Number of seats"
		}
	},
	"type": "object",
	"required": [
		"origin"
	]
}`
	assert.Equal(t, exp, llmutils.ToJSONIndent(tl.Parameters()))

	def := tl.Definition()
	assert.Equal(t, "function", def.Type)
	require.NotNil(t, def.Function)
	assert.Equal(t, "search_flights", def.Function.Name)
	assert.Equal(t, "Search for flights", def.Function.Description)

	_, err = tool.New("", flightSchema(), "https://toolbox.local", nil)
	assert.EqualError(t, err, "tool name is required")
}

func Test_New_BoundParams(t *testing.T) {
	tl, err := tool.New("search_flights", flightSchema(), "https://toolbox.local", nil,
		tool.WithBoundParam("origin", "SFO"))
	require.NoError(t, err)

	// bound parameters are hidden from the caller schema
	exp := `{
	"properties": {
		"seats": {
			"type": "integer",
			"description": "Number of seats"
		}
	},
	"type": "object"
}`
	assert.Equal(t, exp, llmutils.ToJSONIndent(tl.Parameters()))
}

func Test_New_InvalidBoundParams(t *testing.T) {
	// binding an authenticated parameter fails in strict mode
	_, err := tool.New("search_flights", flightSchema(), "https://toolbox.local", nil,
		tool.WithBoundParam("email", "a@b.c"))
	assert.EqualError(t, err, `failed to bind parameters of tool "search_flights": parameter email already authenticated and cannot be bound`)

	// binding an unknown parameter fails in strict mode
	_, err = tool.New("search_flights", flightSchema(), "https://toolbox.local", nil,
		tool.WithBoundParam("unknown", 1))
	assert.EqualError(t, err, `failed to bind parameters of tool "search_flights": parameter unknown missing and cannot be bound`)

	// in non-strict mode invalid binds are dropped with a warning
	tl, err := tool.New("search_flights", flightSchema(), "https://toolbox.local", nil,
		tool.WithBoundParam("unknown", 1),
		tool.WithStrict(false))
	require.NoError(t, err)
	assert.Equal(t, "search_flights", tl.Name())
}

func Test_BindParam(t *testing.T) {
	orig, err := tool.New("search_flights", flightSchema(), "https://toolbox.local", nil)
	require.NoError(t, err)

	bound, err := orig.BindParam("origin", "SFO")
	require.NoError(t, err)

	// derivation does not mutate the original
	assert.Contains(t, llmutils.ToJSON(orig.Parameters()), "origin")
	assert.NotContains(t, llmutils.ToJSON(bound.Parameters()), "origin")

	// already bound
	_, err = bound.BindParam("origin", "JFK")
	assert.EqualError(t, err, `parameters "origin" already bound in tool "search_flights"`)

	// binds can be stacked
	bound2, err := bound.BindParam("seats", 2)
	require.NoError(t, err)
	assert.NotContains(t, llmutils.ToJSON(bound2.Parameters()), "seats")
	assert.NotContains(t, llmutils.ToJSON(bound.Parameters()), "origin")
}

func Test_AddAuthTokenSource(t *testing.T) {
	orig, err := tool.New("search_flights", flightSchema(), "https://toolbox.local", nil)
	require.NoError(t, err)

	authed, err := orig.AddAuthTokenSource("my-google-auth", auth.StaticToken("idt"))
	require.NoError(t, err)

	_, err = authed.AddAuthTokenSource("my-google-auth", auth.StaticToken("idt"))
	assert.EqualError(t, err, `auth sources "my-google-auth" already registered in tool "search_flights"`)
}

func Test_GetDescriptions(t *testing.T) {
	tl, err := tool.New("search_flights", flightSchema(), "https://toolbox.local", nil)
	require.NoError(t, err)

	exp := "\n```json\n{\n\t\"Tools\": [\n\t\t{\n\t\t\t\"Name\": \"search_flights\",\n\t\t\t\"Description\": \"Search for flights\"\n\t\t}\n\t]\n}\n```\n"
	assert.Equal(t, exp, tool.GetDescriptions(tl))
}
