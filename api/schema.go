package api

import (
	"encoding/json"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tool is a tool definition that can be passed to an LLM call.
type Tool struct {
	// Type is the type of the tool.
	Type string `json:"type"`
	// Function is the function to call.
	Function *FunctionDefinition `json:"function,omitempty"`
}

// FunctionDefinition is a definition of a function that can be called by the model.
type FunctionDefinition struct {
	// Name is the name of the function.
	Name string `json:"name"`
	// Description is a description of the function.
	Description string `json:"description"`
	// Parameters is the schema of the function parameters.
	Parameters *jsonschema.Schema `json:"parameters,omitempty"`
	// Strict is a flag to indicate if the function should be called strictly.
	Strict bool `json:"strict,omitempty"`
}

// FunctionSchema builds a JSON schema object from the manifest parameter list,
// preserving the declared parameter order.
func FunctionSchema(params []ParameterSchema) *jsonschema.Schema {
	props := orderedmap.New[string, *jsonschema.Schema]()
	var required []string
	for i := range params {
		p := &params[i]
		props.Set(p.Name, parameterSchema(p))
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func parameterSchema(p *ParameterSchema) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:        p.Type,
		Description: p.Description,
	}
	if p.Type == "array" && p.Items != nil {
		s.Items = parameterSchema(p.Items)
	}
	return s
}

// ConvertValue coerces a caller-supplied value to the declared parameter type.
// Numbers arriving from JSON decode as float64 and are narrowed here.
func ConvertValue(p *ParameterSchema, val any) (any, error) {
	// The server does not support omitted optional values, they are sent as
	// empty strings.
	if val == nil {
		return "", nil
	}

	switch p.Type {
	case "string":
		if s, ok := val.(string); ok {
			return s, nil
		}
	case "integer":
		switch v := val.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v == math.Trunc(v) {
				return int64(v), nil
			}
		case json.Number:
			return v.Int64()
		}
	case "number", "float":
		switch v := val.(type) {
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case float32:
			return float64(v), nil
		case float64:
			return v, nil
		case json.Number:
			return v.Float64()
		}
	case "boolean":
		if b, ok := val.(bool); ok {
			return b, nil
		}
	case "array":
		items, ok := anySlice(val)
		if !ok {
			break
		}
		if p.Items == nil {
			return items, nil
		}
		converted := make([]any, len(items))
		for i, item := range items {
			cv, err := ConvertValue(p.Items, item)
			if err != nil {
				return nil, err
			}
			converted[i] = cv
		}
		return converted, nil
	default:
		return nil, errors.Errorf("unsupported parameter type %q for parameter %q", p.Type, p.Name)
	}
	return nil, errors.Errorf("parameter %q expects %s, got %T", p.Name, p.Type, val)
}

func anySlice(val any) ([]any, bool) {
	switch v := val.(type) {
	case []any:
		return v, true
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, true
	case []int:
		items := make([]any, len(v))
		for i, n := range v {
			items[i] = n
		}
		return items, true
	}
	return nil, false
}
