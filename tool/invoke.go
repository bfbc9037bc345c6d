package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolbox/api"
	"github.com/effective-security/toolbox/auth"
	"github.com/effective-security/toolbox/llmutils"
	"github.com/effective-security/toolbox/pkg/metricskey"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
)

// ValueProvider produces a bound parameter value at call time.
type ValueProvider func(ctx context.Context) (any, error)

// Invoke calls the tool on the Toolbox server with the given arguments.
// Bound parameters are resolved here and take precedence, the caller can not
// supply values for bound or authenticated parameters.
func (t *Tool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	started := time.Now()
	defer metricskey.PerfToolCall.MeasureSince(started, t.name)

	res, err := t.invoke(ctx, args)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, t.name)
		return nil, err
	}
	metricskey.StatsToolCallsSucceeded.IncrCounter(1, t.name)
	return res, nil
}

func (t *Tool) invoke(ctx context.Context, args map[string]any) (any, error) {
	if missing := t.missingAuthParams(); len(missing) > 0 {
		metricskey.StatsToolAuthFailures.IncrCounter(1, t.name)
		return nil, errors.WithMessagef(ErrAuthRequired,
			"parameters %q of tool %q", strings.Join(missing, ","), t.name)
	}

	payload, err := t.resolveParams(ctx, args)
	if err != nil {
		return nil, err
	}

	headers, err := auth.Headers(ctx, t.authSources)
	if err != nil {
		return nil, err
	}

	body, err := t.post(ctx, t.baseURL+"/api/tool/"+t.name+"/invoke", payload, headers)
	if err != nil {
		return nil, err
	}

	var resp api.InvokeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode invocation response")
	}
	if resp.Error != "" {
		return nil, errors.WithStack(&api.Error{Message: resp.Error})
	}
	if len(resp.Result) == 0 {
		return nil, nil
	}

	var result any
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode invocation result")
	}
	return result, nil
}

// resolveParams merges caller arguments with bound values and coerces them to
// the declared parameter types.
func (t *Tool) resolveParams(ctx context.Context, args map[string]any) (map[string]any, error) {
	payload := make(map[string]any, len(args)+len(t.boundParams))

	for name, val := range args {
		if _, bound := t.boundParams[name]; bound {
			return nil, errors.Newf("parameter %q of tool %q is bound and can not be overridden", name, t.name)
		}
		if paramByName(t.authParams, name) != nil {
			return nil, errors.Newf("parameter %q of tool %q is provided by an auth source", name, t.name)
		}
		p := paramByName(t.visibleParams, name)
		if p == nil {
			return nil, errors.Newf("unknown parameter %q for tool %q", name, t.name)
		}
		cv, err := api.ConvertValue(p, val)
		if err != nil {
			return nil, err
		}
		payload[name] = cv
	}

	for name, val := range t.boundParams {
		if provider, ok := val.(ValueProvider); ok {
			v, err := provider(ctx)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to resolve bound parameter %q", name)
			}
			val = v
		}
		p := paramByName(t.schema.Parameters, name)
		cv, err := api.ConvertValue(p, val)
		if err != nil {
			return nil, err
		}
		payload[name] = cv
	}

	for i := range t.visibleParams {
		p := &t.visibleParams[i]
		if _, ok := payload[p.Name]; !ok && p.Required {
			return nil, errors.Newf("required parameter %q of tool %q is missing", p.Name, t.name)
		}
	}

	return payload, nil
}

func (t *Tool) post(ctx context.Context, url string, payload map[string]any, headers map[string]string) ([]byte, error) {
	js, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal invocation request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(js))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create invocation request")
	}
	req.Header.Set("Content-Type", "application/json")

	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	// ID tokens contain user claims, sending them over plain HTTP exposes
	// them to interception.
	if len(headers) > 0 && !strings.HasPrefix(url, "https://") {
		logger.ContextKV(ctx, xlog.WARNING,
			"tool", t.name,
			"reason", "id_token_over_http",
		)
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	for name, src := range t.clientHeaders {
		value, err := src.Token(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve client header %q", name)
		}
		req.Header.Set(name, value)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"tool", t.name,
		"req_id", reqID,
		"status", "invoke",
	)

	res, err := t.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to invoke tool %q", t.name)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read invocation response for tool %q", t.name)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return nil, errors.WithStack(api.NewError(res.StatusCode, body))
	}
	return body, nil
}

// Call executes the tool with the given JSON input and returns the result as
// a string. The input is cleaned up before parsing, as LLMs wrap arguments in
// backticks or prose.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	if t.callback != nil {
		t.callback.OnToolStart(ctx, t, input)
	}

	args := map[string]any{}
	if strings.TrimSpace(input) != "" {
		if err := ljson.Unmarshal(llmutils.CleanJSON([]byte(input)), &args); err != nil {
			err = errors.WithStack(ErrFailedUnmarshalInput)
			if t.callback != nil {
				t.callback.OnToolError(ctx, t, input, err)
			}
			return "", err
		}
	}

	res, err := t.Invoke(ctx, args)
	if err != nil {
		if t.callback != nil {
			t.callback.OnToolError(ctx, t, input, err)
		}
		return "", err
	}

	out := llmutils.Stringify(res)
	if t.callback != nil {
		t.callback.OnToolEnd(ctx, t, input, out)
	}
	return out, nil
}
