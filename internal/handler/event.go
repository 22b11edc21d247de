package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Event is the subset of an API Gateway proxy event (REST v1 or HTTP v2
// payload) the handler reads.
type Event struct {
	HTTPMethod            string            `json:"httpMethod,omitempty"`
	RequestContext        RequestContext    `json:"requestContext"`
	Body                  json.RawMessage   `json:"body,omitempty"`
	IsBase64Encoded       bool              `json:"isBase64Encoded,omitempty"`
	QueryStringParameters map[string]string `json:"queryStringParameters,omitempty"`
}

// RequestContext carries the v2 method and the gateway request ID.
type RequestContext struct {
	RequestID string      `json:"requestId,omitempty"`
	HTTP      HTTPContext `json:"http"`
}

// HTTPContext is requestContext.http in a v2 event.
type HTTPContext struct {
	Method string `json:"method,omitempty"`
	Path   string `json:"path,omitempty"`
}

// Method returns the request method, preferring the v2 location.
func (e Event) Method() string {
	if m := e.RequestContext.HTTP.Method; m != "" {
		return m
	}
	return e.HTTPMethod
}

// StringBody encodes s as a body that arrived as a JSON string, the way
// API Gateway delivers it.
func StringBody(s string) json.RawMessage {
	b, _ := json.Marshal(s) //nolint:errcheck // strings always marshal
	return b
}

var errBodyNotObject = errors.New("request body must be a JSON object")

// params decodes the event body into request parameters. A body that is a
// JSON string is decoded a second time; an object is used as is; anything
// else counts as no body.
func (e Event) params() (map[string]any, error) {
	raw := bytes.TrimSpace(e.Body)
	if len(raw) == 0 {
		return nil, nil
	}

	switch raw[0] {
	case '{':
		var data map[string]any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("decoding body: %w", err)
		}
		return data, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decoding body: %w", err)
		}
		if e.IsBase64Encoded {
			dec, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("decoding base64 body: %w", err)
			}
			s = string(dec)
		}
		if s == "" {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, fmt.Errorf("decoding body: %w", err)
		}
		switch data := v.(type) {
		case map[string]any:
			return data, nil
		case nil:
			return nil, nil
		default:
			return nil, errBodyNotObject
		}
	default:
		return nil, nil
	}
}

// queryParams converts query string parameters to request parameters.
func (e Event) queryParams() map[string]any {
	data := make(map[string]any, len(e.QueryStringParameters))
	for k, v := range e.QueryStringParameters {
		data[k] = v
	}
	return data
}

// promptParam returns the prompt when it is a non-empty string.
func promptParam(data map[string]any) (string, bool) {
	p, ok := data["prompt"].(string)
	if !ok || p == "" {
		return "", false
	}
	return p, true
}

// maxTokensParam reads max_tokens as an integer. Fractional numbers are
// truncated; numeric strings are parsed.
func maxTokensParam(data map[string]any, def int) (int, error) {
	v, ok := data["max_tokens"]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		switch {
		case math.IsNaN(n) || math.IsInf(n, 0):
			return 0, fmt.Errorf("invalid max_tokens: %v", n)
		case n > math.MaxInt32:
			return math.MaxInt32, nil
		case n < math.MinInt32:
			return math.MinInt32, nil
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("invalid max_tokens: %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("invalid max_tokens: %v", v)
	}
}
