package ari

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/asterisk-go/ari/internal/schema"
)

// ResourceNamespace exposes the operations the schema advertised for one
// resource ("channels", "bridges", ...), e.g. `client.Resource("channels")`.
// This set is exactly what the schema declared — nothing is hand-written.
type ResourceNamespace struct {
	client *Client
	name   string
}

// Operations lists the operation names available on this namespace.
func (r *ResourceNamespace) Operations() []string {
	res := r.client.schema.Resources[r.name]
	if res == nil {
		return nil
	}
	names := make([]string, 0, len(res.Operations))
	for _, op := range res.Operations {
		names = append(names, op.Name)
	}
	return names
}

// Invoke calls one operation on this namespace with the given options.
func (r *ResourceNamespace) Invoke(ctx context.Context, opName string, options Options) (interface{}, error) {
	return r.client.invoke(ctx, r.name, opName, options)
}

// invoke builds a request for a resource/operation name and caller
// options, sends it with HTTP Basic auth, and classifies the result.
func (c *Client) invoke(ctx context.Context, resourceName, opName string, options Options) (interface{}, error) {
	res, ok := c.schema.Resources[resourceName]
	if !ok {
		return nil, fmt.Errorf("ari: unknown resource %q", resourceName)
	}

	var op *schema.Operation
	for i := range res.Operations {
		if res.Operations[i].Name == opName {
			op = &res.Operations[i]
			break
		}
	}
	if op == nil {
		return nil, fmt.Errorf("ari: unknown operation %q on resource %q", opName, resourceName)
	}

	opts := options.copy()

	for _, p := range op.Parameters {
		if p.Required {
			if _, present := opts[p.Name]; !present {
				return nil, fmt.Errorf("ari: %s.%s missing required parameter %q", resourceName, opName, p.Name)
			}
		}
	}

	path := op.PathTemplate
	query := url.Values{}
	body := map[string]interface{}{}
	headers := map[string]string{}

	for _, p := range op.Parameters {
		val, present := opts[p.Name]
		if !present {
			continue
		}
		switch p.Location {
		case schema.ParamPath:
			path = strings.ReplaceAll(path, "{"+p.Name+"}", url.PathEscape(fmt.Sprint(val)))
		case schema.ParamQuery:
			query.Set(p.Name, fmt.Sprint(val))
		case schema.ParamHeader:
			headers[p.Name] = fmt.Sprint(val)
		case schema.ParamBody:
			if p.Variables {
				body["variables"] = val
			} else {
				body[p.Name] = val
			}
		}
	}

	fullURL := c.conn.restBaseURL() + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if len(body) > 0 {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ari: encoding request body for %s.%s: %w", resourceName, opName, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("ari: building request for %s.%s: %w", resourceName, opName, err)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.SetBasicAuth(c.conn.User, c.conn.Secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &HostIsNotReachableError{Op: op.Method, URL: fullURL, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HostIsNotReachableError{Op: op.Method, URL: fullURL, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &OperationError{
			Resource:   resourceName,
			Operation:  opName,
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(respBody),
		}
	}

	return c.buildResult(op.Response, respBody)
}

// extractErrorMessage pulls the "message" field out of a JSON error body,
// falling back to the raw body text (trimmed) when it isn't shaped that
// way. The resulting error string is the server's own text, unaltered, so
// callers can pattern-match on it.
func extractErrorMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var withMessage struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &withMessage); err == nil && withMessage.Message != "" {
		return withMessage.Message
	}
	return trimmed
}

func (c *Client) buildResult(resp schema.Response, body []byte) (interface{}, error) {
	trimmed := strings.TrimSpace(string(body))

	switch resp.Kind {
	case schema.ResponseNone:
		return nil, nil

	case schema.ResponsePrimitive:
		if trimmed == "" || trimmed == "null" {
			return nil, nil
		}
		var v interface{}
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, &ProtocolError{Context: "decoding primitive response", Cause: err}
		}
		return v, nil

	case schema.ResponseModel:
		if trimmed == "" || trimmed == "null" {
			return nil, nil
		}
		var raw map[string]interface{}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, &ProtocolError{Context: "decoding " + resp.Model + " response", Cause: err}
		}
		return c.factory.fromJSON(resp.Model, raw)

	case schema.ResponseList:
		if trimmed == "" || trimmed == "null" {
			return []*Instance{}, nil
		}
		var raws []map[string]interface{}
		if err := json.Unmarshal(body, &raws); err != nil {
			return nil, &ProtocolError{Context: "decoding []" + resp.Model + " response", Cause: err}
		}
		out := make([]*Instance, 0, len(raws))
		for _, raw := range raws {
			inst, err := c.factory.fromJSON(resp.Model, raw)
			if err != nil {
				return nil, &ProtocolError{Context: "promoting " + resp.Model + " list item", Cause: err}
			}
			out = append(out, inst)
		}
		return out, nil

	default:
		return nil, nil
	}
}
