package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang/glog"
	"github.com/google/uuid"
)

// FallbackErrorMessage is used when a failed response names no error
const FallbackErrorMessage = "Request failed"

// RequestError is the single failure kind of the API client.
// StatusCode is 0 when no usable HTTP response was received.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// APIClient talks JSON to the dashboard backend
type APIClient struct {
	baseURL string
	http    *resty.Client
}

// NewAPIClient creates a client for baseURL. A zero timeout means requests
// wait as long as the context allows.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	c := resty.New().
		SetLogger(glogAdapter{}).
		SetRetryCount(0)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    c,
	}
}

// BaseURL returns the backend root the client is bound to
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Do sends one request and returns the parsed JSON body.
// The body is parsed whatever the status; a non-2xx status becomes a
// RequestError carrying the body's "error" or "message" field.
func (c *APIClient) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	requestID := uuid.NewString()
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("X-Request-ID", requestID)

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &RequestError{Method: method, Path: path, Message: fmt.Sprintf("failed to encode request: %v", err), Err: err}
		}
		req.SetBody(b)
	}

	glog.V(2).Infof("[API] %s %s request_id=%s", method, path, requestID)

	resp, err := req.Execute(method, c.baseURL+path)
	if err != nil {
		return nil, &RequestError{Method: method, Path: path, Message: err.Error(), Err: err}
	}

	raw := resp.Body()
	if !json.Valid(raw) {
		err := fmt.Errorf("invalid JSON response from %s %s (status=%d)", method, path, resp.StatusCode())
		return nil, &RequestError{Method: method, Path: path, Message: err.Error(), Err: err}
	}

	glog.V(2).Infof("[API] %s %s -> %d (%s)", method, path, resp.StatusCode(), resp.Time())

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &RequestError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Message:    errorMessage(raw),
		}
	}

	return json.RawMessage(raw), nil
}

// Get issues a bodyless GET
func (c *APIClient) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST with a JSON body
func (c *APIClient) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Count fetches a list endpoint and returns how many entries it holds
func (c *APIClient) Count(ctx context.Context, path string) (int, error) {
	raw, err := c.Get(ctx, path)
	if err != nil {
		return 0, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0, &RequestError{Method: http.MethodGet, Path: path, StatusCode: http.StatusOK, Message: fmt.Sprintf("expected a JSON list from %s", path), Err: err}
	}
	return len(items), nil
}

// errorMessage picks the message of a failed response the same way the
// dashboard always has: "error" if truthy, then "message", then a fallback.
// The chosen value is turned into text with JavaScript's String() rules.
func errorMessage(raw []byte) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return FallbackErrorMessage
	}
	if v := body["error"]; truthy(v) {
		return jsString(v)
	}
	if v := body["message"]; truthy(v) {
		return jsString(v)
	}
	return FallbackErrorMessage
}

// truthy follows JavaScript truthiness for decoded JSON; empty arrays and
// objects count as true
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}

// jsString renders a decoded JSON value the way String(value) does in a browser
func jsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return jsNumber(t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = jsString(item)
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// jsNumber formats f like Number.prototype.toString
func jsNumber(f float64) string {
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

// glogAdapter routes resty's own diagnostics to glog
type glogAdapter struct{}

func (glogAdapter) Errorf(format string, v ...interface{}) { glog.Errorf("[API] "+format, v...) }
func (glogAdapter) Warnf(format string, v ...interface{})  { glog.Warningf("[API] "+format, v...) }
func (glogAdapter) Debugf(format string, v ...interface{}) { glog.V(3).Infof("[API] "+format, v...) }
