package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	defaultTimeout              = 10 * time.Second
	responseBodyReadLimit int64 = 1 << 20
	errorBodyReadLimit    int64 = 1024
)

var errBaseURLRequired = errors.New("backend base url is required")

// Client talks to the backend REST service that owns products, categories,
// orders and admin accounts.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds the backend client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// envelope is the response shape every backend endpoint shares.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *ListMeta       `json:"meta"`
}

type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

// do executes the request and decodes the envelope. Non-2xx responses are
// mapped onto typed errors; the envelope is still returned so callers can
// inspect the backend message.
func (c *Client) do(ctx context.Context, op string, req request) (*envelope, int, error) {
	if c == nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("marshal %s request", op))
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path, req.query), body)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("build %s request", op))
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := strings.TrimSpace(req.token); token != "" {
		// the backend expects the raw token, without a scheme prefix
		httpReq.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("execute %s request", op))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, resp.StatusCode, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read %s response", op))
	}

	env := &envelope{}
	decodeErr := json.Unmarshal(raw, env)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if decodeErr != nil {
			return nil, resp.StatusCode, pkgerrors.Wrap(pkgerrors.CodeDependency, decodeErr, fmt.Sprintf("decode %s response", op))
		}
		return env, resp.StatusCode, nil
	}

	if decodeErr != nil {
		env = &envelope{}
	}
	return env, resp.StatusCode, statusError(op, resp.StatusCode, env.Message, raw)
}

func statusError(op string, status int, message string, raw []byte) error {
	message = strings.TrimSpace(message)
	cause := fmt.Errorf("status %d: %s", status, truncate(raw))

	switch {
	case status == http.StatusUnauthorized:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, cause, firstNonEmpty(message, "backend rejected credentials"))
	case status == http.StatusForbidden:
		return pkgerrors.Wrap(pkgerrors.CodeForbidden, cause, firstNonEmpty(message, "backend denied access"))
	case status == http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, firstNonEmpty(message, op+" not found"))
	case status >= 400 && status < 500:
		return pkgerrors.Wrap(pkgerrors.CodeRejected, cause, firstNonEmpty(message, op+" rejected")).
			WithDetails(map[string]any{"upstream_status": status})
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, op+" request failed").
			WithDetails(map[string]any{"upstream_status": status})
	}
}

func decodeData[T any](op string, env *envelope) (T, error) {
	var out T
	if env == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s data", op))
	}
	return out, nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func truncate(raw []byte) string {
	if int64(len(raw)) > errorBodyReadLimit {
		raw = raw[:errorBodyReadLimit]
	}
	return strings.TrimSpace(string(raw))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
