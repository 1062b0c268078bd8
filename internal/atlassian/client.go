package atlassian

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ylchen07/jflow/internal/auth"
	"github.com/ylchen07/jflow/internal/config"
)

// DefaultTimeout bounds every Jira request.
const DefaultTimeout = 30 * time.Second

// Client sends JSON requests to a Jira site. Paths are relative to the site root, so
// callers pass "/rest/api/2/...".
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout replaces DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient constructs a Client for base authenticating with creds.
func NewClient(base string, creds config.ServiceCredentials, logger *slog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(base) == "" {
		return nil, fmt.Errorf("atlassian: base URL required")
	}

	parsed, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("atlassian: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("atlassian: base url %q must be absolute", base)
	}

	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: auth.NewTransport(nil, creds),
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// HTTPClient returns the authenticated HTTP client, for sharing with other API clients.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// NewRequest builds a request for path with optional query parameters. A non-nil body is
// encoded as JSON without HTML escaping so issue text reaches Jira unchanged.
func (c *Client) NewRequest(ctx context.Context, method, path string, query map[string]string, body any) (*http.Request, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")

	if len(query) > 0 {
		q := make(url.Values, len(query))
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	var data []byte
	if body != nil {
		buf := new(bytes.Buffer)
		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(body); err != nil {
			return nil, fmt.Errorf("atlassian: encode body: %w", err)
		}
		data = buf.Bytes()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("atlassian: new request: %w", err)
	}
	if data == nil {
		req.Body = http.NoBody
		req.ContentLength = 0
		return req, nil
	}

	req.Header.Set("Content-Type", "application/json")
	if c.logger.Enabled(ctx, slog.LevelDebug) {
		c.logger.Debug("jira payload",
			slog.String("method", method),
			slog.String("path", u.Path),
			slog.String("body", strings.TrimSpace(string(data))))
	}
	return req, nil
}

// Do executes req and decodes a JSON response into out when out is non-nil.
// Non-2xx responses come back as *Error.
func (c *Client) Do(req *http.Request, out any) error {
	res, err := c.send(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return parseError(res)
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("atlassian: decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// Send executes req and reports only the status code; interpreting it is left to the
// caller. The body is drained and closed.
func (c *Client) Send(req *http.Request) (int, error) {
	res, err := c.send(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return res.StatusCode, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	started := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("jira request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Any("error", err))
		return nil, fmt.Errorf("atlassian: %s %s: %w", req.Method, req.URL.Path, err)
	}
	c.logger.Debug("jira request",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", res.StatusCode),
		slog.Duration("elapsed", time.Since(started)))
	return res, nil
}

// SetTransport replaces the HTTP transport; nil is ignored.
func (c *Client) SetTransport(rt http.RoundTripper) {
	if rt == nil {
		return
	}
	c.httpClient.Transport = rt
}
