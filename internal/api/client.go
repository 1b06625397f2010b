package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client talks to the item HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
	metrics   *Metrics
	timeout   time.Duration // from WithTimeout; zero when unset
}

const (
	// DefaultBaseURL is the API root used when none is configured.
	DefaultBaseURL = "http://localhost:8000/api"
	// DefaultTimeout bounds every request, including reading the body.
	DefaultTimeout = 5 * time.Second

	defaultUserAgent = "taskflow/0.1"
	contentTypeJSON  = "application/json"
	requestIDHeader  = "X-Request-ID"
	maxBodyBytes     = 4 << 20
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored. It
// applies regardless of its position relative to WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient uses a copy of h for requests. The copy keeps h's own
// timeout when it has one; otherwise DefaultTimeout applies.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			dup := *h
			c.http = &dup
		}
	}
}

// WithLogger attaches a diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records request metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds a Client rooted at baseURL. A blank baseURL selects
// DefaultBaseURL; a value without a scheme is treated as http.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	switch {
	case c.timeout > 0:
		c.http.Timeout = c.timeout
	case c.http.Timeout <= 0:
		c.http.Timeout = DefaultTimeout
	}
	return c, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL.String()
}

// Send issues one request and decodes a successful response body into dest.
// body, when non-nil, is encoded as JSON. Every failure is a *TransportError.
func (c *Client) Send(ctx context.Context, method, p string, body, dest any) error {
	if c == nil {
		return &TransportError{Message: "client is nil"}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Message: fmt.Sprintf("encode request: %v", err), Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	reqURL := c.resolve(p)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return &TransportError{Message: fmt.Sprintf("create request: %v", err), Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)

	log := c.logger.With(
		zap.String("method", method),
		zap.String("path", p),
		zap.String("request_id", requestID),
	)
	log.Debug("api request")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(method, 0, time.Since(start))
		log.Warn("api request failed", zap.Error(err))
		return &TransportError{Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	c.metrics.observe(method, resp.StatusCode, elapsed)
	if err != nil {
		log.Warn("api response unreadable", zap.Int("status", resp.StatusCode), zap.Error(err))
		return &TransportError{StatusCode: resp.StatusCode, Message: err.Error(), Err: err}
	}

	if resp.StatusCode >= 400 {
		msg := detailMessage(data)
		log.Warn("api error response",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", msg),
			zap.Duration("elapsed", elapsed),
		)
		return &TransportError{StatusCode: resp.StatusCode, Message: msg}
	}

	log.Debug("api response", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", elapsed))
	if dest == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &TransportError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("decode response: %v", err),
			Err:        err,
		}
	}
	return nil
}

func (c *Client) resolve(p string) string {
	u := *c.baseURL
	u.Path = path.Join("/", c.baseURL.Path, p)
	return u.String()
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
