package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"folio/internal/models"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiPrefix = "/api"

	// sessionCookie is the cookie the service's login flow issues
	sessionCookie = "session"

	maxErrorBody = 64 * 1024
)

// Client handles communication with the API server
type Client struct {
	// Base URL of the API server
	BaseURL string

	// Session token sent as cookie and bearer token; empty means anonymous
	SessionToken string

	client  *http.Client
	logger  *zap.Logger
	limiter *rate.Limiter

	// timeout bounds JSON calls end to end and uploads between reads
	timeout time.Duration
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithTimeout sets how long a call may hang; 0 disables it.
// JSON calls must complete within d. An upload fails only when its body
// makes no progress, or the response does not arrive, for d.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithRateLimit caps the request rate at rps requests per second; 0 disables it
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new API client. The session token is read from
// tokenStore when one is given.
func NewClient(baseURL string, tokenStore *models.TokenStore, opts ...ClientOption) (*Client, error) {
	token := ""
	if tokenStore != nil {
		storedToken, err := tokenStore.GetToken()
		if err != nil {
			return nil, fmt.Errorf("error reading session token: %w", err)
		}
		token = storedToken
	}

	httpClient, err := createHTTPClientWithCookieJar()
	if err != nil {
		return nil, err
	}

	c := &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		SessionToken: token,
		client:       httpClient,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.seedSession(); err != nil {
		return nil, err
	}

	return c, nil
}

// APIError is a non-2xx response. Message carries the service's
// human-readable "error" field when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// seedSession stores the session token in the cookie jar so a cookie the
// server rotates replaces it instead of being sent alongside it
func (c *Client) seedSession() error {
	if c.SessionToken == "" || c.client.Jar == nil {
		return nil
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", c.BaseURL, err)
	}
	c.client.Jar.SetCookies(u, []*http.Cookie{{Name: sessionCookie, Value: c.SessionToken, Path: "/"}})
	return nil
}

// newRequest builds a request against the API with the session attached
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+apiPrefix+path, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.SessionToken != "" {
		if c.client.Jar == nil {
			req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.SessionToken})
		}
		req.Header.Set("Authorization", "Bearer "+c.SessionToken)
	}

	return req, nil
}

// do sends a JSON call bounded by the client timeout
func (c *Client) do(req *http.Request, out interface{}) error {
	if c.timeout > 0 {
		ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
		defer cancel()
		req = req.WithContext(ctx)
	}
	return c.send(req, out)
}

// send sends req and decodes a 2xx JSON response into out (when non-nil).
// Any other status becomes an *APIError.
func (c *Client) send(req *http.Request, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer safelyCloseResponseBody(c.logger, resp.Body)

	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}

// decodeAPIError reads the {"error": "..."} body of a failed response,
// falling back to the raw body or the status text
func decodeAPIError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(bodyBytes, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	} else if text := strings.TrimSpace(string(bodyBytes)); text != "" && !strings.HasPrefix(text, "<") {
		apiErr.Message = text
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}

// createHTTPClientWithCookieJar creates an HTTP client with a cookie jar
func createHTTPClientWithCookieJar() (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("error creating cookie jar: %w", err)
	}

	return &http.Client{Jar: jar}, nil
}

// safelyCloseResponseBody safely closes a response body
func safelyCloseResponseBody(logger *zap.Logger, body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logger.Warn("failed to close response body", zap.Error(err))
	}
}
