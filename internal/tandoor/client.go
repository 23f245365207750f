// Package tandoor implements a typed client and MCP gateway for the Tandoor
// Recipes REST API: authentication, entity resolution, shopping list
// consolidation, and recipe scoring.
package tandoor

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

	"github.com/olgasafonova/tandoor-mcp-server/internal/infra"
	"github.com/olgasafonova/tandoor-mcp-server/metrics"
)

const (
	// MaxConcurrentRequests limits parallel API calls to avoid overwhelming
	// small self-hosted instances
	MaxConcurrentRequests = 5

	// loginTimeout bounds the token request independently of the general
	// request timeout
	loginTimeout = 10 * time.Second

	// maxListPages bounds pagination walks on list endpoints
	maxListPages = 10

	// listPageSize is requested from paginated list endpoints
	listPageSize = 500
)

// Client handles communication with a Tandoor instance. High-level tool
// methods live in the per-domain files (recipes.go, shopping.go, ...); this
// file holds the shared HTTP plumbing.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *slog.Logger
	auth       *TokenManager
	breaker    *infra.CircuitBreaker

	// Rate limiting - semaphore to control concurrent requests
	semaphore chan struct{}
}

// NewClient creates a new Tandoor API client
func NewClient(config *Config, logger *slog.Logger) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true,
	}

	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		logger:    logger,
		breaker:   infra.NewCircuitBreaker(),
		semaphore: make(chan struct{}, MaxConcurrentRequests),
	}
	c.auth = NewTokenManager(config.AuthToken, c.obtainToken, logger)
	return c
}

// obtainToken requests a fresh API token with username/password.
// Status codes map to distinct failure reasons so the guidance in the
// error message matches what actually went wrong.
func (c *Client) obtainToken(ctx context.Context) (string, error) {
	if !c.config.HasCredentials() {
		return "", &AuthError{
			Code:      AuthCodeInvalidCredentials,
			Operation: "login",
			Reason:    "no credentials configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	payload, err := json.Marshal(tokenRequest{
		Username: c.config.Username,
		Password: c.config.Password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/api-token-auth/", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Operation: "login", Err: err}
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return "", &UpstreamError{Operation: "login", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusBadRequest:
		metrics.RecordAuthFailure("invalid_credentials")
		return "", &AuthError{
			Code:       AuthCodeInvalidCredentials,
			Operation:  "login",
			Reason:     "server rejected the credentials",
			StatusCode: resp.StatusCode,
		}
	case resp.StatusCode == http.StatusUnauthorized:
		metrics.RecordAuthFailure("invalid_credentials")
		return "", &AuthError{
			Code:       AuthCodeInvalidCredentials,
			Operation:  "login",
			Reason:     "bad username or password",
			StatusCode: resp.StatusCode,
		}
	case resp.StatusCode == http.StatusForbidden:
		metrics.RecordAuthFailure("account_disabled")
		return "", &AuthError{
			Code:       AuthCodeAccountDisabled,
			Operation:  "login",
			Reason:     "account disabled or access denied",
			StatusCode: resp.StatusCode,
		}
	case resp.StatusCode == http.StatusNotFound:
		metrics.RecordAuthFailure("wrong_base_url")
		return "", &AuthError{
			Code:       AuthCodeWrongBaseURL,
			Operation:  "login",
			Reason:     "token endpoint not found, TANDOOR_BASE_URL is probably wrong",
			StatusCode: resp.StatusCode,
		}
	case resp.StatusCode >= 500:
		metrics.RecordAuthFailure("server_error")
		return "", &AuthError{
			Code:       AuthCodeServerError,
			Operation:  "login",
			Reason:     fmt.Sprintf("server error %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	default:
		return "", &UpstreamError{
			Operation:  "login",
			StatusCode: resp.StatusCode,
			Detail:     string(body),
		}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", &UpstreamError{Operation: "login", Detail: "unparsable token response", Err: err}
	}
	if tok.Token == "" {
		return "", &UpstreamError{Operation: "login", Detail: "empty token in response"}
	}
	return tok.Token, nil
}

// VerifyAccess confirms the token works by listing keywords. Called once at
// startup so misconfiguration surfaces immediately instead of on first use.
func (c *Client) VerifyAccess(ctx context.Context) error {
	_, err := c.fetchKeywords(ctx, "")
	return err
}

// doRequest performs an authenticated request against the Tandoor API and
// returns the raw response body. It applies the concurrency limiter, the
// circuit breaker, retries for transient failures on idempotent requests,
// and a single token refresh on 401.
func (c *Client) doRequest(ctx context.Context, op, resource, method, path string, query url.Values, payload any) ([]byte, error) {
	if !c.breaker.Allow() {
		stats := c.breaker.Stats()
		return nil, infra.ErrCircuitOpen{
			State:    stats.State,
			RetryAt:  stats.LastFailure.Add(30 * time.Second),
			Failures: stats.ConsecutiveFails,
		}
	}

	// Acquire semaphore slot (rate limiting)
	select {
	case c.semaphore <- struct{}{}:
		defer func() { <-c.semaphore }()
	default:
		metrics.RateLimitWaits.Inc()
		select {
		case c.semaphore <- struct{}{}:
			defer func() { <-c.semaphore }()
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled while waiting for rate limiter: %w", ctx.Err())
		}
	}

	var bodyBytes []byte
	if payload != nil {
		var err error
		bodyBytes, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	reqURL := c.config.BaseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	start := time.Now()
	body, err := c.doAuthedRequest(ctx, op, resource, method, reqURL, bodyBytes)
	metrics.RecordAPICall(resource, strings.ToLower(method), time.Since(start).Seconds(), err == nil, errorCodeOf(err))
	return body, err
}

// doAuthedRequest runs the request with the current token, refreshing it at
// most once on 401.
func (c *Client) doAuthedRequest(ctx context.Context, op, resource, method, reqURL string, bodyBytes []byte) ([]byte, error) {
	cred, err := c.auth.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	for authAttempt := 0; ; authAttempt++ {
		body, status, err := c.attemptRequest(ctx, resource, method, reqURL, bodyBytes, cred.Token)
		if err != nil {
			c.breaker.RecordFailure()
			return nil, &UpstreamError{Operation: op, Err: err}
		}

		if status == http.StatusUnauthorized && authAttempt == 0 {
			cred, err = c.auth.HandleUnauthorized(ctx, cred)
			if err != nil {
				return nil, err
			}
			continue
		}

		if status >= 200 && status < 300 {
			c.breaker.RecordSuccess()
			c.auth.MarkAuthorized()
			return body, nil
		}

		if status >= 500 {
			c.breaker.RecordFailure()
		}
		return nil, c.mapStatus(op, status, body)
	}
}

// attemptRequest executes the HTTP call with retries for transient failures.
// Only idempotent GET requests are retried on network errors and 5xx; any
// method retries on 429 after the advertised delay.
func (c *Client) attemptRequest(ctx context.Context, resource, method, reqURL string, bodyBytes []byte, token string) ([]byte, int, error) {
	maxAttempts := 1
	if method == http.MethodGet {
		maxAttempts = c.config.MaxRetries + 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			metrics.APIRetries.WithLabelValues(resource, strings.ToLower(method)).Inc()
			// Exponential backoff with context awareness
			backoff := time.Duration(attempt*attempt) * 100 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, 0, fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
			}
		}

		// Fresh request per attempt (body reader is consumed)
		var reader io.Reader
		if bodyBytes != nil {
			reader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.config.UserAgent)
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			if maxAttempts > 1 {
				c.logger.Warn("API request failed, retrying",
					"attempt", attempt+1,
					"max_retries", c.config.MaxRetries,
					"error", err)
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		// Handle rate limiting with Retry-After header
		if resp.StatusCode == http.StatusTooManyRequests {
			if wait, ok := retryAfter(resp); ok {
				c.logger.Warn("Rate limited, waiting", "retry_after", wait, "attempt", attempt+1)
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return nil, 0, fmt.Errorf("context cancelled during rate limit wait: %w", ctx.Err())
				}
				continue
			}
		}

		// Retry server errors on idempotent requests
		if resp.StatusCode >= 500 && attempt < maxAttempts-1 {
			lastErr = fmt.Errorf("server error %d", resp.StatusCode)
			c.logger.Warn("API returned server error, retrying",
				"status", resp.StatusCode,
				"attempt", attempt+1)
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}

// retryAfter parses the Retry-After header in seconds
func retryAfter(resp *http.Response) (time.Duration, bool) {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0, false
	}
	var seconds int
	if _, err := fmt.Sscanf(h, "%d", &seconds); err != nil || seconds <= 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

// mapStatus turns a non-2xx response into the matching typed error
func (c *Client) mapStatus(op string, status int, body []byte) error {
	detail := strings.TrimSpace(string(body))
	switch {
	case status == http.StatusBadRequest:
		return &ValidationError{
			Field:   op,
			Message: "the server rejected the request payload",
			Value:   detail,
			Suggestion: `Check the arguments against the tool description.
The server response above usually names the offending field.`,
		}
	case status == http.StatusUnauthorized:
		return &AuthError{
			Code:       AuthCodeTokenExpired,
			Operation:  op,
			Reason:     "request rejected with 401",
			StatusCode: status,
		}
	case status == http.StatusForbidden:
		return &ScopeError{Operation: op, Detail: detail, StatusCode: status}
	case status == http.StatusNotFound:
		return &NotFoundError{Kind: "resource", Ref: op}
	default:
		return &UpstreamError{Operation: op, StatusCode: status, Detail: detail}
	}
}

// errorCodeOf extracts a stable code for metrics labels
func errorCodeOf(err error) string {
	if err == nil {
		return ""
	}
	switch e := err.(type) {
	case *AuthError:
		return string(e.Code)
	case *ScopeError:
		return string(ScopeCodeForbidden)
	case *NotFoundError:
		return string(ResolveCodeNotFound)
	case *ValidationError:
		return string(ValidationCodeInvalid)
	case *UpstreamError:
		if e.StatusCode != 0 {
			return fmt.Sprintf("HTTP_%d", e.StatusCode)
		}
		return "TRANSPORT"
	default:
		return "UNKNOWN"
	}
}

// decodeInto unmarshals a response body, wrapping failures as upstream errors
func decodeInto[T any](op string, body []byte, v *T) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &UpstreamError{Operation: op, Detail: "unparsable response", Err: err}
	}
	return nil
}

// decodeList unmarshals a list response. Tandoor usually wraps lists in a
// pagination envelope but returns a bare array from some endpoints when the
// list is empty, so both shapes are accepted.
func decodeList[T any](op string, body []byte) ([]T, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, &UpstreamError{Operation: op, Detail: "unparsable list response", Err: err}
		}
		return items, nil
	}
	var page paginated[T]
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, &UpstreamError{Operation: op, Detail: "unparsable list response", Err: err}
	}
	return page.Results, nil
}

// getAll walks a paginated list endpoint, following next links up to
// maxListPages.
func getAll[T any](ctx context.Context, c *Client, op, resource, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("page_size", fmt.Sprintf("%d", listPageSize))

	var all []T
	for page := 1; page <= maxListPages; page++ {
		query.Set("page", fmt.Sprintf("%d", page))
		body, err := c.doRequest(ctx, op, resource, http.MethodGet, path, query, nil)
		if err != nil {
			return nil, err
		}

		trimmed := bytes.TrimLeft(body, " \t\r\n")
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var items []T
			if err := json.Unmarshal(body, &items); err != nil {
				return nil, &UpstreamError{Operation: op, Detail: "unparsable list response", Err: err}
			}
			return append(all, items...), nil
		}

		var envelope paginated[T]
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, &UpstreamError{Operation: op, Detail: "unparsable list response", Err: err}
		}
		all = append(all, envelope.Results...)
		if envelope.Next == nil || *envelope.Next == "" || len(envelope.Results) == 0 {
			return all, nil
		}
	}
	return all, nil
}

// normalizeLimit ensures limit is within bounds
func normalizeLimit(limit, defaultVal, maxVal int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit > maxVal {
		return maxVal
	}
	return limit
}
