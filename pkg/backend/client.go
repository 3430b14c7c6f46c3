// Package backend is the JSON-over-HTTP client for the course backend that
// owns courses, batches, students, results and change requests.
package backend

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

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
	"github.com/noah-isme/campus-portal/pkg/middleware/requestid"
)

const maxErrorBody = 4 << 10

// Observer receives one sample per backend call.
type Observer interface {
	ObserveBackendCall(method, route string, status int, duration time.Duration)
}

// AuthFailureHook runs when the backend answers 401 or 403 for the token on ctx.
type AuthFailureHook func(ctx context.Context, status int)

// StatusError carries the backend's non-2xx answer.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend %s %s: HTTP %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("backend %s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Client talks to the backend with the caller's bearer token.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	logger        *zap.Logger
	observer      Observer
	onAuthFailure AuthFailureHook
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver records call latency, typically into Prometheus.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithAuthFailureHook registers the logout callback.
func WithAuthFailureHook(hook AuthFailureHook) Option {
	return func(c *Client) {
		c.onAuthFailure = hook
	}
}

// New builds a client for baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do performs a request. Errors are *appErrors.Error values wrapping a
// *StatusError when the backend answered.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode backend request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build backend request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		req.Header.Set(requestid.Header(), reqID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, 0, time.Since(start))
		if errors.Is(err, context.Canceled) {
			return err
		}
		c.logger.Warn("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
	}
	defer resp.Body.Close() //nolint:errcheck
	c.observe(method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{Method: method, Path: path, Status: resp.StatusCode, Message: extractMessage(raw)}
		return c.mapStatus(ctx, statusErr)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, "failed to read backend response")
	}
	if err := decode(raw, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, "unexpected backend response")
	}
	return nil
}

func (c *Client) mapStatus(ctx context.Context, statusErr *StatusError) error {
	switch statusErr.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.Info("backend rejected session", zap.Int("status", statusErr.Status), zap.String("path", statusErr.Path))
		if c.onAuthFailure != nil {
			c.onAuthFailure(ctx, statusErr.Status)
		}
		return appErrors.Wrap(statusErr, appErrors.ErrSessionExpired.Code, appErrors.ErrSessionExpired.Status, appErrors.ErrSessionExpired.Message)
	case http.StatusNotFound:
		return appErrors.Wrap(statusErr, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, messageOr(statusErr, appErrors.ErrNotFound.Message))
	case http.StatusConflict:
		return appErrors.Wrap(statusErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, messageOr(statusErr, appErrors.ErrConflict.Message))
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return appErrors.Wrap(statusErr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, messageOr(statusErr, appErrors.ErrValidation.Message))
	default:
		c.logger.Warn("backend error", zap.Int("status", statusErr.Status), zap.String("path", statusErr.Path), zap.String("message", statusErr.Message))
		return appErrors.Wrap(statusErr, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
	}
}

func (c *Client) observe(method, path string, status int, d time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveBackendCall(method, RouteLabel(path), status, d)
}

// IsConflict reports whether err is the backend's 409 answer.
func IsConflict(err error) bool {
	return statusOf(err) == http.StatusConflict
}

// IsAuthFailure reports whether the backend rejected the caller's token.
func IsAuthFailure(err error) bool {
	status := statusOf(err)
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

func statusOf(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}
	return 0
}

func messageOr(statusErr *StatusError, fallback string) string {
	if statusErr.Message != "" {
		return statusErr.Message
	}
	return fallback
}

// decode accepts both bare payloads and {"data": ...} envelopes.
func decode(raw []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Data) > 0 && !bytes.Equal(envelope.Data, []byte("null")) {
			return json.Unmarshal(envelope.Data, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}

func extractMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

// RouteLabel collapses identifier segments so metric labels stay bounded.
func RouteLabel(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return "/"
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if looksLikeID(seg) {
			segments[i] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func looksLikeID(seg string) bool {
	if seg == "" {
		return false
	}
	digits := 0
	for _, r := range seg {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits == len(seg) || (len(seg) >= 12 && digits > 0)
}
