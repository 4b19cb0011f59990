package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/futsalhub/clubadmin/internal/constants"
	"github.com/futsalhub/clubadmin/internal/domain"
	"github.com/futsalhub/clubadmin/internal/logging"
	"github.com/futsalhub/clubadmin/internal/ratelimiting"
	"github.com/futsalhub/clubadmin/internal/reporting"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type backendMetricsCollection struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
}

func setupBackendMetrics(meter metric.Meter) (backendMetricsCollection, error) {
	requestCount, err := meter.Int64Counter("backend/request_count")
	if err != nil {
		return backendMetricsCollection{}, fmt.Errorf("failed to create request count metric: %w", err)
	}

	requestDuration, err := meter.Float64Histogram(
		"backend/request_duration_seconds",
		metric.WithUnit("s"),
	)
	if err != nil {
		return backendMetricsCollection{}, fmt.Errorf("failed to create request duration metric: %w", err)
	}

	return backendMetricsCollection{
		requestCount:    requestCount,
		requestDuration: requestDuration,
	}, nil
}

// Client talks to the club backend. All responses are wrapped in the
// {success, message, data, timestamp, errorCode} envelope; Client unwraps it
// and turns failures into domain errors:
//
//   - domain.ErrUnauthorized for 401, after running the OnUnauthorized hooks
//   - domain.ErrNotFound for 404
//   - domain.ErrTemporarilyUnavailable for transport errors, 429 and 5xx
//   - *APIError (matching domain.ErrRejected) for anything else the backend refused
type Client struct {
	httpClient HttpClient
	baseURL    string
	limiter    ratelimiting.RequestRateLimiter
	times      timeCodec
	nowFunc    func() time.Time

	mu             sync.RWMutex
	accessToken    string
	onUnauthorized []func(ctx context.Context)

	metrics backendMetricsCollection
	tracer  trace.Tracer
}

type Option func(*Client)

// WithLocation sets the zone of the backend's local timestamps.
func WithLocation(location *time.Location) Option {
	return func(c *Client) {
		c.times = timeCodec{location: location}
	}
}

func WithNowFunc(nowFunc func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = nowFunc
	}
}

func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = token
	}
}

// WithRateLimiter paces requests before they are sent.
func WithRateLimiter(limiter ratelimiting.RequestRateLimiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

func NewClient(httpClient HttpClient, baseURL string, opts ...Option) (*Client, error) {
	const name = "clubadmin/adapters/backend"

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", baseURL)
	}

	metrics, err := setupBackendMetrics(otel.Meter(name))
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(parsed.String(), "/"),
		times:      timeCodec{location: time.Local},
		nowFunc:    time.Now,
		metrics:    metrics,
		tracer:     otel.Tracer(name),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *Client) HasAccessToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken != ""
}

// OnUnauthorized registers fn to run whenever the backend answers 401.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *Client) unauthorized(ctx context.Context) {
	c.mu.RLock()
	hooks := append([]func(context.Context){}, c.onUnauthorized...)
	c.mu.RUnlock()

	for _, hook := range hooks {
		hook(ctx)
	}
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
	ErrorCode string          `json:"errorCode"`
}

type request struct {
	// Span name, e.g. "Backend.ListBadges"
	operation   string
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

func jsonRequest(operation, method, path string, payload any) (request, error) {
	r := request{operation: operation, method: method, path: path}
	if payload == nil {
		return r, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("failed to encode %s request: %w", operation, err)
	}
	r.body = body
	r.contentType = "application/json"
	return r, nil
}

// do sends r and returns the data field of a successful envelope.
func (c *Client) do(ctx context.Context, r request) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, r.operation, trace.WithAttributes(
		attribute.String("http.request.method", r.method),
		attribute.String("backend.path", r.path),
	))
	defer span.End()

	data, err := c.roundTrip(ctx, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return data, err
}

func (c *Client) roundTrip(ctx context.Context, r request) (json.RawMessage, error) {
	logger := logging.FromContext(ctx).With(slog.String("operation", r.operation))

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		err := fmt.Errorf("failed to create request: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	req.Header.Set("User-Agent", constants.USER_AGENT)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(req); err != nil {
			logger.WarnContext(ctx, "Did not send request due to rate limiting", "error", err.Error())
			return nil, fmt.Errorf("%w: %w", domain.ErrTemporarilyUnavailable, err)
		}
	}

	start := c.nowFunc()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request %s %s cancelled: %w", r.method, r.path, ctx.Err())
		}
		err := fmt.Errorf("%w: failed to send request: %w", domain.ErrTemporarilyUnavailable, err)
		reporting.Report(ctx, err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err := fmt.Errorf("%w: failed to read response body: %w", domain.ErrTemporarilyUnavailable, err)
		reporting.Report(ctx, err)
		return nil, err
	}

	duration := c.nowFunc().Sub(start)
	attributes := metric.WithAttributes(
		attribute.String("operation", r.operation),
		attribute.String("status_code", strconv.Itoa(resp.StatusCode)),
	)
	c.metrics.requestCount.Add(ctx, 1, attributes)
	c.metrics.requestDuration.Record(ctx, duration.Seconds(), attributes)
	logger.InfoContext(ctx, "Backend request completed", "status", resp.StatusCode, "duration", duration.String())

	return c.interpret(ctx, r, resp.StatusCode, data)
}

func (c *Client) interpret(ctx context.Context, r request, statusCode int, data []byte) (json.RawMessage, error) {
	var env envelope
	envErr := json.Unmarshal(data, &env)

	switch {
	case statusCode == http.StatusUnauthorized:
		c.unauthorized(ctx)
		return nil, fmt.Errorf("%w: %s %s", domain.ErrUnauthorized, r.method, r.path)
	case statusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: backend returned status %d for %s %s", domain.ErrTemporarilyUnavailable, statusCode, r.method, r.path)
	case statusCode >= 500:
		err := fmt.Errorf("%w: backend returned status %d for %s %s", domain.ErrTemporarilyUnavailable, statusCode, r.method, r.path)
		reporting.Report(ctx, err, map[string]string{"body": truncate(data)})
		return nil, err
	case statusCode < 200 || statusCode >= 300:
		apiErr := &APIError{StatusCode: statusCode, Message: http.StatusText(statusCode)}
		if envErr == nil {
			if env.Message != "" {
				apiErr.Message = env.Message
			}
			apiErr.Code = env.ErrorCode
		}
		if statusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %w", domain.ErrNotFound, apiErr)
		}
		return nil, apiErr
	}

	if len(bytes.TrimSpace(data)) == 0 {
		// 204 and friends; callers expecting data fail in decodeData
		return nil, nil
	}
	if envErr != nil {
		err := fmt.Errorf("failed to parse response envelope for %s %s: %w", r.method, r.path, envErr)
		reporting.Report(ctx, err, map[string]string{
			"status": strconv.Itoa(statusCode),
			"body":   truncate(data),
		})
		return nil, err
	}
	if !env.Success {
		return nil, &APIError{StatusCode: statusCode, Code: env.ErrorCode, Message: env.Message}
	}
	return env.Data, nil
}

func truncate(data []byte) string {
	const limit = 2048
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeData[T any](ctx context.Context, r request, data json.RawMessage) (T, error) {
	var value T
	if isNull(data) {
		err := fmt.Errorf("missing data in %s response", r.operation)
		reporting.Report(ctx, err)
		return value, err
	}
	if err := json.Unmarshal(data, &value); err != nil {
		err := fmt.Errorf("failed to decode %s response: %w", r.operation, err)
		reporting.Report(ctx, err, map[string]string{"data": truncate(data)})
		return value, err
	}
	return value, nil
}

// fetch sends r and decodes the envelope data into T.
func fetch[T any](ctx context.Context, c *Client, r request) (T, error) {
	data, err := c.do(ctx, r)
	if err != nil {
		var empty T
		return empty, err
	}
	return decodeData[T](ctx, r, data)
}

func get[T any](ctx context.Context, c *Client, operation, path string, query url.Values) (T, error) {
	return fetch[T](ctx, c, request{operation: operation, method: http.MethodGet, path: path, query: query})
}

func send[T any](ctx context.Context, c *Client, operation, method, path string, payload any) (T, error) {
	r, err := jsonRequest(operation, method, path, payload)
	if err != nil {
		var empty T
		return empty, err
	}
	return fetch[T](ctx, c, r)
}

// exec sends a request whose response carries no data.
func (c *Client) exec(ctx context.Context, operation, method, path string, payload any) error {
	r, err := jsonRequest(operation, method, path, payload)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, r)
	return err
}

// list decodes a list that the backend sends either as a bare array or as
// the content of a page.
func list[T any](ctx context.Context, c *Client, operation, path string, query url.Values) ([]T, error) {
	r := request{operation: operation, method: http.MethodGet, path: path, query: query}
	data, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	if isNull(data) {
		return []T{}, nil
	}

	trimmed := bytes.TrimSpace(data)
	if trimmed[0] == '{' {
		page, err := decodeData[pageWire[T]](ctx, r, data)
		if err != nil {
			return nil, err
		}
		if page.Content == nil {
			return []T{}, nil
		}
		return page.Content, nil
	}

	items, err := decodeData[[]T](ctx, r, data)
	if err != nil {
		return nil, err
	}
	if items == nil {
		return []T{}, nil
	}
	return items, nil
}

func pageQuery(page, size int) url.Values {
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

func idPath(format string, ids ...int64) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}

var errMissingField = errors.New("missing field")
