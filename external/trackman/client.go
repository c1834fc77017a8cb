package trackman

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/golf-catalog/internal/platform/logging"
	"github.com/riskibarqy/golf-catalog/internal/platform/resilience"
	"github.com/riskibarqy/golf-catalog/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	defaultGraphQLURL = "https://api.trackmanrange.com/graphql"
	defaultPageSize   = 8000
	maxResponseBytes  = 64 << 20
)

var (
	errTrackmanTransient = crerr.New("trackman transient failure")
	errResponseTooLarge  = crerr.New("trackman response too large")
)

type ClientConfig struct {
	HTTPClient     *http.Client
	GraphQLURL     string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	PageSize       int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the course catalog from the Trackman GraphQL API.
type Client struct {
	httpClient     *http.Client
	graphQLURL     string
	maxRetries     int
	retryBackoff   time.Duration
	pageSize       int
	responseLimit  int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 60 * time.Second
	}

	graphQLURL := strings.TrimSpace(cfg.GraphQLURL)
	if graphQLURL == "" {
		graphQLURL = defaultGraphQLURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		graphQLURL:     graphQLURL,
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBackoff:   backoff,
		pageSize:       pageSize,
		responseLimit:  maxResponseBytes,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchCourseList returns one page of courses in feed order. A non-positive take uses the
// configured page size.
func (c *Client) FetchCourseList(ctx context.Context, skip, take int) ([]usecase.ExternalCourse, error) {
	if skip < 0 {
		skip = 0
	}
	if take <= 0 {
		take = c.pageSize
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attribute.Int("trackman.skip", skip), attribute.Int("trackman.take", take))
	}

	var payload coursesListResponse
	if err := c.doGraphQL(ctx, coursesListQuery, map[string]any{"skip": skip, "take": take}, &payload); err != nil {
		return nil, err
	}
	if len(payload.Errors) > 0 {
		return nil, fmt.Errorf("trackman %s", joinGraphQLErrors(payload.Errors))
	}
	if payload.Data == nil || payload.Data.Courses == nil {
		return []usecase.ExternalCourse{}, nil
	}

	out := make([]usecase.ExternalCourse, 0, len(payload.Data.Courses.Items))
	malformed := 0
	for i, raw := range payload.Data.Courses.Items {
		record := decodeCourseItem(skip+i, raw)
		if record.DecodeErr != nil {
			malformed++
			c.logger.WarnContext(ctx, "trackman course item malformed", "index", skip+i, "external_id", record.ExternalID, "error", record.DecodeErr)
		}
		out = append(out, record)
	}
	c.logger.InfoContext(ctx, "trackman course list fetched", "skip", skip, "take", take, "count", len(out), "malformed", malformed)
	return out, nil
}

func (c *Client) doGraphQL(ctx context.Context, query string, variables map[string]any, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "trackman circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: course data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	body, err := encodeRequest(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	out, err, shared := c.flight.Do(string(body), func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, body)
		if c.circuitEnabled {
			if reqErr != nil && isTrackmanCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}
	if shared {
		c.logger.DebugContext(ctx, "trackman request shared with in-flight call")
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode trackman payload: %w", err)
	}
	return nil
}

func encodeRequest(req graphQLRequest) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(req); err != nil {
		return nil, crerr.Wrap(err, "marshal graphql request")
	}
	return append([]byte(nil), bytes.TrimSpace(buf.B)...), nil
}

func (c *Client) executeRequest(ctx context.Context, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphQLURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTrackmanTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, int64(c.responseLimit)+1))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTrackmanTransient, readErr)
			case len(raw) > c.responseLimit:
				return nil, fmt.Errorf("%w: trackman response exceeds %d bytes", errResponseTooLarge, c.responseLimit)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: trackman status=%d body=%s", errTrackmanTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("trackman status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("trackman request failed")
	}
	c.logger.WarnContext(ctx, "trackman request failed", "url", c.graphQLURL, "attempts", strconv.Itoa(c.maxRetries+1), "error", lastErr)
	return nil, lastErr
}

func joinGraphQLErrors(items []graphQLError) string {
	messages := make([]string, 0, len(items))
	for _, item := range items {
		if msg := strings.TrimSpace(item.Message); msg != "" {
			messages = append(messages, msg)
		}
	}
	if len(messages) == 0 {
		return "graphql errors"
	}
	return strings.Join(messages, "; ")
}

func isTrackmanCircuitFailure(err error) bool {
	return err != nil && stderrors.Is(err, errTrackmanTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
