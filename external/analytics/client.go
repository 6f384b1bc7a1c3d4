package analytics

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/resilience"
)

const (
	defaultBaseURL      = "http://localhost:5000"
	defaultTimeout      = 30 * time.Second
	defaultMaxBodyBytes = 16 << 20
)

var (
	// ErrTransport covers network errors and non-2xx statuses.
	ErrTransport = crerr.New("analytics server request failed")
	// ErrDecode means the server answered 2xx with a body of the wrong shape.
	ErrDecode = crerr.New("analytics server returned an unexpected payload")
	// ErrInvalidRequest is returned before any network I/O.
	ErrInvalidRequest = crerr.New("invalid analytics request")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = crerr.New("analytics server temporarily unavailable")
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	RateLimitRPS   float64
	MaxBodyBytes   int64
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the match analytics server. Nothing is retried: every
// failure is terminal for the attempt that produced it.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	maxBodyBytes int64
	limiter      *rate.Limiter
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	validate     *validator.Validate
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		maxBodyBytes: maxBody,
		limiter:      limiter,
		logger:       logger.Named("analytics"),
		breaker:      resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		validate:     validator.New(),
	}
}

func (c *Client) BreakerState() resilience.CircuitState {
	return c.breaker.State()
}

func (c *Client) get(ctx context.Context, path string, target any) error {
	return c.do(ctx, http.MethodGet, path, nil, target)
}

func (c *Client) post(ctx context.Context, path string, payload any, target any) error {
	if err := c.validate.StructCtx(ctx, payload); err != nil {
		return crerr.Mark(crerr.Wrapf(err, "validate %s request", path), ErrInvalidRequest)
	}
	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Mark(crerr.Wrapf(err, "marshal %s request", path), ErrInvalidRequest)
	}
	return c.do(ctx, http.MethodPost, path, encoded, target)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, target any) error {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "analytics circuit breaker rejected request", "path", path, "state", c.breaker.State())
		return crerr.Mark(crerr.Wrapf(err, "%s %s", method, path), ErrUnavailable)
	}

	raw, err := c.execute(ctx, method, path, body)
	c.breaker.Record(err != nil && ctx.Err() == nil && isBreakerFailure(err))
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Mark(crerr.Wrapf(err, "decode %s response body=%s", path, abbreviateBody(raw)), ErrDecode)
	}
	return nil
}

func (c *Client) execute(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, crerr.Wrap(err, "rate limit wait")
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, crerr.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "%s %s", method, path), ErrTransport)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "read %s response", path), ErrTransport)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "analytics request non-2xx",
			"method", method,
			"path", path,
			"status_code", resp.StatusCode,
			"duration_ms", time.Since(started).Milliseconds(),
		)
		return nil, crerr.Mark(&StatusError{Path: path, StatusCode: resp.StatusCode, Body: abbreviateBody(raw)}, ErrTransport)
	}

	c.logger.DebugContext(ctx, "analytics request done",
		"method", method,
		"path", path,
		"bytes", len(raw),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return raw, nil
}

// StatusError carries the status of a non-2xx response.
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return "analytics " + e.Path + " status=" + strconv.Itoa(e.StatusCode) + " body=" + e.Body
}

func isBreakerFailure(err error) bool {
	if !crerr.Is(err, ErrTransport) {
		return false
	}
	var statusErr *StatusError
	if crerr.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

func abbreviateBody(raw []byte) string {
	const max = 256
	s := strings.TrimSpace(string(raw))
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
