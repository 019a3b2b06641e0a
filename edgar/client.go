// Package edgar provides a rate-governed client for the SEC EDGAR
// public data services: per-company submissions, full-text search,
// daily and quarterly index files, and the filing Atom/RSS feeds.
package edgar

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/filinghawk-systems/filinghawk/common/logging"
	"github.com/filinghawk-systems/filinghawk/common/metrics"
	"github.com/filinghawk-systems/filinghawk/edgar/ratelimit"
)

// Client is the entry point for all operations. It is safe for
// concurrent use; all methods share one rate governor so aggregate
// traffic stays within the configured rate regardless of concurrency.
type Client struct {
	cfg      Config
	http     *http.Client
	governor *ratelimit.Governor
	log      *logging.Logger
	norm     *normalizer

	tickerMu sync.Mutex
	byTicker map[string]uint64
}

// New returns a Client with default settings and the given user agent.
func New(userAgent string) (*Client, error) {
	return NewWithConfig(Config{UserAgent: userAgent})
}

// NewWithConfig returns a Client for cfg. Configuration problems are
// reported here, wrapped in ErrInvalidConfig; no request is ever sent
// from a misconfigured client.
func NewWithConfig(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	gov, err := ratelimit.New(cfg.RatePerSecond, cfg.Burst)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		cfg:      cfg,
		http:     httpClient,
		governor: gov,
		log:      cfg.Logger,
		norm: &normalizer{
			archives: cfg.Endpoints.Archives,
			classify: cfg.Classifier,
		},
	}, nil
}

// Governor exposes the client's rate governor, letting callers that
// issue out-of-band requests share the same budget.
func (c *Client) Governor() *ratelimit.Governor { return c.governor }

// Fetch performs a governed GET against an absolute URL and returns
// the response body. Retries transient failures per the retry policy.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx = logging.WithRequestID(ctx, uuid.NewString()[:8])

	var lastStatus int
	for attempt := 1; ; attempt++ {
		waitStart := time.Now()
		if err := c.governor.Admit(ctx); err != nil {
			return nil, err
		}
		metrics.GovernorWaitSeconds.Observe(time.Since(waitStart).Seconds())

		body, status, err := c.attempt(ctx, url)
		switch {
		case err == nil && status >= 200 && status < 300:
			metrics.RequestsTotal.WithLabelValues("success").Inc()
			metrics.ResponseBytesTotal.Add(float64(len(body)))
			if cerr := checkJSONBody(url, body); cerr != nil {
				metrics.RequestsTotal.WithLabelValues("decode_error").Inc()
				return nil, cerr
			}
			return body, nil

		case err == nil && status == http.StatusNotFound:
			metrics.RequestsTotal.WithLabelValues("not_found").Inc()
			return nil, fmt.Errorf("%w: %s", ErrNotFound, url)

		case err == nil && status == http.StatusTooManyRequests:
			lastStatus = status
			if attempt >= c.cfg.Retry.MaxAttempts {
				metrics.RequestsTotal.WithLabelValues("rate_limited").Inc()
				return nil, fmt.Errorf("%w: %s after %d attempts", ErrRateLimitExceeded, url, attempt)
			}
			delay := c.cfg.Retry.backoff(attempt)
			if ra, ok := retryAfter(body); ok {
				delay = ra
			}
			if err := c.pause(ctx, url, attempt, status, delay); err != nil {
				return nil, err
			}

		case err == nil && status >= 500:
			lastStatus = status
			if attempt >= c.cfg.Retry.MaxAttempts {
				metrics.RequestsTotal.WithLabelValues("server_error").Inc()
				return nil, fmt.Errorf("%w: status %d from %s after %d attempts", ErrServerError, status, url, attempt)
			}
			if err := c.pause(ctx, url, attempt, status, c.cfg.Retry.backoff(attempt)); err != nil {
				return nil, err
			}

		case err == nil:
			// remaining 4xx: caller mistake, never retried
			metrics.RequestsTotal.WithLabelValues("client_error").Inc()
			return nil, &ClientError{Status: status, Payload: body}

		default:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt >= c.cfg.Retry.MaxAttempts {
				metrics.RequestsTotal.WithLabelValues("server_error").Inc()
				return nil, fmt.Errorf("%w: %s: %v (last status %d)", ErrServerError, url, err, lastStatus)
			}
			if perr := c.pause(ctx, url, attempt, 0, c.cfg.Retry.backoff(attempt)); perr != nil {
				return nil, perr
			}
		}
	}
}

// attempt performs a single HTTP GET. A nil error with status set
// means the request completed; the caller classifies the status.
func (c *Client) attempt(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		// stash Retry-After where the retry loop can see it
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			return []byte(ra), resp.StatusCode, nil
		}
		return nil, resp.StatusCode, nil
	}
	return body, resp.StatusCode, nil
}

func (c *Client) pause(ctx context.Context, url string, attempt, status int, delay time.Duration) error {
	metrics.RetriesTotal.Inc()
	c.log.WarnContext(ctx, "retrying request",
		"url", url, "attempt", attempt, "status", status, "delay", delay.String())

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// backoff returns the delay before the attempt following the given
// 1-based attempt number: BaseDelay * Multiplier^(attempt-1), with
// ±JitterFraction applied.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		d *= p.Multiplier
	}
	if p.JitterFraction > 0 {
		d *= 1 + p.JitterFraction*(2*rand.Float64()-1)
	}
	return time.Duration(d)
}

// retryAfter interprets a 429 payload stashed by attempt as a numeric
// Retry-After value in seconds.
func retryAfter(payload []byte) (time.Duration, bool) {
	secs, err := strconv.Atoi(strings.TrimSpace(string(payload)))
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// checkJSONBody guards against the upstream's habit of answering JSON
// paths with an HTML error page and status 200. The body wins over the
// extension: a payload that is actually JSON passes.
func checkJSONBody(url string, body []byte) error {
	path := url
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if !strings.HasSuffix(path, ".json") {
		return nil
	}
	trimmed := strings.TrimLeftFunc(string(body), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return nil
	}
	return decodeErr(fmt.Errorf("expected JSON from %s, got non-JSON payload", url))
}
