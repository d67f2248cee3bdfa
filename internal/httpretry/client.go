// internal/httpretry/client.go
package httpretry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Status errors that trigger a retry
var (
	ErrRateLimit      = errors.New("rate limit exceeded (429)")
	ErrServerBusy     = errors.New("server busy (503)")
	ErrBadGateway     = errors.New("bad gateway (502)")
	ErrGatewayTimeout = errors.New("gateway timeout (504)")
)

// Config is a retry policy
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Timeout     time.Duration // per attempt; 0 means no client timeout

	// RetryStatus also retries 429/502/503/504 answers. Without it only
	// requests that never reached the server are repeated.
	RetryStatus bool
}

// Health is a single short attempt, so a missing daemon is reported at once
func Health() Config {
	return Config{MaxAttempts: 1, Timeout: 2 * time.Second}
}

// Control suits short idempotent calls to a local daemon
func Control() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   250 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		Timeout:     10 * time.Second,
		RetryStatus: true,
	}
}

// Playback is for requests that block while audio plays. A request the
// daemon already answered is never replayed, it might have been spoken.
func Playback() Config {
	return Config{
		MaxAttempts: 2,
		BaseDelay:   250 * time.Millisecond,
		MaxDelay:    250 * time.Millisecond,
	}
}

// Webhook suits fire-and-forget notifications
func Webhook() Config {
	return Config{
		MaxAttempts: 2,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    time.Second,
		Timeout:     2 * time.Second,
		RetryStatus: true,
	}
}

// Client wraps http.Client with a retry policy
type Client struct {
	client *http.Client
	config Config
}

func New(config Config) *Client {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &Client{
		client: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   2 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConns:        4,
				MaxIdleConnsPerHost: 2,
			},
		},
		config: config,
	}
}

// Do executes req under the client's policy. Bodies must be created with
// NewRequest so they can be replayed.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	delay := c.config.BaseDelay

	for attempt := 1; ; attempt++ {
		clone := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			clone.Body = body
		}

		wait := delay
		resp, err := c.client.Do(clone)
		switch {
		case err != nil:
			if !unreachable(err) {
				return nil, err
			}
			lastErr = err
		case c.config.RetryStatus && shouldRetryStatus(resp.StatusCode):
			if after, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
				wait = min(after, c.config.MaxDelay)
			}
			resp.Body.Close()
			lastErr = statusError(resp.StatusCode)
		default:
			return resp, nil
		}

		if attempt >= c.config.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		delay = min(delay*2, c.config.MaxDelay)
	}

	if c.config.MaxAttempts == 1 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.config.MaxAttempts, lastErr)
}

// unreachable reports transport failures worth another attempt
func unreachable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return !netErr.Timeout()
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// retryAfter parses the delay-seconds form of Retry-After
func retryAfter(v string) (time.Duration, bool) {
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

func shouldRetryStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func statusError(code int) error {
	switch code {
	case http.StatusTooManyRequests:
		return ErrRateLimit
	case http.StatusBadGateway:
		return ErrBadGateway
	case http.StatusServiceUnavailable:
		return ErrServerBusy
	case http.StatusGatewayTimeout:
		return ErrGatewayTimeout
	default:
		return fmt.Errorf("HTTP %d", code)
	}
}

// NewRequest creates a request whose body can be re-read on retry
func NewRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return req, nil
	}
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	req.Body, _ = req.GetBody()
	req.ContentLength = int64(len(body))
	return req, nil
}
