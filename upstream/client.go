package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"

	"pitwall/log"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "pitwall/1.0"
)

// Client issues read requests against one upstream JSON source.
type Client struct {
	name       string
	baseURL    string
	suffix     string
	httpClient *http.Client
	maxRetries uint64
	backoff    func() backoff.BackOff
	logger     *log.Logger
}

type Option func(c *Client)

// WithSuffix appends a fixed suffix (e.g. ".json") to every request path.
func WithSuffix(suffix string) Option {
	return func(c *Client) { c.suffix = suffix }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRetry enables up to max retries for retryable failures.
func WithRetry(max int) Option {
	return func(c *Client) {
		if max > 0 {
			c.maxRetries = uint64(max)
		}
	}
}

// WithBackOff replaces the exponential backoff policy used between retries.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *Client) { c.backoff = f }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:       name,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		backoff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		logger: log.Default().Named(name),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string {
	return c.name
}

// FetchResource requests path and returns the JSON body. Failures are
// reported as *Error matching one of ErrNetwork, ErrRateLimited,
// ErrUnauthorized, ErrNotFound or ErrDecode.
func (c *Client) FetchResource(ctx context.Context, path string) ([]byte, error) {
	var body []byte
	op := func() error {
		var err error
		body, err = c.fetch(ctx, path)
		if err != nil && !Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	if c.maxRetries == 0 {
		if err := op(); err != nil {
			return nil, unwrapPermanent(err)
		}
		return body, nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), c.maxRetries), ctx)
	err := backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		c.logger.Warn("retrying upstream request",
			log.String("path", path),
			log.Duration("wait", wait),
			log.ErrorField(err))
	})
	if err != nil {
		return nil, unwrapPermanent(err)
	}
	return body, nil
}

// FetchResourceAfter waits delay before issuing the request. Sources with
// strict rate limits use it for their high volume endpoints.
func (c *Client) FetchResourceAfter(ctx context.Context, path string, delay time.Duration) ([]byte, error) {
	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, c.newError(path, 0, ErrNetwork, ctx.Err())
		case <-timer.C:
		}
	}
	return c.FetchResource(ctx, path)
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path + c.suffix
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, c.newError(path, 0, ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.newError(path, 0, ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream response",
		log.String("path", path),
		log.Int("status", resp.StatusCode),
		log.Duration("duration", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, c.newError(path, resp.StatusCode, ErrRateLimited, nil)
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, c.newError(path, resp.StatusCode, ErrUnauthorized, nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, c.newError(path, resp.StatusCode, ErrNotFound, nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, c.newError(path, resp.StatusCode, ErrNetwork, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.newError(path, resp.StatusCode, ErrNetwork, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, c.newError(path, resp.StatusCode, ErrDecode,
			fmt.Errorf("invalid json (%d bytes)", len(body)))
	}
	return body, nil
}

func (c *Client) newError(path string, status int, kind, err error) *Error {
	return &Error{Source: c.name, Path: path, StatusCode: status, Kind: kind, Err: err}
}

func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}
