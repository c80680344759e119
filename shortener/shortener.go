// Package shortener shrinks token-collection deep links through an external
// link-shortening service.
package shortener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	goquery "github.com/google/go-querystring/query"
	"github.com/grafana/dskit/backoff"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrEmptyResponse    = errors.New("empty response from shortener")
)

// Shortener shortens a URL. Implementations must return the shortened form
// or an error; callers fall back to the original URL on failure.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// Noop passes URLs through unchanged. Used when no shortener is configured.
type Noop struct{}

func (Noop) Shorten(_ context.Context, longURL string) (string, error) {
	return longURL, nil
}

type ClientCfg struct {
	// Endpoint is the shortener API base, e.g. "https://shrtco.example".
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

type shortenQuery struct {
	API    string `url:"api"`
	URL    string `url:"url"`
	Format string `url:"format"`
}

var _ Shortener = &ClientImpl{}

// ClientImpl calls a text-format shortener API with bounded retries on
// transient failures.
type ClientImpl struct {
	client  *http.Client
	cfg     ClientCfg
	logger  log.Logger
	backoff backoff.Config
}

type ClientOption func(*ClientImpl)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *ClientImpl) {
		c.client = client
	}
}

func WithLogger(logger log.Logger) ClientOption {
	return func(c *ClientImpl) {
		c.logger = logger
	}
}

func NewClient(cfg ClientCfg, opts ...ClientOption) *ClientImpl {
	c := &ClientImpl{
		cfg:    cfg,
		logger: log.NewJSONLogger(log.NewSyncWriter(os.Stdout)),
		backoff: backoff.Config{
			MinBackoff: 100 * time.Millisecond,
			MaxBackoff: time.Second,
			MaxRetries: 3,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: cfg.Timeout}
	}

	return c
}

// Shorten implements Shortener.
func (c *ClientImpl) Shorten(ctx context.Context, longURL string) (string, error) {
	v, err := goquery.Values(shortenQuery{API: c.cfg.APIKey, URL: longURL, Format: "text"})
	if err != nil {
		return "", err
	}
	url := strings.TrimSuffix(c.cfg.Endpoint, "/") + "/api?" + v.Encode()

	var lastErr error
	boff := backoff.New(ctx, c.backoff)
	for boff.Ongoing() {
		short, err := c.shortenOnce(ctx, url)
		if err == nil {
			return short, nil
		}
		lastErr = err
		level.Warn(c.logger).Log("msg", "shorten attempt failed", "attempt", boff.NumRetries()+1, "err", err)
		boff.Wait()
	}

	if lastErr == nil {
		lastErr = boff.Err()
	}
	return "", lastErr
}

func (c *ClientImpl) shortenOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")

	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	short := strings.TrimSpace(string(body))
	if short == "" {
		return "", ErrEmptyResponse
	}
	return short, nil
}
