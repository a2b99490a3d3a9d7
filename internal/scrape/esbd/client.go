package esbd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"esbd-engine/internal/scrape/util"
)

type ClientOptions struct {
	UserAgent string
	Timeout   time.Duration
	Limiter   *util.HostLimiter // optional per-host request ceiling
}

// Client fetches ESBD pages as text.
type Client struct {
	hc      *http.Client
	ua      string
	limiter *util.HostLimiter
}

func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		hc:      &http.Client{Timeout: opts.Timeout},
		ua:      opts.UserAgent,
		limiter: opts.Limiter,
	}
}

// Fetch GETs rawURL and returns the body. Any transport failure or non-2xx
// status is an error.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("esbd build request: %w", err)
	}
	req.Header.Set("User-Agent", c.ua)

	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, rawURL); err != nil {
			return "", err
		}
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("esbd get %s: %w", rawURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("esbd get %s: status %d", rawURL, res.StatusCode)
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("esbd read %s: %w", rawURL, err)
	}
	return string(b), nil
}

// ListPageURL returns the URL of listing page n (1-based).
func ListPageURL(listURL string, n int) string {
	u, err := url.Parse(listURL)
	if err != nil {
		return listURL + "?page=" + strconv.Itoa(n)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String()
}
