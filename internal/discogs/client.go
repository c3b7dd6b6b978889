// Package discogs is the thin I/O adapter over the Discogs marketplace API.
// This file implements the seller-inventory client: it walks the paginated
// /users/{seller}/inventory endpoint and exposes the result as one flattened
// sequence, so callers never see pages.
//
// Error taxonomy (checked with errors.Is):
//   - ErrAuth:           the token was rejected (401)
//   - ErrSellerNotFound: the seller username does not exist (404)
//   - ErrRateLimited:    429 persisted beyond the bounded in-pass retries
//   - anything else:     network failures and unexpected statuses
//
// Any page failure fails the whole fetch. A partial snapshot must never be
// mistaken for a complete one, because the sync pass treats absence from a
// complete snapshot as a removal trigger.
package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Sentinel errors surfaced to the sync layer.
var (
	ErrAuth           = errors.New("discogs: authentication failed")
	ErrSellerNotFound = errors.New("discogs: seller not found")
	ErrRateLimited    = errors.New("discogs: rate limited")
)

const (
	defaultBaseURL  = "https://api.discogs.com"
	defaultPageSize = 100
	// rateLimitRetries bounds in-pass retries of a 429 page before the whole
	// fetch escalates to ErrRateLimited.
	rateLimitRetries = 2
	rateLimitBackoff = 30 * time.Second
)

// Client fetches a seller's marketplace inventory. The zero value is not
// usable; construct with NewClient.
type Client struct {
	baseURL   string
	token     string
	seller    string
	userAgent string

	httpc *http.Client
	// pacer throttles page requests to stay under the documented
	// 60 requests/minute authenticated budget.
	pacer *rate.Limiter

	pageSize int
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, used by tests.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithHTTPClient substitutes the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpc = h } }

// WithPageSize overrides the per-page item count (1..100).
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n >= 1 && n <= 100 {
			c.pageSize = n
		}
	}
}

// WithPageInterval replaces the default one-request-per-second pacing.
// Tests pass rate.Inf to disable throttling.
func WithPageInterval(limit rate.Limit) Option {
	return func(c *Client) { c.pacer = rate.NewLimiter(limit, 1) }
}

// NewClient constructs a Client for one seller identity.
func NewClient(token, seller, userAgent string, opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		token:     token,
		seller:    seller,
		userAgent: userAgent,
		httpc:     &http.Client{Timeout: 15 * time.Second},
		pacer:     rate.NewLimiter(rate.Every(time.Second), 1),
		pageSize:  defaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchInventory returns the seller's complete "For Sale" listing set,
// flattened across pages. The context bounds the whole fetch, including
// rate-limit backoff waits; callers should pass a deadline.
func (c *Client) FetchInventory(ctx context.Context) ([]RawListing, error) {
	var all []RawListing

	page := 1
	for {
		pg, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		all = append(all, pg.Listings...)

		if pg.Pagination.Pages == 0 || page >= pg.Pagination.Pages || len(pg.Listings) == 0 {
			return all, nil
		}
		page++
	}
}

// fetchPage retrieves one inventory page, retrying 429 responses a bounded
// number of times with backoff.
func (c *Client) fetchPage(ctx context.Context, page int) (*inventoryPage, error) {
	for attempt := 0; ; attempt++ {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		pg, retryAfter, err := c.doPage(ctx, page)
		if err == nil {
			return pg, nil
		}
		if !errors.Is(err, ErrRateLimited) || attempt >= rateLimitRetries {
			return nil, err
		}

		wait := rateLimitBackoff
		if retryAfter > 0 {
			wait = retryAfter
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) doPage(ctx context.Context, page int) (*inventoryPage, time.Duration, error) {
	q := url.Values{}
	q.Set("status", "For Sale")
	q.Set("per_page", strconv.Itoa(c.pageSize))
	q.Set("page", strconv.Itoa(page))
	q.Set("sort", "listed")
	q.Set("sort_order", "desc")

	u := fmt.Sprintf("%s/users/%s/inventory?%s", c.baseURL, url.PathEscape(c.seller), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.discogs.v2.discogs+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Discogs token="+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var pg inventoryPage
		if err := json.NewDecoder(io.LimitReader(resp.Body, 16<<20)).Decode(&pg); err != nil {
			return nil, 0, fmt.Errorf("decode inventory page: %w", err)
		}
		return &pg, 0, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, 0, ErrAuth
	case http.StatusNotFound:
		return nil, 0, fmt.Errorf("%w: %q", ErrSellerNotFound, c.seller)
	case http.StatusTooManyRequests:
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), ErrRateLimited
	default:
		return nil, 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

// parseRetryAfter interprets a Retry-After header given in seconds; 0 means
// "use the default backoff".
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
