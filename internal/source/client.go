package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Default client settings. The User-Agent mirrors a common browser because
// the source serves its JSON search endpoint to browser traffic.
const (
	// DefaultBaseURL is the source's search endpoint.
	DefaultBaseURL = "https://www.petfinder.com/search/"

	// DefaultSourceName labels records fetched through this client.
	DefaultSourceName = "petfinder"

	// DefaultUserAgent is the User-Agent sent with every request.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

	// DefaultPageSize is the per-page record limit requested from the
	// source.
	DefaultPageSize = 100

	// DefaultRequestTimeout bounds a single page fetch when the caller
	// supplies no http.Client of its own.
	DefaultRequestTimeout = 30 * time.Second

	// maxBodySize caps how much of a response body is read. A page of
	// listings is far below this; the limit guards against a misbehaving
	// endpoint streaming unbounded data.
	maxBodySize = 10 * 1024 * 1024
)

// Client fetches listing pages from the external source. It is stateless
// between calls apart from the shared http.Client's connection pool, so a
// single Client may serve concurrent searches.
type Client struct {
	httpClient *http.Client
	baseURL    string
	name       string
	userAgent  string
	headers    map[string]string
	pageSize   int
	retry      RetryPolicy
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying http.Client. Tests inject clients
// pointed at httptest servers through this.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the search endpoint URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithSourceName overrides the provider label stamped on fetched records.
func WithSourceName(name string) Option {
	return func(c *Client) {
		c.name = name
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHeaders adds extra headers to every request, e.g. from a source
// profile in the config file.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) {
		c.headers = h
	}
}

// WithPageSize sets the per-page record limit requested from the source.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithRetryPolicy injects the retry/backoff policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client with the given options applied over the
// defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		name:      DefaultSourceName,
		userAgent: DefaultUserAgent,
		pageSize:  DefaultPageSize,
		retry:     DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultRequestTimeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Name returns the provider label stamped on fetched records.
func (c *Client) Name() string {
	return c.name
}

// FetchPage fetches one page of listings for the given query. Pages are
// one-based. It returns the page's raw records and the total page count
// the source reported, so the caller can drive pagination.
//
// Failure behavior:
//   - network errors and 5xx responses are retried with exponential
//     backoff up to the policy's attempt ceiling, then wrapped in
//     ErrSourceUnavailable
//   - 429 responses wait for the Retry-After hint (or the policy default)
//     and retry without consuming an attempt
//   - unparseable bodies and unexpected statuses fail immediately with
//     ErrSourceProtocol
//   - context cancellation is returned as the context's error
func (c *Client) FetchPage(ctx context.Context, q SourceQuery, page int) ([]RawRecord, int, error) {
	reqURL := c.buildURL(q, page)

	var lastErr error
	for attempt := 0; attempt < c.retry.MaxAttempts; {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		records, totalPages, retryAfter, err := c.fetchOnce(ctx, reqURL)
		switch {
		case err == nil && retryAfter == 0:
			c.stamp(records, q)
			c.logger.Debug("fetched page",
				"source", c.name,
				"species", q.Species,
				"page", page,
				"records", len(records),
				"totalPages", totalPages,
			)
			return records, totalPages, nil
		case retryAfter > 0:
			// Rate limited. Honor the hint without consuming an attempt.
			c.logger.Debug("rate limited by source", "wait", retryAfter)
			if serr := sleep(ctx, retryAfter); serr != nil {
				return nil, 0, serr
			}
		case isTransient(err):
			lastErr = err
			attempt++
			if attempt >= c.retry.MaxAttempts {
				break
			}
			backoff := c.retry.Backoff(attempt - 1)
			c.logger.Debug("transient fetch failure, backing off",
				"attempt", attempt,
				"backoff", backoff,
				"error", err,
			)
			if serr := sleep(ctx, backoff); serr != nil {
				return nil, 0, serr
			}
		default:
			// Protocol errors and cancellation are surfaced immediately.
			return nil, 0, err
		}
	}

	return nil, 0, fmt.Errorf("%w: %d attempts failed, last error: %v",
		ErrSourceUnavailable, c.retry.MaxAttempts, lastErr)
}

// transientError marks a failure that the retry loop may try again.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// fetchOnce performs a single HTTP round trip. A positive retryAfter means
// the source rate-limited the request and the caller should wait that long
// before trying again.
func (c *Client) fetchOnce(ctx context.Context, reqURL string) (records []RawRecord, totalPages int, retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, 0, ctx.Err()
		}
		return nil, 0, 0, &transientError{err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		drain(resp.Body)
		return nil, 0, c.parseRetryAfter(resp), nil
	case resp.StatusCode >= 500:
		drain(resp.Body)
		return nil, 0, 0, &transientError{err: fmt.Errorf("source returned status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		drain(resp.Body)
		return nil, 0, 0, fmt.Errorf("%w: unexpected status %d", ErrSourceProtocol, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, 0, 0, &transientError{err: fmt.Errorf("read body: %w", err)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %v", ErrSourceProtocol, err)
	}
	if env.Result == nil {
		return nil, 0, 0, fmt.Errorf("%w: response missing result envelope", ErrSourceProtocol)
	}

	records = env.Result.Animals
	totalPages = env.Result.Pagination.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	return records, totalPages, 0, nil
}

// parseRetryAfter reads the Retry-After header in seconds, falling back to
// the policy default when absent, unparseable, or zero. The result is
// always positive so a rate-limited response is never mistaken for a
// successful one.
func (c *Client) parseRetryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return c.retry.RetryAfterDefault
}

// buildURL assembles the search URL the way the source expects:
// offset paging plus a location slug of the form us/{state}/{city}.
func (c *Client) buildURL(q SourceQuery, page int) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit[]", strconv.Itoa(c.pageSize))
	params.Set("status", "adoptable")
	params.Set("distance[]", strconv.Itoa(q.RadiusMiles))
	params.Set("type[]", q.Species)
	params.Set("sort[]", "nearest")
	params.Set("location_slug[]", locationSlug(q.City, q.State))
	params.Set("include_transportable", "true")
	return c.baseURL + "?" + params.Encode()
}

// locationSlug builds the source's location path segment. Spaces in city
// names become hyphens ("New York" -> "new-york").
func locationSlug(city, state string) string {
	slug := ""
	for _, r := range city {
		switch {
		case r == ' ':
			slug += "-"
		case r >= 'A' && r <= 'Z':
			slug += string(r + ('a' - 'A'))
		default:
			slug += string(r)
		}
	}
	st := ""
	for _, r := range state {
		if r >= 'A' && r <= 'Z' {
			st += string(r + ('a' - 'A'))
		} else {
			st += string(r)
		}
	}
	return "us/" + st + "/" + slug
}

// drain discards a response body so the connection can be reused.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxBodySize))
}

// stamp labels records with the provider name and originating query so the
// normalizer can attribute them without consulting the client.
func (c *Client) stamp(records []RawRecord, q SourceQuery) {
	for i := range records {
		records[i].Source = c.name
		records[i].SearchSpecies = q.Species
	}
}
