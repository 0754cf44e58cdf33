// Package catalog fetches strain data from the external catalog API.
// Responses are cached on disk (list payload plus ETags) so repeat fetches
// can be answered with conditional requests, and rate-limit responses are
// retried with exponential backoff.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/greenhouse-labs/strainsync/internal/cachefile"
	"github.com/greenhouse-labs/strainsync/internal/log"
)

const (
	// DefaultPageSize is the page size requested from the API.
	DefaultPageSize = 50

	// maxAttempts bounds rate-limit retries per request.
	maxAttempts = 3

	// initialBackoff is the first retry delay; it doubles per attempt.
	initialBackoff = time.Second

	// requestsPerMinute paces outgoing requests client-side.
	requestsPerMinute = 30
)

// SleepFunc pauses for d or returns early with ctx's error. Injected so
// backoff is testable without real waiting.
type SleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Config holds catalog API settings.
type Config struct {
	BaseURL  string
	APIKey   string // sent as X-RapidAPI-Key when set
	APIHost  string // sent as X-RapidAPI-Host when set
	PageSize int
}

// Client fetches and normalizes catalog strains.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cache   *cachefile.Store
	sleep   SleepFunc
	log     *log.Logger
}

// NewClient creates a catalog client. cache may be nil, which disables
// conditional requests and the persisted list cache.
func NewClient(cfg Config, cache *cachefile.Store, logger *log.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Minute/requestsPerMinute), requestsPerMinute),
		cache:   cache,
		sleep:   defaultSleep,
		log:     logger,
	}
}

// envelope matches the API's wrapped list responses.
type envelope struct {
	Data  []External `json:"data"`
	Items []External `json:"items"`
}

// decodeList accepts either a bare array or an envelope object.
func decodeList(body []byte) ([]External, error) {
	var bare []External
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("catalog: unrecognized response shape: %w", err)
	}
	if len(env.Data) > 0 {
		return env.Data, nil
	}
	return env.Items, nil
}

// FetchAll retrieves the complete strain list, page by page. When the API
// answers 304 Not Modified the persisted list cache is served instead; a 304
// without usable cached data triggers exactly one unconditional full fetch.
// Failures degrade to an empty result with the error.
func (c *Client) FetchAll(ctx context.Context) ([]Record, error) {
	records, notModified, err := c.fetchPages(ctx, true)
	if err != nil {
		return nil, err
	}

	if notModified {
		if cached, ok := c.cachedList(); ok {
			return cached, nil
		}
		// Nothing usable on disk: one full fetch, no conditional header.
		c.log.Printf("catalog cache empty on 304, refetching\n")
		records, _, err = c.fetchPages(ctx, false)
		if err != nil {
			return nil, err
		}
	}

	c.storeList(records)
	return records, nil
}

// fetchPages walks the paginated endpoint. notModified reports that the
// first page answered 304.
func (c *Client) fetchPages(ctx context.Context, conditional bool) (records []Record, notModified bool, err error) {
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/strains?page=%d&limit=%d", c.cfg.BaseURL, page, c.cfg.PageSize)

		body, status, err := c.get(ctx, url, conditional && page == 1)
		if err != nil {
			return nil, false, err
		}
		if status == http.StatusNotModified {
			return nil, true, nil
		}

		exts, err := decodeList(body)
		if err != nil {
			return nil, false, err
		}
		batch, err := NormalizeBatch(exts)
		if err != nil {
			// Malformed payloads reject the page wholesale.
			return nil, false, err
		}

		records = append(records, batch...)
		if len(batch) < c.cfg.PageSize {
			return records, false, nil
		}
	}
}

// get performs one GET with client-side pacing, conditional headers, and
// iterative 429 backoff (up to maxAttempts, delay doubling from 1s).
func (c *Client) get(ctx context.Context, url string, conditional bool) ([]byte, int, error) {
	delay := initialBackoff

	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("rate limit wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("build request: %w", err)
		}
		if c.cfg.APIKey != "" {
			req.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
		}
		if c.cfg.APIHost != "" {
			req.Header.Set("X-RapidAPI-Host", c.cfg.APIHost)
		}
		if conditional && c.cache != nil {
			if etag := c.cache.ETag(url); etag != "" {
				req.Header.Set("If-None-Match", etag)
			}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, 0, fmt.Errorf("fetch catalog: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			_ = resp.Body.Close()
			if attempt >= maxAttempts {
				return nil, resp.StatusCode, fmt.Errorf("catalog rate limited after %d attempts", attempt)
			}
			c.log.Printf("catalog rate limited, backing off %s (attempt %d/%d)\n", delay, attempt, maxAttempts)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, 0, err
			}
			delay *= 2
			continue

		case resp.StatusCode == http.StatusNotModified:
			_ = resp.Body.Close()
			return nil, http.StatusNotModified, nil

		case resp.StatusCode != http.StatusOK:
			_ = resp.Body.Close()
			return nil, resp.StatusCode, fmt.Errorf("catalog returned status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, resp.StatusCode, fmt.Errorf("read catalog response: %w", err)
		}

		if c.cache != nil {
			if etag := resp.Header.Get("ETag"); etag != "" {
				if err := c.cache.SetETag(url, etag); err != nil {
					c.log.Errorf("persist etag for %s: %v", url, err)
				}
			}
		}
		return body, resp.StatusCode, nil
	}
}

// cachedList decodes the persisted list payload, treating stale or corrupt
// data as absent.
func (c *Client) cachedList() ([]Record, bool) {
	if c.cache == nil {
		return nil, false
	}
	payload, ok := c.cache.List()
	if !ok {
		return nil, false
	}
	var records []Record
	if err := json.Unmarshal(payload, &records); err != nil || len(records) == 0 {
		return nil, false
	}
	return records, true
}

// storeList persists the fetched list. Best effort.
func (c *Client) storeList(records []Record) {
	if c.cache == nil || len(records) == 0 {
		return
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return
	}
	if err := c.cache.SetList(payload); err != nil {
		c.log.Errorf("persist strain list cache: %v", err)
	}
}
