package acquire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/freyjadaisy/EPQ/internal/logger"
)

const (
	maxPageSize    = 100
	defaultBackoff = 2 * time.Second
	maxBodyBytes   = 32 << 20
)

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Code)
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

type ClientConfig struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64
	MaxRetries        int
	// Backoff is the first retry delay; it doubles per attempt. Zero selects two seconds.
	Backoff    time.Duration
	HTTPClient *http.Client
}

// ListOptions selects which posts of a group are listed.
type ListOptions struct {
	Category   string
	TimeFilter string
	Limit      int
}

// Client reads the public JSON endpoints of a forum.
type Client struct {
	http       *http.Client
	base       string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &Client{
		http:       hc,
		base:       strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    backoff,
	}
}

type listing struct {
	Data struct {
		After    string  `json:"after"`
		Children []thing `json:"children"`
	} `json:"data"`
}

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type rawComment struct {
	Body    string          `json:"body"`
	Author  string          `json:"author"`
	Score   int             `json:"score"`
	Replies json.RawMessage `json:"replies"`
}

// TopPosts lists up to opts.Limit posts of group, following pagination cursors.
func (c *Client) TopPosts(ctx context.Context, group string, opts ListOptions) ([]Post, error) {
	var posts []Post
	after := ""
	for len(posts) < opts.Limit {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(min(opts.Limit-len(posts), maxPageSize)))
		q.Set("raw_json", "1")
		if opts.TimeFilter != "" {
			q.Set("t", opts.TimeFilter)
		}
		if after != "" {
			q.Set("after", after)
		}

		var page listing
		path := fmt.Sprintf("/r/%s/%s.json", url.PathEscape(group), url.PathEscape(opts.Category))
		if err := c.getJSON(ctx, path, q, &page); err != nil {
			return nil, fmt.Errorf("list %s: %w", group, err)
		}
		for _, child := range page.Data.Children {
			if child.Kind != "t3" {
				continue
			}
			var p Post
			if err := json.Unmarshal(child.Data, &p); err != nil {
				return nil, fmt.Errorf("decode post: %w", err)
			}
			posts = append(posts, p)
			if len(posts) == opts.Limit {
				break
			}
		}
		after = page.Data.After
		if after == "" || len(page.Data.Children) == 0 {
			break
		}
	}
	return posts, nil
}

// PostDetails fetches the body and comment tree of the post at permalink.
func (c *Client) PostDetails(ctx context.Context, permalink string) (Details, error) {
	path := strings.TrimRight(permalink, "/") + ".json"
	q := url.Values{}
	q.Set("raw_json", "1")

	var pages []listing
	if err := c.getJSON(ctx, path, q, &pages); err != nil {
		return Details{}, fmt.Errorf("post %s: %w", permalink, err)
	}
	if len(pages) == 0 {
		return Details{}, fmt.Errorf("post %s: empty response", permalink)
	}

	var d Details
	if children := pages[0].Data.Children; len(children) > 0 {
		var p Post
		if err := json.Unmarshal(children[0].Data, &p); err != nil {
			return Details{}, fmt.Errorf("decode post %s: %w", permalink, err)
		}
		d.Body = p.Body
	}
	if len(pages) > 1 {
		comments, err := decodeComments(pages[1])
		if err != nil {
			return Details{}, fmt.Errorf("decode comments %s: %w", permalink, err)
		}
		d.Comments = comments
	}
	return d, nil
}

// decodeComments walks a comment listing. A reply-less comment carries "" instead of a listing.
func decodeComments(l listing) ([]Comment, error) {
	var out []Comment
	for _, child := range l.Data.Children {
		if child.Kind != "t1" {
			continue
		}
		var rc rawComment
		if err := json.Unmarshal(child.Data, &rc); err != nil {
			return nil, err
		}
		c := Comment{Body: rc.Body, Author: rc.Author, Score: rc.Score}
		if len(rc.Replies) > 0 && rc.Replies[0] == '{' {
			var nested listing
			if err := json.Unmarshal(rc.Replies, &nested); err != nil {
				return nil, err
			}
			replies, err := decodeComments(nested)
			if err != nil {
				return nil, err
			}
			c.Replies = replies
		}
		out = append(out, c)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	target := c.base + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		wait, err := c.try(ctx, target, v)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var se *StatusError
		if errors.As(err, &se) && !retryable(se.Code) {
			return err
		}
		lastErr = err
		if attempt >= c.maxRetries {
			return fmt.Errorf("giving up after %d attempts: %w", attempt+1, lastErr)
		}
		if wait <= 0 {
			wait = c.backoff << attempt
		}
		logger.Debug("retrying %s in %s: %v", target, wait, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// try performs one request. The returned duration is the server's Retry-After hint, if any.
func (c *Client) try(ctx context.Context, target string, v any) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return retryAfter(resp), &StatusError{Code: resp.StatusCode, URL: target}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return 0, fmt.Errorf("decode %s: %w", target, err)
	}
	return 0, nil
}

func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
