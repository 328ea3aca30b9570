// Package httputil provides the HTTP plumbing shared by registry clients:
// a preconfigured client, retry with exponential backoff, and a cached JSON
// GET helper layered over a cache backend.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/marmot-dev/marmot/pkg/cache"
	"github.com/marmot-dev/marmot/pkg/observability"
)

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// ErrStatus is returned for non-2xx responses other than 404.
var ErrStatus = errors.New("unexpected status")

const requestTimeout = 30 * time.Second

// NewHTTPClient returns an HTTP client with the request timeout used by all
// registry traffic.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// Client wraps an http.Client with response caching and retry.
// Safe for concurrent use once configured.
type Client struct {
	http  *http.Client
	cache cache.Cache
	ttl   time.Duration
	auth  func(*http.Request)
}

// NewClient builds a Client. Pass a NullCache to disable caching; a nil
// http client gets the package default.
func NewClient(hc *http.Client, backend cache.Cache, ttl time.Duration) *Client {
	if hc == nil {
		hc = NewHTTPClient()
	}
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Client{http: hc, cache: backend, ttl: ttl}
}

// SetAuth installs a hook that decorates outgoing requests, typically with
// an Authorization header. Call before the client is shared across
// goroutines.
func (c *Client) SetAuth(fn func(*http.Request)) {
	c.auth = fn
}

// GetJSON performs a GET request and decodes the JSON response into v,
// retrying transient failures.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	return RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if c.auth != nil {
			c.auth(req)
		}

		observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
			return Retryable(err)
		}
		defer resp.Body.Close()
		observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

		if err := checkStatus(resp.StatusCode); err != nil {
			return err
		}
		return json.NewDecoder(resp.Body).Decode(v)
	})
}

// CachedJSON returns the cached value for key decoded into v, or performs
// a GetJSON on url and caches the raw result. With refresh true the cache
// is bypassed and overwritten. Cache write failures are ignored: the cache
// is best-effort, the response is not.
func (c *Client) CachedJSON(ctx context.Context, key, url string, refresh bool, v any) error {
	if !refresh {
		if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
			if json.Unmarshal(data, v) == nil {
				observability.Cache().OnCacheHit(ctx, "json")
				return nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "json")
	}

	var raw json.RawMessage
	if err := c.GetJSON(ctx, url, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return err
	}
	if c.cache.Set(ctx, key, raw, c.ttl) == nil {
		observability.Cache().OnCacheSet(ctx, "json", len(raw))
	}
	return nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return Retryable(fmt.Errorf("%w: %d", ErrStatus, code))
	default:
		return fmt.Errorf("%w: %d", ErrStatus, code)
	}
}
