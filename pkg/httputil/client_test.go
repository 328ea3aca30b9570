package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marmot-dev/marmot/pkg/cache"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"requests","version":"2.31.0"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), cache.NewNullCache(), 0)

	var got struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := c.GetJSON(context.Background(), srv.URL, &got); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if got.Name != "requests" || got.Version != "2.31.0" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestGetJSONNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), cache.NewNullCache(), 0)
	err := c.GetJSON(context.Background(), srv.URL, &struct{}{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCheckStatus(t *testing.T) {
	if err := checkStatus(http.StatusOK); err != nil {
		t.Errorf("200: %v", err)
	}
	if err := checkStatus(http.StatusNotFound); !errors.Is(err, ErrNotFound) {
		t.Errorf("404: %v, want ErrNotFound", err)
	}
	if err := checkStatus(http.StatusBadGateway); !IsRetryable(err) {
		t.Errorf("502: %v, want retryable", err)
	}
	if err := checkStatus(http.StatusForbidden); err == nil || IsRetryable(err) {
		t.Errorf("403: %v, want permanent error", err)
	}
}

func TestCachedJSON(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"version":"1.0"}`))
	}))
	defer srv.Close()

	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(srv.Client(), backend, time.Hour)
	ctx := context.Background()

	var v struct {
		Version string `json:"version"`
	}
	if err := c.CachedJSON(ctx, "k", srv.URL, false, &v); err != nil {
		t.Fatalf("CachedJSON: %v", err)
	}
	if err := c.CachedJSON(ctx, "k", srv.URL, false, &v); err != nil {
		t.Fatalf("CachedJSON (cached): %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("server calls = %d, want 1 (second read from cache)", calls.Load())
	}

	// refresh bypasses the cache.
	if err := c.CachedJSON(ctx, "k", srv.URL, true, &v); err != nil {
		t.Fatalf("CachedJSON (refresh): %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("server calls = %d, want 2 after refresh", calls.Load())
	}
}
