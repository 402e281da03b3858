package sejm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sejmlex/internal/breaker"
	"sejmlex/internal/cache"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *breaker.CircuitBreaker, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cb := breaker.New(breaker.Config{}, nil)
	client := NewClient(Config{BaseURL: server.URL}, cb, cache.New(100, nil), nil)
	client.sleep = func(context.Context, time.Duration) error { return nil }
	return client, cb, server
}

func TestGetJSONDecodesAndCaches(t *testing.T) {
	var hits atomic.Int32
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"ustawa"}`))
	}))

	got, err := client.GetJSON(context.Background(), "acts/DU/2023/1", nil, time.Minute)
	require.NoError(t, err)
	obj, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ustawa", obj["title"])

	_, err = client.GetJSON(context.Background(), "acts/DU/2023/1", nil, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second call should hit the cache")
}

func TestGetJSONZeroTTLBypassesCache(t *testing.T) {
	var hits atomic.Int32
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))

	for i := 0; i < 2; i++ {
		_, err := client.GetJSON(context.Background(), "acts/search", nil, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestNotFoundIsFinal(t *testing.T) {
	var hits atomic.Int32
	client, cb, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetJSON(context.Background(), "acts/DU/2023/999", nil, 0)
	var notFound *ActNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "DU/2023/999", notFound.ELI)

	assert.Equal(t, int32(1), hits.Load(), "404 must not be retried")
	assert.Equal(t, 0, cb.FailureCount(), "404 must not count against the breaker")
}

func TestServiceUnavailableIsRetriedAndCounted(t *testing.T) {
	var hits atomic.Int32
	client, cb, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := client.GetJSON(context.Background(), "acts/search", nil, 0)
	var unavailable *APIUnavailableError
	require.ErrorAs(t, err, &unavailable)

	assert.Equal(t, int32(3), hits.Load(), "three attempts expected")
	assert.Equal(t, 3, cb.FailureCount())
}

func TestRetryStopsOnSuccess(t *testing.T) {
	var hits atomic.Int32
	client, cb, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	_, err := client.GetJSON(context.Background(), "acts/search", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
	assert.Equal(t, 0, cb.FailureCount(), "success resets the failure streak")
}

func TestOtherStatusIsFinalAPIError(t *testing.T) {
	var hits atomic.Int32
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))

	_, err := client.GetJSON(context.Background(), "acts/search", nil, 0)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)
	assert.Equal(t, int32(1), hits.Load())
}

func TestOpenBreakerShortCircuits(t *testing.T) {
	var hits atomic.Int32
	client, cb, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))

	for i := 0; i < 5; i++ {
		cb.RecordFailure()
	}
	require.Equal(t, breaker.Open, cb.State())

	_, err := client.GetJSON(context.Background(), "acts/DU/2023/1", nil, 0)
	var unavailable *APIUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, int32(0), hits.Load(), "no upstream call while open")
}

func TestOpenBreakerRejectsBeforeTakingPermit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	cb := breaker.New(breaker.Config{}, nil)
	client := NewClient(Config{BaseURL: server.URL, MaxConcurrent: 1}, cb, cache.New(100, nil), nil)
	client.sleep = func(context.Context, time.Duration) error { return nil }

	inflight := make(chan error, 1)
	go func() {
		_, err := client.GetJSON(context.Background(), "acts/search", nil, 0)
		inflight <- err
	}()
	<-entered

	for i := 0; i < 5; i++ {
		cb.RecordFailure()
	}
	require.Equal(t, breaker.Open, cb.State())

	// The only permit is held by the in-flight request. The open breaker
	// must reject immediately instead of queueing for that permit.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := client.GetJSON(ctx, "acts/DU/2023/1", nil, 0)
	var unavailable *APIUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.NoError(t, ctx.Err(), "rejection must not wait on the semaphore")

	close(release)
	require.NoError(t, <-inflight)
}

func TestQueryParamsAreSent(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "konstytucja", r.URL.Query().Get("title"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))

	_, err := client.SearchActs(context.Background(), map[string]string{"title": "konstytucja", "limit": "20"}, 0)
	require.NoError(t, err)
}

func TestUserAgentAndAcceptHeaders(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sejmlex/2.3.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "text/html", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("<html></html>"))
	}))

	body, err := client.GetText(context.Background(), "acts/DU/2023/1/text.html")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", body)
}

func TestGetBytes(t *testing.T) {
	payload := []byte{'%', 'P', 'D', 'F', '-'}
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/pdf", r.Header.Get("Accept"))
		_, _ = w.Write(payload)
	}))

	got, err := client.GetBytes(context.Background(), "acts/DU/2023/1/text.pdf")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestInvalidJSONIsAPIError(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<not json>"))
	}))

	_, err := client.GetJSON(context.Background(), "acts/search", nil, 0)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
}

func TestCacheKeySortsParams(t *testing.T) {
	a := cacheKey("acts/search", map[string]string{"b": "2", "a": "1"})
	b := cacheKey("acts/search", map[string]string{"a": "1", "b": "2"})
	assert.Equal(t, a, b)
	assert.Equal(t, "json:acts/search:a=1&b=2", a)
}

func TestBackoffDelayCapped(t *testing.T) {
	assert.Equal(t, 1*time.Second, backoffDelay(2))
	assert.Equal(t, 2*time.Second, backoffDelay(3))
	assert.Equal(t, 4*time.Second, backoffDelay(4))
	assert.Equal(t, 8*time.Second, backoffDelay(5))
	assert.Equal(t, 10*time.Second, backoffDelay(6))
}

func TestActPDFURL(t *testing.T) {
	cb := breaker.New(breaker.Config{}, nil)
	client := NewClient(Config{}, cb, cache.New(10, nil), nil)
	assert.Equal(t, "https://api.sejm.gov.pl/eli/acts/DU/2023/1/text.pdf", client.ActPDFURL("DU", 2023, 1))
}

func TestContextCancellationPropagates(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.GetJSON(ctx, "acts/search", nil, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
