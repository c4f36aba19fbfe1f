package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newRateServer(t *testing.T, requests *int32, body string, status *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "BRL", r.URL.Query().Get("base"))
		if status != nil && atomic.LoadInt32(status) != http.StatusOK {
			w.WriteHeader(int(atomic.LoadInt32(status)))
			return
		}
		w.Write([]byte(body))
	}))
}

func TestRate_FetchesAndCaches(t *testing.T) {
	var requests int32
	server := newRateServer(t, &requests, `{"rates":{"USD":0.1845004}}`, nil)
	defer server.Close()

	clock := &fakeClock{now: time.Now()}
	adapter := New(Config{BaseURL: server.URL, CacheTTL: time.Hour, Now: clock.Now})

	rate, ok := adapter.Rate(context.Background())
	require.True(t, ok)
	assert.Equal(t, "0.184500", rate.StringFixed(6))

	// A second call inside the TTL is served from cache.
	clock.Advance(30 * time.Minute)
	rate, ok = adapter.Rate(context.Background())
	require.True(t, ok)
	assert.Equal(t, "0.184500", rate.StringFixed(6))
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestRate_RefetchesAfterExpiry(t *testing.T) {
	var requests int32
	server := newRateServer(t, &requests, `{"rates":{"USD":0.19}}`, nil)
	defer server.Close()

	clock := &fakeClock{now: time.Now()}
	adapter := New(Config{BaseURL: server.URL, CacheTTL: time.Hour, Now: clock.Now})

	_, ok := adapter.Rate(context.Background())
	require.True(t, ok)

	clock.Advance(time.Hour + time.Minute)
	_, ok = adapter.Rate(context.Background())
	require.True(t, ok)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestRate_StaleFallbackOnFailure(t *testing.T) {
	var requests int32
	status := int32(http.StatusOK)
	server := newRateServer(t, &requests, `{"rates":{"USD":0.185}}`, &status)
	defer server.Close()

	clock := &fakeClock{now: time.Now()}
	adapter := New(Config{BaseURL: server.URL, CacheTTL: time.Hour, Now: clock.Now})

	rate, ok := adapter.Rate(context.Background())
	require.True(t, ok)
	assert.Equal(t, "0.185000", rate.StringFixed(6))

	// Expired cache plus a failing refresh still yields the stale value.
	atomic.StoreInt32(&status, http.StatusBadGateway)
	clock.Advance(2 * time.Hour)
	rate, ok = adapter.Rate(context.Background())
	require.True(t, ok)
	assert.Equal(t, "0.185000", rate.StringFixed(6))
}

func TestRate_ColdFailureReturnsFalse(t *testing.T) {
	var requests int32
	status := int32(http.StatusInternalServerError)
	server := newRateServer(t, &requests, ``, &status)
	defer server.Close()

	adapter := New(Config{BaseURL: server.URL})

	_, ok := adapter.Rate(context.Background())
	assert.False(t, ok)
}

func TestRate_MissingUSDIsFailure(t *testing.T) {
	var requests int32
	server := newRateServer(t, &requests, `{"rates":{"EUR":0.17}}`, nil)
	defer server.Close()

	adapter := New(Config{BaseURL: server.URL})

	_, ok := adapter.Rate(context.Background())
	assert.False(t, ok)
}
