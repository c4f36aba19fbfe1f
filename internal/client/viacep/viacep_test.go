package viacep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldenerp/backend/internal/entity"
)

func newTestClient(baseURL string) *Client {
	return New(Config{
		BaseURL:     baseURL,
		Timeout:     time.Second,
		MaxAttempts: 3,
		BackoffBase: time.Millisecond,
	})
}

func TestLookup_Success(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		assert.Equal(t, "/ws/01001000/json/", r.URL.Path)
		w.Write([]byte(`{"logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
	}))
	defer server.Close()

	addr, err := newTestClient(server.URL).Lookup(context.Background(), "01001-000")
	require.NoError(t, err)

	assert.Equal(t, "Praça da Sé", addr.Street)
	assert.Equal(t, "Sé", addr.Neighborhood)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
	assert.Equal(t, "01001000", addr.PostalCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestLookup_InvalidCEPSkipsNetwork(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	for _, cep := range []string{"", "123", "123456789", "abcdefgh"} {
		_, err := client.Lookup(context.Background(), cep)
		var inputErr *entity.InvalidInputError
		require.ErrorAs(t, err, &inputErr, "cep %q", cep)
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
}

func TestLookup_UnknownCEPIsTerminal(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(`{"erro": true}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Lookup(context.Background(), "99999999")

	var notFound *entity.NotFoundError
	require.ErrorAs(t, err, &notFound)
	// Not-found is never retried.
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestLookup_MalformedResponseIsTerminal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Lookup(context.Background(), "01001000")

	var notFound *entity.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestLookup_ServerErrorsRetriedThenFail(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Lookup(context.Background(), "01001000")

	var failed *entity.LookupFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "01001000", failed.CEP)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
}

func TestLookup_RecoversAfterTransientFailure(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
	}))
	defer server.Close()

	addr, err := newTestClient(server.URL).Lookup(context.Background(), "01001000")
	require.NoError(t, err)

	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, int32(3), atomic.LoadInt32(&requests))
}

func TestLookup_TransportFailureWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := newTestClient(server.URL).Lookup(context.Background(), "01001000")

	var failed *entity.LookupFailedError
	require.ErrorAs(t, err, &failed)
	assert.Error(t, failed.Unwrap())
}

func TestNew_Defaults(t *testing.T) {
	client := New(Config{})

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultMaxAttempts, client.maxAttempts)
	assert.Equal(t, DefaultBackoffBase, client.backoffBase)
}
