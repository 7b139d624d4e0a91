package upstream

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(opts Options) *Client {
	return NewClient("test", opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type payload struct {
	Word string `json:"word"`
}

func TestGetJSON_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"word":"cat"}`))
	}))
	defer srv.Close()

	var got payload
	err := newTestClient(Options{}).GetJSON(context.Background(), srv.URL, &got)
	require.NoError(t, err)
	assert.Equal(t, "cat", got.Word)
}

func TestGetJSON_NotFound(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var got payload
	err := newTestClient(Options{}).GetJSON(context.Background(), srv.URL, &got)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls.Load(), "404 must not be retried")
}

func TestGetJSON_RetriesOnceOn5xx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var got payload
	err := newTestClient(Options{RetryDelay: time.Millisecond}).GetJSON(context.Background(), srv.URL, &got)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetJSON_RetrySucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"word":"dog"}`))
	}))
	defer srv.Close()

	var got payload
	err := newTestClient(Options{}).GetJSON(context.Background(), srv.URL, &got)
	require.NoError(t, err)
	assert.Equal(t, "dog", got.Word)
}

func TestGetJSON_ClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var got payload
	err := newTestClient(Options{}).GetJSON(context.Background(), srv.URL, &got)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetJSON_InvalidJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"word":`))
	}))
	defer srv.Close()

	var got payload
	err := newTestClient(Options{}).GetJSON(context.Background(), srv.URL, &got)
	assert.ErrorContains(t, err, "decode json")
}

func TestGetJSON_CancelledDuringRetryDelay(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var got payload
	start := time.Now()
	err := newTestClient(Options{RetryDelay: 5 * time.Second}).GetJSON(ctx, srv.URL, &got)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
