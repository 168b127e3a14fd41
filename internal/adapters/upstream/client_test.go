package upstream_test

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

	"github.com/okian/leagueboard/internal/adapters/upstream"
	"github.com/okian/leagueboard/internal/domain/model"
)

const samplePayload = `[
	{"gamer_name":"Ann","league":"Gold","maps":12,"wins":5,"losses":7,"win_percentage":40},
	{"gamer_name":"bob","league":"Gold","maps":10,"wins":8,"losses":2,"win_percentage":80}
]`

func newServer(t *testing.T, status int, body string, seen *http.Request) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = *r.Clone(context.Background())
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewRejectsBadEndpoints(t *testing.T) {
	for _, endpoint := range []string{"", "ftp://host/x", "/relative", "http://"} {
		_, err := upstream.New(endpoint)
		assert.ErrorIs(t, err, upstream.ErrInvalidEndpoint, endpoint)
	}
}

func TestFetchSuccess(t *testing.T) {
	var seen http.Request
	srv := newServer(t, http.StatusOK, samplePayload, &seen)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	c, err := upstream.New(srv.URL+"/leaderboard", upstream.WithUserAgent("test-agent"), upstream.WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	res, err := c.Fetch(context.Background(), model.Season2024)
	require.NoError(t, err)

	require.Len(t, res.Players, 2)
	assert.Equal(t, "Ann", res.Players[0].Name())
	assert.Equal(t, "80", res.Players[1].WinPercentage.String())
	assert.Equal(t, fixed, res.FetchedAt)
	assert.NotEmpty(t, res.RequestID)

	assert.Equal(t, "/leaderboard", seen.URL.Path)
	assert.Equal(t, "2024", seen.URL.Query().Get("season"))
	assert.Equal(t, "test-agent", seen.Header.Get("User-Agent"))
	assert.Equal(t, res.RequestID, seen.Header.Get(upstream.RequestIDHeader))
	assert.Equal(t, "application/json", seen.Header.Get("Accept"))
}

func TestFetchSeasonParam(t *testing.T) {
	t.Run("custom name keeps existing query", func(t *testing.T) {
		var seen http.Request
		srv := newServer(t, http.StatusOK, "[]", &seen)
		c, err := upstream.New(srv.URL+"/lb?region=eu", upstream.WithSeasonParam("year"))
		require.NoError(t, err)

		_, err = c.Fetch(context.Background(), model.Season2025)
		require.NoError(t, err)
		assert.Equal(t, "2025", seen.URL.Query().Get("year"))
		assert.Equal(t, "eu", seen.URL.Query().Get("region"))
	})

	t.Run("empty name sends no season", func(t *testing.T) {
		var seen http.Request
		srv := newServer(t, http.StatusOK, "[]", &seen)
		c, err := upstream.New(srv.URL+"/lb", upstream.WithSeasonParam(""))
		require.NoError(t, err)

		_, err = c.Fetch(context.Background(), model.Season2025)
		require.NoError(t, err)
		assert.Empty(t, seen.URL.RawQuery)
	})
}

func TestFetchFailures(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := newServer(t, http.StatusBadGateway, "upstream down", nil)
		c, err := upstream.New(srv.URL)
		require.NoError(t, err)

		_, err = c.Fetch(context.Background(), model.Season2025)
		require.Error(t, err)
		assert.ErrorIs(t, err, upstream.ErrUpstreamStatus)
		assert.Equal(t, upstream.KindStatus, upstream.Kind(err))

		var fe *upstream.FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, http.StatusBadGateway, fe.Status)
		assert.Contains(t, err.Error(), "upstream down")
	})

	t.Run("body is not an array", func(t *testing.T) {
		srv := newServer(t, http.StatusOK, `{"error":"nope"}`, nil)
		c, err := upstream.New(srv.URL)
		require.NoError(t, err)

		_, err = c.Fetch(context.Background(), model.Season2025)
		assert.ErrorIs(t, err, upstream.ErrDecode)
		assert.Equal(t, upstream.KindDecode, upstream.Kind(err))
	})

	t.Run("transport error", func(t *testing.T) {
		srv := newServer(t, http.StatusOK, "[]", nil)
		endpoint := srv.URL
		srv.Close()

		c, err := upstream.New(endpoint, upstream.WithTimeout(time.Second))
		require.NoError(t, err)

		_, err = c.Fetch(context.Background(), model.Season2025)
		require.Error(t, err)
		assert.Equal(t, upstream.KindTransport, upstream.Kind(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := newServer(t, http.StatusOK, "[]", nil)
		c, err := upstream.New(srv.URL)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = c.Fetch(ctx, model.Season2025)
		assert.Error(t, err)
	})
}

func TestFetchNullBody(t *testing.T) {
	srv := newServer(t, http.StatusOK, "null", nil)
	c, err := upstream.New(srv.URL)
	require.NoError(t, err)

	res, err := c.Fetch(context.Background(), model.Season2025)
	require.NoError(t, err)
	assert.NotNil(t, res.Players)
	assert.Empty(t, res.Players)
}

func TestFetchIssuesOneRequestPerCall(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c, err := upstream.New(srv.URL, upstream.WithRateLimit(1000))
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), model.Season2025)
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "failed fetches are not retried")
}
