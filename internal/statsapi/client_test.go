package statsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poulailler/internal/stats"
)

func TestFetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date": "2023-01-01T00:00:00.000Z", "data": {"newCoworkersCount": 2, "coworkersCount": 10}},
			{"date": "2023-02-01T00:00:00.000Z", "data": {"newCoworkersCount": 0, "coworkersCount": 12}}
		]`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/api/stats/", time.Second)
	require.NoError(t, err)

	points, err := client.Fetch(context.Background(), stats.Month)
	require.NoError(t, err)
	assert.Equal(t, "/api/stats/month", gotPath)
	require.Len(t, points, 2)
	assert.Equal(t, 2, points[0].Data.NewCoworkersCount)
	assert.Equal(t, 12, points[1].Data.CoworkersCount)
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/", time.Second)
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), stats.Day)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "boom", statusErr.Body)
}

func TestFetchBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/", time.Second)
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), stats.Year)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode stats")
}

func TestFetchCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client, err := NewClient(srv.URL+"/", 5*time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Fetch(ctx, stats.Week)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("", time.Second)
	assert.Error(t, err)

	client, err := NewClient("stats.local/api/", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "http://stats.local/api/year", client.URL(stats.Year))
}
