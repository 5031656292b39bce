package omdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tv-show-library/internal/logger"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "test-key", time.Second, logger.Discard())
}

func TestLookupSeries_Found(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "Breaking Bad", r.URL.Query().Get("t"))
		assert.Equal(t, "series", r.URL.Query().Get("type"))
		_, _ = w.Write([]byte(`{"Title":"Breaking Bad","Type":"series","Response":"True"}`))
	})

	found, err := c.LookupSeries(context.Background(), "Breaking Bad")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, c.VerifySeries(context.Background(), "Breaking Bad"))
}

func TestLookupSeries_NotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Series not found!"}`))
	})

	found, err := c.LookupSeries(context.Background(), "This Show Does Not Exist 12345XYZ")
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, c.VerifySeries(context.Background(), "This Show Does Not Exist 12345XYZ"))
}

func TestLookupSeries_MovieIsNotSeries(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Title":"Heat","Type":"movie","Response":"True"}`))
	})
	assert.False(t, c.VerifySeries(context.Background(), "Heat"))
}

func TestVerifySeries_FailsOpen(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		_, err := c.LookupSeries(context.Background(), "Lost")
		assert.Error(t, err)
		assert.True(t, c.VerifySeries(context.Background(), "Lost"))
	})

	t.Run("garbage body", func(t *testing.T) {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		})
		assert.True(t, c.VerifySeries(context.Background(), "Lost"))
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()
		c := NewClient(srv.URL+"/", "k", 20*time.Millisecond, logger.Discard())
		assert.True(t, c.VerifySeries(context.Background(), "Lost"))
	})
}

func TestAcceptAll(t *testing.T) {
	assert.True(t, AcceptAll{}.VerifySeries(context.Background(), "anything"))
}
