package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eburns009/ephemeris-service/internal/apierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchUnconfigured(t *testing.T) {
	c := New("")
	_, err := c.Search(context.Background(), "Fort Knox")
	require.ErrorIs(t, err, ErrUnconfigured)
}

func TestSearchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Fort Knox", r.URL.Query().Get("q"))
		json.NewEncoder(w).Encode([]Result{{Name: "Fort Knox, KY", LatDeg: 37.84, LonDeg: -85.95}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	results, err := c.Search(context.Background(), "Fort Knox")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Fort Knox, KY", results[0].Name)
}

func TestSearchMapsNon2xxToGeocodeUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Search(context.Background(), "Fort Knox")
	require.ErrorIs(t, err, apierr.ErrGeocodeUnavailable)
}
