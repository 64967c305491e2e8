package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const osrmBody = `{
	"routes": [{
		"duration": 734.6,
		"geometry": {"coordinates": [[21.1655, 42.6629], [21.1700, 42.6700]]}
	}]
}`

func TestOSRMClientRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/route/v1/driving/")
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		w.Write([]byte(osrmBody))
	}))
	defer srv.Close()

	c := NewOSRMClient(srv.URL, time.Second)
	route, err := c.Route(context.Background(), Point{Lat: 42.6629, Lng: 21.1655}, Point{Lat: 42.6700, Lng: 21.1700})
	require.NoError(t, err)

	// GeoJSON [lng, lat] pairs come back as lat/lng points.
	require.Len(t, route.Geometry, 2)
	assert.Equal(t, Point{Lat: 42.6629, Lng: 21.1655}, route.Geometry[0])
	assert.Equal(t, 735*time.Second, route.Duration, "duration rounds up to whole seconds")
}

func TestOSRMClientNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes": []}`))
	}))
	defer srv.Close()

	c := NewOSRMClient(srv.URL, time.Second)
	_, err := c.Route(context.Background(), Point{}, Point{})
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestOSRMClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewOSRMClient(srv.URL, time.Second)
	_, err := c.Route(context.Background(), Point{}, Point{})
	assert.Error(t, err)
}

func TestOSRMClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(osrmBody))
	}))
	defer srv.Close()

	c := NewOSRMClient(srv.URL, 10*time.Millisecond)
	_, err := c.Route(context.Background(), Point{}, Point{})
	assert.Error(t, err)
}

func TestStraightLine(t *testing.T) {
	from := Point{Lat: 1, Lng: 2}
	to := Point{Lat: 3, Lng: 4}
	r := StraightLine(from, to)
	assert.Equal(t, []Point{from, to}, r.Geometry)
	assert.Zero(t, r.Duration)
}

func TestDistance(t *testing.T) {
	// One degree of latitude is about 111 km.
	a := Point{Lat: 42.0, Lng: 21.0}
	b := Point{Lat: 43.0, Lng: 21.0}
	d := Distance(a, b)
	assert.InDelta(t, 111195, d, 200)

	assert.Zero(t, Distance(a, a))
}
