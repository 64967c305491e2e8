package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Route is a drivable path plus its expected duration.
type Route struct {
	Geometry []Point
	Duration time.Duration
}

// Planner is implemented by the OSRM client; consumers fall back to a
// straight line when it fails or times out.
type Planner interface {
	Route(ctx context.Context, from, to Point) (*Route, error)
}

var ErrNoRoute = errors.New("no route found")

// OSRMClient calls the public OSRM driving profile.
type OSRMClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewOSRMClient(baseURL string, timeout time.Duration) *OSRMClient {
	return &OSRMClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type osrmResponse struct {
	Routes []struct {
		Duration float64 `json:"duration"`
		Geometry struct {
			// GeoJSON order: [lng, lat]
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

func (c *OSRMClient) Route(ctx context.Context, from, to Point) (*Route, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%s,%s;%s,%s?overview=full&geometries=geojson",
		c.BaseURL,
		coord(from.Lng), coord(from.Lat),
		coord(to.Lng), coord(to.Lat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("routing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing request: unexpected status %d", res.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("routing response: %w", err)
	}
	if len(body.Routes) == 0 {
		return nil, ErrNoRoute
	}

	r := body.Routes[0]
	geometry := make([]Point, 0, len(r.Geometry.Coordinates))
	for _, pair := range r.Geometry.Coordinates {
		if len(pair) < 2 {
			continue
		}
		geometry = append(geometry, Point{Lat: pair[1], Lng: pair[0]})
	}
	return &Route{
		Geometry: geometry,
		Duration: time.Duration(math.Ceil(r.Duration)) * time.Second,
	}, nil
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// StraightLine is the degraded-mode path between two points; its
// duration is unknown, so callers suppress the ETA.
func StraightLine(from, to Point) *Route {
	return &Route{Geometry: []Point{from, to}}
}

const earthRadiusMeters = 6371000

// Distance returns the haversine great-circle distance in meters.
func Distance(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
