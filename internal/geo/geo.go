// Package geo holds the coordinate helpers shared by the directory: the city
// center new businesses are placed around, directions links, and the
// single-shot geolocation flow.
package geo

import (
	"fmt"
	"net/url"
	"strconv"
)

// Position is a WGS84 coordinate pair.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether p lies within WGS84 bounds.
func (p Position) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func (p Position) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

// Center is the center of Tacna.
var Center = Position{Lat: -18.006567, Lng: -70.246274}

const (
	// DefaultZoom is the initial map zoom over the city.
	DefaultZoom = 14
	// LocateZoom is used when centering on the user's location.
	LocateZoom = 15
	// JitterSpread is the width of the box businesses are scattered in, in degrees.
	JitterSpread = 0.02
)

// Jitter offsets center by (r()-0.5)*spread on each axis. r must return
// values in [0, 1); math/rand.Float64 is the usual source.
func Jitter(center Position, spread float64, r func() float64) Position {
	return Position{
		Lat: center.Lat + (r()-0.5)*spread,
		Lng: center.Lng + (r()-0.5)*spread,
	}
}

// DirectionsURL returns a Google Maps directions link ending at p.
func DirectionsURL(p Position) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("destination", strconv.FormatFloat(p.Lat, 'f', -1, 64)+","+strconv.FormatFloat(p.Lng, 'f', -1, 64))
	return "https://www.google.com/maps/dir/?" + q.Encode()
}
