// Package maplayer is a server-side map widget. It holds the markers the
// overlay places and serves them to the browser as GeoJSON, where Leaflet
// draws them.
package maplayer

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/evcraddock/emprende-tacna/internal/overlay"
)

// ErrUnknownMarker is returned when activating a handle that is not placed.
var ErrUnknownMarker = errors.New("unknown marker")

// View is the map viewport.
type View struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

// Marker is a placed marker as exposed to readers.
type Marker struct {
	Handle overlay.Handle `json:"handle"`
	Lat    float64        `json:"lat"`
	Lng    float64        `json:"lng"`
	Icon   overlay.Icon   `json:"icon"`
	Popup  string         `json:"popup"`
	seq    uint64
}

type entry struct {
	Marker
	onActivate func()
}

// Layer implements overlay.Map. It is safe for concurrent use; activation
// callbacks run without the layer lock held.
type Layer struct {
	mu      sync.RWMutex
	markers map[overlay.Handle]*entry
	view    View
	seq     uint64
}

var _ overlay.Map = (*Layer)(nil)

// New creates an empty layer.
func New() *Layer {
	return &Layer{markers: make(map[overlay.Handle]*entry)}
}

// AddMarker places a marker and returns its new handle.
func (l *Layer) AddMarker(lat, lng float64, icon overlay.Icon) overlay.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	h := overlay.Handle(uuid.NewString())
	l.markers[h] = &entry{Marker: Marker{Handle: h, Lat: lat, Lng: lng, Icon: icon, seq: l.seq}}
	return h
}

// RemoveMarker deletes the marker. Unknown handles are ignored.
func (l *Layer) RemoveMarker(h overlay.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.markers, h)
}

// BindPopup attaches popup HTML to a marker.
func (l *Layer) BindPopup(h overlay.Handle, html string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.markers[h]; ok {
		e.Popup = html
	}
}

// OnActivate sets the activation callback of a marker.
func (l *Layer) OnActivate(h overlay.Handle, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.markers[h]; ok {
		e.onActivate = fn
	}
}

// SetView moves the viewport.
func (l *Layer) SetView(lat, lng float64, zoom int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view = View{Lat: lat, Lng: lng, Zoom: zoom}
}

// Activate simulates a click on the marker with handle h.
func (l *Layer) Activate(h overlay.Handle) error {
	l.mu.RLock()
	e, ok := l.markers[h]
	var fn func()
	if ok {
		fn = e.onActivate
	}
	l.mu.RUnlock()

	if !ok {
		return ErrUnknownMarker
	}
	if fn != nil {
		fn()
	}
	return nil
}

// View returns the current viewport.
func (l *Layer) View() View {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.view
}

// Markers returns the placed markers in placement order.
func (l *Layer) Markers() []Marker {
	l.mu.RLock()
	out := make([]Marker, 0, len(l.markers))
	for _, e := range l.markers {
		out = append(out, e.Marker)
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
