// Package overlay keeps the markers on a map in step with a list of
// businesses and routes marker activations back to the caller.
package overlay

import (
	"log/slog"

	"github.com/evcraddock/emprende-tacna/internal/business"
	"github.com/evcraddock/emprende-tacna/internal/geo"
)

// Handle identifies a marker placed on a Map.
type Handle string

// Map is the mapping widget the overlay drives.
type Map interface {
	AddMarker(lat, lng float64, icon Icon) Handle
	RemoveMarker(h Handle)
	BindPopup(h Handle, html string)
	OnActivate(h Handle, fn func())
	SetView(lat, lng float64, zoom int)
}

// Result counts the marker changes made by one Reconcile.
type Result struct {
	Added    int  `json:"added"`
	Removed  int  `json:"removed"`
	Deferred bool `json:"deferred"`
}

// UserLocationPopup is the popup text of the user position marker.
const UserLocationPopup = "¡Tu ubicación actual!"

// Sync owns the mapping from business id to placed marker. Marker handles
// are never read back from the widget. Sync is not safe for concurrent use.
type Sync struct {
	m        Map
	markers  map[int64]Handle
	pending  []*business.Business
	deferred bool
	applied  []*business.Business
	onActive func(id int64)
	user     Handle
}

// NewSync creates a Sync with no map attached.
func NewSync() *Sync {
	return &Sync{markers: make(map[int64]Handle)}
}

// Ready reports whether a map has been attached.
func (s *Sync) Ready() bool {
	return s.m != nil
}

// Attach initializes the overlay on m and centers it on the city. The last
// reconcile requested before a map was ready is replayed. Attaching a
// different map moves the current markers onto it.
func (s *Sync) Attach(m Map) Result {
	var target []*business.Business
	replay := false
	if s.m != nil && s.m != m {
		s.detach()
		target, replay = s.applied, true
	}

	s.m = m
	m.SetView(geo.Center.Lat, geo.Center.Lng, geo.DefaultZoom)

	if s.deferred {
		target, replay = s.pending, true
		s.pending, s.deferred = nil, false
	}
	if !replay {
		return Result{}
	}
	slog.Debug("replaying reconcile on attach", "records", len(target))
	return s.Reconcile(target)
}

// detach removes every marker from the current map and forgets its handles.
func (s *Sync) detach() {
	for id, h := range s.markers {
		s.m.RemoveMarker(h)
		delete(s.markers, id)
	}
	if s.user != "" {
		s.m.RemoveMarker(s.user)
		s.user = ""
	}
}

// OnMarkerActivated registers fn to receive the business id of an activated
// marker, replacing any previous handler.
func (s *Sync) OnMarkerActivated(fn func(id int64)) {
	s.onActive = fn
}

// Reconcile makes the placed markers match records exactly: markers for
// businesses not in records are removed, missing ones are added, and the
// rest are left untouched. Nil entries are skipped. Before a map is
// attached the target is kept and applied on Attach.
func (s *Sync) Reconcile(records []*business.Business) Result {
	if s.m == nil {
		s.pending = records
		s.deferred = true
		slog.Debug("map not ready, deferring reconcile", "records", len(records))
		return Result{Deferred: true}
	}

	want := make(map[int64]*business.Business, len(records))
	for _, b := range records {
		if b == nil {
			continue
		}
		if _, dup := want[b.ID]; !dup {
			want[b.ID] = b
		}
	}

	var res Result
	for id, h := range s.markers {
		if _, ok := want[id]; ok {
			continue
		}
		s.m.RemoveMarker(h)
		delete(s.markers, id)
		res.Removed++
	}

	for _, b := range records {
		if b == nil {
			continue
		}
		if _, ok := s.markers[b.ID]; ok {
			continue
		}
		s.markers[b.ID] = s.place(b)
		res.Added++
	}

	s.applied = records
	return res
}

// place adds the marker for b and wires its popup and activation.
func (s *Sync) place(b *business.Business) Handle {
	h := s.m.AddMarker(b.Lat, b.Lng, IconFor(b.Type))
	s.m.BindPopup(h, PopupHTML(b))
	id := b.ID
	s.m.OnActivate(h, func() { s.activate(id, h) })
	return h
}

// activate ignores handles that were removed, even if the business has
// since been redisplayed under a new marker.
func (s *Sync) activate(id int64, h Handle) {
	if cur, ok := s.markers[id]; !ok || cur != h {
		return
	}
	if s.onActive != nil {
		s.onActive(id)
	}
}

// Marker returns the handle placed for a business id.
func (s *Sync) Marker(id int64) (Handle, bool) {
	h, ok := s.markers[id]
	return h, ok
}

// Len returns the number of business markers placed.
func (s *Sync) Len() int {
	return len(s.markers)
}

// ShowUserLocation centers the map on p and places the single user
// location marker, replacing any earlier one. It reports false when no map
// is attached.
func (s *Sync) ShowUserLocation(p geo.Position) bool {
	if s.m == nil {
		return false
	}
	s.m.SetView(p.Lat, p.Lng, geo.LocateZoom)
	if s.user != "" {
		s.m.RemoveMarker(s.user)
	}
	s.user = s.m.AddMarker(p.Lat, p.Lng, Icon{Color: "blue", Glyph: "location-crosshairs"})
	s.m.BindPopup(s.user, UserLocationPopup)
	return true
}
