// Package app is the command layer between a user interface and the
// directory: it runs store commands, keeps the map overlay in step with the
// current view, and turns outcomes into notifications.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/evcraddock/emprende-tacna/internal/business"
	"github.com/evcraddock/emprende-tacna/internal/geo"
	"github.com/evcraddock/emprende-tacna/internal/overlay"
)

// Activator is implemented by maps that can activate a marker on request.
type Activator interface {
	Activate(h overlay.Handle) error
}

// Details is the business detail view.
type Details struct {
	*business.Business
	Label         string `json:"label"`
	PhoneText     string `json:"phoneText"`
	HoursText     string `json:"hoursText"`
	DirectionsURL string `json:"directionsUrl"`
	Visited       bool   `json:"visited"`
}

// App serializes every command, so the store and overlay only ever see one
// caller at a time.
type App struct {
	mu        sync.Mutex
	store     *business.Store
	overlay   *overlay.Sync
	activator Activator
	filter    business.Category
	selected  int64
}

// New creates an app over a store and overlay. Call Start before use.
func New(store *business.Store, ov *overlay.Sync) *App {
	return &App{store: store, overlay: ov, filter: business.CategoryAll}
}

// Start loads the store, shows every business and attaches the map. A nil
// map leaves the overlay deferred until Attach is called.
func (a *App) Start(m overlay.Map) overlay.Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.store.Load()
	a.overlay.OnMarkerActivated(func(id int64) { a.selected = id })
	res := a.overlay.Reconcile(a.store.FilterByCategory(a.filter))
	if m != nil {
		res = a.attach(m)
	}
	return res
}

// Attach connects a map that became available after Start.
func (a *App) Attach(m overlay.Map) overlay.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.attach(m)
}

func (a *App) attach(m overlay.Map) overlay.Result {
	if act, ok := m.(Activator); ok {
		a.activator = act
	}
	return a.overlay.Attach(m)
}

// Submit registers a new business from a form draft.
func (a *App) Submit(d business.Draft) (*business.Business, Notification, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, err := a.store.Create(d)
	if err != nil {
		var verr *business.ValidationError
		if errors.As(err, &verr) {
			return nil, failure(verr.Message), err
		}
		slog.Error("creating business", "error", err)
		return nil, failure(MsgSaveFailed), err
	}

	a.overlay.Reconcile(a.store.FilterByCategory(a.filter))
	return b, success(MsgCreated), nil
}

// Filter changes the category shown on the map and returns the matching
// businesses.
func (a *App) Filter(c business.Category) ([]*business.Business, overlay.Result) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.filter = c
	recs := a.store.FilterByCategory(c)
	return recs, a.overlay.Reconcile(recs)
}

// CurrentFilter returns the category currently shown on the map.
func (a *App) CurrentFilter() business.Category {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filter
}

// Details returns the detail view of a business.
func (a *App) Details(id int64) (*Details, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.details(id)
}

func (a *App) details(id int64) (*Details, error) {
	b, err := a.store.FindByID(id)
	if err != nil {
		return nil, err
	}

	d := &Details{
		Business:      b,
		Label:         b.Type.Label(),
		PhoneText:     b.Phone,
		HoursText:     b.Hours,
		DirectionsURL: geo.DirectionsURL(geo.Position{Lat: b.Lat, Lng: b.Lng}),
		Visited:       a.store.IsVisited(id),
	}
	if d.PhoneText == "" {
		d.PhoneText = MsgNoPhone
	}
	if d.HoursText == "" {
		d.HoursText = MsgNoHours
	}
	return d, nil
}

// ActivateMarker activates the marker with handle h and returns the details
// of the business it belongs to.
func (a *App) ActivateMarker(h overlay.Handle) (*Details, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.activator == nil {
		return nil, fmt.Errorf("activating marker: map not ready")
	}
	a.selected = 0
	if err := a.activator.Activate(h); err != nil {
		return nil, fmt.Errorf("activating marker %s: %w", h, err)
	}
	if a.selected == 0 {
		return nil, fmt.Errorf("marker %s: %w", h, business.ErrNotFound)
	}
	return a.details(a.selected)
}

// MarkVisited adds a business to the visited places. Repeating it returns
// business.ErrAlreadyVisited with a warning rather than a failure.
func (a *App) MarkVisited(id int64) (Notification, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.store.MarkVisited(id)
	switch {
	case err == nil:
		return success(MsgVisited), nil
	case errors.Is(err, business.ErrAlreadyVisited):
		return warning(MsgAlreadyVisited), err
	default:
		slog.Error("marking visited", "id", id, "error", err)
		return failure(MsgSaveFailed), err
	}
}

// VisitedPlaces lists the visited businesses.
func (a *App) VisitedPlaces() ([]*business.Business, Notification) {
	a.mu.Lock()
	defer a.mu.Unlock()

	visited := a.store.VisitedBusinesses()
	if len(visited) == 0 {
		return visited, info(MsgNoVisits)
	}
	return visited, Notification{}
}

// Featured returns the featured businesses.
func (a *App) Featured(limit int) ([]*business.Business, Notification) {
	a.mu.Lock()
	defer a.mu.Unlock()

	featured := a.store.Featured(limit)
	if len(featured) == 0 {
		return featured, info(MsgNoBusinesses)
	}
	return featured, Notification{}
}

// Stats returns the directory counters.
func (a *App) Stats() business.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Stats()
}

// Locate asks p for the user's position once and centers the map on it.
// The app is not locked while waiting for the provider.
func (a *App) Locate(ctx context.Context, p geo.Provider) (geo.Position, Notification, error) {
	pos, err := geo.Locate(ctx, p, geo.DefaultOptions)
	if err != nil {
		var gerr *geo.Error
		if errors.As(err, &gerr) {
			return geo.Position{}, failure(gerr.Code.Message()), err
		}
		return geo.Position{}, failure(geo.ErrorCode(-1).Message()), err
	}

	a.mu.Lock()
	a.overlay.ShowUserLocation(pos)
	a.mu.Unlock()

	return pos, success(MsgLocated), nil
}
