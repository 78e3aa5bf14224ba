package business

import (
	"cmp"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/evcraddock/emprende-tacna/internal/geo"
	"github.com/evcraddock/emprende-tacna/internal/kv"
)

// Keys of the two persisted collections.
const (
	KeyBusinesses = "businesses"
	KeyVisited    = "visitedPlaces"
)

// DefaultFeaturedLimit is the number of featured businesses shown by default.
const DefaultFeaturedLimit = 6

// createdAtLayout matches the ISO 8601 form browsers produce.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Store owns the business collection and the visited set. Every mutation
// rewrites the affected collection in full before it is committed in memory,
// so a failed write leaves the store unchanged.
//
// A Store is not safe for concurrent use.
type Store struct {
	kv     kv.Store
	now    func() time.Time
	random func() float64
	center geo.Position

	businesses []*Business
	visited    []int64
	visitedSet map[int64]struct{}
	lastID     int64

	// unreadable holds the keys the last Load could not read. Writing them
	// would replace data this store never saw.
	unreadable map[string]bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for ids and createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRandom sets the [0,1) source used to scatter coordinates.
func WithRandom(r func() float64) Option {
	return func(s *Store) { s.random = r }
}

// WithCenter sets the point new businesses are placed around.
func WithCenter(p geo.Position) Option {
	return func(s *Store) { s.center = p }
}

// NewStore creates an empty store over kv. Call Load to read persisted data.
func NewStore(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:         store,
		now:        time.Now,
		random:     rand.Float64,
		center:     geo.Center,
		visitedSet: make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collections with the persisted ones.
// Absent, unreadable or corrupt data yields empty collections.
//
// A key that could not be read because storage failed stays unwritable
// until a later Load reads it.
func (s *Store) Load() {
	s.unreadable = make(map[string]bool)
	var businesses []*Business
	if !s.read(KeyBusinesses, &businesses) {
		businesses = nil
	}
	var visited []int64
	if !s.read(KeyVisited, &visited) {
		visited = nil
	}

	s.businesses = slices.DeleteFunc(businesses, func(b *Business) bool { return b == nil })
	s.lastID = 0
	for _, b := range s.businesses {
		s.lastID = max(s.lastID, b.ID)
	}

	s.visited = s.visited[:0]
	s.visitedSet = make(map[int64]struct{}, len(visited))
	for _, id := range visited {
		if _, ok := s.visitedSet[id]; ok {
			continue
		}
		s.visitedSet[id] = struct{}{}
		s.visited = append(s.visited, id)
	}

	slog.Debug("business store loaded", "businesses", len(s.businesses), "visited", len(s.visited))
}

// read decodes key into v. It reports false when the value is absent or
// unusable; the caller falls back to an empty collection.
func (s *Store) read(key string, v any) bool {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		slog.Warn("reading persisted collection", "key", key, "error", err)
		s.unreadable[key] = true
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		slog.Warn("discarding corrupt persisted collection", "key", key, "error", err)
		return false
	}
	return true
}

// write serializes v in full under key.
func (s *Store) write(key string, v any) error {
	if s.unreadable[key] {
		return fmt.Errorf("saving %s: %w: collection was not loaded", key, ErrUnavailable)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.kv.Set(key, raw); err != nil {
		return fmt.Errorf("saving %s: %w: %w", key, ErrUnavailable, err)
	}
	return nil
}

// Create validates d and appends a new business built from it. On a
// validation failure the returned error is a *ValidationError and nothing
// changes.
func (s *Store) Create(d Draft) (*Business, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	pos := geo.Jitter(s.center, geo.JitterSpread, s.random)

	b := &Business{
		ID:          id,
		Name:        d.Name,
		Type:        d.Type,
		Description: d.Description,
		Address:     d.Address,
		Phone:       d.Phone,
		Hours:       d.Hours,
		Lat:         pos.Lat,
		Lng:         pos.Lng,
		CreatedAt:   now.UTC().Format(createdAtLayout),
		Visits:      0,
		Rating:      0,
		Owner:       d.Owner,
	}

	next := append(slices.Clip(s.businesses), b)
	if err := s.write(KeyBusinesses, next); err != nil {
		return nil, fmt.Errorf("creating business: %w", err)
	}
	s.businesses = next
	s.lastID = id

	slog.Info("business created", "id", b.ID, "type", b.Type)
	return clone(b), nil
}

// MarkVisited adds id to the visited set. It returns ErrAlreadyVisited when
// id is already present. The id is not checked against the collection.
func (s *Store) MarkVisited(id int64) error {
	if _, ok := s.visitedSet[id]; ok {
		return ErrAlreadyVisited
	}

	next := append(slices.Clip(s.visited), id)
	if err := s.write(KeyVisited, next); err != nil {
		return fmt.Errorf("marking %d visited: %w", id, err)
	}
	s.visited = next
	s.visitedSet[id] = struct{}{}
	return nil
}

// IsVisited reports whether id is in the visited set.
func (s *Store) IsVisited(id int64) bool {
	_, ok := s.visitedSet[id]
	return ok
}

// FindByID returns the business with the given id or ErrNotFound.
func (s *Store) FindByID(id int64) (*Business, error) {
	for _, b := range s.businesses {
		if b.ID == id {
			return clone(b), nil
		}
	}
	return nil, fmt.Errorf("business %d: %w", id, ErrNotFound)
}

// All returns every business in insertion order.
func (s *Store) All() []*Business {
	return cloneAll(s.businesses)
}

// FilterByCategory returns the businesses of category c in insertion order.
// CategoryAll returns the full collection.
func (s *Store) FilterByCategory(c Category) []*Business {
	if c == CategoryAll {
		return s.All()
	}
	out := make([]*Business, 0)
	for _, b := range s.businesses {
		if b.Type == c {
			out = append(out, clone(b))
		}
	}
	return out
}

// Featured returns up to limit businesses ordered by visits, most first.
// Ties keep insertion order. A non-positive limit means DefaultFeaturedLimit.
func (s *Store) Featured(limit int) []*Business {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	sorted := s.All()
	slices.SortStableFunc(sorted, func(a, b *Business) int {
		return cmp.Compare(b.Visits, a.Visits)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Visited returns the visited ids in the order they were marked.
func (s *Store) Visited() []int64 {
	return append(make([]int64, 0, len(s.visited)), s.visited...)
}

// VisitedBusinesses returns the visited businesses in collection order.
// Visited ids without a record are skipped.
func (s *Store) VisitedBusinesses() []*Business {
	out := make([]*Business, 0)
	for _, b := range s.businesses {
		if s.IsVisited(b.ID) {
			out = append(out, clone(b))
		}
	}
	return out
}

// Stats returns the collection counters.
func (s *Store) Stats() Stats {
	return Stats{Businesses: len(s.businesses), Visited: len(s.visited)}
}

func clone(b *Business) *Business {
	c := *b
	return &c
}

func cloneAll(bs []*Business) []*Business {
	out := make([]*Business, 0, len(bs))
	for _, b := range bs {
		out = append(out, clone(b))
	}
	return out
}
