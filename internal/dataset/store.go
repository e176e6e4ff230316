package dataset

import (
	"slices"
	"sync"
	"time"

	"github.com/tavsec/gin-healthcheck/checks"

	"github.com/rm-hull/prix-carburants-api/internal/models"
)

// Snapshot is one complete, immutable result of a refresh cycle.
type Snapshot struct {
	Stations    []*models.Station
	Loaded      bool
	LastUpdated time.Time
	// Generation increases by one with every Replace; zero means never loaded.
	Generation uint64
}

var empty = &Snapshot{}

type Store struct {
	mu       sync.RWMutex
	snapshot *Snapshot
	byID     map[string]*models.Station
	now      func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		snapshot: empty,
		byID:     map[string]*models.Station{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace swaps in a new snapshot. The store takes ownership of the slice.
// An empty slice still marks the store as loaded. Stations without an id are
// not indexed, and the first of several sharing an id wins the index.
func (s *Store) Replace(stations []*models.Station) *Snapshot {
	byID := make(map[string]*models.Station, len(stations))
	for _, station := range stations {
		if station.ID == "" {
			continue
		}
		if _, exists := byID[station.ID]; !exists {
			byID[station.ID] = station
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := &Snapshot{
		Stations:    stations,
		Loaded:      true,
		LastUpdated: s.now(),
		Generation:  s.snapshot.Generation + 1,
	}
	s.snapshot = next
	s.byID = byID

	return next
}

func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Stations returns a shallow copy; the stations themselves are shared and read-only.
func (s *Store) Stations() []*models.Station {
	return slices.Clone(s.Snapshot().Stations)
}

func (s *Store) IsLoaded() bool {
	return s.Snapshot().Loaded
}

func (s *Store) LastUpdated() (time.Time, bool) {
	snapshot := s.Snapshot()
	return snapshot.LastUpdated, snapshot.Loaded
}

func (s *Store) Count() int {
	return len(s.Snapshot().Stations)
}

func (s *Store) Find(id string) (*models.Station, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	station, ok := s.byID[id]
	return station, ok
}

type datasetCheck struct {
	store *Store
}

func (c datasetCheck) Pass() bool {
	return c.store.IsLoaded()
}

func (c datasetCheck) Name() string {
	return "dataset"
}

func (s *Store) Check() checks.Check {
	return datasetCheck{store: s}
}
