// Package store holds the in-memory ordered collection of workouts. It is
// the source of truth during a session; every mutation is mirrored to
// persistence by the caller.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/claude/maptrack/internal/models"
)

// ErrNotFound is returned when an operation references an id that is not in
// the store.
var ErrNotFound = errors.New("workout not found")

// Field names a sortable workout attribute.
type Field string

const (
	FieldDistance      Field = "distance"
	FieldDuration      Field = "duration"
	FieldPace          Field = "pace"
	FieldCadence       Field = "cadence"
	FieldElevationGain Field = "elevationGain"
)

// ParseField validates a sort field name from client input.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldDistance, FieldDuration, FieldPace, FieldCadence, FieldElevationGain:
		return f, nil
	default:
		return "", fmt.Errorf("unknown sort field %q", s)
	}
}

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Store is an ordered collection of workouts with unique ids. Insertion
// order is meaningful until a SortBy reorders it. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	workouts []*models.Workout
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// FromRecords returns a store populated with reloaded records, preserving
// their order.
func FromRecords(ws []*models.Workout) *Store {
	s := &Store{workouts: make([]*models.Workout, len(ws))}
	copy(s.workouts, ws)
	return s
}

// Len returns the number of stored workouts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workouts)
}

// All returns a snapshot of the current order. The records are copies, so
// callers can marshal them without racing a concurrent Visit.
func (s *Store) All() []*models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Workout, len(s.workouts))
	for i, w := range s.workouts {
		cp := *w
		out[i] = &cp
	}
	return out
}

// Append adds a workout at the end.
func (s *Store) Append(w *models.Workout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workouts = append(s.workouts, w)
}

// Find returns a copy of the workout with the given id, or nil.
func (s *Store) Find(id string) *models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		cp := *s.workouts[i]
		return &cp
	}
	return nil
}

// Visit increments the interaction counter of the workout with the given id
// and returns a copy of the updated record. The increment runs under the
// store lock, so snapshots taken by All never observe a torn write.
func (s *Store) Visit(id string) (*models.Workout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	s.workouts[i].Click()
	cp := *s.workouts[i]
	return &cp, true
}

// Replace substitutes the workout with the given id in place, preserving its
// position. Returns ErrNotFound when the id is absent.
func (s *Store) Replace(id string, w *models.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.workouts[i] = w
	return nil
}

// Remove deletes the workout with the given id. Removing an absent id is a
// no-op; the return value reports whether anything was removed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.workouts = append(s.workouts[:i], s.workouts[i+1:]...)
	return true
}

// Clear empties the store unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workouts = nil
}

// SortBy orders the workouts by the named field. The sort is stable: ties
// keep their previous relative order, so repeating a sort is idempotent.
//
// On the pace axis a record without a pace reads its speed instead, letting
// mixed running/cycling lists share one intensity ordering without unit
// conversion. Any other absent field compares as 0.
func (s *Store) SortBy(field Field, dir Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sort.SliceStable(s.workouts, func(i, j int) bool {
		a := sortValue(s.workouts[i], field)
		b := sortValue(s.workouts[j], field)
		if dir == Descending {
			return a > b
		}
		return a < b
	})
}

func (s *Store) indexOf(id string) int {
	for i, w := range s.workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func sortValue(w *models.Workout, field Field) float64 {
	switch field {
	case FieldDistance:
		return w.Distance
	case FieldDuration:
		return w.Duration
	case FieldPace:
		if w.Pace != nil {
			return *w.Pace
		}
		if w.Speed != nil {
			return *w.Speed
		}
	case FieldCadence:
		if w.Cadence != nil {
			return *w.Cadence
		}
	case FieldElevationGain:
		if w.ElevationGain != nil {
			return *w.ElevationGain
		}
	}
	return 0
}
