package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type discriminates the two workout variants.
type Type string

const (
	TypeRunning Type = "running"
	TypeCycling Type = "cycling"
)

// Coords is a (latitude, longitude) pair.
type Coords [2]float64

// Lat returns the latitude component.
func (c Coords) Lat() float64 { return c[0] }

// Lng returns the longitude component.
func (c Coords) Lng() float64 { return c[1] }

// Workout is one stored workout record. Exactly one variant payload is set,
// selected by Type: running carries Cadence+Pace, cycling carries
// ElevationGain+Speed. Derived metrics are computed once by the constructors
// and never recomputed afterwards; records reloaded from persistence keep
// whatever values were stored.
type Workout struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Coords      Coords    `json:"coords"`
	Distance    float64   `json:"distance"` // km
	Duration    float64   `json:"duration"` // min
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Clicks      int       `json:"clicks"`

	// Running payload
	Cadence *float64 `json:"cadence,omitempty"` // steps/min
	Pace    *float64 `json:"pace,omitempty"`    // min/km

	// Cycling payload
	ElevationGain *float64 `json:"elevationGain,omitempty"` // m, may be negative
	Speed         *float64 `json:"speed,omitempty"`         // km/h
}

// NewRunning constructs a running workout with pace = duration/distance.
// Inputs are taken as-is; validation is the caller's responsibility.
func NewRunning(coords Coords, distance, duration, cadence float64) *Workout {
	w := newWorkout(TypeRunning, coords, distance, duration)
	pace := duration / distance
	w.Cadence = &cadence
	w.Pace = &pace
	return w
}

// NewCycling constructs a cycling workout with speed = distance/(duration/60).
// Inputs are taken as-is; validation is the caller's responsibility.
func NewCycling(coords Coords, distance, duration, elevationGain float64) *Workout {
	w := newWorkout(TypeCycling, coords, distance, duration)
	speed := distance / (duration / 60)
	w.ElevationGain = &elevationGain
	w.Speed = &speed
	return w
}

func newWorkout(typ Type, coords Coords, distance, duration float64) *Workout {
	now := time.Now()
	w := &Workout{
		ID:       uuid.NewString(),
		Type:     typ,
		Coords:   coords,
		Distance: distance,
		Duration: duration,
		Date:     now,
	}
	w.Description = describe(typ, now)
	return w
}

// Click records one interaction with the workout (a list row visit).
func (w *Workout) Click() {
	w.Clicks++
}

func describe(typ Type, date time.Time) string {
	label := string(typ)
	if len(label) > 0 {
		label = string(label[0]-'a'+'A') + label[1:]
	}
	return fmt.Sprintf("%s on %s %d", label, date.Month().String(), date.Day())
}
