package models

import (
	"errors"
	"math"
)

// ErrInvalidInput is returned when submitted workout numbers fail validation.
// The message is the user-facing text shown by clients.
var ErrInvalidInput = errors.New("validation error: inputs must be positive numbers")

// ValidateRunning checks a running submission: all three inputs must be
// finite and strictly positive.
func ValidateRunning(distance, duration, cadence float64) error {
	if !finite(distance, duration, cadence) || !positive(distance, duration, cadence) {
		return ErrInvalidInput
	}
	return nil
}

// ValidateCycling checks a cycling submission. Elevation gain only has to be
// finite: zero or negative values pass, since a ride can lose elevation.
// Distance and duration must be finite and strictly positive.
func ValidateCycling(distance, duration, elevationGain float64) error {
	if !finite(distance, duration, elevationGain) || !positive(distance, duration) {
		return ErrInvalidInput
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func positive(vs ...float64) bool {
	for _, v := range vs {
		if v <= 0 {
			return false
		}
	}
	return true
}
