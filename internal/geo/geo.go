// Package geo abstracts the geolocation collaborator that supplies the
// initial map position. Position failure is non-fatal: the client keeps
// working with map features disabled.
package geo

import (
	"context"
	"errors"

	"github.com/claude/maptrack/internal/models"
)

// ErrUnavailable is returned when no position can be determined. The message
// is the user-facing text.
var ErrUnavailable = errors.New("could not get your position")

// Provider supplies the current position.
type Provider interface {
	CurrentPosition(ctx context.Context) (models.Coords, error)
}

// Static serves a fixed position from configuration.
type Static struct {
	Coords models.Coords
}

func (s Static) CurrentPosition(context.Context) (models.Coords, error) {
	return s.Coords, nil
}

// Disabled is a provider with no position source.
type Disabled struct{}

func (Disabled) CurrentPosition(context.Context) (models.Coords, error) {
	return models.Coords{}, ErrUnavailable
}
