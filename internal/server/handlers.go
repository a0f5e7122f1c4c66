package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/maptrack/internal/models"
	"github.com/claude/maptrack/internal/store"
	"github.com/go-chi/chi/v5"
)

var errUnknownType = errors.New("unknown workout type")

func writeValidationError(w http.ResponseWriter, err error) {
	status := http.StatusUnprocessableEntity
	if errors.Is(err, errUnknownType) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// workoutForm is the submit payload for creating or editing a workout.
// Cadence applies to running, elevationGain to cycling; the other is ignored.
type workoutForm struct {
	Type          string  `json:"type"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	Distance      float64 `json:"distance"`
	Duration      float64 `json:"duration"`
	Cadence       float64 `json:"cadence"`
	ElevationGain float64 `json:"elevationGain"`
}

// Marker is a render instruction for the client's map widget.
type Marker struct {
	Coords    models.Coords `json:"coords"`
	Popup     string        `json:"popup"`
	ClassName string        `json:"className"`
}

func markerFor(w *models.Workout) Marker {
	return Marker{
		Coords:    w.Coords,
		Popup:     w.Description,
		ClassName: string(w.Type) + "-popup",
	}
}

// buildWorkout validates the form and constructs the variant record.
func buildWorkout(form workoutForm, coords models.Coords) (*models.Workout, error) {
	switch models.Type(form.Type) {
	case models.TypeRunning:
		if err := models.ValidateRunning(form.Distance, form.Duration, form.Cadence); err != nil {
			return nil, err
		}
		return models.NewRunning(coords, form.Distance, form.Duration, form.Cadence), nil
	case models.TypeCycling:
		if err := models.ValidateCycling(form.Distance, form.Duration, form.ElevationGain); err != nil {
			return nil, err
		}
		return models.NewCycling(coords, form.Distance, form.Duration, form.ElevationGain), nil
	default:
		return nil, errUnknownType
	}
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var form workoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	workout, err := buildWorkout(form, models.Coords{form.Lat, form.Lng})
	if err != nil {
		writeValidationError(w, err)
		return
	}

	// snapshot before the store takes ownership of the pointer
	snap := *workout
	s.store.Append(workout)
	if err := s.persistStore(r.Context()); err != nil {
		s.log.Error("persist failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"workout": &snap,
		"marker":  markerFor(&snap),
	})
}

func (s *Server) handleEditWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing := s.store.Find(id)
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}

	var form workoutForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	// An edit rebuilds the record at the same position; only the map location
	// carries over. The replacement gets a fresh id, date and description.
	edited, err := buildWorkout(form, existing.Coords)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	snap := *edited
	if err := s.store.Replace(id, edited); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	if err := s.persistStore(r.Context()); err != nil {
		s.log.Error("persist failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"removedMarker": id,
		"workout":       &snap,
		"marker":        markerFor(&snap),
	})
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.Remove(id) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	if err := s.persistStore(r.Context()); err != nil {
		s.log.Error("persist failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"removedMarker": id})
}

func (s *Server) handleClearWorkouts(w http.ResponseWriter, r *http.Request) {
	s.store.Clear()
	if err := s.persistStore(r.Context()); err != nil {
		s.log.Error("persist failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	if sortParam := r.URL.Query().Get("sort"); sortParam != "" {
		field, err := store.ParseField(sortParam)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		dir := store.Ascending
		if r.URL.Query().Get("dir") == "desc" {
			dir = store.Descending
		}
		s.store.SortBy(field, dir)

		// the sorted order becomes the stored order
		if err := s.persistStore(r.Context()); err != nil {
			s.log.Error("persist failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	workouts := s.store.All()
	markers := make([]Marker, len(workouts))
	for i, wo := range workouts {
		markers[i] = markerFor(wo)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workouts": workouts,
		"markers":  markers,
	})
}

func (s *Server) handleVisitWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	workout, ok := s.store.Visit(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}

	if err := s.persistStore(r.Context()); err != nil {
		s.log.Error("persist failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"workout": workout,
		"panTo": map[string]any{
			"coords": workout.Coords,
			"zoom":   s.zoom,
		},
	})
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	coords, err := s.locator.CurrentPosition(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"coords": coords,
		"zoom":   s.zoom,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
