package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/maptrack/internal/models"
	"github.com/claude/maptrack/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List all workouts in stored order. Optionally sort them first; the sorted order is persisted. On the pace axis, cycling records are compared via their speed."),
	mcp.WithString("sort", mcp.Description("Sort field"), mcp.Enum("distance", "duration", "pace", "cadence", "elevationGain")),
	mcp.WithString("dir", mcp.Description("Sort direction. Defaults to asc."), mcp.Enum("asc", "desc")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get a single workout by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

var toolAddWorkout = mcp.NewTool("add_workout",
	mcp.WithDescription("Add a workout at a map location. Running needs cadence (steps/min), cycling needs elevation_gain (meters, may be negative). Distance km and duration min must be positive."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Workout variant"), mcp.Enum("running", "cycling")),
	mcp.WithNumber("lat", mcp.Required(), mcp.Description("Latitude")),
	mcp.WithNumber("lng", mcp.Required(), mcp.Description("Longitude")),
	mcp.WithNumber("distance", mcp.Required(), mcp.Description("Distance in km")),
	mcp.WithNumber("duration", mcp.Required(), mcp.Description("Duration in minutes")),
	mcp.WithNumber("cadence", mcp.Description("Cadence in steps/min (running)")),
	mcp.WithNumber("elevation_gain", mcp.Description("Elevation gain in meters (cycling)")),
)

var toolDeleteWorkout = mcp.NewTool("delete_workout",
	mcp.WithDescription("Delete a workout by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

var toolClearWorkouts = mcp.NewTool("clear_workouts",
	mcp.WithDescription("Delete all workouts. The empty list is persisted."),
)

var toolResetStorage = mcp.NewTool("reset_storage",
	mcp.WithDescription("Delete all workouts and remove the persisted blob entirely, as if the tracker had never been used."),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if sortParam := req.GetString("sort", ""); sortParam != "" {
		field, err := store.ParseField(sortParam)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dir := store.Ascending
		if req.GetString("dir", "asc") == "desc" {
			dir = store.Descending
		}
		h.st.SortBy(field, dir)
		if err := h.bridge.Save(ctx, h.st.All()); err != nil {
			h.log.Error("mcp list_workouts persist", "error", err)
			return mcp.NewToolResultError("persist failed: " + err.Error()), nil
		}
	}

	result, err := mcp.NewToolResultJSON(h.st.All())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	w := h.st.Find(id)
	if w == nil {
		return mcp.NewToolResultError("workout not found"), nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) addWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	lat, err := req.RequireFloat("lat")
	if err != nil {
		return mcp.NewToolResultError("lat parameter is required"), nil
	}
	lng, err := req.RequireFloat("lng")
	if err != nil {
		return mcp.NewToolResultError("lng parameter is required"), nil
	}
	distance, err := req.RequireFloat("distance")
	if err != nil {
		return mcp.NewToolResultError("distance parameter is required"), nil
	}
	duration, err := req.RequireFloat("duration")
	if err != nil {
		return mcp.NewToolResultError("duration parameter is required"), nil
	}

	coords := models.Coords{lat, lng}
	var w *models.Workout
	switch models.Type(typ) {
	case models.TypeRunning:
		cadence := req.GetFloat("cadence", 0)
		if err := models.ValidateRunning(distance, duration, cadence); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		w = models.NewRunning(coords, distance, duration, cadence)
	case models.TypeCycling:
		elevation := req.GetFloat("elevation_gain", 0)
		if err := models.ValidateCycling(distance, duration, elevation); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		w = models.NewCycling(coords, distance, duration, elevation)
	default:
		return mcp.NewToolResultError("unknown workout type"), nil
	}

	// snapshot before the store takes ownership of the pointer
	snap := *w
	h.st.Append(w)
	if err := h.bridge.Save(ctx, h.st.All()); err != nil {
		h.log.Error("mcp add_workout persist", "error", err)
		return mcp.NewToolResultError("persist failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(&snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) deleteWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	if !h.st.Remove(id) {
		return mcp.NewToolResultError("workout not found"), nil
	}
	if err := h.bridge.Save(ctx, h.st.All()); err != nil {
		h.log.Error("mcp delete_workout persist", "error", err)
		return mcp.NewToolResultError("persist failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("deleted " + id), nil
}

func (h *handlers) clearWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.st.Clear()
	if err := h.bridge.Save(ctx, h.st.All()); err != nil {
		h.log.Error("mcp clear_workouts persist", "error", err)
		return mcp.NewToolResultError("persist failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("all workouts deleted"), nil
}

// resetStorage goes one step further than clear_workouts: it drops the blob
// key itself, so the next startup sees no prior data at all.
func (h *handlers) resetStorage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.st.Clear()
	if err := h.bridge.Reset(ctx); err != nil {
		h.log.Error("mcp reset_storage", "error", err)
		return mcp.NewToolResultError("reset failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText("storage reset"), nil
}

// --- Resource handlers ---

func (h *handlers) workoutList(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(h.st.All())
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
