package mcp

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/claude/maptrack/internal/models"
	"github.com/claude/maptrack/internal/persist"
	"github.com/claude/maptrack/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

func newTestHandlers() *handlers {
	return &handlers{
		st:     store.New(),
		bridge: persist.NewBridge(persist.NewMemory()),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// TestAddWorkoutTool verifies add_workout creates a record, derives the
// metric and writes the store through to the blob.
func TestAddWorkoutTool(t *testing.T) {
	h := newTestHandlers()

	res, err := h.addWorkout(context.Background(), callReq(map[string]any{
		"type": "running", "lat": 10.0, "lng": 20.0,
		"distance": 5.0, "duration": 30.0, "cadence": 150.0,
	}))
	if err != nil {
		t.Fatalf("addWorkout: %v", err)
	}
	if res.IsError {
		t.Fatalf("addWorkout returned tool error: %+v", res)
	}
	if h.st.Len() != 1 {
		t.Fatalf("store len = %d, want 1", h.st.Len())
	}

	w := h.st.All()[0]
	if w.Pace == nil || *w.Pace != 6 {
		t.Errorf("pace = %v, want 6", w.Pace)
	}

	persisted, err := h.bridge.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(persisted) != 1 {
		t.Errorf("blob holds %d records, want 1", len(persisted))
	}
}

// TestAddWorkoutToolRejectsInvalid verifies validation failures surface as
// tool errors and leave the store untouched.
func TestAddWorkoutToolRejectsInvalid(t *testing.T) {
	h := newTestHandlers()

	res, err := h.addWorkout(context.Background(), callReq(map[string]any{
		"type": "running", "lat": 0.0, "lng": 0.0,
		"distance": -1.0, "duration": 30.0, "cadence": 150.0,
	}))
	if err != nil {
		t.Fatalf("addWorkout: %v", err)
	}
	if !res.IsError {
		t.Error("invalid inputs accepted")
	}
	if h.st.Len() != 0 {
		t.Errorf("store len = %d, want 0", h.st.Len())
	}
}

// TestDeleteWorkoutToolNotFound verifies deleting an absent id is reported,
// not silently ignored.
func TestDeleteWorkoutToolNotFound(t *testing.T) {
	h := newTestHandlers()
	res, err := h.deleteWorkout(context.Background(), callReq(map[string]any{"id": "no-such-id"}))
	if err != nil {
		t.Fatalf("deleteWorkout: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for unknown id")
	}
}

// TestResetStorageTool verifies reset_storage empties the store and removes
// the blob key outright, so a reload sees no prior data rather than an
// empty list.
func TestResetStorageTool(t *testing.T) {
	h := newTestHandlers()
	ctx := context.Background()

	h.st.Append(models.NewRunning(models.Coords{10, 20}, 5, 30, 150))
	if err := h.bridge.Save(ctx, h.st.All()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	res, err := h.resetStorage(ctx, callReq(nil))
	if err != nil {
		t.Fatalf("resetStorage: %v", err)
	}
	if res.IsError {
		t.Fatalf("resetStorage returned tool error: %+v", res)
	}

	if h.st.Len() != 0 {
		t.Errorf("store len = %d, want 0", h.st.Len())
	}
	records, err := h.bridge.Load(ctx)
	if err != nil {
		t.Fatalf("Load after reset: %v", err)
	}
	if records != nil {
		t.Errorf("Load after reset = %v, want nil (no prior data)", records)
	}
}

// TestListWorkoutsToolSort verifies the sort argument reorders the store
// using the pace/speed fallback axis.
func TestListWorkoutsToolSort(t *testing.T) {
	h := newTestHandlers()
	cycling := models.NewCycling(models.Coords{11, 21}, 20, 60, -5) // speed 20
	running := models.NewRunning(models.Coords{10, 20}, 5, 30, 150) // pace 6
	h.st.Append(cycling)
	h.st.Append(running)

	res, err := h.listWorkouts(context.Background(), callReq(map[string]any{"sort": "pace", "dir": "asc"}))
	if err != nil {
		t.Fatalf("listWorkouts: %v", err)
	}
	if res.IsError {
		t.Fatalf("listWorkouts returned tool error: %+v", res)
	}

	all := h.st.All()
	if all[0].ID != running.ID {
		t.Errorf("first after sort = %s, want the running record", all[0].ID)
	}
}
