// Package mcp exposes the workout store over the Model Context Protocol so
// assistants can read and edit the same records the map widget shows. Every
// mutating tool writes the store through to the blob, matching the HTTP
// controller's behavior.
package mcp

import (
	"log/slog"

	"github.com/claude/maptrack/internal/persist"
	"github.com/claude/maptrack/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(st *store.Store, bridge *persist.Bridge, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Maptrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Maptrack workout tracker. List, add, edit-adjacent (delete and re-add), sort and clear running/cycling workouts. Distances are km, durations minutes."),
	)

	h := &handlers{st: st, bridge: bridge, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolAddWorkout, Handler: h.addWorkout},
		server.ServerTool{Tool: toolDeleteWorkout, Handler: h.deleteWorkout},
		server.ServerTool{Tool: toolClearWorkouts, Handler: h.clearWorkouts},
		server.ServerTool{Tool: toolResetStorage, Handler: h.resetStorage},
	)

	s.AddResources(
		server.ServerResource{Resource: resWorkouts, Handler: h.workoutList},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	st     *store.Store
	bridge *persist.Bridge
	log    *slog.Logger
}

var resWorkouts = mcp.NewResource(
	"maptrack://workouts",
	"Workouts",
	mcp.WithResourceDescription("All stored workouts in their current order, derived metrics included"),
	mcp.WithMIMEType("application/json"),
)
