// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools, prompts and resources that depend on
// abstractions. No business logic lives here, only wiring.
package server

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/tides-mcp/tides/internal/prompts"
	"github.com/tides-mcp/tides/internal/resources"
	"github.com/tides-mcp/tides/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with every tool, prompt and resource
// registered against app.
//
// search_insights and the reflect prompt's journal step are only
// offered when app has a journal. The journal is resynced from the
// store before the server is returned.
func New(ctx context.Context, app *App) *server.MCPServer {
	s := server.NewMCPServer(
		"tides",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions(app.Journal != nil)),
	)

	// --- Register tide tools ---

	createTool := tools.NewCreateTideTool(app.Tracker)
	s.AddTool(createTool.Definition(), createTool.Handle)

	listTool := tools.NewListTidesTool(app.Tracker)
	s.AddTool(listTool.Definition(), listTool.Handle)

	flowTool := tools.NewFlowTideTool(app.Tracker)
	s.AddTool(flowTool.Definition(), flowTool.Handle)

	endTool := tools.NewEndTideTool(app.Tracker)
	s.AddTool(endTool.Definition(), endTool.Handle)

	getTool := tools.NewGetTideTool(app.Tracker)
	s.AddTool(getTool.Definition(), getTool.Handle)

	// --- Register journal tools ---

	if app.Journal != nil {
		app.SyncJournal(ctx)
		searchTool := tools.NewSearchInsightsTool(app.Journal)
		s.AddTool(searchTool.Definition(), searchTool.Handle)
	}

	// --- Register prompts ---

	checkIn := prompts.NewCheckInPrompt()
	s.AddPrompt(checkIn.Definition(), checkIn.Handle)

	reflect := prompts.NewReflectPrompt(app.Journal != nil)
	s.AddPrompt(reflect.Definition(), reflect.Handle)

	// --- Register resources ---

	rh := resources.NewHandler(app.Tracker)
	s.AddResource(rh.AllTidesResource(), rh.HandleAll)
	s.AddResource(rh.ActiveTidesResource(), rh.HandleActive)

	return s
}

// Serve runs s on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func serverInstructions(withJournal bool) string {
	text := `# Tides

Tides tracks rhythmic work cycles. A tide is a named cycle (daily, weekly,
project or seasonal); a flow is one recorded session on it.

## Tools

- create_tide: start tracking a new cycle. Returns its id.
- list_tides: browse tides, filtered by type, status and creation date.
- flow_tide: record a session on an active tide. Intensity gentle, moderate
  or strong sets the default duration (15, 25, 50 min). The next session is
  scheduled from the tide's cadence or from cadence_days.
- end_tide: complete or pause a tide. Ended tides accept no more flows.
- get_tide: show one tide with its flow history.

## Working with the user

1. Use list_tides with active_only=true before suggesting a session.
2. Always pass ids exactly as returned; never invent them.
3. Ask for an insight at the end of a session and record it with the next
   flow_tide call.
4. If a tool reports the store is busy, wait a moment and retry once.
`
	if withJournal {
		text += `
## Insights

search_insights runs a full-text search over insights from past flows.
Use it before a session to recall what helped last time.
`
	}
	return text
}
