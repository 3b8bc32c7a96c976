package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tides-mcp/tides/internal/tides"
	"github.com/tides-mcp/tides/internal/tracker"
)

// EndTideTool handles the end_tide MCP tool.
type EndTideTool struct {
	tracker Tracker
}

// NewEndTideTool creates an EndTideTool.
func NewEndTideTool(t Tracker) *EndTideTool {
	return &EndTideTool{tracker: t}
}

// Definition returns the MCP tool definition for registration.
func (t *EndTideTool) Definition() mcp.Tool {
	return mcp.NewTool("end_tide",
		mcp.WithDescription(
			"End an active tide by completing or pausing it. Ended tides accept no further flows.",
		),
		mcp.WithString("tide_id",
			mcp.Required(),
			mcp.Description("ID of the tide to end"),
		),
		mcp.WithString("outcome",
			mcp.Description("How the tide ends (default: completed)"),
			mcp.Enum("completed", "paused"),
		),
		mcp.WithString("note",
			mcp.Description("Optional closing note"),
		),
	)
}

// Handle processes the end_tide tool call.
func (t *EndTideTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tideID := strings.TrimSpace(req.GetString("tide_id", ""))
	if tideID == "" {
		return invalid("'tide_id' is required"), nil
	}
	outcome, err := tides.ParseOutcome(req.GetString("outcome", string(tides.StatusCompleted)))
	if err != nil {
		return toolError(err)
	}

	tide, err := t.tracker.End(ctx, tracker.EndInput{
		TideID:  tideID,
		Outcome: outcome,
		Note:    req.GetString("note", ""),
	})
	if err != nil {
		return toolError(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Tide %s\n\n", titleOutcome(tide.Status))
	writeTide(&b, tide)
	b.WriteString("\n")
	b.WriteString(endSummary(tide))

	return mcp.NewToolResultText(b.String()), nil
}

func titleOutcome(s tides.Status) string {
	switch s {
	case tides.StatusCompleted:
		return "Completed"
	case tides.StatusPaused:
		return "Paused"
	default:
		return string(s)
	}
}

func endSummary(t *tides.Tide) string {
	sessions := "sessions"
	if len(t.FlowHistory) == 1 {
		sessions = "session"
	}
	switch t.Status {
	case tides.StatusCompleted:
		return fmt.Sprintf("'%s' completed after %d %s (%d min). This cycle has run its course.",
			t.Name, len(t.FlowHistory), sessions, t.TotalMinutes())
	case tides.StatusPaused:
		return fmt.Sprintf("'%s' paused after %d %s (%d min). Start a new tide when the energy returns.",
			t.Name, len(t.FlowHistory), sessions, t.TotalMinutes())
	default:
		return ""
	}
}
