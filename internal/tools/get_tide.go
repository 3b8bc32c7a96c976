package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tides-mcp/tides/internal/tides"
)

// maxHistoryRows caps the flow table in get_tide output.
const maxHistoryRows = 20

// GetTideTool handles the get_tide MCP tool.
type GetTideTool struct {
	tracker Tracker
}

// NewGetTideTool creates a GetTideTool.
func NewGetTideTool(t Tracker) *GetTideTool {
	return &GetTideTool{tracker: t}
}

// Definition returns the MCP tool definition for registration.
func (t *GetTideTool) Definition() mcp.Tool {
	return mcp.NewTool("get_tide",
		mcp.WithDescription("Show one tide with its recent flow history."),
		mcp.WithString("tide_id",
			mcp.Required(),
			mcp.Description("ID of the tide"),
		),
	)
}

// Handle processes the get_tide tool call.
func (t *GetTideTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tideID := strings.TrimSpace(req.GetString("tide_id", ""))
	if tideID == "" {
		return invalid("'tide_id' is required"), nil
	}

	tide, err := t.tracker.Get(ctx, tideID)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(renderTideDetail(tide)), nil
}

func renderTideDetail(tide *tides.Tide) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", tide.Name)
	writeTide(&b, tide)

	if len(tide.FlowHistory) == 0 {
		b.WriteString("\nNo flows recorded yet.\n")
		return b.String()
	}

	b.WriteString("\n## Flow History\n\n")
	history := tide.FlowHistory
	if len(history) > maxHistoryRows {
		fmt.Fprintf(&b, "_Showing the last %d of %d flows._\n\n", maxHistoryRows, len(history))
		history = history[len(history)-maxHistoryRows:]
	}
	b.WriteString("| Started | Intensity | Minutes | Insight |\n")
	b.WriteString("|---------|-----------|---------|---------|\n")
	for _, f := range history {
		insight := "-"
		if f.Insight != "" {
			insight = escapeCell(truncate(f.Insight, 120))
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n",
			f.StartedAt.UTC().Format(timeLayout), f.Intensity, f.DurationMinutes, insight)
	}
	return b.String()
}
