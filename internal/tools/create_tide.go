package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tides-mcp/tides/internal/tides"
	"github.com/tides-mcp/tides/internal/tracker"
)

// CreateTideTool handles the create_tide MCP tool.
type CreateTideTool struct {
	tracker Tracker
}

// NewCreateTideTool creates a CreateTideTool.
func NewCreateTideTool(t Tracker) *CreateTideTool {
	return &CreateTideTool{tracker: t}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateTideTool) Definition() mcp.Tool {
	return mcp.NewTool("create_tide",
		mcp.WithDescription(
			"Create a new tide: a named, rhythmic work cycle. "+
				"Daily and weekly tides are scheduled automatically after each flow; "+
				"project and seasonal tides follow the configured cadence or the cadence_days given to flow_tide.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the tide, e.g. 'Morning Deep Work'"),
		),
		mcp.WithString("tide_type",
			mcp.Required(),
			mcp.Description("Rhythm of the tide"),
			mcp.Enum("daily", "weekly", "project", "seasonal"),
		),
		mcp.WithString("description",
			mcp.Description("Optional description of what this tide is for"),
		),
	)
}

// Handle processes the create_tide tool call.
func (t *CreateTideTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if strings.TrimSpace(name) == "" {
		return invalid("'name' is required"), nil
	}
	tideType, err := tides.ParseTideType(req.GetString("tide_type", ""))
	if err != nil {
		return toolError(err)
	}

	tide, err := t.tracker.Create(ctx, tracker.CreateInput{
		Name:        name,
		Type:        tideType,
		Description: req.GetString("description", ""),
	})
	if err != nil {
		return toolError(err)
	}

	var b strings.Builder
	b.WriteString("# Tide Created\n\n")
	writeTide(&b, tide)
	fmt.Fprintf(&b, "\n## Next Step\n\nCall `flow_tide` with tide_id `%s` to record the first session.", tide.ID)

	return mcp.NewToolResultText(b.String()), nil
}
