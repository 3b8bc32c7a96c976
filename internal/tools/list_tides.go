package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tides-mcp/tides/internal/tides"
)

// ListTidesTool handles the list_tides MCP tool.
type ListTidesTool struct {
	tracker Tracker
}

// NewListTidesTool creates a ListTidesTool.
func NewListTidesTool(t Tracker) *ListTidesTool {
	return &ListTidesTool{tracker: t}
}

// Definition returns the MCP tool definition for registration.
func (t *ListTidesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_tides",
		mcp.WithDescription(
			"List tides, oldest first. Every filter is optional and filters combine with AND. "+
				"Dates accept YYYY-MM-DD or RFC3339 and are inclusive.",
		),
		mcp.WithString("tide_type",
			mcp.Description("Only tides of this type"),
			mcp.Enum("daily", "weekly", "project", "seasonal"),
		),
		mcp.WithString("status",
			mcp.Description("Only tides with this status"),
			mcp.Enum("active", "completed", "paused"),
		),
		mcp.WithBoolean("active_only",
			mcp.Description("Shorthand for status=active"),
		),
		mcp.WithString("since",
			mcp.Description("Only tides created at or after this date"),
		),
		mcp.WithString("until",
			mcp.Description("Only tides created at or before this date (a bare date includes the whole day)"),
		),
	)
}

// Handle processes the list_tides tool call.
func (t *ListTidesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, err := parseFilter(req)
	if err != nil {
		return toolError(err)
	}

	list, err := t.tracker.List(ctx, filter)
	if err != nil {
		return toolError(err)
	}

	if len(list) == 0 {
		return mcp.NewToolResultText("No tides found matching your filters."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Tides (%d)\n\n", len(list))
	b.WriteString("| ID | Name | Type | Status | Flows | Last flow | Next flow |\n")
	b.WriteString("|----|------|------|--------|-------|-----------|-----------|\n")
	for i := range list {
		tide := &list[i]
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %d | %s | %s |\n",
			tide.ID, escapeCell(tide.Name), tide.Type, tide.Status, len(tide.FlowHistory),
			formatTime(tide.LastFlowAt, "-"), formatTime(tide.NextFlowAt, "-"),
		)
	}

	return mcp.NewToolResultText(b.String()), nil
}

// parseFilter builds a filter from the request arguments.
func parseFilter(req mcp.CallToolRequest) (tides.Filter, error) {
	return tides.ParseFilter(tides.FilterArgs{
		Type:       req.GetString("tide_type", ""),
		Status:     req.GetString("status", ""),
		ActiveOnly: boolArg(req, "active_only", false),
		Since:      req.GetString("since", ""),
		Until:      req.GetString("until", ""),
	})
}

// escapeCell keeps user text from breaking a markdown table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
