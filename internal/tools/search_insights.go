package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tides-mcp/tides/internal/journal"
)

// SearchInsightsTool handles the search_insights MCP tool.
type SearchInsightsTool struct {
	journal *journal.Journal
}

// NewSearchInsightsTool creates a SearchInsightsTool.
func NewSearchInsightsTool(j *journal.Journal) *SearchInsightsTool {
	return &SearchInsightsTool{journal: j}
}

// Definition returns the MCP tool definition for search_insights.
func (t *SearchInsightsTool) Definition() mcp.Tool {
	return mcp.NewTool("search_insights",
		mcp.WithDescription(
			"Full-text search over the insights captured during flow sessions. "+
				"Use it to recall what helped or hurt in past sessions.",
		),
		mcp.WithString("query",
			mcp.Description("Keywords to search for; empty returns the most recent insights"),
		),
		mcp.WithString("tide_id",
			mcp.Description("Only insights from this tide"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 10, max: 20)"),
		),
	)
}

// Handle processes the search_insights tool call.
func (t *SearchInsightsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, _, err := intArg(req, "limit")
	if err != nil {
		return invalid("%v", err), nil
	}

	results, err := t.journal.Search(ctx, req.GetString("query", ""), journal.SearchOptions{
		TideID: strings.TrimSpace(req.GetString("tide_id", "")),
		Limit:  limit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No insights found matching your query."), nil
	}
	return mcp.NewToolResultText(renderInsights(results)), nil
}

func renderInsights(results []journal.SearchResult) string {
	var b strings.Builder
	noun := "insights"
	if len(results) == 1 {
		noun = "insight"
	}
	fmt.Fprintf(&b, "Found %d %s:\n\n", len(results), noun)
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s (`%s`) - %s, %d min, %s\n    %s\n\n",
			i+1, r.TideName, r.TideID,
			r.Intensity, r.DurationMinutes, r.RecordedAt.UTC().Format(timeLayout),
			truncate(r.Insight, 300),
		)
	}
	return b.String()
}
