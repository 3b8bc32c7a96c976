package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tides-mcp/tides/internal/tides"
	"github.com/tides-mcp/tides/internal/tracker"
)

// flowGuidance is shown after a session starts, keyed by intensity.
var flowGuidance = map[tides.Intensity]string{
	tides.IntensityGentle:   "Ease in. Keep the pace light and let attention settle on its own; stop for a break whenever you need one.",
	tides.IntensityModerate: "Work with steady, deliberate focus. Keep effort and ease in balance and stay with the task in front of you.",
	tides.IntensityStrong:   "Go deep. Protect the block from interruptions and push through resistance, but notice when energy drops.",
}

// flowNextSteps are the generic reminders appended to every flow response.
var flowNextSteps = []string{
	"Set a clear intention for this session",
	"Start a timer for the planned duration",
	"Take short breaks if focus fades",
	"Capture insights with the next `flow_tide` call or in your notes",
}

// FlowTideTool handles the flow_tide MCP tool.
type FlowTideTool struct {
	tracker Tracker
}

// NewFlowTideTool creates a FlowTideTool.
func NewFlowTideTool(t Tracker) *FlowTideTool {
	return &FlowTideTool{tracker: t}
}

// Definition returns the MCP tool definition for registration.
func (t *FlowTideTool) Definition() mcp.Tool {
	return mcp.NewTool("flow_tide",
		mcp.WithDescription(
			"Record a flow session on an active tide and schedule the next one. "+
				"Duration defaults by intensity: gentle 15, moderate 25, strong 50 minutes.",
		),
		mcp.WithString("tide_id",
			mcp.Required(),
			mcp.Description("ID of the tide, as returned by create_tide or list_tides"),
		),
		mcp.WithString("intensity",
			mcp.Description("Effort tier for this session (default: moderate)"),
			mcp.Enum("gentle", "moderate", "strong"),
		),
		mcp.WithNumber("duration",
			mcp.Description("Session length in whole minutes, 1 to 1440"),
		),
		mcp.WithString("insight",
			mcp.Description("Optional insight or note captured during the session"),
		),
		mcp.WithNumber("cadence_days",
			mcp.Description("Days until the next session, at most 3650; overrides the tide type's default cadence"),
		),
	)
}

// Handle processes the flow_tide tool call.
func (t *FlowTideTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tideID := strings.TrimSpace(req.GetString("tide_id", ""))
	if tideID == "" {
		return invalid("'tide_id' is required"), nil
	}

	intensity, err := tides.ParseIntensity(req.GetString("intensity", string(tides.IntensityModerate)))
	if err != nil {
		return toolError(err)
	}

	in := tracker.FlowInput{
		TideID:    tideID,
		Intensity: intensity,
		Insight:   req.GetString("insight", ""),
	}

	minutes, ok, err := intArg(req, "duration")
	if err != nil {
		return invalid("%v", err), nil
	}
	if ok {
		in.Duration = &minutes
	}

	days, ok, err := floatArg(req, "cadence_days")
	if err != nil {
		return invalid("%v", err), nil
	}
	if ok {
		cadence, err := tides.CadenceDays(days)
		if err != nil {
			return toolError(err)
		}
		in.Cadence = &cadence
	}

	res, err := t.tracker.Flow(ctx, in)
	if err != nil {
		return toolError(err)
	}

	return mcp.NewToolResultText(renderFlow(res)), nil
}

func renderFlow(res *tracker.FlowResult) string {
	var b strings.Builder
	b.WriteString("# Flow Started\n\n")
	fmt.Fprintf(&b, "**Tide:** %s (`%s`)\n", res.Tide.Name, res.Tide.ID)
	fmt.Fprintf(&b, "**Intensity:** %s\n", res.Flow.Intensity)
	fmt.Fprintf(&b, "**Duration:** %d min\n", res.Flow.DurationMinutes)
	fmt.Fprintf(&b, "**Started:** %s\n", res.Flow.StartedAt.UTC().Format(timeLayout))
	fmt.Fprintf(&b, "**Estimated completion:** %s\n", res.Flow.EstimatedEnd().UTC().Format(timeLayout))
	fmt.Fprintf(&b, "**Next flow:** %s\n", formatTime(res.Tide.NextFlowAt, "not scheduled"))
	fmt.Fprintf(&b, "**Session #%d** (%d min total)\n", len(res.Tide.FlowHistory), res.Tide.TotalMinutes())
	if res.Flow.Insight != "" {
		fmt.Fprintf(&b, "**Insight:** %s\n", res.Flow.Insight)
	}

	b.WriteString("\n## Guidance\n\n")
	b.WriteString(flowGuidance[res.Flow.Intensity])
	b.WriteString("\n\n## Next Steps\n\n")
	for _, s := range flowNextSteps {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return b.String()
}
