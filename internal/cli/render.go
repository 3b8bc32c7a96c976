package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/tides-mcp/tides/internal/journal"
	"github.com/tides-mcp/tides/internal/tides"
)

func fmtTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

// tideText renders one tide as aligned key/value lines.
func tideText(t *tides.Tide) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", t.ID)
	fmt.Fprintf(w, "Name:\t%s\n", t.Name)
	fmt.Fprintf(w, "Type:\t%s\n", t.Type)
	fmt.Fprintf(w, "Status:\t%s\n", t.Status)
	if t.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", t.Description)
	}
	fmt.Fprintf(w, "Created:\t%s\n", t.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "Last flow:\t%s\n", fmtTime(t.LastFlowAt))
	fmt.Fprintf(w, "Next flow:\t%s\n", fmtTime(t.NextFlowAt))
	if t.EndedAt != nil {
		fmt.Fprintf(w, "Ended:\t%s\n", fmtTime(t.EndedAt))
	}
	if t.CompletionNote != "" {
		fmt.Fprintf(w, "Note:\t%s\n", t.CompletionNote)
	}
	fmt.Fprintf(w, "Flows:\t%d (%d min)\n", len(t.FlowHistory), t.TotalMinutes())
	w.Flush()
	return b.String()
}

// tideDetailText is tideText followed by the flow history.
func tideDetailText(t *tides.Tide) string {
	var b strings.Builder
	b.WriteString(tideText(t))
	if len(t.FlowHistory) == 0 {
		return b.String()
	}
	b.WriteString("\n")
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tINTENSITY\tMIN\tINSIGHT")
	for _, f := range t.FlowHistory {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", f.StartedAt.UTC().Format(time.RFC3339), f.Intensity, f.DurationMinutes, oneLine(f.Insight))
	}
	w.Flush()
	return b.String()
}

// tideTable renders tides one per row.
func tideTable(list []tides.Tide) string {
	if len(list) == 0 {
		return "No tides found.\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tFLOWS\tNEXT FLOW")
	for i := range list {
		t := &list[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", t.ID, oneLine(t.Name), t.Type, t.Status, len(t.FlowHistory), fmtTime(t.NextFlowAt))
	}
	w.Flush()
	return b.String()
}

func insightsText(results []journal.SearchResult) string {
	if len(results) == 0 {
		return "No insights found.\n"
	}
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s  %s (%s, %d min)\n  %s\n", r.RecordedAt.UTC().Format(time.RFC3339), r.TideName, r.Intensity, r.DurationMinutes, oneLine(r.Insight))
	}
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
