// Package tools implements the MCP tool handlers for tides.
//
// Each tool receives its dependencies via its struct and exposes
// Definition() for registration and Handle() for mcp-go's
// CallToolRequest signature.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on the Tracker interface, not on the store
// - User mistakes become tool error results; I/O failures are Go errors
package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tides-mcp/tides/internal/tides"
	"github.com/tides-mcp/tides/internal/tracker"
)

// Tracker is the subset of tracker.Tracker the tools need.
type Tracker interface {
	Create(ctx context.Context, in tracker.CreateInput) (*tides.Tide, error)
	Flow(ctx context.Context, in tracker.FlowInput) (*tracker.FlowResult, error)
	End(ctx context.Context, in tracker.EndInput) (*tides.Tide, error)
	Get(ctx context.Context, id string) (*tides.Tide, error)
	List(ctx context.Context, f tides.Filter) ([]tides.Tide, error)
}

var _ Tracker = (*tracker.Tracker)(nil)

// timeLayout renders timestamps in tool output.
const timeLayout = time.RFC3339

// toolError maps a tracker error to the result mcp-go should see.
// Errors the caller can act on become tool error results; anything
// else is returned as a Go error.
func toolError(err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, tides.ErrValidation),
		errors.Is(err, tides.ErrNotFound),
		errors.Is(err, tides.ErrInvalidState):
		return mcp.NewToolResultError(err.Error()), nil
	case errors.Is(err, tides.ErrStoreBusy):
		return mcp.NewToolResultError(err.Error() + ". Another update is in progress; try again shortly."), nil
	case errors.Is(err, tides.ErrCorruptStore):
		return mcp.NewToolResultError(err.Error() + ". The file was left untouched; fix or move it, then retry."), nil
	default:
		return nil, err
	}
}

// invalid returns a validation error result.
func invalid(format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", tides.ErrValidation, fmt.Sprintf(format, args...)))
}

// intArg extracts a whole-number argument. ok is false when the key is
// absent; an error is returned for non-numbers and fractions.
func intArg(req mcp.CallToolRequest, key string) (v int, ok bool, err error) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return 0, false, nil
	}
	f, isNum := raw.(float64)
	if !isNum {
		return 0, false, fmt.Errorf("'%s' must be a number", key)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("'%s' must be a whole number, got %v", key, f)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false, fmt.Errorf("'%s' is out of range, got %v", key, f)
	}
	return int(f), true, nil
}

// floatArg extracts a numeric argument. ok is false when the key is absent.
func floatArg(req mcp.CallToolRequest, key string) (v float64, ok bool, err error) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return 0, false, nil
	}
	f, isNum := raw.(float64)
	if !isNum {
		return 0, false, fmt.Errorf("'%s' must be a number", key)
	}
	return f, true, nil
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// formatTime renders an optional timestamp.
func formatTime(t *time.Time, none string) string {
	if t == nil {
		return none
	}
	return t.UTC().Format(timeLayout)
}

// writeTide renders the fields of a tide as a markdown block.
func writeTide(b *strings.Builder, t *tides.Tide) {
	fmt.Fprintf(b, "**ID:** `%s`\n", t.ID)
	fmt.Fprintf(b, "**Name:** %s\n", t.Name)
	fmt.Fprintf(b, "**Type:** %s\n", t.Type)
	fmt.Fprintf(b, "**Status:** %s\n", t.Status)
	if t.Description != "" {
		fmt.Fprintf(b, "**Description:** %s\n", t.Description)
	}
	fmt.Fprintf(b, "**Created:** %s\n", t.CreatedAt.UTC().Format(timeLayout))
	fmt.Fprintf(b, "**Last flow:** %s\n", formatTime(t.LastFlowAt, "never"))
	fmt.Fprintf(b, "**Next flow:** %s\n", formatTime(t.NextFlowAt, "not scheduled"))
	if t.EndedAt != nil {
		fmt.Fprintf(b, "**Ended:** %s\n", formatTime(t.EndedAt, ""))
	}
	if t.CompletionNote != "" {
		fmt.Fprintf(b, "**Note:** %s\n", t.CompletionNote)
	}
	fmt.Fprintf(b, "**Flows:** %d (%d min total)\n", len(t.FlowHistory), t.TotalMinutes())
}

// truncate shortens s to max runes, appending "..." when cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
