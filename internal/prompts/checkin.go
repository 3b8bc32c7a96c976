// Package prompts implements MCP prompt handlers for tides.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to run a sequence of tool calls. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// CheckInPrompt handles the tides-checkin MCP prompt.
// It asks the AI to review active tides and pick the next session.
type CheckInPrompt struct{}

// NewCheckInPrompt creates a CheckInPrompt.
func NewCheckInPrompt() *CheckInPrompt {
	return &CheckInPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *CheckInPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("tides-checkin",
		mcp.WithPromptDescription(
			"Check in on your active tides: see what is due, "+
				"pick a session and start it at the right intensity.",
		),
		mcp.WithArgument("energy",
			mcp.ArgumentDescription("How much energy you have right now: low, medium or high. Default: medium"),
		),
	)
}

// energyIntensity maps the user's stated energy to a suggested intensity.
var energyIntensity = map[string]string{
	"low":    "gentle",
	"medium": "moderate",
	"high":   "strong",
}

// Handle processes the tides-checkin prompt request.
func (p *CheckInPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	energy := "medium"
	if e, ok := req.Params.Arguments["energy"]; ok && e != "" {
		energy = e
	}
	intensity, ok := energyIntensity[energy]
	if !ok {
		energy, intensity = "medium", "moderate"
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Tides check-in (%s energy)", energy),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I'd like to check in on my tides. My energy is %s right now.\n\n"+
						"Please:\n"+
						"1. Run `list_tides` with active_only=true\n"+
						"2. Point out tides whose next flow is due or overdue, most overdue first\n"+
						"3. Suggest one tide to work on now and explain why in a sentence\n"+
						"4. Once I agree, run `flow_tide` on it with intensity='%s'\n"+
						"5. If I have no active tides, help me create one with `create_tide`",
					energy, intensity,
				)),
			},
		},
	}, nil
}
