package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReflectPrompt handles the tides-reflect MCP prompt.
// It has the AI review one tide's history and past insights.
type ReflectPrompt struct {
	journal bool
}

// NewReflectPrompt creates a ReflectPrompt. withJournal reports whether
// the search_insights tool is registered.
func NewReflectPrompt(withJournal bool) *ReflectPrompt {
	return &ReflectPrompt{journal: withJournal}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReflectPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("tides-reflect",
		mcp.WithPromptDescription(
			"Reflect on a tide: review its rhythm, totals and the insights "+
				"you captured, then decide whether to keep going, pause or complete it.",
		),
		mcp.WithArgument("tide_id",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("ID of the tide to reflect on"),
		),
	)
}

// Handle processes the tides-reflect prompt request.
func (p *ReflectPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	tideID := strings.TrimSpace(req.Params.Arguments["tide_id"])
	if tideID == "" {
		return nil, fmt.Errorf("tide_id argument is required")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Help me reflect on my tide `%s`.\n\n", tideID)
	b.WriteString("Please:\n")
	fmt.Fprintf(&b, "1. Run `get_tide` with tide_id='%s'\n", tideID)
	step := 2
	if p.journal {
		fmt.Fprintf(&b, "%d. Run `search_insights` with tide_id='%s' and an empty query to recall what I noted\n", step, tideID)
		step++
	}
	fmt.Fprintf(&b, "%d. Summarise how consistent the rhythm has been and how the intensity has shifted\n", step)
	fmt.Fprintf(&b, "%d. Name one pattern that helped and one that got in the way\n", step+1)
	fmt.Fprintf(&b, "%d. Ask me whether to keep the tide active, or end it with `end_tide` as completed or paused", step+2)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Reflect on tide %s", tideID),
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(b.String()),
			},
		},
	}, nil
}
