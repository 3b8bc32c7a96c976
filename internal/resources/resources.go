// Package resources implements MCP resource handlers for tides.
//
// Resources provide read-only snapshots the host can pull into context
// without a tool call. They use URI-based addressing (tides://...).
package resources

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tides-mcp/tides/internal/tides"
)

const (
	AllTidesURI    = "tides://tides"
	ActiveTidesURI = "tides://tides/active"
)

// Lister is the read side of the tracker.
type Lister interface {
	List(ctx context.Context, f tides.Filter) ([]tides.Tide, error)
}

// Handler manages tide resource endpoints.
type Handler struct {
	tracker Lister
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(l Lister) *Handler {
	return &Handler{tracker: l}
}

// AllTidesResource returns the MCP resource definition for every tide.
func (h *Handler) AllTidesResource() mcp.Resource {
	return mcp.NewResource(
		AllTidesURI,
		"All Tides",
		mcp.WithResourceDescription("Every tide with its full flow history, oldest first"),
		mcp.WithMIMEType(mimeJSON),
	)
}

// ActiveTidesResource returns the MCP resource definition for active tides.
func (h *Handler) ActiveTidesResource() mcp.Resource {
	return mcp.NewResource(
		ActiveTidesURI,
		"Active Tides",
		mcp.WithResourceDescription("Tides that still accept flows, with their next scheduled session"),
		mcp.WithMIMEType(mimeJSON),
	)
}

// HandleAll returns all tides as JSON.
func (h *Handler) HandleAll(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return h.read(ctx, req.Params.URI, tides.Filter{})
}

// HandleActive returns the active tides as JSON.
func (h *Handler) HandleActive(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	active := tides.StatusActive
	return h.read(ctx, req.Params.URI, tides.Filter{Status: &active})
}

func (h *Handler) read(ctx context.Context, uri string, f tides.Filter) ([]mcp.ResourceContents, error) {
	list, err := h.tracker.List(ctx, f)
	if err != nil {
		if errors.Is(err, tides.ErrCorruptStore) || errors.Is(err, tides.ErrStoreUnavailable) {
			return errorResource(uri, err.Error()), nil
		}
		return nil, err
	}
	return jsonResource(uri, list)
}
