package tracker

import (
	"context"

	"github.com/tides-mcp/tides/internal/tides"
)

// List returns the tides matching f, oldest first. It reads a snapshot
// and never waits on the store lock.
func (m *Tracker) List(ctx context.Context, f tides.Filter) ([]tides.Tide, error) {
	col, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(col.Tides), nil
}

// All returns every tide in the store.
func (m *Tracker) All(ctx context.Context) ([]tides.Tide, error) {
	return m.List(ctx, tides.Filter{})
}
