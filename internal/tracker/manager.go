// Package tracker implements the tide operations on top of a store:
// the lifecycle manager (create, flow, end, get) and the query engine
// (list). Every mutation runs inside store.WithLock; reads use Load.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tides-mcp/tides/internal/store"
	"github.com/tides-mcp/tides/internal/tides"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// maxIDAttempts bounds id regeneration on collision.
const maxIDAttempts = 5

// FlowObserver is notified after a flow has been persisted.
// Implementations must be quick and must not call back into the tracker.
type FlowObserver interface {
	OnFlow(ctx context.Context, t tides.Tide, f tides.Flow)
}

// Tracker is the operation interface shared by the MCP tools and the CLI.
type Tracker struct {
	store    store.Store
	cadence  tides.CadencePolicy
	log      *slog.Logger
	observer FlowObserver
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithCadence replaces the default cadence policy.
func WithCadence(p tides.CadencePolicy) Option {
	return func(t *Tracker) { t.cadence = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// WithObserver registers a FlowObserver. Nil is allowed.
func WithObserver(o FlowObserver) Option {
	return func(t *Tracker) { t.observer = o }
}

// New creates a Tracker backed by s.
func New(s store.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:   s,
		cadence: tides.DefaultCadence(),
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(t)
	}
	t.log = t.log.With("component", "tracker")
	return t
}

// Cadence returns the active cadence policy.
func (m *Tracker) Cadence() tides.CadencePolicy { return m.cadence }

// CreateInput holds the fields of a new tide.
type CreateInput struct {
	Name        string
	Type        tides.TideType
	Description string
}

// Create validates in and appends a new active tide. Validation happens
// before the store is touched.
func (m *Tracker) Create(ctx context.Context, in CreateInput) (*tides.Tide, error) {
	now := timeNow().UTC()
	draft, err := tides.New("", in.Name, in.Type, in.Description, now)
	if err != nil {
		return nil, err
	}
	if c := m.cadence.For(draft.Type); c > 0 {
		next := now.Add(c)
		draft.NextFlowAt = &next
	}

	var created tides.Tide
	err = m.store.WithLock(ctx, func(col *tides.Collection) error {
		id, err := freshID(col)
		if err != nil {
			return err
		}
		draft.ID = id
		if err := col.Append(*draft); err != nil {
			return err
		}
		created = draft.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("tide created", "id", created.ID, "type", created.Type)
	return &created, nil
}

// freshID returns an id not yet present in col.
func freshID(col *tides.Collection) (string, error) {
	for range maxIDAttempts {
		id := tides.NewID()
		if !col.Has(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: could not allocate a unique tide id", tides.ErrStoreWrite)
}

// FlowInput describes a session to record.
type FlowInput struct {
	TideID    string
	Intensity tides.Intensity
	// Duration in minutes. Nil selects the intensity default.
	Duration *int
	Insight  string
	// Cadence overrides the policy interval to the next session.
	Cadence *time.Duration
}

// FlowResult is the updated tide plus the flow that was appended.
type FlowResult struct {
	Tide tides.Tide `json:"tide"`
	Flow tides.Flow `json:"flow"`
}

// Flow records a session on an active tide and reschedules it.
func (m *Tracker) Flow(ctx context.Context, in FlowInput) (*FlowResult, error) {
	if !in.Intensity.Valid() {
		return nil, fmt.Errorf("%w: invalid intensity %q: must be one of: gentle, moderate, strong", tides.ErrValidation, in.Intensity)
	}
	if in.Duration != nil {
		if err := tides.ValidateDuration(*in.Duration); err != nil {
			return nil, err
		}
	}
	if in.Cadence != nil {
		if err := tides.ValidateCadence(*in.Cadence); err != nil {
			return nil, err
		}
	}

	var res FlowResult
	err := m.store.WithLock(ctx, func(col *tides.Collection) error {
		t, err := find(col, in.TideID)
		if err != nil {
			return err
		}
		flow, err := t.ApplyFlow(tides.FlowParams{
			Intensity: in.Intensity,
			Duration:  in.Duration,
			Insight:   in.Insight,
			At:        timeNow(),
			Cadence:   m.cadence.Resolve(t.Type, in.Cadence),
		})
		if err != nil {
			return err
		}
		res = FlowResult{Tide: t.Clone(), Flow: flow}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("flow recorded", "id", res.Tide.ID, "intensity", res.Flow.Intensity, "minutes", res.Flow.DurationMinutes)
	if m.observer != nil {
		m.observer.OnFlow(ctx, res.Tide, res.Flow)
	}
	return &res, nil
}

// EndInput moves a tide to a terminal status.
type EndInput struct {
	TideID  string
	Outcome tides.Status
	Note    string
}

// End completes or pauses a tide.
func (m *Tracker) End(ctx context.Context, in EndInput) (*tides.Tide, error) {
	if !in.Outcome.Terminal() {
		return nil, fmt.Errorf("%w: invalid outcome %q: must be one of: completed, paused", tides.ErrValidation, in.Outcome)
	}

	var ended tides.Tide
	err := m.store.WithLock(ctx, func(col *tides.Collection) error {
		t, err := find(col, in.TideID)
		if err != nil {
			return err
		}
		if err := t.End(in.Outcome, in.Note, timeNow()); err != nil {
			return err
		}
		ended = t.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("tide ended", "id", ended.ID, "status", ended.Status)
	return &ended, nil
}

// Get returns a copy of one tide.
func (m *Tracker) Get(ctx context.Context, id string) (*tides.Tide, error) {
	col, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	t, err := find(col, id)
	if err != nil {
		return nil, err
	}
	c := t.Clone()
	return &c, nil
}

func find(col *tides.Collection, id string) (*tides.Tide, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: tide_id is required", tides.ErrValidation)
	}
	t := col.Find(id)
	if t == nil {
		return nil, fmt.Errorf("%w: tide %q", tides.ErrNotFound, id)
	}
	return t, nil
}
