package tides

import (
	"fmt"
	"strings"
	"time"
)

// --- State machine for a tide ---
//
//	active ──flow──▶ active
//	active ──end───▶ completed | paused   (terminal)
//
// Status never changes outside these functions.

// FlowParams describes one session to append to a tide.
type FlowParams struct {
	Intensity Intensity
	// Duration in minutes. Nil selects the intensity default.
	Duration *int
	Insight  string
	At       time.Time
	// Cadence is the interval to the next session. Zero leaves
	// NextFlowAt untouched.
	Cadence time.Duration
}

// CanFlow returns an error if a session cannot be recorded on t.
func CanFlow(t *Tide) error {
	if t.Status != StatusActive {
		return fmt.Errorf("%w: tide %q is not active (status: %s)", ErrInvalidState, t.ID, t.Status)
	}
	return nil
}

// ApplyFlow validates p, appends a flow and reschedules the next session.
// It returns the appended flow.
func (t *Tide) ApplyFlow(p FlowParams) (Flow, error) {
	if err := CanFlow(t); err != nil {
		return Flow{}, err
	}
	if !p.Intensity.Valid() {
		return Flow{}, fmt.Errorf("%w: invalid intensity %q: must be one of: gentle, moderate, strong", ErrValidation, p.Intensity)
	}

	duration := p.Intensity.DefaultDuration()
	if p.Duration != nil {
		if err := ValidateDuration(*p.Duration); err != nil {
			return Flow{}, err
		}
		duration = *p.Duration
	}
	if err := ValidateCadence(p.Cadence); err != nil {
		return Flow{}, err
	}

	at := p.At.UTC()
	flow := Flow{
		Intensity:       p.Intensity,
		DurationMinutes: duration,
		StartedAt:       at,
		Insight:         strings.TrimSpace(p.Insight),
	}
	t.FlowHistory = append(t.FlowHistory, flow)
	t.LastFlowAt = &at

	if p.Cadence > 0 {
		next := at.Add(p.Cadence)
		t.NextFlowAt = &next
	}

	return flow, nil
}

// CanEnd returns an error if t cannot move to outcome.
func CanEnd(t *Tide, outcome Status) error {
	if !outcome.Terminal() {
		return fmt.Errorf("%w: invalid outcome %q: must be one of: completed, paused", ErrValidation, outcome)
	}
	if t.Status.Terminal() {
		return fmt.Errorf("%w: tide %q is already %s", ErrInvalidState, t.ID, t.Status)
	}
	return nil
}

// End moves an active tide to a terminal status and records the note.
// There is no scheduled next session once a tide has ended.
func (t *Tide) End(outcome Status, note string, at time.Time) error {
	if err := CanEnd(t, outcome); err != nil {
		return err
	}

	ended := at.UTC()
	t.Status = outcome
	t.CompletionNote = strings.TrimSpace(note)
	t.EndedAt = &ended
	t.NextFlowAt = nil
	return nil
}
