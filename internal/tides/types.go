// Package tides defines the record model for tidal workflows.
//
// A Tide is a named work cycle; each Flow is one work session recorded
// against it. This package owns the closed enums, the pure lifecycle
// state machine and the query predicate. Persistence lives in the store
// package and orchestration in the tracker package.
//
// Layout follows one concern per file:
// - types.go: enums and parsing
// - tide.go: Tide, Flow and Collection
// - state.go: status transitions
// - cadence.go: next-flow scheduling policy
// - filter.go: list predicate and ordering
package tides

import (
	"fmt"
	"strings"
)

// --- Tide type enum ---

// TideType is the natural rhythm of a tide. Immutable after creation.
type TideType string

const (
	TypeDaily    TideType = "daily"
	TypeWeekly   TideType = "weekly"
	TypeProject  TideType = "project"
	TypeSeasonal TideType = "seasonal"
)

// TideTypes lists every recognised tide type in display order.
var TideTypes = []TideType{TypeDaily, TypeWeekly, TypeProject, TypeSeasonal}

// Valid reports whether t is one of the recognised tide types.
func (t TideType) Valid() bool {
	switch t {
	case TypeDaily, TypeWeekly, TypeProject, TypeSeasonal:
		return true
	}
	return false
}

// ParseTideType converts user input into a TideType.
func ParseTideType(s string) (TideType, error) {
	t := TideType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: invalid tide type %q: must be one of: daily, weekly, project, seasonal", ErrValidation, s)
	}
	return t, nil
}

// --- Status enum ---

// Status tracks where a tide is in its lifecycle.
// Completed and paused are terminal.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
)

// Valid reports whether s is a recognised status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusPaused:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusPaused:
		return true
	default:
		return false
	}
}

// ParseStatus converts user input into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: invalid status %q: must be one of: active, completed, paused", ErrValidation, s)
	}
	return st, nil
}

// ParseOutcome converts user input into a terminal Status.
// Only completed and paused are accepted.
func ParseOutcome(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Terminal() {
		return "", fmt.Errorf("%w: invalid outcome %q: must be one of: completed, paused", ErrValidation, s)
	}
	return st, nil
}

// --- Intensity enum ---

// Intensity is the qualitative effort tier of a flow session.
type Intensity string

const (
	IntensityGentle   Intensity = "gentle"
	IntensityModerate Intensity = "moderate"
	IntensityStrong   Intensity = "strong"
)

// Valid reports whether i is a recognised intensity.
func (i Intensity) Valid() bool {
	switch i {
	case IntensityGentle, IntensityModerate, IntensityStrong:
		return true
	}
	return false
}

// DefaultDuration returns the session length in minutes used when the
// caller does not supply one.
func (i Intensity) DefaultDuration() int {
	switch i {
	case IntensityGentle:
		return 15
	case IntensityModerate:
		return 25
	case IntensityStrong:
		return 50
	default:
		return 0
	}
}

// ParseIntensity converts user input into an Intensity.
func ParseIntensity(s string) (Intensity, error) {
	i := Intensity(strings.ToLower(strings.TrimSpace(s)))
	if !i.Valid() {
		return "", fmt.Errorf("%w: invalid intensity %q: must be one of: gentle, moderate, strong", ErrValidation, s)
	}
	return i, nil
}
