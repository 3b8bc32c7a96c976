package tides

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Flow is one recorded work session against a tide.
type Flow struct {
	Intensity       Intensity `json:"intensity"`
	DurationMinutes int       `json:"duration_minutes"`
	StartedAt       time.Time `json:"started_at"`
	Insight         string    `json:"insight,omitempty"`
}

// EstimatedEnd returns when the session is expected to finish.
func (f Flow) EstimatedEnd() time.Time {
	return f.StartedAt.Add(time.Duration(f.DurationMinutes) * time.Minute)
}

// Tide is a named, typed work cycle with lifecycle state.
type Tide struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Type           TideType   `json:"tide_type"`
	Description    string     `json:"description,omitempty"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	NextFlowAt     *time.Time `json:"next_flow_at,omitempty"`
	LastFlowAt     *time.Time `json:"last_flow_at,omitempty"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	FlowHistory    []Flow     `json:"flow_history"`
	CompletionNote string     `json:"completion_note,omitempty"`
}

// TotalMinutes sums the duration of every recorded flow.
func (t *Tide) TotalMinutes() int {
	total := 0
	for _, f := range t.FlowHistory {
		total += f.DurationMinutes
	}
	return total
}

// LastFlow returns the most recent flow, or nil when none were recorded.
func (t *Tide) LastFlow() *Flow {
	if len(t.FlowHistory) == 0 {
		return nil
	}
	return &t.FlowHistory[len(t.FlowHistory)-1]
}

// Clone returns a deep copy so callers can hand tides out of a locked
// section without sharing backing arrays.
func (t Tide) Clone() Tide {
	c := t
	c.NextFlowAt = cloneTime(t.NextFlowAt)
	c.LastFlowAt = cloneTime(t.LastFlowAt)
	c.EndedAt = cloneTime(t.EndedAt)
	c.FlowHistory = make([]Flow, len(t.FlowHistory))
	copy(c.FlowHistory, t.FlowHistory)
	return c
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// --- Identity and names ---

// newID is a package-level variable so tests can force collisions.
var newID = func() string {
	return "tide_" + uuid.Must(uuid.NewV7()).String()
}

// NewID returns a fresh tide identifier.
func NewID() string { return newID() }

// NormalizeName trims surrounding space and converts the name to NFC so
// visually identical names compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// New builds an active tide. The caller is responsible for assigning an
// id that is unique within its collection.
func New(id, name string, tt TideType, description string, now time.Time) (*Tide, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !tt.Valid() {
		return nil, fmt.Errorf("%w: invalid tide type %q: must be one of: daily, weekly, project, seasonal", ErrValidation, tt)
	}
	return &Tide{
		ID:          id,
		Name:        name,
		Type:        tt,
		Description: strings.TrimSpace(description),
		Status:      StatusActive,
		CreatedAt:   now.UTC(),
		FlowHistory: []Flow{},
	}, nil
}

// --- Collection ---

// Collection is the full in-memory snapshot of the store.
type Collection struct {
	Tides []Tide
}

// Len returns the number of tides.
func (c *Collection) Len() int { return len(c.Tides) }

// Find returns a pointer into the collection for the given id, or nil.
// The pointer is only valid until the next Append.
func (c *Collection) Find(id string) *Tide {
	for i := range c.Tides {
		if c.Tides[i].ID == id {
			return &c.Tides[i]
		}
	}
	return nil
}

// Has reports whether a tide with the given id exists.
func (c *Collection) Has(id string) bool { return c.Find(id) != nil }

// Append adds a tide. Duplicate ids are rejected.
func (c *Collection) Append(t Tide) error {
	if c.Has(t.ID) {
		return fmt.Errorf("%w: duplicate tide id %q", ErrValidation, t.ID)
	}
	c.Tides = append(c.Tides, t)
	return nil
}

// Normalize replaces nil flow histories with empty slices so the encoded
// document always carries an array.
func (c *Collection) Normalize() {
	if c.Tides == nil {
		c.Tides = []Tide{}
	}
	for i := range c.Tides {
		if c.Tides[i].FlowHistory == nil {
			c.Tides[i].FlowHistory = []Flow{}
		}
	}
}
