package tides

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Filter selects tides for listing. Every non-nil field is a conjunctive
// constraint; a zero Filter matches everything. Since and Until are
// inclusive bounds on CreatedAt.
type Filter struct {
	Type   *TideType
	Status *Status
	Since  *time.Time
	Until  *time.Time
}

// Match reports whether t satisfies every constraint in f.
func (f Filter) Match(t *Tide) bool {
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Since != nil && t.CreatedAt.Before(*f.Since) {
		return false
	}
	if f.Until != nil && t.CreatedAt.After(*f.Until) {
		return false
	}
	return true
}

// Apply returns deep copies of the matching tides ordered by CreatedAt
// ascending. Tides created at the same instant keep their store order.
func (f Filter) Apply(all []Tide) []Tide {
	out := make([]Tide, 0, len(all))
	for i := range all {
		if f.Match(&all[i]) {
			out = append(out, all[i].Clone())
		}
	}
	slices.SortStableFunc(out, func(a, b Tide) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

const dateLayout = "2006-01-02"

// ParseBound parses an RFC3339 timestamp or a YYYY-MM-DD date in UTC.
// For a bare date, endOfDay selects the last instant of that day so an
// upper bound includes the whole day.
func ParseBound(s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		u := t.UTC()
		return &u, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q: use YYYY-MM-DD or RFC3339", ErrValidation, s)
	}
	if endOfDay {
		d = d.Add(Day - time.Nanosecond)
	}
	return &d, nil
}

// FilterArgs is the raw, string-typed form of a Filter as it arrives
// from a tool call or command line. Empty fields are unconstrained.
type FilterArgs struct {
	Type       string
	Status     string
	ActiveOnly bool
	Since      string
	Until      string
}

// ParseFilter validates a and builds the Filter. Invalid values are
// validation errors, never silently ignored.
func ParseFilter(a FilterArgs) (Filter, error) {
	var f Filter

	if a.Type != "" {
		tt, err := ParseTideType(a.Type)
		if err != nil {
			return f, err
		}
		f.Type = &tt
	}

	if a.Status != "" {
		st, err := ParseStatus(a.Status)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}

	if a.ActiveOnly {
		if f.Status != nil && *f.Status != StatusActive {
			return f, fmt.Errorf("%w: active_only conflicts with status=%s", ErrValidation, *f.Status)
		}
		active := StatusActive
		f.Status = &active
	}

	var err error
	if f.Since, err = ParseBound(a.Since, false); err != nil {
		return f, err
	}
	if f.Until, err = ParseBound(a.Until, true); err != nil {
		return f, err
	}
	if f.Since != nil && f.Until != nil && f.Until.Before(*f.Since) {
		return f, fmt.Errorf("%w: until is before since", ErrValidation)
	}
	return f, nil
}
