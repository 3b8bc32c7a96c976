package tides

import (
	"fmt"
	"math"
	"time"
)

const (
	// Day is the cadence of a daily tide.
	Day = 24 * time.Hour
	// Week is the cadence of a weekly tide.
	Week = 7 * Day
)

// CadencePolicy maps each tide type to the interval between sessions.
// A zero interval means the type has no automatic schedule.
type CadencePolicy struct {
	Daily    time.Duration
	Weekly   time.Duration
	Project  time.Duration
	Seasonal time.Duration
}

// DefaultCadence schedules daily and weekly tides and leaves project and
// seasonal tides unscheduled.
func DefaultCadence() CadencePolicy {
	return CadencePolicy{
		Daily:  Day,
		Weekly: Week,
	}
}

// For returns the interval for tt, or zero when none is configured.
func (p CadencePolicy) For(tt TideType) time.Duration {
	switch tt {
	case TypeDaily:
		return p.Daily
	case TypeWeekly:
		return p.Weekly
	case TypeProject:
		return p.Project
	case TypeSeasonal:
		return p.Seasonal
	default:
		return 0
	}
}

// Resolve picks the caller override when present, otherwise the policy
// interval for tt.
func (p CadencePolicy) Resolve(tt TideType, override *time.Duration) time.Duration {
	if override != nil {
		return *override
	}
	return p.For(tt)
}

const (
	// MaxFlowMinutes caps a single session at one day.
	MaxFlowMinutes = 24 * 60
	// MinCadence is the shortest interval a caller may request.
	MinCadence = time.Minute
	// MaxCadence is the longest interval to the next session.
	MaxCadence = 3650 * Day
	// MaxCadenceDays is MaxCadence in days.
	MaxCadenceDays = 3650
)

// ValidateDuration checks a session length in minutes.
func ValidateDuration(minutes int) error {
	if minutes <= 0 || minutes > MaxFlowMinutes {
		return fmt.Errorf("%w: duration must be between 1 and %d minutes, got %d", ErrValidation, MaxFlowMinutes, minutes)
	}
	return nil
}

// ValidateCadence checks an interval to the next session. Zero means
// unscheduled and is allowed.
func ValidateCadence(d time.Duration) error {
	if d < 0 || d > MaxCadence {
		return fmt.Errorf("%w: cadence must be between 0 and %d days, got %s", ErrValidation, MaxCadenceDays, d)
	}
	return nil
}

// CadenceDays converts a caller-supplied number of days into an
// interval. The result is at least MinCadence and at most MaxCadence.
func CadenceDays(days float64) (time.Duration, error) {
	if math.IsNaN(days) || days <= 0 || days > MaxCadenceDays {
		return 0, fmt.Errorf("%w: cadence_days must be greater than 0 and at most %d, got %v", ErrValidation, MaxCadenceDays, days)
	}
	d := time.Duration(days * float64(Day))
	if d < MinCadence {
		return 0, fmt.Errorf("%w: cadence_days %v is shorter than %s", ErrValidation, days, MinCadence)
	}
	return d, nil
}
