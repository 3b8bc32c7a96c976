package tides

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTideType(t *testing.T) {
	for _, tt := range TideTypes {
		got, err := ParseTideType(string(tt))
		require.NoError(t, err)
		assert.Equal(t, tt, got)
	}

	got, err := ParseTideType("  Weekly ")
	require.NoError(t, err)
	assert.Equal(t, TypeWeekly, got)

	_, err = ParseTideType("monthly")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "invalid tide type")
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusCompleted, StatusPaused} {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatus("archived")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseOutcome_OnlyTerminal(t *testing.T) {
	got, err := ParseOutcome("completed")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got)

	got, err = ParseOutcome("paused")
	require.NoError(t, err)
	assert.Equal(t, StatusPaused, got)

	_, err = ParseOutcome("active")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusActive.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusPaused.Terminal())
	assert.False(t, Status("bogus").Terminal())
}

func TestIntensity_DefaultDuration(t *testing.T) {
	assert.Equal(t, 15, IntensityGentle.DefaultDuration())
	assert.Equal(t, 25, IntensityModerate.DefaultDuration())
	assert.Equal(t, 50, IntensityStrong.DefaultDuration())
	assert.Equal(t, 0, Intensity("fierce").DefaultDuration())
}

func TestParseIntensity(t *testing.T) {
	got, err := ParseIntensity("STRONG")
	require.NoError(t, err)
	assert.Equal(t, IntensityStrong, got)

	_, err = ParseIntensity("")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNormalizeName(t *testing.T) {
	// "e" + combining acute accent composes to a single code point.
	assert.Equal(t, "caf\u00e9", NormalizeName("  cafe\u0301 "))
	assert.Equal(t, "", NormalizeName(" \t "))
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		assert.Regexp(t, `^tide_[0-9a-f-]{36}$`, id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
