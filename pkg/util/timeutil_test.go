package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalClockUsesZone(t *testing.T) {
	clock, err := LocalClock("UTC")
	require.NoError(t, err)
	require.Equal(t, "UTC", clock().Location().String())
}

func TestLocalClockRejectsUnknownZone(t *testing.T) {
	_, err := LocalClock("Nowhere/Special")
	require.Error(t, err)
}

func TestLocalClockDefaultsToLocal(t *testing.T) {
	clock, err := LocalClock("  ")
	require.NoError(t, err)
	require.False(t, clock().IsZero())
}
