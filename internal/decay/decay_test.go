package decay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadinessScore_ZeroDelayIsExactlyFull(t *testing.T) {
	require.Equal(t, 100.0, ReadinessScore(0))
}

func TestReadinessScore_PiecewiseValues(t *testing.T) {
	tests := []struct {
		delay int
		want  float64
	}{
		{0, 100.0},
		{1, 91.7},
		{2, 83.5},
		{3, 68.1},
		{4, 52.8},
		{7, 0.0},
		{10, 0.0},
		{30, 0.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ReadinessScore(tt.delay), 0.05, "delay %d", tt.delay)
	}
}

func TestReadinessScore_MonotonicNonIncreasing(t *testing.T) {
	prev := ReadinessScore(MinDelayDays)
	for d := MinDelayDays + 1; d <= MaxDelayDays; d++ {
		score := ReadinessScore(d)
		require.LessOrEqual(t, score, prev, "score rose between delay %d and %d", d-1, d)
		require.GreaterOrEqual(t, score, 0.0)
		require.LessOrEqual(t, score, 100.0)
		prev = score
	}
}

func TestReadinessScore_ClampsOutOfRangeInput(t *testing.T) {
	assert.Equal(t, ReadinessScore(0), ReadinessScore(-5))
	assert.Equal(t, ReadinessScore(MaxDelayDays), ReadinessScore(90))
}

func TestHospitalSaturation_GrowsFromUnity(t *testing.T) {
	require.Equal(t, 1.0, HospitalSaturation(0))

	prev := HospitalSaturation(0)
	for d := 1; d <= MaxDelayDays; d++ {
		sat := HospitalSaturation(d)
		require.Greater(t, sat, prev, "saturation did not grow at delay %d", d)
		prev = sat
	}
}

func TestCostEscalation_GeometricGrowth(t *testing.T) {
	require.Equal(t, 1.0, CostEscalation(0))
	assert.InDelta(t, 1.5, CostEscalation(1), 1e-9)
	assert.InDelta(t, 3.375, CostEscalation(3), 1e-9)

	// Each day multiplies by the same factor.
	for d := 1; d <= 10; d++ {
		assert.InDelta(t, 1.5, CostEscalation(d)/CostEscalation(d-1), 1e-9)
	}
}

func TestSaturationCurvesAreIndependent(t *testing.T) {
	// Bed pressure and monetary loss compound at different rates; a delay
	// that multiplies cost sevenfold barely moves hospital load.
	assert.Greater(t, CostEscalation(5), 7.0)
	assert.Less(t, HospitalSaturation(5), 1.3)
}
