package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolscout/poolscout/internal/types"
)

func pricePoints(values ...float64) []types.PricePoint {
	points := make([]types.PricePoint, len(values))
	for i, v := range values {
		points[i] = types.PricePoint{Timestamp: int64(i + 1), Value: v}
	}
	return points
}

func TestCalculateImpermanentLoss_EmptyHistory(t *testing.T) {
	_, err := CalculateImpermanentLoss(nil, pricePoints(100, 110))
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = CalculateImpermanentLoss(pricePoints(100, 110), nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateImpermanentLoss_NoRelativeChange(t *testing.T) {
	// Both tokens double, so the pool ratio never moves.
	result, err := CalculateImpermanentLoss(pricePoints(100, 200), pricePoints(50, 100))
	require.NoError(t, err)

	assert.InDelta(t, 0, result.ImpermanentLossPercentage, 1e-9)
	assert.InDelta(t, 1, result.PriceRatio, 1e-9)
	assert.InDelta(t, 1, result.LPValue, 1e-9)
}

func TestCalculateImpermanentLoss_RatioDoubles(t *testing.T) {
	// The newest sample is treated as the position start. Token0 moved
	// from 200 down to 100 while token1 held, so looking back from the
	// newest point the ratio doubles: 2*sqrt(2)/3 - 1 = -5.719%.
	result, err := CalculateImpermanentLoss(pricePoints(200, 100), pricePoints(100, 100))
	require.NoError(t, err)

	assert.InDelta(t, 2, result.PriceRatio, 1e-9)
	assert.InDelta(t, -5.719, result.ImpermanentLossPercentage, 0.001)
	assert.Less(t, result.Difference, 0.0)
}

func TestAnnotateImpermanentLoss_ImpactBuckets(t *testing.T) {
	cases := []struct {
		ilPct  float64
		impact string
	}{
		{-0.5, "Negligible impact on position value"},
		{-3, "Small impact on position value"},
		{-10, "Noticeable impact on position value"},
		{-20, "Significant impact on position value"},
		{-40, "Severe impact on position value"},
	}

	for _, tc := range cases {
		report := AnnotateImpermanentLoss(&types.ImpermanentLossResult{
			ImpermanentLossPercentage: tc.ilPct,
			Difference:                tc.ilPct / 100,
		})
		require.NotNil(t, report)
		assert.Equal(t, tc.impact, report.Impact, "IL %.1f%%", tc.ilPct)
	}
}

func TestAnnotateImpermanentLoss_NilResult(t *testing.T) {
	assert.Nil(t, AnnotateImpermanentLoss(nil))
}

func TestMovementDescription_Ladder(t *testing.T) {
	cases := []struct {
		change   float64
		expected string
	}{
		{75, "Extreme increase"},
		{30, "Strong increase"},
		{10, "Moderate increase"},
		{3, "Slight increase"},
		{0, "Stable"},
		{-3, "Slight decrease"},
		{-10, "Moderate decrease"},
		{-30, "Strong decrease"},
		{-75, "Extreme decrease"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, movementDescription(tc.change), "change %.1f%%", tc.change)
	}
}
