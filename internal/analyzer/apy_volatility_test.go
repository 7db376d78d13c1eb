package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolscout/poolscout/internal/types"
)

func TestCalculateAPYVolatility_InsufficientData(t *testing.T) {
	_, err := CalculateAPYVolatility(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = CalculateAPYVolatility(dayRecords(types.PoolDayRecord{Date: 1, TVLUSD: 100, FeesUSD: 1}))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateAPYVolatility_ConstantYield(t *testing.T) {
	history := dayRecords(
		types.PoolDayRecord{Date: 1, TVLUSD: 1000, FeesUSD: 1},
		types.PoolDayRecord{Date: 2, TVLUSD: 1000, FeesUSD: 1},
		types.PoolDayRecord{Date: 3, TVLUSD: 1000, FeesUSD: 1},
	)

	result, err := CalculateAPYVolatility(history)
	require.NoError(t, err)

	// Each day yields (1/1000)*365*100 = 36.5% APY, with no dispersion.
	assert.InDelta(t, 36.5, result.Mean, 1e-9)
	assert.Zero(t, result.StdDev)
	assert.Zero(t, result.CoefficientOfVariation)
}

func TestCalculateAPYVolatility_ZeroTVLDay(t *testing.T) {
	history := dayRecords(
		types.PoolDayRecord{Date: 1, TVLUSD: 0, FeesUSD: 100},
		types.PoolDayRecord{Date: 2, TVLUSD: 1000, FeesUSD: 1},
	)

	// The zero-TVL day contributes a 0% APY instead of dividing by zero.
	result, err := CalculateAPYVolatility(history)
	require.NoError(t, err)

	assert.InDelta(t, 18.25, result.Mean, 1e-9)
	assert.Greater(t, result.StdDev, 0.0)
}

func TestCalculateAPYVolatility_ZeroMean(t *testing.T) {
	history := dayRecords(
		types.PoolDayRecord{Date: 1, TVLUSD: 1000, FeesUSD: 0},
		types.PoolDayRecord{Date: 2, TVLUSD: 1000, FeesUSD: 0},
	)

	result, err := CalculateAPYVolatility(history)
	require.NoError(t, err)

	assert.Zero(t, result.Mean)
	assert.Zero(t, result.CoefficientOfVariation)
}

func TestAnnotateAPYVolatility_StabilityLadder(t *testing.T) {
	cases := []struct {
		cv        float64
		score     string
		riskLevel string
	}{
		{0.1, "Very Stable", "Low"},
		{0.4, "Stable", "Low-Medium"},
		{0.6, "Moderate", "Medium"},
		{1.0, "Volatile", "Medium-High"},
		{1.5, "Very Volatile", "High"},
	}

	for _, tc := range cases {
		report := AnnotateAPYVolatility(&types.APYVolatilityResult{CoefficientOfVariation: tc.cv})
		require.NotNil(t, report)
		assert.Equal(t, tc.score, report.StabilityScore, "cv %.1f", tc.cv)
		assert.Equal(t, tc.riskLevel, report.RiskLevel, "cv %.1f", tc.cv)
	}
}

func TestAnnotateAPYVolatility_NilResult(t *testing.T) {
	assert.Nil(t, AnnotateAPYVolatility(nil))
}
