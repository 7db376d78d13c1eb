package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poolscout/poolscout/internal/types"
)

func TestCalculateTokenVolatility_InsufficientData(t *testing.T) {
	// Fewer than 2 points takes the documented zero-default rather than
	// an undefined metric.
	for _, prices := range [][]types.PricePoint{nil, pricePoints(100)} {
		result := CalculateTokenVolatility(prices)
		assert.Zero(t, result.VolatilityInPercentage)
		assert.True(t, result.IsStableAsset)
		assert.Equal(t, RiskVeryLow, result.ImpermanentLossRisk)
	}
}

func TestCalculateTokenVolatility_ConstantPrice(t *testing.T) {
	result := CalculateTokenVolatility(pricePoints(100, 100, 100, 100))

	assert.Zero(t, result.VolatilityInPercentage)
	assert.True(t, result.IsStableAsset)
	assert.Equal(t, RiskVeryLow, result.ImpermanentLossRisk)
}

func TestCalculateTokenVolatility_HighSwings(t *testing.T) {
	// Alternating doubling and halving produces huge log-return swings.
	result := CalculateTokenVolatility(pricePoints(100, 200, 100, 200, 100))

	assert.Greater(t, result.VolatilityInPercentage, 200.0)
	assert.False(t, result.IsStableAsset)
	assert.Equal(t, RiskVeryVolatile, result.ImpermanentLossRisk)
}

func TestCalculateTokenVolatility_StablecoinDrift(t *testing.T) {
	// A few basis points of drift stays in the very-low bucket.
	result := CalculateTokenVolatility(pricePoints(1.0000, 1.0002, 0.9999, 1.0001, 1.0000))

	assert.Less(t, result.VolatilityInPercentage, 5.0)
	assert.True(t, result.IsStableAsset)
	assert.Equal(t, RiskVeryLow, result.ImpermanentLossRisk)
}

func TestAnnotateTokenVolatility_LevelLadder(t *testing.T) {
	cases := []struct {
		vol       float64
		level     string
		stability string
	}{
		{2, "Very Low", "Very Stable"},
		{10, "Low", "Stable"},
		{30, "Moderate", "Moderately Stable"},
		{75, "High", "Volatile"},
		{150, "Very High", "Very Volatile"},
		{300, "Extreme", "Extremely Volatile"},
	}

	for _, tc := range cases {
		report := AnnotateTokenVolatility(types.TokenVolatilityResult{
			VolatilityInPercentage: tc.vol,
			ImpermanentLossRisk:    RiskModerate,
		})
		assert.Equal(t, tc.level, report.VolatilityLevel, "vol %.0f%%", tc.vol)
		assert.Equal(t, tc.stability, report.Stability, "vol %.0f%%", tc.vol)
		assert.Contains(t, report.Assessment, "annualized volatility")
	}
}

func TestAnnotateTokenVolatility_AssessmentComparesToTypicalAssets(t *testing.T) {
	report := AnnotateTokenVolatility(types.TokenVolatilityResult{
		VolatilityInPercentage: 30,
		ImpermanentLossRisk:    RiskHigh,
	})

	assert.Contains(t, report.Assessment,
		"The annualized volatility is 30.00%, which is moderate compared to typical assets.")
}
