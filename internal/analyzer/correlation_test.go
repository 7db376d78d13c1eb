package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolscout/poolscout/internal/types"
)

func TestCalculateTokenCorrelation_InsufficientData(t *testing.T) {
	_, err := CalculateTokenCorrelation(pricePoints(100), pricePoints(100, 110))
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = CalculateTokenCorrelation(pricePoints(100, 110), nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateTokenCorrelation_PerfectPositive(t *testing.T) {
	prices0 := pricePoints(100, 110, 105, 120)
	prices1 := pricePoints(50, 55, 52.5, 60)

	result, err := CalculateTokenCorrelation(prices0, prices1)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.Correlation, 1e-9)
	assert.True(t, result.StablePair)
	assert.Equal(t, "low", result.ImpermanentLossRisk)
}

func TestCalculateTokenCorrelation_PerfectNegative(t *testing.T) {
	// Token1 moves exactly inverse to token0 in log space.
	prices0 := pricePoints(100, 200, 100, 200)
	prices1 := pricePoints(100, 50, 100, 50)

	result, err := CalculateTokenCorrelation(prices0, prices1)
	require.NoError(t, err)

	assert.InDelta(t, -1.0, result.Correlation, 1e-9)
	assert.False(t, result.StablePair)
	assert.Equal(t, "very risky", result.ImpermanentLossRisk)
}

func TestCalculateTokenCorrelation_Symmetric(t *testing.T) {
	prices0 := pricePoints(100, 104, 99, 108, 103)
	prices1 := pricePoints(200, 195, 210, 205, 215)

	ab, err := CalculateTokenCorrelation(prices0, prices1)
	require.NoError(t, err)
	ba, err := CalculateTokenCorrelation(prices1, prices0)
	require.NoError(t, err)

	assert.Equal(t, ab.Correlation, ba.Correlation)
}

func TestCalculateTokenCorrelation_ConstantSeries(t *testing.T) {
	// A flat series has zero variance, so the coefficient degrades to 0
	// instead of dividing by zero.
	result, err := CalculateTokenCorrelation(pricePoints(100, 100, 100), pricePoints(50, 55, 60))
	require.NoError(t, err)

	assert.Zero(t, result.Correlation)
	assert.Equal(t, "high", result.ImpermanentLossRisk)
}

func TestAnnotateTokenCorrelation_StrengthLadder(t *testing.T) {
	cases := []struct {
		correlation float64
		strength    string
	}{
		{0.95, "Very Strong Positive"},
		{0.8, "Strong Positive"},
		{0.6, "Moderate Positive"},
		{0.4, "Weak Positive"},
		{0.1, "Very Weak Positive"},
		{0, "No Correlation"},
		{-0.1, "Very Weak Negative"},
		{-0.4, "Weak Negative"},
		{-0.6, "Moderate Negative"},
		{-0.8, "Strong Negative"},
		{-0.95, "Very Strong Negative"},
	}

	for _, tc := range cases {
		report := AnnotateTokenCorrelation(&types.TokenCorrelationResult{Correlation: tc.correlation})
		require.NotNil(t, report)
		assert.Equal(t, tc.strength, report.CorrelationStrength, "correlation %.2f", tc.correlation)
	}
}

func TestAnnotateTokenCorrelation_NilResult(t *testing.T) {
	assert.Nil(t, AnnotateTokenCorrelation(nil))
}
