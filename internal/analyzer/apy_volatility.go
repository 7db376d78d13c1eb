/*

APY volatility: dispersion of the daily annualized fee yield of a pool.
The coefficient of variation gives a scale-free stability score.

*/

package analyzer

import (
	"math"

	"github.com/poolscout/poolscout/internal/types"
)

// CalculateAPYVolatility estimates each day's annualized APY from that
// day's fees against TVL, then reports the mean, sample standard
// deviation, and coefficient of variation of those estimates. Fewer than
// 2 days of history makes the metric undefined.
func CalculateAPYVolatility(history []types.PoolDayRecord) (*types.APYVolatilityResult, error) {
	if len(history) < 2 {
		return nil, ErrInsufficientData
	}

	dailyAPYs := make([]float64, len(history))
	for i, day := range history {
		if day.TVLUSD > 0 {
			dailyAPYs[i] = (day.FeesUSD / day.TVLUSD) * 365 * 100
		}
	}

	var sum float64
	for _, apy := range dailyAPYs {
		sum += apy
	}
	mean := sum / float64(len(dailyAPYs))

	var sumSqDiff float64
	for _, apy := range dailyAPYs {
		sumSqDiff += math.Pow(apy-mean, 2)
	}
	stdDev := math.Sqrt(sumSqDiff / float64(len(dailyAPYs)-1))

	cv := 0.0
	if mean != 0 {
		cv = stdDev / mean
	}

	return &types.APYVolatilityResult{
		StdDev:                 stdDev,
		Mean:                   mean,
		CoefficientOfVariation: cv,
	}, nil
}

// AnnotateAPYVolatility maps a raw APY-volatility result onto the
// qualitative report used in recommendation prompts.
func AnnotateAPYVolatility(result *types.APYVolatilityResult) *types.APYVolatilityReport {
	if result == nil {
		return nil
	}

	cv := result.CoefficientOfVariation

	var stabilityScore, riskLevel, description string
	switch {
	case cv < 0.3:
		stabilityScore = "Very Stable"
		riskLevel = "Low"
		description = "This pool shows very consistent APY performance with minimal volatility."
	case cv < 0.5:
		stabilityScore = "Stable"
		riskLevel = "Low-Medium"
		description = "This pool demonstrates stable APY performance with moderate volatility."
	case cv < 0.8:
		stabilityScore = "Moderate"
		riskLevel = "Medium"
		description = "This pool shows moderate APY volatility with some fluctuations."
	case cv < 1.2:
		stabilityScore = "Volatile"
		riskLevel = "Medium-High"
		description = "This pool exhibits high APY volatility with significant fluctuations."
	default:
		stabilityScore = "Very Volatile"
		riskLevel = "High"
		description = "This pool shows very high APY volatility with extreme fluctuations."
	}

	return &types.APYVolatilityReport{
		StdDev:                 result.StdDev,
		Mean:                   result.Mean,
		CoefficientOfVariation: cv,
		StabilityScore:         stabilityScore,
		RiskLevel:              riskLevel,
		Description:            description,
	}
}
