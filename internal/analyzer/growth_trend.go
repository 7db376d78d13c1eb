/*

Pool growth trend: TVL delta plus accumulated fees over a window,
relative to the initial TVL.

*/

package analyzer

import (
	"github.com/poolscout/poolscout/internal/types"
)

// CalculatePoolGrowthTrend computes the percentage growth of a pool over
// the day-history window, counting fee income as growth. The current TVL
// is caller-supplied (live value from the pool listing) rather than taken
// from the last history row. Empty history makes the metric undefined.
func CalculatePoolGrowthTrend(history []types.PoolDayRecord, currentTVL float64) (*types.PoolGrowthTrendResult, error) {
	if len(history) == 0 {
		return nil, ErrInsufficientData
	}

	initialTVL := history[0].TVLUSD
	var totalFees float64
	for _, day := range history {
		totalFees += day.FeesUSD
	}

	growth := ((currentTVL - initialTVL + totalFees) / initialTVL) * 100

	trend := "negative"
	if growth >= 0 {
		trend = "positive"
	}

	return &types.PoolGrowthTrendResult{
		GrowthInPercentage: growth,
		Trend:              trend,
	}, nil
}

// AnnotatePoolGrowthTrend maps a raw growth-trend result onto the
// qualitative report used in recommendation prompts.
func AnnotatePoolGrowthTrend(result *types.PoolGrowthTrendResult) *types.PoolGrowthTrendReport {
	if result == nil {
		return nil
	}

	pct := result.GrowthInPercentage

	var performance, strength, assessment, recommendation string
	if result.Trend == "positive" {
		switch {
		case pct > 50:
			performance = "Exceptional growth"
			strength = "Very Strong"
			assessment = "This pool has shown exceptional performance with substantial growth in TVL and fees"
			recommendation = "This pool demonstrates excellent performance. Consider maintaining or increasing position size."
		case pct > 20:
			performance = "Strong growth"
			strength = "Strong"
			assessment = "This pool has shown strong positive performance with healthy growth in TVL and fees"
			recommendation = "This pool shows strong performance. Consider maintaining current position or moderate increase."
		case pct > 5:
			performance = "Moderate growth"
			strength = "Moderate"
			assessment = "This pool has shown moderate positive performance with steady growth in TVL and fees"
			recommendation = "This pool shows moderate growth. Monitor performance and consider maintaining position."
		default:
			performance = "Slight growth"
			strength = "Weak"
			assessment = "This pool has shown minimal positive performance with slight growth in TVL and fees"
			recommendation = "This pool shows minimal growth. Consider monitoring closely or exploring alternatives."
		}
	} else {
		switch {
		case pct < -50:
			performance = "Severe decline"
			strength = "Very Weak"
			assessment = "This pool has shown severe negative performance with substantial decline in TVL and fees"
			recommendation = "This pool shows concerning decline. Consider reducing position or exiting entirely."
		case pct < -20:
			performance = "Significant decline"
			strength = "Weak"
			assessment = "This pool has shown significant negative performance with notable decline in TVL and fees"
			recommendation = "This pool shows significant decline. Consider reducing position size or monitoring closely."
		case pct < -5:
			performance = "Moderate decline"
			strength = "Moderate"
			assessment = "This pool has shown moderate negative performance with some decline in TVL and fees"
			recommendation = "This pool shows moderate decline. Consider monitoring performance and reducing exposure."
		default:
			performance = "Slight decline"
			strength = "Weak"
			assessment = "This pool has shown minimal negative performance with slight decline in TVL and fees"
			recommendation = "This pool shows slight decline. Monitor performance and consider alternatives if trend continues."
		}
	}

	return &types.PoolGrowthTrendReport{
		GrowthInPercentage: pct,
		Trend:              result.Trend,
		Performance:        performance,
		Strength:           strength,
		Assessment:         assessment,
		Recommendation:     recommendation,
	}
}
