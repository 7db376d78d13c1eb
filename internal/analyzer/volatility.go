/*

Annualized token price volatility from log returns over a trailing
window of price samples.

*/

package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/poolscout/poolscout/internal/types"
)

// Volatility risk labels, keyed off annualized volatility percentage.
const (
	RiskVeryLow      = "very low"
	RiskModerate     = "moderate"
	RiskHigh         = "high"
	RiskVeryVolatile = "very volatile"
)

// CalculateTokenVolatility computes annualized historical volatility from
// a series of price samples using the sample standard deviation of log
// returns, annualized by sqrt(365).
//
// Unlike the other calculators, fewer than 2 points yields a defined
// default of 0% volatility / stable asset rather than an undefined
// metric. Callers relying on the "insufficient data means nil" policy of
// this package must special-case volatility.
func CalculateTokenVolatility(prices []types.PricePoint) types.TokenVolatilityResult {
	if len(prices) < 2 {
		return types.TokenVolatilityResult{
			VolatilityInPercentage: 0,
			IsStableAsset:          true,
			ImpermanentLossRisk:    RiskVeryLow,
		}
	}

	sorted := make([]types.PricePoint, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	logReturns := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		logReturns = append(logReturns, math.Log(sorted[i].Value/sorted[i-1].Value))
	}

	var sum float64
	for _, r := range logReturns {
		sum += r
	}
	mean := sum / float64(len(logReturns))

	var sumSqDiff float64
	for _, r := range logReturns {
		sumSqDiff += math.Pow(r-mean, 2)
	}
	// Sample variance (N-1)
	variance := sumSqDiff / float64(len(logReturns)-1)

	dailyStd := math.Sqrt(variance)
	annualizedVol := dailyStd * math.Sqrt(365) * 100

	var risk string
	var isStable bool
	switch {
	case annualizedVol < 5:
		risk = RiskVeryLow
		isStable = true
	case annualizedVol < 20:
		risk = RiskModerate
	case annualizedVol < 50:
		risk = RiskHigh
	default:
		risk = RiskVeryVolatile
	}

	return types.TokenVolatilityResult{
		VolatilityInPercentage: annualizedVol,
		IsStableAsset:          isStable,
		ImpermanentLossRisk:    risk,
	}
}

// AnnotateTokenVolatility maps a raw volatility result onto the
// qualitative report used in recommendation prompts.
func AnnotateTokenVolatility(result types.TokenVolatilityResult) *types.TokenVolatilityReport {
	vol := result.VolatilityInPercentage

	var level, stability, assessment, recommendation string
	switch {
	case vol < 5:
		level = "Very Low"
		stability = "Very Stable"
		assessment = "This token exhibits very low price volatility, indicating extremely stable price movements. It behaves like a stablecoin or highly stable asset."
		recommendation = "This token has very low volatility risk. Excellent for LP positions with minimal impermanent loss concerns."
	case vol < 20:
		level = "Low"
		stability = "Stable"
		assessment = "This token shows low price volatility, indicating stable price movements with minimal fluctuations."
		recommendation = "This token has low volatility risk. Suitable for LP positions with low impermanent loss risk."
	case vol < 50:
		level = "Moderate"
		stability = "Moderately Stable"
		assessment = "This token shows moderate price volatility, indicating some price fluctuations but generally stable behavior."
		recommendation = "This token has moderate volatility risk. Consider position sizing and monitor for impermanent loss."
	case vol < 100:
		level = "High"
		stability = "Volatile"
		assessment = "This token shows high price volatility, indicating significant price fluctuations and unstable behavior."
		recommendation = "This token has high volatility risk. Consider smaller position sizes and active monitoring for impermanent loss."
	case vol < 200:
		level = "Very High"
		stability = "Very Volatile"
		assessment = "This token shows very high price volatility, indicating extreme price fluctuations and highly unstable behavior."
		recommendation = "This token has very high volatility risk. Consider very small position sizes or avoiding LP positions entirely."
	default:
		level = "Extreme"
		stability = "Extremely Volatile"
		assessment = "This token shows extreme price volatility, indicating massive price fluctuations and extremely unstable behavior."
		recommendation = "This token has extreme volatility risk. Strongly recommend avoiding LP positions due to very high impermanent loss risk."
	}

	assessment += fmt.Sprintf(" The annualized volatility is %.2f%%, which is %s compared to typical assets.", vol, strings.ToLower(level))

	switch result.ImpermanentLossRisk {
	case RiskVeryLow:
		assessment += " This makes it very suitable for liquidity provision with minimal impermanent loss concerns."
	case RiskModerate:
		assessment += " This presents moderate impermanent loss risk that should be considered when providing liquidity."
	case RiskHigh:
		assessment += " This presents high impermanent loss risk that requires careful consideration for liquidity provision."
	case RiskVeryVolatile:
		assessment += " This presents very high impermanent loss risk that makes liquidity provision extremely risky."
	}

	return &types.TokenVolatilityReport{
		VolatilityInPercentage: vol,
		IsStableAsset:          result.IsStableAsset,
		ImpermanentLossRisk:    result.ImpermanentLossRisk,
		VolatilityLevel:        level,
		Stability:              stability,
		Assessment:             assessment,
		Recommendation:         recommendation,
	}
}
