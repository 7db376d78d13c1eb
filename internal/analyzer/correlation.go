/*

Pearson correlation of two tokens' log returns. Highly correlated pairs
carry low impermanent loss risk since their relative price barely moves.

*/

package analyzer

import (
	"math"
	"sort"

	"github.com/poolscout/poolscout/internal/types"
)

// CalculateTokenCorrelation computes the Pearson correlation coefficient
// of the per-step log returns of two price series, rounded to 2 decimal
// places. Fewer than 2 points in either series makes the metric undefined.
func CalculateTokenCorrelation(prices0, prices1 []types.PricePoint) (*types.TokenCorrelationResult, error) {
	if len(prices0) < 2 || len(prices1) < 2 {
		return nil, ErrInsufficientData
	}

	p0 := make([]types.PricePoint, len(prices0))
	copy(p0, prices0)
	p1 := make([]types.PricePoint, len(prices1))
	copy(p1, prices1)

	sort.Slice(p0, func(i, j int) bool { return p0[i].Timestamp < p0[j].Timestamp })
	sort.Slice(p1, func(i, j int) bool { return p1[i].Timestamp < p1[j].Timestamp })

	// Align series by position; the sources return the same cadence but
	// may truncate one side.
	steps := len(p0)
	if len(p1) < steps {
		steps = len(p1)
	}

	returns0 := make([]float64, 0, steps-1)
	returns1 := make([]float64, 0, steps-1)
	for i := 1; i < steps; i++ {
		returns0 = append(returns0, math.Log(p0[i].Value/p0[i-1].Value))
		returns1 = append(returns1, math.Log(p1[i].Value/p1[i-1].Value))
	}

	n := float64(len(returns0))
	var sum0, sum1, sum0Sq, sum1Sq, sum01 float64
	for i := range returns0 {
		sum0 += returns0[i]
		sum1 += returns1[i]
		sum0Sq += returns0[i] * returns0[i]
		sum1Sq += returns1[i] * returns1[i]
		sum01 += returns0[i] * returns1[i]
	}

	numerator := n*sum01 - sum0*sum1
	denominator := math.Sqrt((n*sum0Sq - sum0*sum0) * (n*sum1Sq - sum1*sum1))

	correlation := 0.0
	if denominator != 0 {
		correlation = numerator / denominator
	}
	correlation = math.Round(correlation*100) / 100

	var risk string
	var stablePair bool
	switch {
	case correlation > 0.9:
		risk = "low"
		stablePair = true
	case correlation >= 0.5:
		risk = "moderate"
	case correlation >= 0:
		risk = "high"
	default:
		risk = "very risky"
	}

	return &types.TokenCorrelationResult{
		Correlation:         correlation,
		StablePair:          stablePair,
		ImpermanentLossRisk: risk,
	}, nil
}

// AnnotateTokenCorrelation maps a raw correlation result onto the
// qualitative report used in recommendation prompts.
func AnnotateTokenCorrelation(result *types.TokenCorrelationResult) *types.TokenCorrelationReport {
	if result == nil {
		return nil
	}

	c := result.Correlation

	var strength, relationship, assessment, recommendation string
	switch {
	case c > 0.9:
		strength = "Very Strong Positive"
		relationship = "Highly correlated - tokens move together strongly"
		assessment = "These tokens show very strong positive correlation, indicating they tend to move in the same direction with similar magnitude"
		recommendation = "This pair has low impermanent loss risk. Consider for stable LP positions with predictable behavior."
	case c > 0.7:
		strength = "Strong Positive"
		relationship = "Strongly correlated - tokens move together"
		assessment = "These tokens show strong positive correlation, indicating they generally move in the same direction"
		recommendation = "This pair has moderate impermanent loss risk. Suitable for LP positions with some volatility tolerance."
	case c > 0.5:
		strength = "Moderate Positive"
		relationship = "Moderately correlated - tokens have some relationship"
		assessment = "These tokens show moderate positive correlation, indicating some relationship in their price movements"
		recommendation = "This pair has moderate impermanent loss risk. Monitor performance and consider position sizing carefully."
	case c > 0.3:
		strength = "Weak Positive"
		relationship = "Weakly correlated - minimal relationship"
		assessment = "These tokens show weak positive correlation, indicating minimal relationship in their price movements"
		recommendation = "This pair has high impermanent loss risk. Consider smaller position sizes and active monitoring."
	case c > 0:
		strength = "Very Weak Positive"
		relationship = "Very weakly correlated - almost independent"
		assessment = "These tokens show very weak positive correlation, indicating they move almost independently"
		recommendation = "This pair has very high impermanent loss risk. Consider alternatives or very small position sizes."
	case c == 0:
		strength = "No Correlation"
		relationship = "Uncorrelated - tokens move independently"
		assessment = "These tokens show no correlation, indicating they move completely independently of each other"
		recommendation = "This pair has very high impermanent loss risk. Consider avoiding or using very small position sizes."
	case c > -0.3:
		strength = "Very Weak Negative"
		relationship = "Very weakly negatively correlated"
		assessment = "These tokens show very weak negative correlation, indicating slight inverse relationship"
		recommendation = "This pair has very high impermanent loss risk. Consider alternatives or very small position sizes."
	case c > -0.5:
		strength = "Weak Negative"
		relationship = "Weakly negatively correlated"
		assessment = "These tokens show weak negative correlation, indicating some inverse relationship"
		recommendation = "This pair has very high impermanent loss risk. Consider alternatives or very small position sizes."
	case c > -0.7:
		strength = "Moderate Negative"
		relationship = "Moderately negatively correlated"
		assessment = "These tokens show moderate negative correlation, indicating inverse relationship"
		recommendation = "This pair has very high impermanent loss risk. Consider alternatives or very small position sizes."
	case c > -0.9:
		strength = "Strong Negative"
		relationship = "Strongly negatively correlated"
		assessment = "These tokens show strong negative correlation, indicating strong inverse relationship"
		recommendation = "This pair has very high impermanent loss risk. Consider alternatives or very small position sizes."
	default:
		strength = "Very Strong Negative"
		relationship = "Very strongly negatively correlated"
		assessment = "These tokens show very strong negative correlation, indicating they move in opposite directions"
		recommendation = "This pair has very high impermanent loss risk. Consider alternatives or very small position sizes."
	}

	return &types.TokenCorrelationReport{
		Correlation:         c,
		CorrelationStrength: strength,
		Relationship:        relationship,
		Assessment:          assessment,
		Recommendation:      recommendation,
	}
}
