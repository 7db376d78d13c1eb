/*

Impermanent loss of a two-token pool from the price divergence between
its tokens over a window.

*/

package analyzer

import (
	"errors"
	"math"
	"sort"

	"github.com/poolscout/poolscout/internal/types"
)

// ErrInsufficientData indicates that not enough data points were provided
// to compute a metric (most calculators need at least 2 points for 1 return).
var ErrInsufficientData = errors.New("insufficient data points to calculate metric")

// CalculateImpermanentLoss computes the IL of holding an LP position
// versus holding the two tokens, given each token's price history since
// the position start. Both histories are sorted by timestamp descending;
// the first element is treated as the initial price and the last as the
// current one. Either history being empty makes the metric undefined.
func CalculateImpermanentLoss(prices0, prices1 []types.PricePoint) (*types.ImpermanentLossResult, error) {
	if len(prices0) == 0 || len(prices1) == 0 {
		return nil, ErrInsufficientData
	}

	p0 := make([]types.PricePoint, len(prices0))
	copy(p0, prices0)
	p1 := make([]types.PricePoint, len(prices1))
	copy(p1, prices1)

	sort.Slice(p0, func(i, j int) bool { return p0[i].Timestamp > p0[j].Timestamp })
	sort.Slice(p1, func(i, j int) bool { return p1[i].Timestamp > p1[j].Timestamp })

	initialPrice0 := p0[0].Value
	initialPrice1 := p1[0].Value
	currentPrice0 := p0[len(p0)-1].Value
	currentPrice1 := p1[len(p1)-1].Value

	initialRatio := initialPrice0 / initialPrice1
	currentRatio := currentPrice0 / currentPrice1

	priceRatio := currentRatio / initialRatio
	sqrtRatio := math.Sqrt(priceRatio)

	// Standard 50/50 pool IL formula: 2*sqrt(r)/(1+r) - 1
	il := (2*sqrtRatio)/(1+priceRatio) - 1

	return &types.ImpermanentLossResult{
		ImpermanentLossPercentage: il * 100,
		PriceRatio:                priceRatio,
		InitialRatio:              initialRatio,
		CurrentRatio:              currentRatio,
		Token0Movement: types.PriceMovement{
			Initial:          initialPrice0,
			Current:          currentPrice0,
			ChangePercentage: ((currentPrice0 - initialPrice0) / initialPrice0) * 100,
		},
		Token1Movement: types.PriceMovement{
			Initial:          initialPrice1,
			Current:          currentPrice1,
			ChangePercentage: ((currentPrice1 - initialPrice1) / initialPrice1) * 100,
		},
		HodlValue:  1,
		LPValue:    1 + il,
		Difference: il,
	}, nil
}

// AnnotateImpermanentLoss maps a raw IL result onto the qualitative
// report used in recommendation prompts. The bucket boundaries decide
// downstream prompt content and must not drift.
func AnnotateImpermanentLoss(result *types.ImpermanentLossResult) *types.ImpermanentLossReport {
	if result == nil {
		return nil
	}

	ilPct := result.ImpermanentLossPercentage

	var impact, recommendation string
	switch {
	case ilPct > -1:
		impact = "Negligible impact on position value"
		recommendation = "This pool has minimal impermanent loss risk. Safe for long-term holding."
	case ilPct > -5:
		impact = "Small impact on position value"
		recommendation = "Low impermanent loss risk. Consider monitoring price movements."
	case ilPct > -15:
		impact = "Noticeable impact on position value"
		recommendation = "Moderate impermanent loss risk. Consider rebalancing or monitoring closely."
	case ilPct > -30:
		impact = "Significant impact on position value"
		recommendation = "High impermanent loss risk. Consider reducing position or rebalancing."
	default:
		impact = "Severe impact on position value"
		recommendation = "Very high impermanent loss risk. Consider exiting position or significant rebalancing."
	}

	var performance string
	switch {
	case result.Difference > 0:
		performance = "LP position outperforming HODL strategy"
	case result.Difference < -10:
		performance = "LP position significantly underperforming HODL strategy"
	default:
		performance = "LP position underperforming HODL strategy"
	}

	return &types.ImpermanentLossReport{
		ImpermanentLossPercentage: ilPct,
		Impact:                    impact,
		Recommendation:            recommendation,
		Token0Movement: types.MovementReport{
			ChangePercentage: result.Token0Movement.ChangePercentage,
			Movement:         movementDescription(result.Token0Movement.ChangePercentage),
		},
		Token1Movement: types.MovementReport{
			ChangePercentage: result.Token1Movement.ChangePercentage,
			Movement:         movementDescription(result.Token1Movement.ChangePercentage),
		},
		HodlVsLP: types.HodlComparisonReport{
			LPValue:     result.LPValue,
			Difference:  result.Difference,
			Performance: performance,
		},
	}
}

// movementDescription labels a percentage price change.
func movementDescription(changePercentage float64) string {
	switch {
	case changePercentage > 50:
		return "Extreme increase"
	case changePercentage > 20:
		return "Strong increase"
	case changePercentage > 5:
		return "Moderate increase"
	case changePercentage > 1:
		return "Slight increase"
	case changePercentage > -1:
		return "Stable"
	case changePercentage > -5:
		return "Slight decrease"
	case changePercentage > -20:
		return "Moderate decrease"
	case changePercentage > -50:
		return "Strong decrease"
	default:
		return "Extreme decrease"
	}
}
