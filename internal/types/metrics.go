/*

Raw (numeric) metric results produced by the analyzer package. These are
intermediate values; what gets persisted and shown to the language model
are the annotated report types in reports.go.

*/

package types

// PriceMovement describes how one token's price moved over the window.
type PriceMovement struct {
	Initial          float64 `json:"initial"`
	Current          float64 `json:"current"`
	ChangePercentage float64 `json:"change_percentage"`
}

// ImpermanentLossResult is the raw IL computation for a pool.
// HodlValue is normalized to 1 so LPValue reads as a direct multiplier.
type ImpermanentLossResult struct {
	ImpermanentLossPercentage float64       `json:"impermanent_loss_percentage"`
	PriceRatio                float64       `json:"price_ratio"`
	InitialRatio              float64       `json:"initial_ratio"`
	CurrentRatio              float64       `json:"current_ratio"`
	Token0Movement            PriceMovement `json:"token0_movement"`
	Token1Movement            PriceMovement `json:"token1_movement"`
	HodlValue                 float64       `json:"hodl_value"`
	LPValue                   float64       `json:"lp_value"`
	Difference                float64       `json:"difference"`
}

// TokenVolatilityResult is the annualized volatility of a single token.
type TokenVolatilityResult struct {
	VolatilityInPercentage float64 `json:"volatilityInPercentage"`
	IsStableAsset          bool    `json:"isStableAsset"`
	ImpermanentLossRisk    string  `json:"impermanentLossRisk"` // "very low" | "moderate" | "high" | "very volatile"
}

// TokenCorrelationResult is the Pearson correlation of two tokens' log
// returns, rounded to two decimals.
type TokenCorrelationResult struct {
	Correlation         float64 `json:"correlation"`
	StablePair          bool    `json:"stable_pair"`
	ImpermanentLossRisk string  `json:"impermanent_loss_risk"` // "low" | "moderate" | "high" | "very risky"
}

// PoolGrowthTrendResult is the TVL+fees growth of a pool over the window.
type PoolGrowthTrendResult struct {
	GrowthInPercentage float64 `json:"poolGrowthTrendInPercentage"`
	Trend              string  `json:"trend"` // "positive" | "negative"
}

// APYVolatilityResult summarizes the dispersion of daily annualized APY.
type APYVolatilityResult struct {
	StdDev                 float64 `json:"stdDev"`
	Mean                   float64 `json:"mean"`
	CoefficientOfVariation float64 `json:"coefficientOfVariation"`
}

// TokenQualityInfo holds the static quality flags derived from token
// metadata. Never recomputed from market data.
type TokenQualityInfo struct {
	HasInProviders  bool    `json:"hasInProviders"`
	HasInternalTags bool    `json:"hasInternalTags"`
	HasEIP2612      bool    `json:"hasEip2612"`
	Rating          float64 `json:"rating"`
}
