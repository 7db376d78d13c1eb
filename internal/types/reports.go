/*

Annotated metric reports. Each raw result from metrics.go has a report
form that adds the qualitative labels and textual assessments the
recommendation prompts are built from. The classification is a fixed
threshold table in the analyzer package; nothing here is free text from
a model.

*/

package types

// MovementReport pairs a percentage change with its qualitative label.
type MovementReport struct {
	ChangePercentage float64 `json:"change_percentage"`
	Movement         string  `json:"movement"`
}

// HodlComparisonReport compares the LP position against simply holding.
type HodlComparisonReport struct {
	LPValue     float64 `json:"lp_value"`
	Difference  float64 `json:"difference"`
	Performance string  `json:"performance"`
}

// ImpermanentLossReport is the annotated impermanent-loss result.
type ImpermanentLossReport struct {
	ImpermanentLossPercentage float64              `json:"impermanent_loss_percentage"`
	Impact                    string               `json:"impact"`
	Recommendation            string               `json:"recommendation"`
	Token0Movement            MovementReport       `json:"token0_movement"`
	Token1Movement            MovementReport       `json:"token1_movement"`
	HodlVsLP                  HodlComparisonReport `json:"hodl_vs_lp_comparison"`
}

// TokenVolatilityReport is the annotated volatility result for one token.
type TokenVolatilityReport struct {
	VolatilityInPercentage float64 `json:"volatilityInPercentage"`
	IsStableAsset          bool    `json:"isStableAsset"`
	ImpermanentLossRisk    string  `json:"impermanentLossRisk"`
	VolatilityLevel        string  `json:"volatilityLevel"`
	Stability              string  `json:"stability"`
	Assessment             string  `json:"assessment"`
	Recommendation         string  `json:"recommendation"`
}

// TokenCorrelationReport is the annotated pair-correlation result.
type TokenCorrelationReport struct {
	Correlation         float64 `json:"correlation"`
	CorrelationStrength string  `json:"correlationStrength"`
	Relationship        string  `json:"relationship"`
	Assessment          string  `json:"assessment"`
	Recommendation      string  `json:"recommendation"`
}

// PoolGrowthTrendReport is the annotated growth-trend result.
type PoolGrowthTrendReport struct {
	GrowthInPercentage float64 `json:"poolGrowthTrendInPercentage"`
	Trend              string  `json:"trend"`
	Performance        string  `json:"performance"`
	Strength           string  `json:"strength"`
	Assessment         string  `json:"assessment"`
	Recommendation     string  `json:"recommendation"`
}

// APYVolatilityReport is the annotated APY-dispersion result.
type APYVolatilityReport struct {
	StdDev                 float64 `json:"stdDev"`
	Mean                   float64 `json:"mean"`
	CoefficientOfVariation float64 `json:"coefficientOfVariation"`
	StabilityScore         string  `json:"stabilityScore"`
	RiskLevel              string  `json:"riskLevel"`
	Description            string  `json:"description"`
}

// TokenQualityReport is the annotated quality evaluation for one token.
type TokenQualityReport struct {
	TokenQualityInfo
	QualityScore    string `json:"qualityScore"`
	Trustworthiness string `json:"trustworthiness"`
	Assessment      string `json:"assessment"`
	Recommendation  string `json:"recommendation"`
}

// TokenQualityPair holds per-token quality reports for a pool. Either
// side may be nil when the metadata lookup returned nothing.
type TokenQualityPair struct {
	Token0 *TokenQualityReport `json:"token0"`
	Token1 *TokenQualityReport `json:"token1"`
}

// TokenVolatilityPair holds per-token volatility reports for a pool.
type TokenVolatilityPair struct {
	Token0 *TokenVolatilityReport `json:"token0"`
	Token1 *TokenVolatilityReport `json:"token1"`
}

// PoolMetricsBundle aggregates one pool with every metric report. This is
// the unit persisted per refresh cycle and the unit the recommendation
// reducer consumes. Any report may be nil when the underlying data was
// insufficient; nil is persisted as SQL NULL, never a fabricated value.
type PoolMetricsBundle struct {
	Pool             PoolSummary             `json:"pool"`
	TokenQuality     TokenQualityPair        `json:"tokenQuality"`
	ImpermanentLoss  *ImpermanentLossReport  `json:"impermanentLoss"`
	TokenCorrelation *TokenCorrelationReport `json:"tokenCorrelation"`
	TokensVolatility TokenVolatilityPair     `json:"tokensVolatility"`
	PoolGrowthTrend  *PoolGrowthTrendReport  `json:"poolGrowthTendency"`
	APYVolatility    *APYVolatilityReport    `json:"apyVolatility"`
}

// PoolRecommendation is the minimal pick returned by the reducer.
type PoolRecommendation struct {
	PoolID  string `json:"poolId"`
	FeeTier string `json:"feeTier"`
}

// EnrichedRecommendation adds the token metadata the API response needs.
// The enrichment is a lookup keyed by pool ID after the reduction, not
// state carried through it.
type EnrichedRecommendation struct {
	PoolRecommendation
	Token0Symbol        string `json:"token0Symbol"`
	Token0Name          string `json:"token0Name"`
	Token0Decimals      int    `json:"token0Decimals"`
	Token1Symbol        string `json:"token1Symbol"`
	Token1Name          string `json:"token1Name"`
	Token1Decimals      int    `json:"token1Decimals"`
	IsStablecoinPool    bool   `json:"isStablecoinPool"`
	TotalValueLockedUSD string `json:"totalValueLockedUSD"`
}
