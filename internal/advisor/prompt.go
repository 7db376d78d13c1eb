package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/poolscout/poolscout/internal/types"
)

// candidateSummary is the decision-relevant slice of a bundle shown to
// the model. Qualitative labels only; the raw metric floats stay out of
// the prompt.
type candidateSummary struct {
	PoolID              string   `json:"poolId"`
	FeeTier             string   `json:"feeTier"`
	Token0Symbol        string   `json:"token0Symbol"`
	Token1Symbol        string   `json:"token1Symbol"`
	IsStablecoinPool    bool     `json:"isStablecoinPool"`
	TotalValueLockedUSD string   `json:"totalValueLockedUSD"`
	Liquidity           string   `json:"liquidity"`
	ImpermanentLoss     *ilNotes `json:"impermanentLoss,omitempty"`
	Correlation         *pair2   `json:"tokenCorrelation,omitempty"`
	Token0Volatility    *volPair `json:"token0Volatility,omitempty"`
	Token1Volatility    *volPair `json:"token1Volatility,omitempty"`
	GrowthTrend         *trend2  `json:"poolGrowthTrend,omitempty"`
	APYStability        *apy2    `json:"apyVolatility,omitempty"`
	Token0Quality       *qual2   `json:"token0Quality,omitempty"`
	Token1Quality       *qual2   `json:"token1Quality,omitempty"`
}

type ilNotes struct {
	Impact         string `json:"impact"`
	Recommendation string `json:"recommendation"`
}

type pair2 struct {
	Strength       string `json:"correlationStrength"`
	Assessment     string `json:"assessment"`
	Recommendation string `json:"recommendation"`
}

type volPair struct {
	Level     string `json:"volatilityLevel"`
	Stability string `json:"stability"`
	Risk      string `json:"impermanentLossRisk"`
}

type trend2 struct {
	Trend       string `json:"trend"`
	Performance string `json:"performance"`
	Strength    string `json:"strength"`
}

type apy2 struct {
	StabilityScore string `json:"stabilityScore"`
	RiskLevel      string `json:"riskLevel"`
}

type qual2 struct {
	QualityScore    string `json:"qualityScore"`
	Trustworthiness string `json:"trustworthiness"`
}

// summarizeBundle extracts the qualitative decision fields from a bundle.
func summarizeBundle(b types.PoolMetricsBundle) candidateSummary {
	summary := candidateSummary{
		PoolID:              b.Pool.ID,
		FeeTier:             b.Pool.FeeTier,
		IsStablecoinPool:    b.Pool.IsStablecoinPool,
		TotalValueLockedUSD: b.Pool.TotalValueLockedUSD,
		Liquidity:           b.Pool.Liquidity,
	}
	if b.Pool.Token0 != nil {
		summary.Token0Symbol = b.Pool.Token0.Symbol
	}
	if b.Pool.Token1 != nil {
		summary.Token1Symbol = b.Pool.Token1.Symbol
	}
	if il := b.ImpermanentLoss; il != nil {
		summary.ImpermanentLoss = &ilNotes{Impact: il.Impact, Recommendation: il.Recommendation}
	}
	if c := b.TokenCorrelation; c != nil {
		summary.Correlation = &pair2{Strength: c.CorrelationStrength, Assessment: c.Assessment, Recommendation: c.Recommendation}
	}
	if v := b.TokensVolatility.Token0; v != nil {
		summary.Token0Volatility = &volPair{Level: v.VolatilityLevel, Stability: v.Stability, Risk: v.ImpermanentLossRisk}
	}
	if v := b.TokensVolatility.Token1; v != nil {
		summary.Token1Volatility = &volPair{Level: v.VolatilityLevel, Stability: v.Stability, Risk: v.ImpermanentLossRisk}
	}
	if g := b.PoolGrowthTrend; g != nil {
		summary.GrowthTrend = &trend2{Trend: g.Trend, Performance: g.Performance, Strength: g.Strength}
	}
	if a := b.APYVolatility; a != nil {
		summary.APYStability = &apy2{StabilityScore: a.StabilityScore, RiskLevel: a.RiskLevel}
	}
	if q := b.TokenQuality.Token0; q != nil {
		summary.Token0Quality = &qual2{QualityScore: q.QualityScore, Trustworthiness: q.Trustworthiness}
	}
	if q := b.TokenQuality.Token1; q != nil {
		summary.Token1Quality = &qual2{QualityScore: q.QualityScore, Trustworthiness: q.Trustworthiness}
	}
	return summary
}

// buildPrompt renders the instruction for one reduction batch. The model
// sees the current picks and the new candidates, and must answer with a
// strict JSON array of {poolId, feeTier}.
func buildPrompt(current []types.PoolRecommendation, batch []types.PoolMetricsBundle, target int, wantsVolatile bool) (string, error) {
	summaries := make([]candidateSummary, 0, len(batch))
	for _, b := range batch {
		summaries = append(summaries, summarizeBundle(b))
	}
	candidatesJSON, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", err
	}
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return "", err
	}

	profile := "conservative: the user wants stable, low-risk pools with minimal impermanent loss"
	if wantsVolatile {
		profile = "risk-tolerant: the user accepts volatility in exchange for higher potential returns; stablecoin pools may still be picked if they are the strongest candidates"
	}

	var sb strings.Builder
	sb.WriteString("You are a DeFi liquidity pool analyst. Select the best pools for a user to provide liquidity to.\n\n")
	fmt.Fprintf(&sb, "User risk profile: %s.\n\n", profile)
	fmt.Fprintf(&sb, "Current best picks from previous rounds (may be empty):\n%s\n\n", string(currentJSON))
	fmt.Fprintf(&sb, "New candidate pools with their risk assessments:\n%s\n\n", string(candidatesJSON))
	sb.WriteString("Rules:\n")
	fmt.Fprintf(&sb, "1. Compare the new candidates against the current best picks and select exactly %d pool(s) overall.\n", target)
	sb.WriteString("2. Weigh impermanent loss impact, token correlation, volatility, pool growth, APY stability and token quality against the user's risk profile.\n")
	sb.WriteString("3. Prefer pools with trustworthy tokens and healthy liquidity.\n")
	fmt.Fprintf(&sb, "4. Respond with ONLY a JSON array of exactly %d object(s), each of the form {\"poolId\": \"...\", \"feeTier\": \"...\"}. No explanation, no markdown, no extra keys.\n", target)
	return sb.String(), nil
}
