/*

Advisor reduces the persisted pool metric bundles to 1-2 recommendations
matching a user's risk intent. The reduction is a linear fold over
fixed-size candidate batches with the language model as the combining
function: each round sees only the accumulated picks plus the new batch,
so later rounds compare against what survived earlier ones.

*/

package advisor

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/poolscout/poolscout/internal/datafetcher"
	"github.com/poolscout/poolscout/internal/llm"
	"github.com/poolscout/poolscout/internal/logger"
	"github.com/poolscout/poolscout/internal/types"
)

// ErrNoPoolData signals that no eligible pools exist for the request.
// Callers surface it as a "retry later" outcome, not a request error.
var ErrNoPoolData = errors.New("no pool data available for recommendation")

const (
	candidateCeiling = 20
	batchSize        = 10
)

// RiskIntent captures the user's appetite for volatile pools.
type RiskIntent struct {
	WantsVolatilePool bool `json:"wantsVolatilePool"`
}

// Target returns how many pools to recommend for this intent.
func (r RiskIntent) Target() int {
	if r.WantsVolatilePool {
		return 2
	}
	return 1
}

// BundleSource lists the persisted metric bundles.
type BundleSource interface {
	ListPools() ([]types.PoolMetricsBundle, error)
}

// Advisor runs the recommendation reduction.
type Advisor struct {
	source    BundleSource
	completer llm.Completer
	limiter   *datafetcher.Limiter
	logger    zerolog.Logger
}

// New creates an Advisor.
func New(source BundleSource, completer llm.Completer, limiter *datafetcher.Limiter) *Advisor {
	return &Advisor{
		source:    source,
		completer: completer,
		limiter:   limiter,
		logger:    logger.GetForComponent("advisor"),
	}
}

// Recommend returns up to Target() pool picks for the given intent.
// Returns ErrNoPoolData when no bundles exist or none survive the
// intent filter.
func (a *Advisor) Recommend(ctx context.Context, intent RiskIntent) ([]types.PoolRecommendation, error) {
	bundles, err := a.source.ListPools()
	if err != nil {
		return nil, err
	}
	if len(bundles) == 0 {
		return nil, ErrNoPoolData
	}
	if len(bundles) > candidateCeiling {
		bundles = bundles[:candidateCeiling]
	}

	candidates := filterByIntent(bundles, intent)
	if len(candidates) == 0 {
		return nil, ErrNoPoolData
	}

	target := intent.Target()
	var picks []types.PoolRecommendation

	for start := 0; start < len(candidates); start += batchSize {
		end := start + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]

		if start > 0 {
			if err := a.limiter.Wait(ctx, datafetcher.UpstreamCompletion); err != nil {
				return nil, err
			}
		}

		prompt, err := buildPrompt(picks, batch, target, intent.WantsVolatilePool)
		if err != nil {
			return nil, err
		}

		response, err := a.completer.Complete(ctx, prompt)
		if err != nil {
			a.logger.Error().Err(err).Int("batch_start", start).Msg("Completion failed, keeping current picks")
			continue
		}

		parsed, ok := ExtractJSONArray(response)
		if !ok {
			a.logger.Warn().Int("batch_start", start).Msg("Unparseable model response, keeping current picks")
			continue
		}
		picks = parsed
	}

	if len(picks) > target {
		picks = picks[:target]
	}
	a.logger.Info().
		Int("candidates", len(candidates)).
		Int("picks", len(picks)).
		Bool("wants_volatile", intent.WantsVolatilePool).
		Msg("Recommendation reduction complete")
	return picks, nil
}

// filterByIntent applies the eligibility rule: a conservative request is
// a hard stablecoin-only filter, a risk-tolerant request considers the
// whole candidate set including stablecoin pools.
func filterByIntent(bundles []types.PoolMetricsBundle, intent RiskIntent) []types.PoolMetricsBundle {
	if intent.WantsVolatilePool {
		return bundles
	}
	filtered := make([]types.PoolMetricsBundle, 0, len(bundles))
	for _, b := range bundles {
		if b.Pool.IsStablecoinPool {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// Enrich resolves each pick against the bundle set, adding the token
// metadata the API response carries. Picks whose pool is unknown are
// dropped.
func Enrich(picks []types.PoolRecommendation, bundles []types.PoolMetricsBundle) []types.EnrichedRecommendation {
	byID := make(map[string]types.PoolMetricsBundle, len(bundles))
	for _, b := range bundles {
		byID[b.Pool.ID] = b
	}

	enriched := make([]types.EnrichedRecommendation, 0, len(picks))
	for _, pick := range picks {
		bundle, ok := byID[pick.PoolID]
		if !ok {
			continue
		}
		e := types.EnrichedRecommendation{
			PoolRecommendation:  pick,
			IsStablecoinPool:    bundle.Pool.IsStablecoinPool,
			TotalValueLockedUSD: bundle.Pool.TotalValueLockedUSD,
		}
		if t := bundle.Pool.Token0; t != nil {
			e.Token0Symbol, e.Token0Name, e.Token0Decimals = t.Symbol, t.Name, t.Decimals
		}
		if t := bundle.Pool.Token1; t != nil {
			e.Token1Symbol, e.Token1Name, e.Token1Decimals = t.Symbol, t.Name, t.Decimals
		}
		enriched = append(enriched, e)
	}
	return enriched
}
