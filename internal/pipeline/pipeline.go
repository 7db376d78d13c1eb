/*

Pipeline assembles pool metric bundles. Each refresh cycle fetches the
top pools, computes every risk metric per pool from 30 days of price and
day-history data, and upserts the resulting bundles. Pools are processed
in bounded waves of two concurrent computations; everything inside one
pool's computation is sequential.

*/

package pipeline

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/poolscout/poolscout/internal/analyzer"
	"github.com/poolscout/poolscout/internal/logger"
	"github.com/poolscout/poolscout/internal/types"
)

const (
	historyWindowDays = 30
	poolWaveWidth     = 2
)

// Gateway is the slice of the data gateway the pipeline needs.
type Gateway interface {
	FetchStablecoins(ctx context.Context) []types.Stablecoin
	FetchTopPools(ctx context.Context, limit int, stablecoins []types.Stablecoin) []types.PoolSummary
	FetchPriceHistory(ctx context.Context, tokenAddress string, from, to int64) []types.PricePoint
	FetchTokenDetails(ctx context.Context, addresses []string) map[string]*types.TokenDetails
	FetchPoolDayHistory(ctx context.Context, poolID string, since int64) ([]types.PoolDayRecord, error)
}

// BundleStore persists the computed bundles.
type BundleStore interface {
	UpsertPool(bundle types.PoolMetricsBundle) error
}

// Pipeline runs the periodic metric refresh.
type Pipeline struct {
	gateway  Gateway
	store    BundleStore
	maxPools int
	logger   zerolog.Logger
}

// New creates a Pipeline.
func New(gateway Gateway, store BundleStore, maxPools int) *Pipeline {
	return &Pipeline{
		gateway:  gateway,
		store:    store,
		maxPools: maxPools,
		logger:   logger.GetForComponent("pipeline"),
	}
}

// ComputeMetricsForPools fetches the current top pools and computes the
// full metric bundle for each. Pools whose token references are missing
// are skipped. Order of the result follows the fetch order.
func (p *Pipeline) ComputeMetricsForPools(ctx context.Context) []types.PoolMetricsBundle {
	stablecoins := p.gateway.FetchStablecoins(ctx)
	pools := p.gateway.FetchTopPools(ctx, p.maxPools, stablecoins)
	if len(pools) == 0 {
		p.logger.Warn().Msg("No pools available for metric computation")
		return nil
	}
	if len(pools) > p.maxPools {
		pools = pools[:p.maxPools]
	}

	var mu sync.Mutex
	bundles := make([]types.PoolMetricsBundle, 0, len(pools))

	workers := pond.NewPool(poolWaveWidth)
	for _, pool := range pools {
		pool := pool
		if pool.Token0 == nil || pool.Token1 == nil {
			p.logger.Warn().Str("pool", pool.ID).Msg("Skipping pool with missing token references")
			continue
		}
		workers.Submit(func() {
			bundle := p.computeBundle(ctx, pool)
			mu.Lock()
			bundles = append(bundles, bundle)
			mu.Unlock()
		})
	}
	workers.StopAndWait()

	ordered := orderByFetchOrder(bundles, pools)
	p.logger.Info().Int("pools", len(ordered)).Msg("Computed metric bundles")
	return ordered
}

func orderByFetchOrder(bundles []types.PoolMetricsBundle, pools []types.PoolSummary) []types.PoolMetricsBundle {
	byID := make(map[string]types.PoolMetricsBundle, len(bundles))
	for _, b := range bundles {
		byID[b.Pool.ID] = b
	}
	ordered := make([]types.PoolMetricsBundle, 0, len(bundles))
	for _, pool := range pools {
		if b, ok := byID[pool.ID]; ok {
			ordered = append(ordered, b)
		}
	}
	return ordered
}

// computeBundle runs every metric for one pool. Metric failures from
// insufficient data leave the corresponding report nil.
func (p *Pipeline) computeBundle(ctx context.Context, pool types.PoolSummary) types.PoolMetricsBundle {
	bundle := types.PoolMetricsBundle{Pool: pool}

	now := time.Now().Unix()
	from := now - historyWindowDays*24*3600

	prices0 := p.gateway.FetchPriceHistory(ctx, pool.Token0.ID, from, now)
	prices1 := p.gateway.FetchPriceHistory(ctx, pool.Token1.ID, from, now)

	if il, err := analyzer.CalculateImpermanentLoss(prices0, prices1); err == nil {
		bundle.ImpermanentLoss = analyzer.AnnotateImpermanentLoss(il)
	} else if !errors.Is(err, analyzer.ErrInsufficientData) {
		p.logger.Error().Err(err).Str("pool", pool.ID).Msg("Impermanent loss computation failed")
	}

	details := p.gateway.FetchTokenDetails(ctx, []string{
		strings.ToLower(pool.Token0.ID),
		strings.ToLower(pool.Token1.ID),
	})
	if q := analyzer.EvaluateTokenQuality(details[strings.ToLower(pool.Token0.ID)]); q != nil {
		bundle.TokenQuality.Token0 = analyzer.AnnotateTokenQuality(q)
	}
	if q := analyzer.EvaluateTokenQuality(details[strings.ToLower(pool.Token1.ID)]); q != nil {
		bundle.TokenQuality.Token1 = analyzer.AnnotateTokenQuality(q)
	}

	vol0 := analyzer.CalculateTokenVolatility(prices0)
	vol1 := analyzer.CalculateTokenVolatility(prices1)
	bundle.TokensVolatility.Token0 = analyzer.AnnotateTokenVolatility(vol0)
	bundle.TokensVolatility.Token1 = analyzer.AnnotateTokenVolatility(vol1)

	if corr, err := analyzer.CalculateTokenCorrelation(prices0, prices1); err == nil {
		bundle.TokenCorrelation = analyzer.AnnotateTokenCorrelation(corr)
	} else if !errors.Is(err, analyzer.ErrInsufficientData) {
		p.logger.Error().Err(err).Str("pool", pool.ID).Msg("Correlation computation failed")
	}

	history, err := p.gateway.FetchPoolDayHistory(ctx, pool.ID, from)
	if err != nil {
		p.logger.Error().Err(err).Str("pool", pool.ID).Msg("Failed to fetch pool day history")
		return bundle
	}

	currentTVL, err := parseTVL(pool.TotalValueLockedUSD)
	if err != nil {
		p.logger.Error().Err(err).Str("pool", pool.ID).Msg("Unparseable TVL, skipping growth trend")
		return bundle
	}

	if growth, err := analyzer.CalculatePoolGrowthTrend(history, currentTVL); err == nil {
		bundle.PoolGrowthTrend = analyzer.AnnotatePoolGrowthTrend(growth)
	}
	if apy, err := analyzer.CalculateAPYVolatility(history); err == nil {
		bundle.APYVolatility = analyzer.AnnotateAPYVolatility(apy)
	}

	return bundle
}

func parseTVL(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// RefreshCycle computes the current bundles and persists them. Returns
// the number of bundles written.
func (p *Pipeline) RefreshCycle(ctx context.Context) (int, error) {
	cycleID := uuid.New().String()[:8]
	cycleLogger := p.logger.With().Str("cycle_id", cycleID).Logger()
	started := time.Now()

	cycleLogger.Info().Msg("Starting metric refresh cycle")

	bundles := p.ComputeMetricsForPools(ctx)
	if len(bundles) == 0 {
		cycleLogger.Warn().Msg("Refresh cycle produced no bundles")
		return 0, nil
	}

	written := 0
	for _, bundle := range bundles {
		if err := p.store.UpsertPool(bundle); err != nil {
			cycleLogger.Error().Err(err).Str("pool", bundle.Pool.ID).Msg("Failed to persist bundle")
			continue
		}
		written++
	}

	cycleLogger.Info().
		Int("computed", len(bundles)).
		Int("written", written).
		Dur("elapsed", time.Since(started)).
		Msg("Metric refresh cycle complete")
	return written, nil
}
