package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolscout/poolscout/internal/types"
)

type stubGateway struct {
	stablecoins []types.Stablecoin
	pools       []types.PoolSummary
	prices      map[string][]types.PricePoint
	details     map[string]*types.TokenDetails
	history     map[string][]types.PoolDayRecord
	historyErr  error
}

func (s *stubGateway) FetchStablecoins(ctx context.Context) []types.Stablecoin {
	return s.stablecoins
}

func (s *stubGateway) FetchTopPools(ctx context.Context, limit int, stablecoins []types.Stablecoin) []types.PoolSummary {
	return s.pools
}

func (s *stubGateway) FetchPriceHistory(ctx context.Context, tokenAddress string, from, to int64) []types.PricePoint {
	return s.prices[tokenAddress]
}

func (s *stubGateway) FetchTokenDetails(ctx context.Context, addresses []string) map[string]*types.TokenDetails {
	out := make(map[string]*types.TokenDetails)
	for _, addr := range addresses {
		if d, ok := s.details[addr]; ok {
			out[addr] = d
		}
	}
	return out
}

func (s *stubGateway) FetchPoolDayHistory(ctx context.Context, poolID string, since int64) ([]types.PoolDayRecord, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return s.history[poolID], nil
}

type recordingStore struct {
	mu      sync.Mutex
	bundles []types.PoolMetricsBundle
	err     error
}

func (r *recordingStore) UpsertPool(bundle types.PoolMetricsBundle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.bundles = append(r.bundles, bundle)
	return nil
}

func summary(id, t0, t1 string) types.PoolSummary {
	return types.PoolSummary{
		ID:                  id,
		FeeTier:             "500",
		Liquidity:           "2000000",
		TotalValueLockedUSD: "1100",
		Token0:              &types.TokenRef{ID: t0, Symbol: "AAA", Name: "Token A", Decimals: 18},
		Token1:              &types.TokenRef{ID: t1, Symbol: "BBB", Name: "Token B", Decimals: 18},
	}
}

func risingPrices(base float64) []types.PricePoint {
	points := make([]types.PricePoint, 0, 5)
	for i := 0; i < 5; i++ {
		points = append(points, types.PricePoint{
			Timestamp: int64(i + 1),
			Value:     base * (1 + 0.01*float64(i)),
		})
	}
	return points
}

func TestComputeMetricsForPools_FullBundle(t *testing.T) {
	gw := &stubGateway{
		pools: []types.PoolSummary{summary("pool-1", "0xa", "0xb")},
		prices: map[string][]types.PricePoint{
			"0xa": risingPrices(100),
			"0xb": risingPrices(2000),
		},
		details: map[string]*types.TokenDetails{
			"0xa": {Providers: []string{"1inch"}, Rating: 8},
		},
		history: map[string][]types.PoolDayRecord{
			"pool-1": {
				{Date: 1, TVLUSD: 1000, FeesUSD: 10},
				{Date: 2, TVLUSD: 1050, FeesUSD: 12},
			},
		},
	}

	p := New(gw, &recordingStore{}, 10)
	bundles := p.ComputeMetricsForPools(context.Background())

	require.Len(t, bundles, 1)
	b := bundles[0]
	assert.Equal(t, "pool-1", b.Pool.ID)
	assert.NotNil(t, b.ImpermanentLoss)
	assert.NotNil(t, b.TokenCorrelation)
	assert.NotNil(t, b.TokensVolatility.Token0)
	assert.NotNil(t, b.TokensVolatility.Token1)
	assert.NotNil(t, b.PoolGrowthTrend)
	assert.NotNil(t, b.APYVolatility)
	assert.NotNil(t, b.TokenQuality.Token0)
	assert.Nil(t, b.TokenQuality.Token1, "token without metadata has no quality report")
}

func TestComputeMetricsForPools_SkipsPoolsMissingTokens(t *testing.T) {
	broken := summary("pool-broken", "0xa", "0xb")
	broken.Token1 = nil

	gw := &stubGateway{
		pools: []types.PoolSummary{broken, summary("pool-ok", "0xa", "0xb")},
		prices: map[string][]types.PricePoint{
			"0xa": risingPrices(100),
			"0xb": risingPrices(2000),
		},
	}

	p := New(gw, &recordingStore{}, 10)
	bundles := p.ComputeMetricsForPools(context.Background())

	require.Len(t, bundles, 1)
	assert.Equal(t, "pool-ok", bundles[0].Pool.ID)
}

func TestComputeMetricsForPools_InsufficientDataLeavesNilReports(t *testing.T) {
	gw := &stubGateway{
		pools: []types.PoolSummary{summary("pool-1", "0xa", "0xb")},
		// No price or day history at all.
	}

	p := New(gw, &recordingStore{}, 10)
	bundles := p.ComputeMetricsForPools(context.Background())

	require.Len(t, bundles, 1)
	b := bundles[0]
	assert.Nil(t, b.ImpermanentLoss)
	assert.Nil(t, b.TokenCorrelation)
	assert.Nil(t, b.PoolGrowthTrend)
	assert.Nil(t, b.APYVolatility)
	// Volatility keeps its zero-default instead of going nil.
	require.NotNil(t, b.TokensVolatility.Token0)
	assert.True(t, b.TokensVolatility.Token0.IsStableAsset)
}

func TestComputeMetricsForPools_DayHistoryErrorKeepsPriceMetrics(t *testing.T) {
	gw := &stubGateway{
		pools: []types.PoolSummary{summary("pool-1", "0xa", "0xb")},
		prices: map[string][]types.PricePoint{
			"0xa": risingPrices(100),
			"0xb": risingPrices(2000),
		},
		historyErr: errors.New("subgraph down"),
	}

	p := New(gw, &recordingStore{}, 10)
	bundles := p.ComputeMetricsForPools(context.Background())

	require.Len(t, bundles, 1)
	b := bundles[0]
	assert.NotNil(t, b.ImpermanentLoss)
	assert.Nil(t, b.PoolGrowthTrend)
	assert.Nil(t, b.APYVolatility)
}

func TestComputeMetricsForPools_CapsAtMaxPools(t *testing.T) {
	gw := &stubGateway{
		pools: []types.PoolSummary{
			summary("pool-1", "0xa", "0xb"),
			summary("pool-2", "0xa", "0xb"),
			summary("pool-3", "0xa", "0xb"),
		},
	}

	p := New(gw, &recordingStore{}, 2)
	bundles := p.ComputeMetricsForPools(context.Background())

	assert.Len(t, bundles, 2)
}

func TestRefreshCycle_PersistsBundles(t *testing.T) {
	gw := &stubGateway{
		pools: []types.PoolSummary{
			summary("pool-1", "0xa", "0xb"),
			summary("pool-2", "0xa", "0xb"),
		},
	}
	store := &recordingStore{}

	p := New(gw, store, 10)
	written, err := p.RefreshCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, written)
	assert.Len(t, store.bundles, 2)
}

func TestRefreshCycle_NoPools(t *testing.T) {
	p := New(&stubGateway{}, &recordingStore{}, 10)

	written, err := p.RefreshCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, written)
}

func TestRefreshCycle_StoreErrorSkipsBundle(t *testing.T) {
	gw := &stubGateway{
		pools: []types.PoolSummary{summary("pool-1", "0xa", "0xb")},
	}
	store := &recordingStore{err: errors.New("db down")}

	p := New(gw, store, 10)
	written, err := p.RefreshCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, written)
}
