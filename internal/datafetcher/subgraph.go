package datafetcher

import (
	"context"
	"fmt"
	"strconv"

	"github.com/poolscout/poolscout/internal/types"
)

const topPoolsQuery = `
query TopPools($first: Int!) {
  pools(
    first: $first
    orderBy: totalValueLockedUSD
    orderDirection: desc
    where: { totalValueLockedUSD_gt: "1000000", liquidity_gt: "1000000" }
  ) {
    id
    feeTier
    liquidity
    tick
    totalValueLockedUSD
    token0 { id symbol name decimals }
    token1 { id symbol name decimals }
  }
}`

const poolDayHistoryQuery = `
query PoolDayHistory($poolId: String!, $from: Int!) {
  poolDayDatas(
    first: 1000
    orderBy: date
    orderDirection: asc
    where: { pool: $poolId, date_gte: $from }
  ) {
    date
    tvlUSD
    feesUSD
  }
}`

type subgraphToken struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals string `json:"decimals"`
}

type subgraphPool struct {
	ID                  string         `json:"id"`
	FeeTier             string         `json:"feeTier"`
	Liquidity           string         `json:"liquidity"`
	Tick                *string        `json:"tick"`
	TotalValueLockedUSD string         `json:"totalValueLockedUSD"`
	Token0              *subgraphToken `json:"token0"`
	Token1              *subgraphToken `json:"token1"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type topPoolsResponse struct {
	Data *struct {
		Pools []subgraphPool `json:"pools"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type poolDayDataRecord struct {
	Date    int64  `json:"date"`
	TVLUSD  string `json:"tvlUSD"`
	FeesUSD string `json:"feesUSD"`
}

type poolDayHistoryResponse struct {
	Data *struct {
		PoolDayDatas []poolDayDataRecord `json:"poolDayDatas"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

func tokenRefFromSubgraph(t *subgraphToken) *types.TokenRef {
	decimals, err := strconv.Atoi(t.Decimals)
	if err != nil {
		decimals = 18
	}
	return &types.TokenRef{ID: t.ID, Symbol: t.Symbol, Name: t.Name, Decimals: decimals}
}

// FetchTopPools returns the highest-TVL active pools from the subgraph.
// Pools without an initialized tick are skipped. Unavailable upstream or
// a malformed response degrades to an empty slice.
func (g *Gateway) FetchTopPools(ctx context.Context, limit int, stablecoins []types.Stablecoin) []types.PoolSummary {
	var resp topPoolsResponse
	if err := g.postGraphQL(ctx, topPoolsQuery, map[string]interface{}{"first": limit}, &resp); err != nil {
		gatewayLogger.Error().Err(err).Msg("Failed to fetch top pools from subgraph")
		return nil
	}
	if len(resp.Errors) > 0 || resp.Data == nil {
		gatewayLogger.Error().Interface("errors", resp.Errors).Msg("Subgraph returned errors for top pools query")
		return nil
	}

	pools := make([]types.PoolSummary, 0, len(resp.Data.Pools))
	for _, p := range resp.Data.Pools {
		if p.Tick == nil || *p.Tick == "" {
			continue
		}
		if p.Token0 == nil || p.Token1 == nil {
			continue
		}
		t0 := tokenRefFromSubgraph(p.Token0)
		t1 := tokenRefFromSubgraph(p.Token1)
		pools = append(pools, types.PoolSummary{
			ID:                  p.ID,
			Token0:              t0,
			Token1:              t1,
			FeeTier:             p.FeeTier,
			Liquidity:           p.Liquidity,
			TotalValueLockedUSD: p.TotalValueLockedUSD,
			IsStablecoinPool:    IsStablecoinPool(t0, t1, stablecoins),
		})
	}

	gatewayLogger.Info().Int("count", len(pools)).Msg("Fetched top pools from subgraph")
	return pools
}

// FetchPoolDayHistory returns the daily TVL and fee records for a pool
// from the since timestamp (unix seconds) onward, oldest first. Unlike
// the other fetchers this one reports errors to the caller: metric
// computation needs to distinguish an unavailable upstream from a pool
// with no history.
func (g *Gateway) FetchPoolDayHistory(ctx context.Context, poolID string, since int64) ([]types.PoolDayRecord, error) {
	var resp poolDayHistoryResponse
	if err := g.postGraphQL(ctx, poolDayHistoryQuery, map[string]interface{}{"poolId": poolID, "from": since}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("%w: subgraph errors: %s", ErrMalformedPayload, resp.Errors[0].Message)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: missing data.poolDayDatas", ErrMalformedPayload)
	}

	records := make([]types.PoolDayRecord, 0, len(resp.Data.PoolDayDatas))
	for _, d := range resp.Data.PoolDayDatas {
		tvl, err := parseDecimalString(d.TVLUSD)
		if err != nil {
			return nil, fmt.Errorf("%w: bad tvlUSD %q for pool %s", ErrMalformedPayload, d.TVLUSD, poolID)
		}
		fees, err := parseDecimalString(d.FeesUSD)
		if err != nil {
			return nil, fmt.Errorf("%w: bad feesUSD %q for pool %s", ErrMalformedPayload, d.FeesUSD, poolID)
		}
		records = append(records, types.PoolDayRecord{Date: d.Date, TVLUSD: tvl, FeesUSD: fees})
	}
	return records, nil
}
