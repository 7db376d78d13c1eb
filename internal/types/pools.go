/*

Types describing raw pool and market data as returned by the upstream
data sources (Uniswap V3 subgraph, 1inch token APIs, DefiLlama registry).

*/

package types

// TokenRef identifies one side of a pool as reported by the subgraph.
type TokenRef struct {
	ID       string `json:"id"` // token contract address, lowercase hex
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// PoolSummary is one pool row from the subgraph listing query.
// Liquidity and TVL stay as decimal strings end to end; nothing in the
// pipeline does arithmetic on them.
type PoolSummary struct {
	ID                  string    `json:"id"`
	Token0              *TokenRef `json:"token0"`
	Token1              *TokenRef `json:"token1"`
	FeeTier             string    `json:"feeTier"`
	Liquidity           string    `json:"liquidity"`
	TotalValueLockedUSD string    `json:"totalValueLockedUSD"`
	IsStablecoinPool    bool      `json:"isStablecoinPool"`
}

// PoolDayRecord is one day of pool history (poolDayDatas).
type PoolDayRecord struct {
	Date    int64   `json:"date"` // unix seconds, start of day
	TVLUSD  float64 `json:"tvlUSD"`
	FeesUSD float64 `json:"feesUSD"`
}

// PricePoint is a single sample from the token price-history endpoint.
// Points arrive ordered by timestamp; uniqueness is not guaranteed.
type PricePoint struct {
	Timestamp int64   `json:"t"` // unix seconds
	Value     float64 `json:"v"`
}

// TokenDetails carries the static quality metadata for one token.
type TokenDetails struct {
	Address   string   `json:"address"`
	Providers []string `json:"providers"`
	Tags      []string `json:"tags"`
	EIP2612   bool     `json:"eip2612"`
	Rating    float64  `json:"rating"` // 0-10
}

// Stablecoin is one entry of the pegged-asset registry.
type Stablecoin struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
