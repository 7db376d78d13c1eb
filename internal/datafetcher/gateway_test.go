package datafetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolscout/poolscout/internal/types"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*Gateway, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gw := NewGateway(GatewayConfig{
		HTTPClient:     server.Client(),
		Limiter:        NewLimiter(1000, 1000),
		SubgraphURL:    server.URL,
		OneInchBaseURL: server.URL,
		RegistryURL:    server.URL,
		ChainID:        1,
	})
	return gw, server
}

func TestFetchTopPools_SkipsUninitializedPools(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {
				"pools": [
					{
						"id": "0xpool1", "feeTier": "500", "liquidity": "2000000", "tick": "12345",
						"totalValueLockedUSD": "5000000",
						"token0": {"id": "0xA", "symbol": "USDC", "name": "USD Coin", "decimals": "6"},
						"token1": {"id": "0xB", "symbol": "WETH", "name": "Wrapped Ether", "decimals": "18"}
					},
					{
						"id": "0xpool2", "feeTier": "3000", "liquidity": "2000000", "tick": null,
						"totalValueLockedUSD": "3000000",
						"token0": {"id": "0xC", "symbol": "DAI", "name": "Dai", "decimals": "18"},
						"token1": {"id": "0xD", "symbol": "WBTC", "name": "Wrapped BTC", "decimals": "8"}
					}
				]
			}
		}`))
	})

	pools := gw.FetchTopPools(context.Background(), 10, nil)

	require.Len(t, pools, 1)
	assert.Equal(t, "0xpool1", pools[0].ID)
	assert.Equal(t, 6, pools[0].Token0.Decimals)
	assert.Equal(t, 18, pools[0].Token1.Decimals)
	assert.False(t, pools[0].IsStablecoinPool)
}

func TestFetchTopPools_ClassifiesStablecoinPools(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {
				"pools": [{
					"id": "0xpool1", "feeTier": "100", "liquidity": "2000000", "tick": "0",
					"totalValueLockedUSD": "9000000",
					"token0": {"id": "0xA", "symbol": "usdc", "name": "USD Coin", "decimals": "6"},
					"token1": {"id": "0xB", "symbol": "DAI", "name": "Dai", "decimals": "18"}
				}]
			}
		}`))
	})

	coins := []types.Stablecoin{{Symbol: "USDC"}, {Symbol: "dai"}}
	pools := gw.FetchTopPools(context.Background(), 10, coins)

	require.Len(t, pools, 1)
	assert.True(t, pools[0].IsStablecoinPool)
}

func TestFetchTopPools_UpstreamFailureReturnsEmpty(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	pools := gw.FetchTopPools(context.Background(), 10, nil)
	assert.Empty(t, pools)
}

func TestFetchTopPools_GraphQLErrorsReturnEmpty(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "rate limited"}]}`))
	})

	pools := gw.FetchTopPools(context.Background(), 10, nil)
	assert.Empty(t, pools)
}

func TestFetchPoolDayHistory_ParsesRecords(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {
				"poolDayDatas": [
					{"date": 1700000000, "tvlUSD": "1000000.5", "feesUSD": "1234.25"},
					{"date": 1700086400, "tvlUSD": "1100000", "feesUSD": "1500"}
				]
			}
		}`))
	})

	records, err := gw.FetchPoolDayHistory(context.Background(), "0xpool1", 1699900000)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, int64(1700000000), records[0].Date)
	assert.InDelta(t, 1000000.5, records[0].TVLUSD, 1e-9)
	assert.InDelta(t, 1234.25, records[0].FeesUSD, 1e-9)
}

func TestFetchPoolDayHistory_QueriesTrailingWindow(t *testing.T) {
	var captured struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"data": {"poolDayDatas": []}}`))
	})

	since := int64(1697400000)
	_, err := gw.FetchPoolDayHistory(context.Background(), "0xpool1", since)
	require.NoError(t, err)

	// Without the date bound the subgraph returns the pool's oldest rows,
	// which would score inception-era TVL and fees instead of the last
	// 30 days.
	assert.Contains(t, captured.Query, "date_gte: $from")
	assert.Equal(t, "0xpool1", captured.Variables["poolId"])
	assert.InDelta(t, float64(since), captured.Variables["from"], 0)
}

func TestFetchPoolDayHistory_MalformedPayload(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"graphql errors", `{"errors": [{"message": "bad query"}]}`},
		{"missing data", `{}`},
		{"bad decimal", `{"data": {"poolDayDatas": [{"date": 1, "tvlUSD": "not-a-number", "feesUSD": "1"}]}}`},
	}

	for _, tc := range cases {
		gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(tc.body))
		})

		_, err := gw.FetchPoolDayHistory(context.Background(), "0xpool1", 1699900000)
		assert.ErrorIs(t, err, ErrMalformedPayload, tc.name)
	}
}

func TestFetchPoolDayHistory_TransportErrorIsNotMalformed(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := gw.FetchPoolDayHistory(context.Background(), "0xpool1", 1699900000)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedPayload)
}

func TestFetchStablecoins(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"peggedAssets": [{"id": "1", "name": "Tether", "symbol": "USDT"}]}`))
	})

	coins := gw.FetchStablecoins(context.Background())
	require.Len(t, coins, 1)
	assert.Equal(t, "USDT", coins[0].Symbol)
}

func TestFetchStablecoins_UpstreamFailureReturnsEmpty(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.Empty(t, gw.FetchStablecoins(context.Background()))
}

func TestFetchPriceHistory_ParsesPoints(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"d": [{"t": 1700000000, "v": 1850.25}, {"t": 1700003600, "v": 1862.0}]}`))
	})

	points := gw.FetchPriceHistory(context.Background(), "0xA", 1700000000, 1700003600)

	require.Len(t, points, 2)
	assert.Equal(t, int64(1700000000), points[0].Timestamp)
	assert.InDelta(t, 1850.25, points[0].Value, 1e-9)
}

func TestFetchPriceHistory_UpstreamFailureReturnsEmpty(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	assert.Empty(t, gw.FetchPriceHistory(context.Background(), "0xA", 0, 1))
}

func TestFetchTokenDetails_KeyedByLowercaseAddress(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"0xABCDEF": {"providers": ["1inch"], "tags": ["tokens"], "eip2612": true, "rating": 8}
		}`))
	})

	details := gw.FetchTokenDetails(context.Background(), []string{"0xabcdef"})

	entry, ok := details["0xabcdef"]
	require.True(t, ok)
	assert.True(t, entry.EIP2612)
	assert.Equal(t, 8.0, entry.Rating)
	assert.Equal(t, []string{"1inch"}, entry.Providers)
}

func TestFetchTokenDetails_NoAddresses(t *testing.T) {
	gw, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty address list")
	})

	assert.Empty(t, gw.FetchTokenDetails(context.Background(), nil))
}

func TestIsStablecoinPool(t *testing.T) {
	coins := []types.Stablecoin{{Symbol: "USDC"}, {Symbol: "USDT"}, {Symbol: "DAI"}}
	usdc := &types.TokenRef{Symbol: "usdc"}
	dai := &types.TokenRef{Symbol: "Dai"}
	weth := &types.TokenRef{Symbol: "WETH"}

	assert.True(t, IsStablecoinPool(usdc, dai, coins))
	assert.True(t, IsStablecoinPool(dai, usdc, coins), "classification must not depend on token order")
	assert.False(t, IsStablecoinPool(usdc, weth, coins))
	assert.False(t, IsStablecoinPool(usdc, dai, nil))
	assert.False(t, IsStablecoinPool(nil, dai, coins))
}
