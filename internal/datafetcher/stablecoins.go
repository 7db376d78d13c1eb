package datafetcher

import (
	"context"
	"strings"

	"github.com/poolscout/poolscout/internal/types"
)

type stablecoinRegistryResponse struct {
	PeggedAssets []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"peggedAssets"`
}

// FetchStablecoins returns the known stablecoin registry entries.
// Upstream failure degrades to an empty slice, which classifies every
// pool as non-stablecoin for the cycle.
func (g *Gateway) FetchStablecoins(ctx context.Context) []types.Stablecoin {
	var resp stablecoinRegistryResponse
	if err := g.getJSON(ctx, UpstreamDefiLlama, g.registryURL, "", &resp); err != nil {
		gatewayLogger.Error().Err(err).Msg("Failed to fetch stablecoin registry")
		return nil
	}

	coins := make([]types.Stablecoin, 0, len(resp.PeggedAssets))
	for _, a := range resp.PeggedAssets {
		coins = append(coins, types.Stablecoin{ID: a.ID, Name: a.Name, Symbol: a.Symbol})
	}
	gatewayLogger.Info().Int("count", len(coins)).Msg("Fetched stablecoin registry")
	return coins
}

// IsStablecoinPool reports whether both tokens of a pool match the
// stablecoin registry by symbol, case-insensitively.
func IsStablecoinPool(token0, token1 *types.TokenRef, stablecoins []types.Stablecoin) bool {
	if token0 == nil || token1 == nil || len(stablecoins) == 0 {
		return false
	}
	return isStablecoin(token0.Symbol, stablecoins) && isStablecoin(token1.Symbol, stablecoins)
}

func isStablecoin(symbol string, stablecoins []types.Stablecoin) bool {
	for _, c := range stablecoins {
		if strings.EqualFold(symbol, c.Symbol) {
			return true
		}
	}
	return false
}
