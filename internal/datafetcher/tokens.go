package datafetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/poolscout/poolscout/internal/types"
)

type tokenDetailsEntry struct {
	Providers []string `json:"providers"`
	Tags      []string `json:"tags"`
	EIP2612   bool     `json:"eip2612"`
	Rating    float64  `json:"rating"`
}

// FetchTokenDetails returns provider and quality details for the given
// token addresses, keyed by lowercased address. Upstream failure degrades
// to an empty map.
func (g *Gateway) FetchTokenDetails(ctx context.Context, addresses []string) map[string]*types.TokenDetails {
	if len(addresses) == 0 {
		return map[string]*types.TokenDetails{}
	}

	url := fmt.Sprintf(
		"%s/token/v1.3/%d/custom?addresses=%s",
		g.oneInchBaseURL, g.chainID, strings.Join(addresses, ","),
	)

	var resp map[string]tokenDetailsEntry
	if err := g.getJSON(ctx, UpstreamOneInch, url, g.oneInchAPIKey, &resp); err != nil {
		gatewayLogger.Error().Err(err).Int("tokens", len(addresses)).Msg("Failed to fetch token details")
		return map[string]*types.TokenDetails{}
	}

	details := make(map[string]*types.TokenDetails, len(resp))
	for addr, entry := range resp {
		key := strings.ToLower(addr)
		details[key] = &types.TokenDetails{
			Address:   key,
			Providers: entry.Providers,
			Tags:      entry.Tags,
			EIP2612:   entry.EIP2612,
			Rating:    entry.Rating,
		}
	}
	return details
}
