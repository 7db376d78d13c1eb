package datafetcher

import (
	"context"
	"fmt"

	"github.com/poolscout/poolscout/internal/types"
)

type chartRangeResponse struct {
	Data []struct {
		Timestamp int64   `json:"t"`
		Value     float64 `json:"v"`
	} `json:"d"`
}

// FetchPriceHistory returns hourly USD price points for a token between
// from and to (unix seconds), oldest first. Upstream failure degrades to
// an empty slice.
func (g *Gateway) FetchPriceHistory(ctx context.Context, tokenAddress string, from, to int64) []types.PricePoint {
	url := fmt.Sprintf(
		"%s/token-details/v1.0/charts/range/%d/%s?from=%d&to=%d&interval=1h",
		g.oneInchBaseURL, g.chainID, tokenAddress, from, to,
	)

	var resp chartRangeResponse
	if err := g.getJSON(ctx, UpstreamOneInch, url, g.oneInchAPIKey, &resp); err != nil {
		gatewayLogger.Error().Err(err).Str("token", tokenAddress).Msg("Failed to fetch price history")
		return nil
	}

	points := make([]types.PricePoint, 0, len(resp.Data))
	for _, d := range resp.Data {
		points = append(points, types.PricePoint{Timestamp: d.Timestamp, Value: d.Value})
	}
	return points
}
