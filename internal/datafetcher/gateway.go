/*

Gateway to the external market data sources: the Uniswap V3 subgraph,
the 1inch token APIs and the DefiLlama stablecoin registry.

Error policy: upstream unavailability (transport errors, non-2xx) is
logged and degraded to an empty result at this boundary. A payload that
arrives but does not have the expected shape is a contract violation and
surfaces as ErrMalformedPayload. No retries, no backoff, no caching.

*/

package datafetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/poolscout/poolscout/internal/logger"
)

var gatewayLogger = logger.GetForComponent("data_gateway")

// ErrMalformedPayload indicates an upstream response that arrived but did
// not match the expected shape.
var ErrMalformedPayload = errors.New("malformed upstream payload")

const requestTimeout = 30 * time.Second

// Gateway wraps the external data sources behind one injected HTTP
// client and rate limiter.
type Gateway struct {
	client  *http.Client
	limiter *Limiter

	subgraphURL    string
	subgraphAPIKey string
	oneInchBaseURL string
	oneInchAPIKey  string
	registryURL    string
	chainID        int
}

const defaultOneInchBaseURL = "https://api.1inch.dev"

// GatewayConfig holds the wiring for a Gateway.
type GatewayConfig struct {
	HTTPClient     *http.Client
	Limiter        *Limiter
	SubgraphURL    string
	SubgraphAPIKey string
	OneInchBaseURL string
	OneInchAPIKey  string
	RegistryURL    string
	ChainID        int
}

// NewGateway creates a Gateway. A nil HTTP client gets a default with the
// standard request timeout; a nil limiter gets a permissive bucket.
func NewGateway(cfg GatewayConfig) *Gateway {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = NewLimiter(10, 10)
	}
	oneInchBase := cfg.OneInchBaseURL
	if oneInchBase == "" {
		oneInchBase = defaultOneInchBaseURL
	}
	return &Gateway{
		client:         client,
		limiter:        limiter,
		subgraphURL:    cfg.SubgraphURL,
		subgraphAPIKey: cfg.SubgraphAPIKey,
		oneInchBaseURL: oneInchBase,
		oneInchAPIKey:  cfg.OneInchAPIKey,
		registryURL:    cfg.RegistryURL,
		chainID:        cfg.ChainID,
	}
}

// getJSON performs a rate-limited GET with bearer auth and decodes the
// body into out. Non-2xx responses are returned as errors.
func (g *Gateway) getJSON(ctx context.Context, upstream, url, bearer string, out interface{}) error {
	if err := g.limiter.Wait(ctx, upstream); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request to %s failed with status %d: %s", upstream, resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// postGraphQL performs a rate-limited GraphQL POST against the subgraph
// and decodes the response into out.
func (g *Gateway) postGraphQL(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	if err := g.limiter.Wait(ctx, UpstreamSubgraph); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.subgraphURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.subgraphAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.subgraphAPIKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("subgraph request failed with status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
