package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/poolscout/poolscout/internal/types"
)

// ErrNotFound is returned by point lookups that match no row.
var ErrNotFound = errors.New("not found")

type poolRow struct {
	PoolID           string          `db:"pool_id"`
	Pool             json.RawMessage `db:"pool"`
	TokenQuality     json.RawMessage `db:"token_quality"`
	ImpermanentLoss  json.RawMessage `db:"impermanent_loss"`
	TokenCorrelation json.RawMessage `db:"token_correlation"`
	TokensVolatility json.RawMessage `db:"tokens_volatility"`
	PoolGrowthTrend  json.RawMessage `db:"pool_growth_trend"`
	APYVolatility    json.RawMessage `db:"apy_volatility"`
}

// UpsertPool writes a pool's metric bundle, replacing any previous
// bundle for the same pool. Nil reports are stored as SQL NULL.
func (s *Store) UpsertPool(bundle types.PoolMetricsBundle) error {
	poolJSON, err := json.Marshal(bundle.Pool)
	if err != nil {
		return err
	}
	qualityJSON, err := json.Marshal(bundle.TokenQuality)
	if err != nil {
		return err
	}
	volatilityJSON, err := json.Marshal(bundle.TokensVolatility)
	if err != nil {
		return err
	}

	var ilJSON, corrJSON, growthJSON, apyJSON []byte
	if bundle.ImpermanentLoss != nil {
		if ilJSON, err = json.Marshal(bundle.ImpermanentLoss); err != nil {
			return err
		}
	}
	if bundle.TokenCorrelation != nil {
		if corrJSON, err = json.Marshal(bundle.TokenCorrelation); err != nil {
			return err
		}
	}
	if bundle.PoolGrowthTrend != nil {
		if growthJSON, err = json.Marshal(bundle.PoolGrowthTrend); err != nil {
			return err
		}
	}
	if bundle.APYVolatility != nil {
		if apyJSON, err = json.Marshal(bundle.APYVolatility); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(`
		INSERT INTO pools (
			pool_id, pool, token_quality, impermanent_loss, token_correlation,
			tokens_volatility, pool_growth_trend, apy_volatility, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (pool_id) DO UPDATE SET
			pool = EXCLUDED.pool,
			token_quality = EXCLUDED.token_quality,
			impermanent_loss = EXCLUDED.impermanent_loss,
			token_correlation = EXCLUDED.token_correlation,
			tokens_volatility = EXCLUDED.tokens_volatility,
			pool_growth_trend = EXCLUDED.pool_growth_trend,
			apy_volatility = EXCLUDED.apy_volatility,
			updated_at = NOW()`,
		bundle.Pool.ID, poolJSON, qualityJSON, ilJSON, corrJSON,
		volatilityJSON, growthJSON, apyJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pool %s: %w", bundle.Pool.ID, err)
	}
	return nil
}

// ListPools returns every stored pool metric bundle.
func (s *Store) ListPools() ([]types.PoolMetricsBundle, error) {
	var rows []poolRow
	err := s.db.Select(&rows, `
		SELECT pool_id, pool, token_quality, impermanent_loss, token_correlation,
		       tokens_volatility, pool_growth_trend, apy_volatility
		FROM pools ORDER BY pool_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	bundles := make([]types.PoolMetricsBundle, 0, len(rows))
	for _, row := range rows {
		bundle, err := row.toBundle()
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, bundle)
	}
	return bundles, nil
}

// GetPool returns one pool's metric bundle, or ErrNotFound.
func (s *Store) GetPool(poolID string) (*types.PoolMetricsBundle, error) {
	var row poolRow
	err := s.db.Get(&row, `
		SELECT pool_id, pool, token_quality, impermanent_loss, token_correlation,
		       tokens_volatility, pool_growth_trend, apy_volatility
		FROM pools WHERE pool_id = $1`, poolID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pool %s: %w", poolID, err)
	}

	bundle, err := row.toBundle()
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (r poolRow) toBundle() (types.PoolMetricsBundle, error) {
	var bundle types.PoolMetricsBundle
	if err := json.Unmarshal(r.Pool, &bundle.Pool); err != nil {
		return bundle, fmt.Errorf("corrupt pool column for %s: %w", r.PoolID, err)
	}
	if len(r.TokenQuality) > 0 {
		if err := json.Unmarshal(r.TokenQuality, &bundle.TokenQuality); err != nil {
			return bundle, fmt.Errorf("corrupt token_quality column for %s: %w", r.PoolID, err)
		}
	}
	if len(r.TokensVolatility) > 0 {
		if err := json.Unmarshal(r.TokensVolatility, &bundle.TokensVolatility); err != nil {
			return bundle, fmt.Errorf("corrupt tokens_volatility column for %s: %w", r.PoolID, err)
		}
	}
	if len(r.ImpermanentLoss) > 0 {
		if err := json.Unmarshal(r.ImpermanentLoss, &bundle.ImpermanentLoss); err != nil {
			return bundle, fmt.Errorf("corrupt impermanent_loss column for %s: %w", r.PoolID, err)
		}
	}
	if len(r.TokenCorrelation) > 0 {
		if err := json.Unmarshal(r.TokenCorrelation, &bundle.TokenCorrelation); err != nil {
			return bundle, fmt.Errorf("corrupt token_correlation column for %s: %w", r.PoolID, err)
		}
	}
	if len(r.PoolGrowthTrend) > 0 {
		if err := json.Unmarshal(r.PoolGrowthTrend, &bundle.PoolGrowthTrend); err != nil {
			return bundle, fmt.Errorf("corrupt pool_growth_trend column for %s: %w", r.PoolID, err)
		}
	}
	if len(r.APYVolatility) > 0 {
		if err := json.Unmarshal(r.APYVolatility, &bundle.APYVolatility); err != nil {
			return bundle, fmt.Errorf("corrupt apy_volatility column for %s: %w", r.PoolID, err)
		}
	}
	return bundle, nil
}
