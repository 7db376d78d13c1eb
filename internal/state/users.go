package state

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/poolscout/poolscout/internal/types"
)

// ErrUserExists is returned when a raw identifier is already registered.
var ErrUserExists = errors.New("user already exists")

// CreateUser registers a raw external identifier and assigns it an
// internal UUID. Registering the same raw ID twice is an error.
func (s *Store) CreateUser(userIDRaw, delegatedWalletHash string) (*types.User, error) {
	user := types.User{
		UserIDRaw:           userIDRaw,
		UserID:              uuid.New().String(),
		DelegatedWalletHash: delegatedWalletHash,
	}

	err := s.db.QueryRowx(`
		INSERT INTO users (user_id_raw, user_id, delegated_wallet_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id_raw) DO NOTHING
		RETURNING created_at, updated_at`,
		user.UserIDRaw, user.UserID, user.DelegatedWalletHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	stateLogger.Info().Str("user_id", user.UserID).Msg("Created user")
	return &user, nil
}

// GetUserByRawID looks a user up by the external identifier.
func (s *Store) GetUserByRawID(userIDRaw string) (*types.User, error) {
	var user types.User
	err := s.db.Get(&user, `
		SELECT user_id_raw, user_id, delegated_wallet_hash, created_at, updated_at
		FROM users WHERE user_id_raw = $1`, userIDRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
