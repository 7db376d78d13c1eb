package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/poolscout/poolscout/internal/types"
)

// CreateOperation inserts a new operation for a user and returns it with
// a fresh operation ID.
func (s *Store) CreateOperation(userID string, status types.OperationStatus, investedAmount float64) (*types.Operation, error) {
	op := types.Operation{
		OperationID:    uuid.New().String(),
		UserID:         userID,
		OperationDate:  time.Now().UTC(),
		InvestedAmount: investedAmount,
		Status:         status,
	}

	err := s.db.QueryRowx(`
		INSERT INTO operations (operation_id, user_id, operation_date, invested_amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		op.OperationID, op.UserID, op.OperationDate, op.InvestedAmount, op.Status,
	).Scan(&op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation: %w", err)
	}

	stateLogger.Info().
		Str("operation_id", op.OperationID).
		Str("user_id", userID).
		Str("status", string(status)).
		Msg("Created operation")
	return &op, nil
}

// OperationUpdate holds the mutable fields of an operation. Nil fields
// are left unchanged.
type OperationUpdate struct {
	Status             *types.OperationStatus
	RecommendedPools   json.RawMessage
	RiskyInvestment    *float64
	NonRiskyInvestment *float64
	Profit             *float64
	LogID              *string
}

// UpdateOperation applies the non-nil fields of upd to an operation and
// returns the updated row.
func (s *Store) UpdateOperation(operationID string, upd OperationUpdate) (*types.Operation, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, fmt.Errorf("invalid operation status %q", *upd.Status)
	}

	var op types.Operation
	err := s.db.Get(&op, `
		UPDATE operations SET
			status = COALESCE($2, status),
			recommended_pools = COALESCE($3, recommended_pools),
			risky_investment = COALESCE($4, risky_investment),
			non_risky_investment = COALESCE($5, non_risky_investment),
			profit = COALESCE($6, profit),
			log_id = COALESCE($7, log_id),
			updated_at = NOW()
		WHERE operation_id = $1
		RETURNING operation_id, user_id, operation_date, invested_amount,
			risky_investment, non_risky_investment, log_id, status,
			recommended_pools, profit, created_at, updated_at`,
		operationID, upd.Status, []byte(upd.RecommendedPools),
		upd.RiskyInvestment, upd.NonRiskyInvestment, upd.Profit, upd.LogID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update operation %s: %w", operationID, err)
	}
	return &op, nil
}

// ListOperationsByUser returns a user's operations, newest first.
func (s *Store) ListOperationsByUser(userID string) ([]types.Operation, error) {
	var ops []types.Operation
	err := s.db.Select(&ops, `
		SELECT operation_id, user_id, operation_date, invested_amount,
			risky_investment, non_risky_investment, log_id, status,
			recommended_pools, profit, created_at, updated_at
		FROM operations WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	return ops, nil
}

// LastOperationByStatus returns a user's most recent operation in the
// given status, or ErrNotFound.
func (s *Store) LastOperationByStatus(userID string, status types.OperationStatus) (*types.Operation, error) {
	var op types.Operation
	err := s.db.Get(&op, `
		SELECT operation_id, user_id, operation_date, invested_amount,
			risky_investment, non_risky_investment, log_id, status,
			recommended_pools, profit, created_at, updated_at
		FROM operations WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC LIMIT 1`, userID, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last operation by status: %w", err)
	}
	return &op, nil
}
