package state

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/poolscout/poolscout/internal/types"
)

// ErrDuplicateStep is returned when a step number is reused within an
// operation.
var ErrDuplicateStep = fmt.Errorf("duplicate step number for operation")

// CreateLog appends a progress entry to an operation. Step numbers are
// unique per operation.
func (s *Store) CreateLog(operationID, description string, stepNumber int) (*types.OperationLog, error) {
	log := types.OperationLog{
		LogID:       uuid.New().String(),
		OperationID: operationID,
		Description: description,
		CreateDate:  time.Now().UTC(),
		StepNumber:  stepNumber,
	}

	err := s.db.QueryRowx(`
		INSERT INTO operations_logs (log_id, operation_id, description, create_date, step_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		log.LogID, log.OperationID, log.Description, log.CreateDate, log.StepNumber,
	).Scan(&log.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrDuplicateStep
		}
		return nil, fmt.Errorf("failed to create operation log: %w", err)
	}
	return &log, nil
}

// ListLogs returns an operation's progress entries in step order.
func (s *Store) ListLogs(operationID string) ([]types.OperationLog, error) {
	var logs []types.OperationLog
	err := s.db.Select(&logs, `
		SELECT log_id, operation_id, description, create_date, step_number, created_at
		FROM operations_logs WHERE operation_id = $1
		ORDER BY step_number ASC`, operationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operation logs: %w", err)
	}
	return logs, nil
}

// ListLogsByUser returns every log entry across a user's operations,
// newest operation first and step order within it.
func (s *Store) ListLogsByUser(userID string) ([]types.OperationLog, error) {
	var logs []types.OperationLog
	err := s.db.Select(&logs, `
		SELECT l.log_id, l.operation_id, l.description, l.create_date, l.step_number, l.created_at
		FROM operations_logs l
		JOIN operations o ON o.operation_id = l.operation_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, l.step_number ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operation logs for user: %w", err)
	}
	return logs, nil
}
