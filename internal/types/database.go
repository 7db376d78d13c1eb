/*

Row types for the users / operations / operations_logs tables.

*/

package types

import (
	"encoding/json"
	"time"
)

// OperationStatus tracks a recommendation request's lifecycle.
type OperationStatus string

const (
	StatusRecommendationInit     OperationStatus = "RECOMMENDATION_INIT"
	StatusRecommendationFinished OperationStatus = "RECOMMENDATION_FINISHED"
	StatusRecommendationFailed   OperationStatus = "RECOMMENDATION_FAILED"
	StatusDepositInit            OperationStatus = "DEPOSIT_INIT"
	StatusDepositFailed          OperationStatus = "DEPOSIT_FAILED"
	StatusActiveInvestment       OperationStatus = "ACTIVE_INVESTMENT"
	StatusClosedInvestment       OperationStatus = "CLOSED_INVESTMENT"
)

// Valid reports whether s is one of the known lifecycle states.
func (s OperationStatus) Valid() bool {
	switch s {
	case StatusRecommendationInit, StatusRecommendationFinished, StatusRecommendationFailed,
		StatusDepositInit, StatusDepositFailed, StatusActiveInvestment, StatusClosedInvestment:
		return true
	}
	return false
}

// User links an external raw identifier to the internal UUID used across
// operations.
type User struct {
	UserIDRaw           string    `db:"user_id_raw" json:"userIdRaw"`
	UserID              string    `db:"user_id" json:"userId"`
	DelegatedWalletHash string    `db:"delegated_wallet_hash" json:"delegatedWalletHash,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}

// Operation is one recommendation/investment request.
type Operation struct {
	OperationID        string          `db:"operation_id" json:"operationId"`
	UserID             string          `db:"user_id" json:"userId"`
	OperationDate      time.Time       `db:"operation_date" json:"operationDate"`
	InvestedAmount     float64         `db:"invested_amount" json:"investedAmount"`
	RiskyInvestment    float64         `db:"risky_investment" json:"riskyInvestment"`
	NonRiskyInvestment float64         `db:"non_risky_investment" json:"nonRiskyInvestment"`
	LogID              *string         `db:"log_id" json:"logId,omitempty"`
	Status             OperationStatus `db:"status" json:"status"`
	RecommendedPools   json.RawMessage `db:"recommended_pools" json:"recommendedPools,omitempty"`
	Profit             float64         `db:"profit" json:"profit"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updatedAt"`
}

// OperationLog is one progress entry for an operation. Step numbers are
// unique per operation.
type OperationLog struct {
	LogID       string    `db:"log_id" json:"logId"`
	OperationID string    `db:"operation_id" json:"operationId"`
	Description string    `db:"description" json:"description"`
	CreateDate  time.Time `db:"create_date" json:"createDate"`
	StepNumber  int       `db:"step_number" json:"stepNumber"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
