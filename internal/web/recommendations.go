package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/poolscout/poolscout/internal/advisor"
	"github.com/poolscout/poolscout/internal/socket"
	"github.com/poolscout/poolscout/internal/state"
	"github.com/poolscout/poolscout/internal/types"
)

type recommendationRequest struct {
	UserIDRaw         string  `json:"userIdRaw"`
	WantsVolatilePool bool    `json:"wantsVolatilePool"`
	InvestedAmount    float64 `json:"investedAmount"`
}

const recommendationTimeout = 5 * time.Minute

// handleRecommendations starts a recommendation run. The response
// carries the new operation ID immediately; the reduction itself runs in
// the background and resolves the operation to FINISHED or FAILED.
func (ws *WebServer) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserIDRaw == "" {
		ws.writeError(w, http.StatusBadRequest, "userIdRaw is required")
		return
	}

	user, err := ws.users.GetUserByRawID(req.UserIDRaw)
	if errors.Is(err, state.ErrNotFound) {
		ws.writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to look up user for recommendation")
		ws.writeError(w, http.StatusInternalServerError, "Failed to look up user")
		return
	}

	op, err := ws.operations.CreateOperation(user.UserID, types.StatusRecommendationInit, req.InvestedAmount)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to create recommendation operation")
		ws.writeError(w, http.StatusInternalServerError, "Failed to create operation")
		return
	}
	ws.hub.Broadcast(socket.EventOperationCreated, op)

	if log, err := ws.logs.CreateLog(op.OperationID, "Recommendation request received", 1); err == nil {
		ws.hub.Broadcast(socket.EventOperationLogCreated, log)
	} else {
		webLogger.Error().Err(err).Str("operation_id", op.OperationID).Msg("Failed to create initial log")
	}

	intent := advisor.RiskIntent{WantsVolatilePool: req.WantsVolatilePool}
	go ws.runRecommendation(op.OperationID, intent)

	ws.writeSuccess(w, http.StatusAccepted, map[string]interface{}{
		"operationId": op.OperationID,
		"status":      op.Status,
	})
}

// runRecommendation drives one reduction to completion and records the
// outcome on the operation.
func (ws *WebServer) runRecommendation(operationID string, intent advisor.RiskIntent) {
	ctx, cancel := context.WithTimeout(context.Background(), recommendationTimeout)
	defer cancel()

	picks, err := ws.recommender.Recommend(ctx, intent)
	if errors.Is(err, advisor.ErrNoPoolData) {
		ws.failOperation(operationID, "No pool data available yet, please retry later")
		return
	}
	if err != nil {
		webLogger.Error().Err(err).Str("operation_id", operationID).Msg("Recommendation run failed")
		ws.failOperation(operationID, "Recommendation run failed")
		return
	}

	bundles, err := ws.bundles.ListPools()
	if err != nil {
		webLogger.Error().Err(err).Str("operation_id", operationID).Msg("Failed to load bundles for enrichment")
		ws.failOperation(operationID, "Failed to resolve recommended pools")
		return
	}
	enriched := advisor.Enrich(picks, bundles)

	payload, err := json.Marshal(enriched)
	if err != nil {
		ws.failOperation(operationID, "Failed to encode recommendations")
		return
	}

	finished := types.StatusRecommendationFinished
	op, err := ws.operations.UpdateOperation(operationID, state.OperationUpdate{
		Status:           &finished,
		RecommendedPools: payload,
	})
	if err != nil {
		webLogger.Error().Err(err).Str("operation_id", operationID).Msg("Failed to finish operation")
		return
	}

	if log, err := ws.logs.CreateLog(operationID, "Recommendation completed", 2); err == nil {
		ws.hub.Broadcast(socket.EventOperationLogCreated, log)
	}
	ws.hub.Broadcast(socket.EventLogMessage, map[string]interface{}{
		"operationId":     operationID,
		"status":          op.Status,
		"recommendations": enriched,
	})
}

func (ws *WebServer) failOperation(operationID, reason string) {
	failed := types.StatusRecommendationFailed
	if _, err := ws.operations.UpdateOperation(operationID, state.OperationUpdate{Status: &failed}); err != nil {
		webLogger.Error().Err(err).Str("operation_id", operationID).Msg("Failed to mark operation failed")
	}
	if log, err := ws.logs.CreateLog(operationID, reason, 2); err == nil {
		ws.hub.Broadcast(socket.EventOperationLogCreated, log)
	}
	ws.hub.Broadcast(socket.EventLogMessage, map[string]interface{}{
		"operationId": operationID,
		"status":      types.StatusRecommendationFailed,
		"message":     reason,
	})
}
