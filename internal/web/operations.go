package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/poolscout/poolscout/internal/socket"
	"github.com/poolscout/poolscout/internal/state"
	"github.com/poolscout/poolscout/internal/types"
)

type createOperationRequest struct {
	UserID         string                `json:"userId"`
	Status         types.OperationStatus `json:"status"`
	InvestedAmount float64               `json:"investedAmount"`
}

func (ws *WebServer) handleCreateOperation(w http.ResponseWriter, r *http.Request) {
	var req createOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		ws.writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if req.Status == "" {
		req.Status = types.StatusRecommendationInit
	}
	if !req.Status.Valid() {
		ws.writeError(w, http.StatusBadRequest, "Invalid operation status")
		return
	}

	op, err := ws.operations.CreateOperation(req.UserID, req.Status, req.InvestedAmount)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to create operation")
		ws.writeError(w, http.StatusInternalServerError, "Failed to create operation")
		return
	}

	ws.hub.Broadcast(socket.EventOperationCreated, op)
	ws.writeSuccess(w, http.StatusCreated, op)
}

func (ws *WebServer) handleGetOperations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		ws.writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	ops, err := ws.operations.ListOperationsByUser(userID)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to list operations")
		ws.writeError(w, http.StatusInternalServerError, "Failed to list operations")
		return
	}

	ws.writeSuccess(w, http.StatusOK, ops)
}

func (ws *WebServer) handleLastOperationByStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	status := types.OperationStatus(r.URL.Query().Get("status"))
	if userID == "" {
		ws.writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if !status.Valid() {
		ws.writeError(w, http.StatusBadRequest, "Invalid operation status")
		return
	}

	op, err := ws.operations.LastOperationByStatus(userID, status)
	if errors.Is(err, state.ErrNotFound) {
		ws.writeError(w, http.StatusNotFound, "No operation found for status")
		return
	}
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get last operation by status")
		ws.writeError(w, http.StatusInternalServerError, "Failed to get operation")
		return
	}

	ws.writeSuccess(w, http.StatusOK, op)
}

type updateOperationRequest struct {
	OperationID        string                 `json:"operationId"`
	Status             *types.OperationStatus `json:"status"`
	RecommendedPools   json.RawMessage        `json:"recommendedPools"`
	RiskyInvestment    *float64               `json:"riskyInvestment"`
	NonRiskyInvestment *float64               `json:"nonRiskyInvestment"`
	Profit             *float64               `json:"profit"`
	LogID              *string                `json:"logId"`
}

func (ws *WebServer) handleUpdateOperation(w http.ResponseWriter, r *http.Request) {
	var req updateOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OperationID == "" {
		ws.writeError(w, http.StatusBadRequest, "operationId is required")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		ws.writeError(w, http.StatusBadRequest, "Invalid operation status")
		return
	}

	op, err := ws.operations.UpdateOperation(req.OperationID, state.OperationUpdate{
		Status:             req.Status,
		RecommendedPools:   req.RecommendedPools,
		RiskyInvestment:    req.RiskyInvestment,
		NonRiskyInvestment: req.NonRiskyInvestment,
		Profit:             req.Profit,
		LogID:              req.LogID,
	})
	if errors.Is(err, state.ErrNotFound) {
		ws.writeError(w, http.StatusNotFound, "Operation not found")
		return
	}
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to update operation")
		ws.writeError(w, http.StatusInternalServerError, "Failed to update operation")
		return
	}

	ws.writeSuccess(w, http.StatusOK, op)
}

type createLogRequest struct {
	OperationID string `json:"operationId"`
	Description string `json:"description"`
	StepNumber  int    `json:"stepNumber"`
}

func (ws *WebServer) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var req createLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OperationID == "" || req.Description == "" {
		ws.writeError(w, http.StatusBadRequest, "operationId and description are required")
		return
	}

	log, err := ws.logs.CreateLog(req.OperationID, req.Description, req.StepNumber)
	if errors.Is(err, state.ErrDuplicateStep) {
		ws.writeError(w, http.StatusConflict, "Step number already used for this operation")
		return
	}
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to create operation log")
		ws.writeError(w, http.StatusInternalServerError, "Failed to create operation log")
		return
	}

	ws.hub.Broadcast(socket.EventOperationLogCreated, log)
	ws.writeSuccess(w, http.StatusCreated, log)
}

func (ws *WebServer) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	operationID := r.URL.Query().Get("operationId")
	userID := r.URL.Query().Get("userId")

	switch {
	case operationID != "":
		logs, err := ws.logs.ListLogs(operationID)
		if err != nil {
			webLogger.Error().Err(err).Msg("Failed to list operation logs")
			ws.writeError(w, http.StatusInternalServerError, "Failed to list operation logs")
			return
		}
		ws.writeSuccess(w, http.StatusOK, logs)
	case userID != "":
		logs, err := ws.logs.ListLogsByUser(userID)
		if err != nil {
			webLogger.Error().Err(err).Msg("Failed to list operation logs for user")
			ws.writeError(w, http.StatusInternalServerError, "Failed to list operation logs")
			return
		}
		ws.writeSuccess(w, http.StatusOK, logs)
	default:
		ws.writeError(w, http.StatusBadRequest, "operationId or userId is required")
	}
}
