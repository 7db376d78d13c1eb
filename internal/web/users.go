package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/poolscout/poolscout/internal/state"
)

type createUserRequest struct {
	UserIDRaw           string `json:"userIdRaw"`
	DelegatedWalletHash string `json:"delegatedWalletHash"`
}

func (ws *WebServer) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserIDRaw == "" {
		ws.writeError(w, http.StatusBadRequest, "userIdRaw is required")
		return
	}

	user, err := ws.users.CreateUser(req.UserIDRaw, req.DelegatedWalletHash)
	if errors.Is(err, state.ErrUserExists) {
		ws.writeError(w, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to create user")
		ws.writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	ws.writeSuccess(w, http.StatusCreated, user)
}

func (ws *WebServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userIDRaw := r.URL.Query().Get("userIdRaw")
	if userIDRaw == "" {
		ws.writeError(w, http.StatusBadRequest, "userIdRaw is required")
		return
	}

	user, err := ws.users.GetUserByRawID(userIDRaw)
	if errors.Is(err, state.ErrNotFound) {
		ws.writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get user")
		ws.writeError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	ws.writeSuccess(w, http.StatusOK, user)
}
