/*

HTTP API for users, operations, logs and pool recommendations. Every
response uses the {success, data, error} envelope. Handlers depend on
narrow store interfaces so tests can substitute fakes.

*/

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/poolscout/poolscout/internal/advisor"
	"github.com/poolscout/poolscout/internal/logger"
	"github.com/poolscout/poolscout/internal/state"
	"github.com/poolscout/poolscout/internal/types"
)

var webLogger = logger.GetForComponent("web_server")

// UserStore is the user persistence surface the handlers need.
type UserStore interface {
	CreateUser(userIDRaw, delegatedWalletHash string) (*types.User, error)
	GetUserByRawID(userIDRaw string) (*types.User, error)
}

// OperationStore is the operation persistence surface the handlers need.
type OperationStore interface {
	CreateOperation(userID string, status types.OperationStatus, investedAmount float64) (*types.Operation, error)
	UpdateOperation(operationID string, upd state.OperationUpdate) (*types.Operation, error)
	ListOperationsByUser(userID string) ([]types.Operation, error)
	LastOperationByStatus(userID string, status types.OperationStatus) (*types.Operation, error)
}

// LogStore is the operation-log persistence surface the handlers need.
type LogStore interface {
	CreateLog(operationID, description string, stepNumber int) (*types.OperationLog, error)
	ListLogs(operationID string) ([]types.OperationLog, error)
	ListLogsByUser(userID string) ([]types.OperationLog, error)
}

// BundleStore lists persisted pool bundles for recommendation enrichment.
type BundleStore interface {
	ListPools() ([]types.PoolMetricsBundle, error)
}

// Recommender runs the recommendation reduction.
type Recommender interface {
	Recommend(ctx context.Context, intent advisor.RiskIntent) ([]types.PoolRecommendation, error)
}

// Broadcaster pushes lifecycle events to websocket clients.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
	HandleWebSocket(w http.ResponseWriter, r *http.Request)
}

// WebServer handles the HTTP API.
type WebServer struct {
	router      *mux.Router
	port        string
	users       UserStore
	operations  OperationStore
	logs        LogStore
	bundles     BundleStore
	recommender Recommender
	hub         Broadcaster
}

// NewWebServer creates a server with its routes configured.
func NewWebServer(port string, users UserStore, operations OperationStore, logs LogStore, bundles BundleStore, recommender Recommender, hub Broadcaster) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router:      mux.NewRouter(),
		port:        port,
		users:       users,
		operations:  operations,
		logs:        logs,
		bundles:     bundles,
		recommender: recommender,
		hub:         hub,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")
	ws.router.HandleFunc("/ws", ws.hub.HandleWebSocket)

	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/users/create", ws.handleCreateUser).Methods("POST")
	api.HandleFunc("/users/get", ws.handleGetUser).Methods("GET")
	api.HandleFunc("/pools/recommendations", ws.handleRecommendations).Methods("POST")
	api.HandleFunc("/operations/create", ws.handleCreateOperation).Methods("POST")
	api.HandleFunc("/operations/get", ws.handleGetOperations).Methods("GET")
	api.HandleFunc("/operations/last-by-status", ws.handleLastOperationByStatus).Methods("GET")
	api.HandleFunc("/operations/update", ws.handleUpdateOperation).Methods("PUT")
	api.HandleFunc("/operations/createLog", ws.handleCreateLog).Methods("POST")
	api.HandleFunc("/operations/getLogs", ws.handleGetLogs).Methods("GET")

	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Start starts the web server
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// Router exposes the configured router for tests.
func (ws *WebServer) Router() *mux.Router {
	return ws.router
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ws.writeSuccess(w, http.StatusOK, map[string]interface{}{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (ws *WebServer) writeSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	ws.writeJSON(w, statusCode, envelope{Success: true, Data: data})
}

func (ws *WebServer) writeError(w http.ResponseWriter, statusCode int, message string) {
	ws.writeJSON(w, statusCode, envelope{Success: false, Error: message})
}

func (ws *WebServer) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
