package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/softpunk/emberfell/internal/api/handler"
	apimiddleware "github.com/softpunk/emberfell/internal/api/middleware"
	"github.com/softpunk/emberfell/internal/api/response"
	"github.com/softpunk/emberfell/internal/middleware"
	"github.com/softpunk/emberfell/internal/presence"
	"github.com/softpunk/emberfell/internal/services/character"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger              *slog.Logger
	CharacterController *character.Controller
	Registry            *presence.Registry
	SyncHandler         http.Handler

	// AssetDir serves static game assets under /assets/ when non-empty
	AssetDir string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	characterHandler := handler.NewCharacterHandler(cfg.CharacterController)

	identityMiddleware := apimiddleware.Identity()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Character routes (all require platform identity)
	characters := api.PathPrefix("/characters").Subrouter()
	characters.Use(identityMiddleware)
	characters.HandleFunc("", characterHandler.Create).Methods(http.MethodPost)
	characters.HandleFunc("", characterHandler.List).Methods(http.MethodGet)
	characters.HandleFunc("/{id}", characterHandler.Get).Methods(http.MethodGet)
	characters.HandleFunc("/{id}", characterHandler.Rename).Methods(http.MethodPatch)
	characters.HandleFunc("/{id}", characterHandler.Delete).Methods(http.MethodDelete)

	// Health check endpoint (no identity)
	api.HandleFunc("/health", healthHandler(cfg.Registry)).Methods(http.MethodGet)

	// Presence sync channel. Identity travels in the join event rather
	// than headers, so the websocket route sits outside the identity
	// middleware.
	if cfg.SyncHandler != nil {
		r.Handle("/sync", loggingMiddleware(cfg.SyncHandler)).Methods(http.MethodGet)
	}

	// Static game assets (character models, textures)
	if cfg.AssetDir != "" {
		r.PathPrefix("/assets/").Handler(
			http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.AssetDir))),
		).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(registry *presence.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players := 0
		if registry != nil {
			players = registry.Count()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response.Health{
			Status:  "ok",
			Players: players,
		})
	}
}
