package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/deadnumber/internal/api/apierr"
	"github.com/mcoot/deadnumber/internal/api/handler"
	"github.com/mcoot/deadnumber/internal/middleware"
)

// RouterConfig holds configuration for the admin router
type RouterConfig struct {
	Logger   *slog.Logger
	Stats    handler.Stats
	Accounts handler.AccountCounter
	// Websocket serves the line protocol over websockets at /ws. Optional.
	Websocket http.Handler
}

// NewRouter creates the admin router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	notFound := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = methodNotAllowed

	roomHandler := handler.NewRoomHandler(cfg.Stats)
	healthHandler := handler.NewHealthHandler(cfg.Stats, cfg.Accounts)

	recoveryMiddleware := middleware.Recovery(cfg.Logger, apiPanicHandler)
	loggingMiddleware := middleware.Logging(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.NotFoundHandler = notFound
	api.MethodNotAllowedHandler = methodNotAllowed
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}", roomHandler.Get).Methods(http.MethodGet)

	if cfg.Websocket != nil {
		r.Handle("/ws", loggingMiddleware(cfg.Websocket)).Methods(http.MethodGet)
	}

	return r
}

// apiPanicHandler returns JSON error responses on panic
func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
