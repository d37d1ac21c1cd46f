package feed

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/cors"
)

// NewHandler builds the HTTP surface: the websocket endpoint, a snapshot
// endpoint and a health check, wrapped in CORS for the allowed origins.
func NewHandler(r *Runner, h *Hub, origins []string, logger *slog.Logger) http.Handler {
	logger = logger.With("component", "http")
	up := Upgrader(origins)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, req *http.Request) {
		h.ServeWs(&up, w, req, r.Welcome())
	})
	mux.HandleFunc("GET /api/snapshot", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, logger, http.StatusOK, r.Snapshot())
	})
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]any{
			"status":  "ok",
			"clients": h.Count(),
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	logger.Info("HTTP handler configured", "allowed_origins", origins)
	return c.Handler(mux)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}
