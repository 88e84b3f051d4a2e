package compatibility

import (
	"github.com/gorilla/mux"
	"github.com/quickspark/quickspark-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, adminHandler *AdminHandler, authMiddleware *auth.Middleware) {
	// Member-facing endpoints
	api := router.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/compatibility", handler.GetProfile).Methods("GET")
	api.HandleFunc("/compatibility", handler.SubmitProfile).Methods("POST")
	api.HandleFunc("/compatibility/score", handler.GetPairScore).Methods("GET")
	api.HandleFunc("/preferences", handler.GetPreferences).Methods("GET")
	api.HandleFunc("/preferences", handler.SubmitPreferences).Methods("POST")
	api.HandleFunc("/matches/compatibility", handler.GetMatches).Methods("GET")

	// Cron endpoints, gated by the shared secret instead of a JWT
	cron := router.PathPrefix("/api/cron").Subrouter()
	cron.HandleFunc("/recompute", handler.RunRecompute).Methods("GET", "POST")
	cron.HandleFunc("/taste-vectors", handler.RefreshTasteVectors).Methods("GET", "POST")

	// Admin endpoints
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(authMiddleware.Authenticate)
	admin.Use(authMiddleware.RequireAdmin)

	admin.HandleFunc("/match-weights", adminHandler.GetWeights).Methods("GET")
	admin.HandleFunc("/match-weights", adminHandler.UpdateWeights).Methods("PUT")
	admin.HandleFunc("/recalculate", adminHandler.Recalculate).Methods("POST")
	admin.HandleFunc("/match-stats", adminHandler.GetStats).Methods("GET")
}
