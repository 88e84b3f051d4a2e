package member

import (
	"github.com/gorilla/mux"
	"github.com/quickspark/quickspark-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/member").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/profile", handler.GetProfile).Methods("GET")
	api.HandleFunc("/profile", handler.UpdateProfile).Methods("PUT")
	api.HandleFunc("/subscription", handler.UpdateSubscription).Methods("PUT")
	api.HandleFunc("/deactivate", handler.Deactivate).Methods("POST")
}
