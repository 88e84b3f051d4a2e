package ratings

import (
	"github.com/gorilla/mux"
	"github.com/quickspark/quickspark-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/ratings").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.SubmitRating).Methods("POST")
	api.HandleFunc("", handler.GetMyRatings).Methods("GET")
	api.HandleFunc("/feedback", handler.SubmitFeedback).Methods("POST")
}
