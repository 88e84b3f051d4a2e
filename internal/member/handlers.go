package member

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quickspark/quickspark-backend/internal/auth"
	"github.com/quickspark/quickspark-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	member, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Member not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	utils.SuccessResponse(w, member, http.StatusOK)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var dto UpdateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	member, err := h.service.UpdateProfile(r.Context(), userID, &dto)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Member not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	utils.SuccessResponse(w, member, http.StatusOK)
}

func (h *Handler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var dto UpdateSubscriptionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdateSubscription(r.Context(), userID, &dto); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.RespondWithError(w, http.StatusNotFound, "Member not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update subscription")
		return
	}

	utils.MessageResponse(w, "Subscription updated", http.StatusOK)
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.service.Deactivate(r.Context(), userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to deactivate account")
		return
	}

	utils.MessageResponse(w, "Account deactivated", http.StatusOK)
}
