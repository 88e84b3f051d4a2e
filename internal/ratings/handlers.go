package ratings

import (
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

func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var dto SubmitRatingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	rating, err := h.service.SubmitRating(r.Context(), userID, &dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateRating):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, ErrSelfRating):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit rating")
		}
		return
	}

	utils.SuccessResponse(w, rating, http.StatusCreated)
}

func (h *Handler) GetMyRatings(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ratings, err := h.service.GetMyRatings(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get ratings")
		return
	}

	if ratings == nil {
		ratings = []*DateRating{}
	}

	utils.SuccessResponse(w, ratings, http.StatusOK)
}

func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var dto SubmitFeedbackDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	feedback, err := h.service.SubmitFeedback(r.Context(), userID, &dto)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit feedback")
		return
	}

	utils.SuccessResponse(w, feedback, http.StatusCreated)
}
