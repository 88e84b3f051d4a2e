package compatibility

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quickspark/quickspark-backend/internal/common/utils"
)

// Admin handlers for tuning and operating the matching pipeline. Routes
// wrap these in authentication plus an admin role check.

type AdminHandler struct {
	service Service
}

func NewAdminHandler(service Service) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) GetWeights(w http.ResponseWriter, r *http.Request) {
	weights, err := h.service.GetWeights(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get weight config")
		return
	}

	utils.SuccessResponse(w, weights, http.StatusOK)
}

func (h *AdminHandler) UpdateWeights(w http.ResponseWriter, r *http.Request) {
	var dto UpdateWeightsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	weights, err := h.service.UpdateWeights(r.Context(), &dto)
	if err != nil {
		if errors.Is(err, ErrWeightOutOfRange) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update weight config")
		return
	}

	utils.SuccessResponse(w, weights, http.StatusOK)
}

// Recalculate drops every cached score and rebuilds the cache in-request.
// Meant for after a weight change; on a large member base prefer waiting
// for the nightly run.
func (h *AdminHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ForceRecalculate(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Recalculation failed")
		return
	}

	utils.SuccessResponse(w, result, http.StatusOK)
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to collect stats")
		return
	}

	utils.SuccessResponse(w, stats, http.StatusOK)
}
