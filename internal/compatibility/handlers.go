package compatibility

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/quickspark/quickspark-backend/internal/auth"
	"github.com/quickspark/quickspark-backend/internal/common/utils"
)

type Handler struct {
	service     Service
	cronSecret  string
	pageSizeCap int
}

func NewHandler(service Service, cronSecret string, pageSizeCap int) *Handler {
	return &Handler{
		service:     service,
		cronSecret:  cronSecret,
		pageSizeCap: pageSizeCap,
	}
}

// Compatibility Profile Endpoints

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get compatibility profile")
		return
	}

	// A member who has not filled in the questionnaire yet gets a null
	// payload, not a 404
	utils.SuccessResponse(w, profile, http.StatusOK)
}

func (h *Handler) SubmitProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var dto SubmitProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.service.SubmitProfile(r.Context(), userID, &dto)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save compatibility profile")
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

// Dealbreaker Endpoints

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	prefs, err := h.service.GetDealbreakers(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get preferences")
		return
	}

	utils.SuccessResponse(w, prefs, http.StatusOK)
}

func (h *Handler) SubmitPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var dto SubmitDealbreakersDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	prefs, err := h.service.SubmitDealbreakers(r.Context(), userID, &dto)
	if err != nil {
		if errors.Is(err, ErrInvalidAgeRange) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save preferences")
		return
	}

	utils.SuccessResponse(w, prefs, http.StatusOK)
}

// Match Listing

func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page := parsePositiveInt(r.URL.Query().Get("page"), 1)
	perPage := parsePositiveInt(r.URL.Query().Get("per_page"), 20)
	if perPage > h.pageSizeCap {
		perPage = h.pageSizeCap
	}

	matches, err := h.service.GetMatches(r.Context(), userID, page, perPage)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Member not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get matches")
		return
	}

	if matches.Matches == nil {
		matches.Matches = []*MatchEntry{}
	}

	utils.SuccessResponse(w, matches, http.StatusOK)
}

// GetPairScore serves one on-demand pair score, computing it on a cache miss
func (h *Handler) GetPairScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	partnerID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || partnerID < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	score, err := h.service.GetScoreForViewer(r.Context(), userID, partnerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfPair):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrMemberNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Member not found")
		case errors.Is(err, ErrPairNotEligible):
			utils.RespondWithError(w, http.StatusConflict, "Pair does not meet dealbreaker constraints")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute compatibility score")
		}
		return
	}

	utils.SuccessResponse(w, score, http.StatusOK)
}

// Cron Endpoints
//
// External schedulers hit these with a shared bearer secret; they are not
// member-facing and never require a JWT.

func (h *Handler) RunRecompute(w http.ResponseWriter, r *http.Request) {
	if !h.authorizeCron(r) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid cron secret")
		return
	}

	result, err := h.service.RunNightlyRecompute(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Recompute failed")
		return
	}

	utils.SuccessResponse(w, result, http.StatusOK)
}

func (h *Handler) RefreshTasteVectors(w http.ResponseWriter, r *http.Request) {
	if !h.authorizeCron(r) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid cron secret")
		return
	}

	refreshed, err := h.service.RefreshTasteVectors(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Taste vector refresh failed")
		return
	}

	utils.SuccessResponse(w, map[string]int{"refreshed": refreshed}, http.StatusOK)
}

func (h *Handler) authorizeCron(r *http.Request) bool {
	if h.cronSecret == "" {
		return false
	}
	header := r.Header.Get("Authorization")
	return header == "Bearer "+h.cronSecret
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
