package compatibility

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quickspark/quickspark-backend/internal/common/utils"
)

func authedRequest(method, target, body string, userID int64) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), "user_id", userID)
	return req.WithContext(ctx)
}

func newTestHandler(repo *fakeRepository) *Handler {
	return NewHandler(NewService(repo, 0), "test-cron-secret", 50)
}

func TestSubmitProfileRejectsMissingAnswer(t *testing.T) {
	repo := newFakeRepository()
	seedMember(repo, 1, "free")
	handler := newTestHandler(repo)

	// 19 of 20 answers; novelty_need missing
	payload := map[string]int{}
	for _, q := range questionOrder[:len(questionOrder)-1] {
		payload[q] = 3
	}
	body, _ := json.Marshal(payload)

	w := httptest.NewRecorder()
	handler.SubmitProfile(w, authedRequest("POST", "/api/compatibility", string(body), 1))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp utils.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !strings.Contains(resp.Error, "NoveltyNeed") {
		t.Errorf("error should name the missing field, got %q", resp.Error)
	}
}

func TestSubmitProfileRejectsOutOfRangeAnswer(t *testing.T) {
	repo := newFakeRepository()
	seedMember(repo, 1, "free")
	handler := newTestHandler(repo)

	payload := map[string]int{}
	for _, q := range questionOrder {
		payload[q] = 3
	}
	payload[QSocialEnergy] = 9
	body, _ := json.Marshal(payload)

	w := httptest.NewRecorder()
	handler.SubmitProfile(w, authedRequest("POST", "/api/compatibility", string(body), 1))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetProfileAbsentReturnsNull(t *testing.T) {
	repo := newFakeRepository()
	handler := newTestHandler(repo)

	w := httptest.NewRecorder()
	handler.GetProfile(w, authedRequest("GET", "/api/compatibility", "", 99))

	if w.Code != http.StatusOK {
		t.Fatalf("absent profile should not 404, got %d", w.Code)
	}

	var resp utils.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data != nil {
		t.Errorf("expected null data, got %v", resp.Data)
	}
}

func TestSubmitPreferencesRejectsInvertedAgeRange(t *testing.T) {
	repo := newFakeRepository()
	seedMember(repo, 1, "free")
	handler := newTestHandler(repo)

	w := httptest.NewRecorder()
	handler.SubmitPreferences(w, authedRequest("POST", "/api/preferences", `{"min_age":40,"max_age":30}`, 1))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted age range, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "min_age cannot exceed max_age") {
		t.Errorf("expected age range message, got %s", w.Body.String())
	}
}

func TestGetMatchesCapsPageSize(t *testing.T) {
	repo := newFakeRepository()
	seedMember(repo, 1, "free")
	handler := newTestHandler(repo)

	w := httptest.NewRecorder()
	handler.GetMatches(w, authedRequest("GET", "/api/matches/compatibility?page=1&per_page=500", "", 1))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Data MatchPage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data.PerPage != 50 {
		t.Errorf("per_page should be capped at 50, got %d", resp.Data.PerPage)
	}
}

func TestCronEndpointsRequireSecret(t *testing.T) {
	repo := newFakeRepository()
	handler := newTestHandler(repo)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer wrong", http.StatusUnauthorized},
		{"malformed header", "test-cron-secret", http.StatusUnauthorized},
		{"correct secret", "Bearer test-cron-secret", http.StatusOK},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("POST", "/api/cron/recompute", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}

		w := httptest.NewRecorder()
		handler.RunRecompute(w, req)

		if w.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, w.Code)
		}
	}
}

func TestCronDisabledWithoutSecret(t *testing.T) {
	repo := newFakeRepository()
	handler := NewHandler(NewService(repo, 0), "", 50)

	req := httptest.NewRequest("POST", "/api/cron/recompute", nil)
	req.Header.Set("Authorization", "Bearer ")

	w := httptest.NewRecorder()
	handler.RunRecompute(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("empty configured secret should disable cron endpoints, got %d", w.Code)
	}
}
