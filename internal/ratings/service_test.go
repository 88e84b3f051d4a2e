package ratings

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeRepository struct {
	ratings  []*DateRating
	feedback []*EventFeedback
}

func (f *fakeRepository) InsertRating(ctx context.Context, rating *DateRating) error {
	for _, existing := range f.ratings {
		if existing.EventID == rating.EventID &&
			existing.RaterID == rating.RaterID &&
			existing.RateeID == rating.RateeID {
			return ErrDuplicateRating
		}
	}
	rating.ID = int64(len(f.ratings) + 1)
	f.ratings = append(f.ratings, rating)
	return nil
}

func (f *fakeRepository) ListRatingsByRater(ctx context.Context, raterID int64) ([]*DateRating, error) {
	var out []*DateRating
	for _, r := range f.ratings {
		if r.RaterID == raterID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepository) InsertFeedback(ctx context.Context, feedback *EventFeedback) error {
	feedback.ID = int64(len(f.feedback) + 1)
	f.feedback = append(f.feedback, feedback)
	return nil
}

type fakeInvalidator struct {
	pairs [][2]int64
}

func (f *fakeInvalidator) InvalidatePair(ctx context.Context, userA, userB int64) error {
	f.pairs = append(f.pairs, [2]int64{userA, userB})
	return nil
}

func ratingDTO(eventID string, rateeID int64, rating int, again bool) *SubmitRatingDTO {
	return &SubmitRatingDTO{
		EventID:         eventID,
		RateeID:         &rateeID,
		ChemistryRating: &rating,
		WouldMeetAgain:  &again,
	}
}

func TestSubmitRatingInvalidatesPair(t *testing.T) {
	repo := &fakeRepository{}
	inv := &fakeInvalidator{}
	svc := NewService(repo, inv)

	eventID := uuid.New().String()
	rating, err := svc.SubmitRating(context.Background(), 1, ratingDTO(eventID, 2, 4, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rating.ID == 0 {
		t.Error("expected assigned rating ID")
	}

	if len(inv.pairs) != 1 || inv.pairs[0] != [2]int64{1, 2} {
		t.Errorf("rating should invalidate exactly the rated pair, got %v", inv.pairs)
	}
}

func TestSubmitRatingRejectsSelf(t *testing.T) {
	svc := NewService(&fakeRepository{}, &fakeInvalidator{})

	_, err := svc.SubmitRating(context.Background(), 5, ratingDTO(uuid.New().String(), 5, 3, false))
	if !errors.Is(err, ErrSelfRating) {
		t.Errorf("expected ErrSelfRating, got %v", err)
	}
}

func TestSubmitRatingRejectsDuplicate(t *testing.T) {
	repo := &fakeRepository{}
	inv := &fakeInvalidator{}
	svc := NewService(repo, inv)

	eventID := uuid.New().String()
	if _, err := svc.SubmitRating(context.Background(), 1, ratingDTO(eventID, 2, 4, true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Ratings are immutable: a resubmission for the same date is rejected
	_, err := svc.SubmitRating(context.Background(), 1, ratingDTO(eventID, 2, 1, false))
	if !errors.Is(err, ErrDuplicateRating) {
		t.Errorf("expected ErrDuplicateRating, got %v", err)
	}
	if len(inv.pairs) != 1 {
		t.Errorf("rejected duplicate must not invalidate again, got %v", inv.pairs)
	}
}

func TestSubmitRatingRejectsBadEventID(t *testing.T) {
	svc := NewService(&fakeRepository{}, &fakeInvalidator{})

	if _, err := svc.SubmitRating(context.Background(), 1, ratingDTO("not-a-uuid", 2, 4, true)); err == nil {
		t.Error("expected error for malformed event ID")
	}
}

func TestSubmitFeedback(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo, &fakeInvalidator{})

	ratingVal := 5
	comments := "great venue"
	feedback, err := svc.SubmitFeedback(context.Background(), 1, &SubmitFeedbackDTO{
		EventID:     uuid.New().String(),
		EventRating: &ratingVal,
		Comments:    &comments,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feedback.ID == 0 || feedback.EventRating != 5 {
		t.Errorf("unexpected feedback %+v", feedback)
	}
}
