// internal/ratings/service.go

package ratings

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrDuplicateRating = errors.New("rating already submitted for this date")
	ErrSelfRating      = errors.New("cannot rate yourself")
)

// Invalidator drops the cached compatibility score for one pair when a new
// rating lands. The compatibility module provides the implementation.
type Invalidator interface {
	InvalidatePair(ctx context.Context, userA, userB int64) error
}

type Service interface {
	SubmitRating(ctx context.Context, raterID int64, dto *SubmitRatingDTO) (*DateRating, error)
	GetMyRatings(ctx context.Context, raterID int64) ([]*DateRating, error)
	SubmitFeedback(ctx context.Context, userID int64, dto *SubmitFeedbackDTO) (*EventFeedback, error)
}

type service struct {
	repo        Repository
	invalidator Invalidator
}

func NewService(repo Repository, invalidator Invalidator) Service {
	return &service{repo: repo, invalidator: invalidator}
}

func (s *service) SubmitRating(ctx context.Context, raterID int64, dto *SubmitRatingDTO) (*DateRating, error) {
	if *dto.RateeID == raterID {
		return nil, ErrSelfRating
	}

	eventID, err := uuid.Parse(dto.EventID)
	if err != nil {
		return nil, err
	}

	rating := &DateRating{
		EventID:         eventID,
		RaterID:         raterID,
		RateeID:         *dto.RateeID,
		ChemistryRating: *dto.ChemistryRating,
		WouldMeetAgain:  *dto.WouldMeetAgain,
	}

	if err := s.repo.InsertRating(ctx, rating); err != nil {
		return nil, err
	}

	// Only the rated pair's chemistry factor changed
	if err := s.invalidator.InvalidatePair(ctx, raterID, rating.RateeID); err != nil {
		return nil, err
	}

	return rating, nil
}

func (s *service) GetMyRatings(ctx context.Context, raterID int64) ([]*DateRating, error) {
	return s.repo.ListRatingsByRater(ctx, raterID)
}

func (s *service) SubmitFeedback(ctx context.Context, userID int64, dto *SubmitFeedbackDTO) (*EventFeedback, error) {
	eventID, err := uuid.Parse(dto.EventID)
	if err != nil {
		return nil, err
	}

	feedback := &EventFeedback{
		EventID:     eventID,
		UserID:      userID,
		EventRating: *dto.EventRating,
		Comments:    dto.Comments,
	}

	if err := s.repo.InsertFeedback(ctx, feedback); err != nil {
		return nil, err
	}

	return feedback, nil
}
