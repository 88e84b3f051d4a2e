// internal/member/service.go

package member

import (
	"context"
	"errors"
	"time"
)

var ErrMemberNotFound = errors.New("member not found")

// Invalidator drops cached compatibility results when a member's matching
// attributes change. The compatibility module provides the implementation;
// this narrow interface keeps the dependency one-directional.
type Invalidator interface {
	InvalidateUser(ctx context.Context, userID int64) error
}

type Service interface {
	GetProfile(ctx context.Context, userID int64) (*Member, error)
	UpdateProfile(ctx context.Context, userID int64, dto *UpdateProfileDTO) (*Member, error)
	UpdateSubscription(ctx context.Context, userID int64, dto *UpdateSubscriptionDTO) error
	Deactivate(ctx context.Context, userID int64) error
}

type service struct {
	repo        Repository
	invalidator Invalidator
}

func NewService(repo Repository, invalidator Invalidator) Service {
	return &service{repo: repo, invalidator: invalidator}
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*Member, error) {
	member, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	return member, nil
}

// matchingColumns are the profile columns the scoring pipeline reads; a
// change to any of them invalidates the member's cached scores
var matchingColumns = map[string]bool{
	"date_of_birth":      true,
	"religion":           true,
	"faith_importance":   true,
	"practice_frequency": true,
	"wants_children":     true,
	"education_level":    true,
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, dto *UpdateProfileDTO) (*Member, error) {
	updates := map[string]interface{}{}

	if dto.DisplayName != nil {
		updates["display_name"] = *dto.DisplayName
	}
	if dto.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *dto.DateOfBirth)
		if err != nil {
			return nil, err
		}
		updates["date_of_birth"] = dob
	}
	if dto.Gender != nil {
		updates["gender"] = *dto.Gender
	}
	if dto.City != nil {
		updates["city"] = *dto.City
	}
	if dto.Religion != nil {
		updates["religion"] = *dto.Religion
	}
	if dto.FaithImportance != nil {
		updates["faith_importance"] = *dto.FaithImportance
	}
	if dto.PracticeFrequency != nil {
		updates["practice_frequency"] = *dto.PracticeFrequency
	}
	if dto.WantsChildren != nil {
		updates["wants_children"] = *dto.WantsChildren
	}
	if dto.EducationLevel != nil {
		updates["education_level"] = *dto.EducationLevel
	}

	member, err := s.repo.UpdateProfile(ctx, userID, updates)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	for column := range updates {
		if matchingColumns[column] {
			if err := s.invalidator.InvalidateUser(ctx, userID); err != nil {
				return nil, err
			}
			break
		}
	}

	return member, nil
}

// UpdateSubscription switches tier without touching cached scores: the
// cache keeps full premium detail for every pair, and serving code decides
// per-request what the viewer may see.
func (s *service) UpdateSubscription(ctx context.Context, userID int64, dto *UpdateSubscriptionDTO) error {
	return s.repo.UpdateSubscriptionTier(ctx, userID, dto.Tier)
}

func (s *service) Deactivate(ctx context.Context, userID int64) error {
	if err := s.repo.Deactivate(ctx, userID); err != nil {
		return err
	}

	// An inactive member should vanish from everyone's match lists
	return s.invalidator.InvalidateUser(ctx, userID)
}
