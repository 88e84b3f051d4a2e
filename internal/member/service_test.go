package member

import (
	"context"
	"testing"
)

type fakeRepository struct {
	members map[int64]*Member
	updates map[string]interface{}
	tiers   map[int64]string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		members: map[int64]*Member{},
		tiers:   map[int64]string{},
	}
}

func (f *fakeRepository) GetByID(ctx context.Context, userID int64) (*Member, error) {
	return f.members[userID], nil
}

func (f *fakeRepository) UpdateProfile(ctx context.Context, userID int64, updates map[string]interface{}) (*Member, error) {
	member := f.members[userID]
	if member == nil {
		return nil, nil
	}
	f.updates = updates
	return member, nil
}

func (f *fakeRepository) UpdateSubscriptionTier(ctx context.Context, userID int64, tier string) error {
	f.tiers[userID] = tier
	return nil
}

func (f *fakeRepository) Deactivate(ctx context.Context, userID int64) error {
	if m := f.members[userID]; m != nil {
		m.IsActive = false
	}
	return nil
}

func (f *fakeRepository) TouchLastActive(ctx context.Context, userID int64) error {
	return nil
}

type fakeInvalidator struct {
	invalidated []int64
}

func (f *fakeInvalidator) InvalidateUser(ctx context.Context, userID int64) error {
	f.invalidated = append(f.invalidated, userID)
	return nil
}

func TestUpdateProfileInvalidatesOnMatchingFields(t *testing.T) {
	repo := newFakeRepository()
	repo.members[1] = &Member{ID: 1, DisplayName: "Sam", IsActive: true}
	inv := &fakeInvalidator{}
	svc := NewService(repo, inv)

	religion := "buddhist"
	if _, err := svc.UpdateProfile(context.Background(), 1, &UpdateProfileDTO{Religion: &religion}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(inv.invalidated) != 1 || inv.invalidated[0] != 1 {
		t.Errorf("religion change should invalidate cached scores, got %v", inv.invalidated)
	}
}

func TestUpdateProfileSkipsInvalidationForCosmeticFields(t *testing.T) {
	repo := newFakeRepository()
	repo.members[1] = &Member{ID: 1, DisplayName: "Sam", IsActive: true}
	inv := &fakeInvalidator{}
	svc := NewService(repo, inv)

	name := "Sammy"
	city := "Austin"
	if _, err := svc.UpdateProfile(context.Background(), 1, &UpdateProfileDTO{DisplayName: &name, City: &city}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(inv.invalidated) != 0 {
		t.Errorf("display name and city changes should not invalidate scores, got %v", inv.invalidated)
	}
}

func TestUpdateProfileUnknownMember(t *testing.T) {
	svc := NewService(newFakeRepository(), &fakeInvalidator{})

	name := "Ghost"
	if _, err := svc.UpdateProfile(context.Background(), 42, &UpdateProfileDTO{DisplayName: &name}); err != ErrMemberNotFound {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestDeactivateInvalidates(t *testing.T) {
	repo := newFakeRepository()
	repo.members[1] = &Member{ID: 1, IsActive: true}
	inv := &fakeInvalidator{}
	svc := NewService(repo, inv)

	if err := svc.Deactivate(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.members[1].IsActive {
		t.Error("member should be inactive")
	}
	if len(inv.invalidated) != 1 {
		t.Error("deactivation should drop the member's cached scores")
	}
}

func TestUpdateSubscriptionDoesNotInvalidate(t *testing.T) {
	repo := newFakeRepository()
	repo.members[1] = &Member{ID: 1, IsActive: true, SubscriptionTier: TierFree}
	inv := &fakeInvalidator{}
	svc := NewService(repo, inv)

	if err := svc.UpdateSubscription(context.Background(), 1, &UpdateSubscriptionDTO{Tier: TierPremium}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.tiers[1] != TierPremium {
		t.Errorf("expected tier to change, got %q", repo.tiers[1])
	}
	if len(inv.invalidated) != 0 {
		t.Error("a tier change must not touch cached scores")
	}
}
