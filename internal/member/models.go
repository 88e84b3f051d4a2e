// internal/member/models.go

package member

import (
	"time"
)

// Member represents a registered member's lifestyle record. The fields
// consumed by the matching pipeline (birth date, religion, children intent,
// education, faith habits) are all optional; an unset field simply carries
// no signal.
type Member struct {
	ID                int64      `json:"id" db:"id"`
	Email             string     `json:"email" db:"email"`
	DisplayName       string     `json:"display_name" db:"display_name"`
	DateOfBirth       *time.Time `json:"date_of_birth" db:"date_of_birth"`
	Gender            *string    `json:"gender" db:"gender"`
	City              *string    `json:"city" db:"city"`
	Religion          *string    `json:"religion" db:"religion"`
	FaithImportance   *int       `json:"faith_importance" db:"faith_importance"`
	PracticeFrequency *int       `json:"practice_frequency" db:"practice_frequency"`
	WantsChildren     *string    `json:"wants_children" db:"wants_children"`
	EducationLevel    *int       `json:"education_level" db:"education_level"`
	SubscriptionTier  string     `json:"subscription_tier" db:"subscription_tier"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	LastActive        time.Time  `json:"last_active" db:"last_active"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// Children intent values; anything else is rejected at validation
const (
	ChildrenYes    = "yes"
	ChildrenNo     = "no"
	ChildrenOpen   = "open"
	ChildrenUnsure = "unsure"
)

// Subscription tiers
const (
	TierFree    = "free"
	TierPremium = "premium"
)
