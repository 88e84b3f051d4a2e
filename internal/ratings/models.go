// internal/ratings/models.go

package ratings

import (
	"time"

	"github.com/google/uuid"
)

// DateRating is one member's verdict on one speed date. Ratings are
// immutable once written; a second submission for the same event and pair
// is rejected, never merged.
type DateRating struct {
	ID              int64     `json:"id" db:"id"`
	EventID         uuid.UUID `json:"event_id" db:"event_id"`
	RaterID         int64     `json:"rater_id" db:"rater_id"`
	RateeID         int64     `json:"ratee_id" db:"ratee_id"`
	ChemistryRating int       `json:"chemistry_rating" db:"chemistry_rating"`
	WouldMeetAgain  bool      `json:"would_meet_again" db:"would_meet_again"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// EventFeedback is free-form feedback about the event itself, kept apart
// from per-partner ratings so it never influences match scores.
type EventFeedback struct {
	ID          int64     `json:"id" db:"id"`
	EventID     uuid.UUID `json:"event_id" db:"event_id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	EventRating int       `json:"event_rating" db:"event_rating"`
	Comments    *string   `json:"comments,omitempty" db:"comments"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
