package ratings

// SubmitRatingDTO rates one partner from one event
type SubmitRatingDTO struct {
	EventID         string `json:"event_id" validate:"required,uuid4"`
	RateeID         *int64 `json:"ratee_id" validate:"required,gt=0"`
	ChemistryRating *int   `json:"chemistry_rating" validate:"required,gte=1,lte=5"`
	WouldMeetAgain  *bool  `json:"would_meet_again" validate:"required"`
}

// SubmitFeedbackDTO rates the event itself
type SubmitFeedbackDTO struct {
	EventID     string  `json:"event_id" validate:"required,uuid4"`
	EventRating *int    `json:"event_rating" validate:"required,gte=1,lte=5"`
	Comments    *string `json:"comments,omitempty" validate:"omitempty,max=2000"`
}
