// internal/compatibility/dto.go
package compatibility

// DTOs for API requests/responses

// SubmitProfileDTO carries a full 20-question submission. Every field is
// required and range-checked; partial patches are not supported.
type SubmitProfileDTO struct {
	EmotionalExpressiveness *int `json:"emotional_expressiveness" validate:"required,gte=1,lte=5"`
	ConflictApproach        *int `json:"conflict_approach" validate:"required,gte=1,lte=5"`
	ReassuranceNeed         *int `json:"reassurance_need" validate:"required,gte=1,lte=5"`
	StressReaction          *int `json:"stress_reaction" validate:"required,gte=1,lte=5"`
	LifestylePace           *int `json:"lifestyle_pace" validate:"required,gte=1,lte=5"`
	SocialEnergy            *int `json:"social_energy" validate:"required,gte=1,lte=5"`
	WeekendPreference       *int `json:"weekend_preference" validate:"required,gte=1,lte=5"`
	StructureSpontaneity    *int `json:"structure_spontaneity" validate:"required,gte=1,lte=5"`
	CareerAmbition          *int `json:"career_ambition" validate:"required,gte=1,lte=5"`
	FinancialGoals          *int `json:"financial_goals" validate:"required,gte=1,lte=5"`
	GrowthDrive             *int `json:"growth_drive" validate:"required,gte=1,lte=5"`
	WorkLifeBalance         *int `json:"work_life_balance" validate:"required,gte=1,lte=5"`
	ParentingStyle          *int `json:"parenting_style" validate:"required,gte=1,lte=5"`
	FamilyInvolvement       *int `json:"family_involvement" validate:"required,gte=1,lte=5"`
	RelationshipTimeline    *int `json:"relationship_timeline" validate:"required,gte=1,lte=5"`
	LivingPreference        *int `json:"living_preference" validate:"required,gte=1,lte=5"`
	ConversationDepth       *int `json:"conversation_depth" validate:"required,gte=1,lte=5"`
	AffectionStyle          *int `json:"affection_style" validate:"required,gte=1,lte=5"`
	DecisionMaking          *int `json:"decision_making" validate:"required,gte=1,lte=5"`
	NoveltyNeed             *int `json:"novelty_need" validate:"required,gte=1,lte=5"`
}

// ToProfile converts a validated submission into a profile row
func (d *SubmitProfileDTO) ToProfile(userID int64) *CompatibilityProfile {
	return &CompatibilityProfile{
		UserID:                  userID,
		EmotionalExpressiveness: *d.EmotionalExpressiveness,
		ConflictApproach:        *d.ConflictApproach,
		ReassuranceNeed:         *d.ReassuranceNeed,
		StressReaction:          *d.StressReaction,
		LifestylePace:           *d.LifestylePace,
		SocialEnergy:            *d.SocialEnergy,
		WeekendPreference:       *d.WeekendPreference,
		StructureSpontaneity:    *d.StructureSpontaneity,
		CareerAmbition:          *d.CareerAmbition,
		FinancialGoals:          *d.FinancialGoals,
		GrowthDrive:             *d.GrowthDrive,
		WorkLifeBalance:         *d.WorkLifeBalance,
		ParentingStyle:          *d.ParentingStyle,
		FamilyInvolvement:       *d.FamilyInvolvement,
		RelationshipTimeline:    *d.RelationshipTimeline,
		LivingPreference:        *d.LivingPreference,
		ConversationDepth:       *d.ConversationDepth,
		AffectionStyle:          *d.AffectionStyle,
		DecisionMaking:          *d.DecisionMaking,
		NoveltyNeed:             *d.NoveltyNeed,
	}
}

// SubmitDealbreakersDTO upserts dealbreaker preferences
type SubmitDealbreakersDTO struct {
	MinAge              *int     `json:"min_age,omitempty" validate:"omitempty,gte=18,lte=99"`
	MaxAge              *int     `json:"max_age,omitempty" validate:"omitempty,gte=18,lte=99"`
	ReligionMustMatch   bool     `json:"religion_must_match"`
	AcceptableReligions []string `json:"acceptable_religions,omitempty" validate:"omitempty,dive,min=1,max=64"`
	MustWantChildren    bool     `json:"must_want_children"`
	MinEducationLevel   *int     `json:"min_education_level,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// ToPreferences converts a validated submission into a preferences row
func (d *SubmitDealbreakersDTO) ToPreferences(userID int64) *DealbreakerPreferences {
	return &DealbreakerPreferences{
		UserID:              userID,
		MinAge:              d.MinAge,
		MaxAge:              d.MaxAge,
		ReligionMustMatch:   d.ReligionMustMatch,
		AcceptableReligions: d.AcceptableReligions,
		MustWantChildren:    d.MustWantChildren,
		MinEducationLevel:   d.MinEducationLevel,
	}
}

// UpdateWeightsDTO tunes the aggregation weight vector. Each weight must be
// in [0,1]; the sum is deliberately not constrained because the aggregator
// renormalizes at read time.
type UpdateWeightsDTO struct {
	LifeAlignment       *float64 `json:"life_alignment" validate:"required,gte=0,lte=1"`
	Psychological       *float64 `json:"psychological" validate:"required,gte=0,lte=1"`
	Chemistry           *float64 `json:"chemistry" validate:"required,gte=0,lte=1"`
	TasteLearning       *float64 `json:"taste_learning" validate:"required,gte=0,lte=1"`
	ProfileCompleteness *float64 `json:"profile_completeness" validate:"required,gte=0,lte=1"`
}

// MatchEntry is one row of the paginated match listing
type MatchEntry struct {
	UserID           int64              `json:"user_id"`
	DisplayName      string             `json:"display_name"`
	FinalScore       float64            `json:"final_score"`
	Explanation      string             `json:"explanation"`
	Breakdown        map[string]float64 `json:"breakdown,omitempty"`
	PremiumBreakdown *PremiumBreakdown  `json:"premium_breakdown,omitempty"`
	ComputedAt       string             `json:"computed_at"`
}

// MatchPage is the paginated match listing response
type MatchPage struct {
	Matches []*MatchEntry `json:"matches"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	HasMore bool          `json:"has_more"`
}

// RecomputeResult reports a batch recompute outcome
type RecomputeResult struct {
	Computed int `json:"computed"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}
