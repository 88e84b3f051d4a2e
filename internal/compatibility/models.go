package compatibility

import (
	"time"

	"github.com/lib/pq"
)

// CompatibilityProfile is a member's 20-question self-report. Every answer
// is an integer in [1,5]. The row is replaced wholesale on re-submission.
type CompatibilityProfile struct {
	UserID                  int64     `json:"user_id" db:"user_id"`
	EmotionalExpressiveness int       `json:"emotional_expressiveness" db:"emotional_expressiveness"`
	ConflictApproach        int       `json:"conflict_approach" db:"conflict_approach"`
	ReassuranceNeed         int       `json:"reassurance_need" db:"reassurance_need"`
	StressReaction          int       `json:"stress_reaction" db:"stress_reaction"`
	LifestylePace           int       `json:"lifestyle_pace" db:"lifestyle_pace"`
	SocialEnergy            int       `json:"social_energy" db:"social_energy"`
	WeekendPreference       int       `json:"weekend_preference" db:"weekend_preference"`
	StructureSpontaneity    int       `json:"structure_spontaneity" db:"structure_spontaneity"`
	CareerAmbition          int       `json:"career_ambition" db:"career_ambition"`
	FinancialGoals          int       `json:"financial_goals" db:"financial_goals"`
	GrowthDrive             int       `json:"growth_drive" db:"growth_drive"`
	WorkLifeBalance         int       `json:"work_life_balance" db:"work_life_balance"`
	ParentingStyle          int       `json:"parenting_style" db:"parenting_style"`
	FamilyInvolvement       int       `json:"family_involvement" db:"family_involvement"`
	RelationshipTimeline    int       `json:"relationship_timeline" db:"relationship_timeline"`
	LivingPreference        int       `json:"living_preference" db:"living_preference"`
	ConversationDepth       int       `json:"conversation_depth" db:"conversation_depth"`
	AffectionStyle          int       `json:"affection_style" db:"affection_style"`
	DecisionMaking          int       `json:"decision_making" db:"decision_making"`
	NoveltyNeed             int       `json:"novelty_need" db:"novelty_need"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time `json:"updated_at" db:"updated_at"`
}

// Answers returns the 20 answers keyed by question name
func (p *CompatibilityProfile) Answers() map[string]int {
	return map[string]int{
		QEmotionalExpressiveness: p.EmotionalExpressiveness,
		QConflictApproach:        p.ConflictApproach,
		QReassuranceNeed:         p.ReassuranceNeed,
		QStressReaction:          p.StressReaction,
		QLifestylePace:           p.LifestylePace,
		QSocialEnergy:            p.SocialEnergy,
		QWeekendPreference:       p.WeekendPreference,
		QStructureSpontaneity:    p.StructureSpontaneity,
		QCareerAmbition:          p.CareerAmbition,
		QFinancialGoals:          p.FinancialGoals,
		QGrowthDrive:             p.GrowthDrive,
		QWorkLifeBalance:         p.WorkLifeBalance,
		QParentingStyle:          p.ParentingStyle,
		QFamilyInvolvement:       p.FamilyInvolvement,
		QRelationshipTimeline:    p.RelationshipTimeline,
		QLivingPreference:        p.LivingPreference,
		QConversationDepth:       p.ConversationDepth,
		QAffectionStyle:          p.AffectionStyle,
		QDecisionMaking:          p.DecisionMaking,
		QNoveltyNeed:             p.NoveltyNeed,
	}
}

// DealbreakerPreferences are a member's hard eligibility constraints.
// A missing row or unset field imposes no constraint.
type DealbreakerPreferences struct {
	UserID              int64          `json:"user_id" db:"user_id"`
	MinAge              *int           `json:"min_age,omitempty" db:"min_age"`
	MaxAge              *int           `json:"max_age,omitempty" db:"max_age"`
	ReligionMustMatch   bool           `json:"religion_must_match" db:"religion_must_match"`
	AcceptableReligions pq.StringArray `json:"acceptable_religions,omitempty" db:"acceptable_religions"`
	MustWantChildren    bool           `json:"must_want_children" db:"must_want_children"`
	MinEducationLevel   *int           `json:"min_education_level,omitempty" db:"min_education_level"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" db:"updated_at"`
}

// Member is the slice of the members table the scoring pipeline reads.
// The member package owns the full record; this core only consumes it.
type Member struct {
	ID                int64      `json:"id" db:"id"`
	DisplayName       string     `json:"display_name" db:"display_name"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Religion          *string    `json:"religion,omitempty" db:"religion"`
	WantsChildren     *string    `json:"wants_children,omitempty" db:"wants_children"`
	EducationLevel    *int       `json:"education_level,omitempty" db:"education_level"`
	FaithImportance   *int       `json:"faith_importance,omitempty" db:"faith_importance"`
	PracticeFrequency *int       `json:"practice_frequency,omitempty" db:"practice_frequency"`
	SubscriptionTier  string     `json:"subscription_tier" db:"subscription_tier"`
	IsActive          bool       `json:"is_active" db:"is_active"`
}

// Age computes full years elapsed since date of birth, or -1 when unknown
func (m *Member) Age(now time.Time) int {
	if m.DateOfBirth == nil {
		return -1
	}
	dob := *m.DateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// IsPremium reports whether the member holds an active subscription
func (m *Member) IsPremium() bool {
	return m.SubscriptionTier == "premium"
}

// Factor names used in breakdowns and the weight config

const (
	FactorLifeAlignment       = "life_alignment"
	FactorPsychological       = "psychological"
	FactorChemistry           = "chemistry"
	FactorTasteLearning       = "taste_learning"
	FactorProfileCompleteness = "profile_completeness"
)

// MatchWeightConfig is the admin-tuned weight vector, a singleton row id=1.
// The weights should sum to 1 but storage does not enforce it; the
// aggregator renormalizes over the factors present for each pair.
type MatchWeightConfig struct {
	ID                  int64     `json:"id" db:"id"`
	LifeAlignment       float64   `json:"life_alignment" db:"life_alignment"`
	Psychological       float64   `json:"psychological" db:"psychological"`
	Chemistry           float64   `json:"chemistry" db:"chemistry"`
	TasteLearning       float64   `json:"taste_learning" db:"taste_learning"`
	ProfileCompleteness float64   `json:"profile_completeness" db:"profile_completeness"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// Weight returns the configured weight for a factor name
func (c *MatchWeightConfig) Weight(factor string) float64 {
	switch factor {
	case FactorLifeAlignment:
		return c.LifeAlignment
	case FactorPsychological:
		return c.Psychological
	case FactorChemistry:
		return c.Chemistry
	case FactorTasteLearning:
		return c.TasteLearning
	case FactorProfileCompleteness:
		return c.ProfileCompleteness
	}
	return 0
}

// DefaultWeightConfig is seeded on first boot and restored if the row vanishes
func DefaultWeightConfig() *MatchWeightConfig {
	return &MatchWeightConfig{
		ID:                  1,
		LifeAlignment:       0.30,
		Psychological:       0.30,
		Chemistry:           0.20,
		TasteLearning:       0.10,
		ProfileCompleteness: 0.10,
	}
}

// FactorContribution is one factor's share of a final score
type FactorContribution struct {
	Score            float64 `json:"score"`
	ConfigWeight     float64 `json:"config_weight"`
	NormalizedWeight float64 `json:"normalized_weight"`
	Contribution     float64 `json:"contribution"`
}

// PremiumBreakdown is the subscriber-only detail of a cached score
type PremiumBreakdown struct {
	Factors map[string]FactorContribution `json:"factors"`
}

// PairScore is one cached compatibility result for an unordered user pair.
// UserAID < UserBID always (canonical ordering); the final score is on a
// 0-100 scale rounded to one decimal.
type PairScore struct {
	UserAID          int64              `json:"user_a" db:"user_a"`
	UserBID          int64              `json:"user_b" db:"user_b"`
	FinalScore       float64            `json:"final_score" db:"final_score"`
	Breakdown        map[string]float64 `json:"breakdown"`
	Explanation      string             `json:"explanation" db:"explanation"`
	PremiumBreakdown *PremiumBreakdown  `json:"premium_breakdown,omitempty"`
	ComputedAt       time.Time          `json:"computed_at" db:"computed_at"`
}

// Partner returns the other member of the pair
func (s *PairScore) Partner(userID int64) int64 {
	if s.UserAID == userID {
		return s.UserBID
	}
	return s.UserAID
}

// PairRating is the slice of a date rating the chemistry scorer consumes
type PairRating struct {
	EventID         string `json:"event_id" db:"event_id"`
	RaterID         int64  `json:"rater_id" db:"rater_id"`
	RateeID         int64  `json:"ratee_id" db:"ratee_id"`
	ChemistryRating int    `json:"chemistry_rating" db:"chemistry_rating"`
	WouldMeetAgain  bool   `json:"would_meet_again" db:"would_meet_again"`
}

// CanonicalPair orders a user pair smaller id first so a lookup for (B,A)
// and (A,B) always hits the same cache row
func CanonicalPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
