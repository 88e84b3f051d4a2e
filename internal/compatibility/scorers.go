// internal/compatibility/scorers.go
// The four factor scorers. Each returns a sub-score in [0,1] plus a flag
// telling the aggregator whether the factor is present for this pair; a
// factor without data is excluded from the weighted average, never zeroed,
// so members who simply have no history are not penalized.

package compatibility

import "math"

// Question names, stable across API, storage and the direction table
const (
	QEmotionalExpressiveness = "emotional_expressiveness"
	QConflictApproach        = "conflict_approach"
	QReassuranceNeed         = "reassurance_need"
	QStressReaction          = "stress_reaction"
	QLifestylePace           = "lifestyle_pace"
	QSocialEnergy            = "social_energy"
	QWeekendPreference       = "weekend_preference"
	QStructureSpontaneity    = "structure_spontaneity"
	QCareerAmbition          = "career_ambition"
	QFinancialGoals          = "financial_goals"
	QGrowthDrive             = "growth_drive"
	QWorkLifeBalance         = "work_life_balance"
	QParentingStyle          = "parenting_style"
	QFamilyInvolvement       = "family_involvement"
	QRelationshipTimeline    = "relationship_timeline"
	QLivingPreference        = "living_preference"
	QConversationDepth       = "conversation_depth"
	QAffectionStyle          = "affection_style"
	QDecisionMaking          = "decision_making"
	QNoveltyNeed             = "novelty_need"
)

// questionDirection declares, per question, whether the psychological
// scorer rewards similar answers or complementary extremes. A partner with
// a low reassurance need balances one with a high need; the same goes for
// stress reaction, decision making and structure-vs-spontaneity. Everything
// else rewards similarity.
type questionDirection int

const (
	rewardSimilarity questionDirection = iota
	rewardComplement
)

var questionDirections = map[string]questionDirection{
	QEmotionalExpressiveness: rewardSimilarity,
	QConflictApproach:        rewardSimilarity,
	QReassuranceNeed:         rewardComplement,
	QStressReaction:          rewardComplement,
	QLifestylePace:           rewardSimilarity,
	QSocialEnergy:            rewardSimilarity,
	QWeekendPreference:       rewardSimilarity,
	QStructureSpontaneity:    rewardComplement,
	QCareerAmbition:          rewardSimilarity,
	QFinancialGoals:          rewardSimilarity,
	QGrowthDrive:             rewardSimilarity,
	QWorkLifeBalance:         rewardSimilarity,
	QParentingStyle:          rewardSimilarity,
	QFamilyInvolvement:       rewardSimilarity,
	QRelationshipTimeline:    rewardSimilarity,
	QLivingPreference:        rewardSimilarity,
	QConversationDepth:       rewardSimilarity,
	QAffectionStyle:          rewardSimilarity,
	QDecisionMaking:          rewardComplement,
	QNoveltyNeed:             rewardSimilarity,
}

// questionOrder fixes the position of each question in taste vectors
var questionOrder = []string{
	QEmotionalExpressiveness,
	QConflictApproach,
	QReassuranceNeed,
	QStressReaction,
	QLifestylePace,
	QSocialEnergy,
	QWeekendPreference,
	QStructureSpontaneity,
	QCareerAmbition,
	QFinancialGoals,
	QGrowthDrive,
	QWorkLifeBalance,
	QParentingStyle,
	QFamilyInvolvement,
	QRelationshipTimeline,
	QLivingPreference,
	QConversationDepth,
	QAffectionStyle,
	QDecisionMaking,
	QNoveltyNeed,
}

// answerSpan is the widest possible distance between two 1..5 answers
const answerSpan = 4.0

// scorePsychological averages a per-question term over all 20 questions.
// Similarity questions score 1 - |a-b|/4, complementary questions |a-b|/4.
// Both profiles must exist; otherwise the factor is absent.
func scorePsychological(a, b *CompatibilityProfile) (float64, bool) {
	if a == nil || b == nil {
		return 0, false
	}

	answersA := a.Answers()
	answersB := b.Answers()

	var sum float64
	for question, direction := range questionDirections {
		distance := math.Abs(float64(answersA[question]-answersB[question])) / answerSpan
		if direction == rewardComplement {
			sum += distance
		} else {
			sum += 1 - distance
		}
	}

	return sum / float64(len(questionDirections)), true
}

// fieldSimilarity buckets a 1..5 field comparison: exact match beats
// adjacent ("compatible but different"), which beats an outright mismatch
func fieldSimilarity(a, b int) float64 {
	switch diff := a - b; {
	case diff == 0:
		return 1.0
	case diff == 1 || diff == -1:
		return 0.6
	default:
		return 0.2
	}
}

// childrenSimilarity compares wants-children intents
func childrenSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	// An open or unsure answer is compatible with anything
	if a == "open" || a == "unsure" || b == "open" || b == "unsure" {
		return 0.6
	}
	// yes vs no
	return 0
}

// scoreLifeAlignment compares life-stage and values fields between the two
// members: faith importance, practice frequency, wants-children, career
// ambition, work-life philosophy and education level. Fields missing on
// either side are excluded from the denominator rather than penalized.
func scoreLifeAlignment(memberA, memberB *Member, profileA, profileB *CompatibilityProfile) (float64, bool) {
	if memberA == nil || memberB == nil {
		return 0, false
	}

	var sum float64
	var count int

	if memberA.FaithImportance != nil && memberB.FaithImportance != nil {
		sum += fieldSimilarity(*memberA.FaithImportance, *memberB.FaithImportance)
		count++
	}
	if memberA.PracticeFrequency != nil && memberB.PracticeFrequency != nil {
		sum += fieldSimilarity(*memberA.PracticeFrequency, *memberB.PracticeFrequency)
		count++
	}
	if memberA.WantsChildren != nil && memberB.WantsChildren != nil {
		sum += childrenSimilarity(*memberA.WantsChildren, *memberB.WantsChildren)
		count++
	}
	if memberA.EducationLevel != nil && memberB.EducationLevel != nil {
		sum += fieldSimilarity(*memberA.EducationLevel, *memberB.EducationLevel)
		count++
	}
	if profileA != nil && profileB != nil {
		sum += fieldSimilarity(profileA.CareerAmbition, profileB.CareerAmbition)
		sum += fieldSimilarity(profileA.WorkLifeBalance, profileB.WorkLifeBalance)
		count += 2
	}

	if count == 0 {
		return 0, false
	}

	return sum / float64(count), true
}

// scoreChemistry derives a sub-score from mutual date ratings the pair has
// left for each other at shared past events. A pair with no shared history
// has no chemistry factor at all.
func scoreChemistry(ratings []*PairRating) (float64, bool) {
	if len(ratings) == 0 {
		return 0, false
	}

	var sum float64
	for _, r := range ratings {
		term := 0.7 * (float64(r.ChemistryRating-1) / answerSpan)
		if r.WouldMeetAgain {
			term += 0.3
		}
		sum += term
	}

	return sum / float64(len(ratings)), true
}

// scoreTaste compares two externally trained taste vectors with cosine
// similarity mapped onto [0,1]. Absent or degenerate vectors exclude the
// factor for this pair.
func scoreTaste(a, b []float64) (float64, bool) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2, true
}

// completenessFieldCount is the number of fields a fully filled-in member
// contributes: five lifestyle fields, the 20-question profile counted as a
// block, and the dealbreaker row.
const completenessFieldCount = 7.0

// scoreCompleteness measures how much of a single member's expected data is
// filled in. Unlike the similarity factors it is always computable and acts
// as a trust multiplier on the final score.
func scoreCompleteness(member *Member, profile *CompatibilityProfile, prefs *DealbreakerPreferences) float64 {
	if member == nil {
		return 0
	}

	var filled float64
	if member.DateOfBirth != nil {
		filled++
	}
	if member.Religion != nil {
		filled++
	}
	if member.WantsChildren != nil {
		filled++
	}
	if member.EducationLevel != nil {
		filled++
	}
	if member.FaithImportance != nil {
		filled++
	}
	if profile != nil {
		filled++
	}
	if prefs != nil {
		filled++
	}

	return filled / completenessFieldCount
}

// pairCompleteness averages both members' completeness into one pair-level
// trust factor
func pairCompleteness(a, b float64) float64 {
	return (a + b) / 2
}
