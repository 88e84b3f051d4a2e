package compatibility

import (
	"math"
	"testing"
)

func uniformProfile(userID int64, answer int) *CompatibilityProfile {
	return &CompatibilityProfile{
		UserID:                  userID,
		EmotionalExpressiveness: answer,
		ConflictApproach:        answer,
		ReassuranceNeed:         answer,
		StressReaction:          answer,
		LifestylePace:           answer,
		SocialEnergy:            answer,
		WeekendPreference:       answer,
		StructureSpontaneity:    answer,
		CareerAmbition:          answer,
		FinancialGoals:          answer,
		GrowthDrive:             answer,
		WorkLifeBalance:         answer,
		ParentingStyle:          answer,
		FamilyInvolvement:       answer,
		RelationshipTimeline:    answer,
		LivingPreference:        answer,
		ConversationDepth:       answer,
		AffectionStyle:          answer,
		DecisionMaking:          answer,
		NoveltyNeed:             answer,
	}
}

func TestScorePsychologicalIdenticalProfiles(t *testing.T) {
	a := uniformProfile(1, 3)
	b := uniformProfile(2, 3)

	score, ok := scorePsychological(a, b)
	if !ok {
		t.Fatal("expected factor to be present")
	}

	// Identical answers: the 16 similarity questions score 1.0 each, the
	// 4 complementary questions score 0.0, so the mean is 16/20
	if !almostEqual(score, 0.8) {
		t.Errorf("expected 0.8, got %v", score)
	}
}

func TestScorePsychologicalOppositeExtremes(t *testing.T) {
	a := uniformProfile(1, 1)
	b := uniformProfile(2, 5)

	score, ok := scorePsychological(a, b)
	if !ok {
		t.Fatal("expected factor to be present")
	}

	// Maximal distance: similarity questions score 0, complementary score 1
	if !almostEqual(score, 0.2) {
		t.Errorf("expected 0.2, got %v", score)
	}
}

func TestScorePsychologicalMissingProfile(t *testing.T) {
	if _, ok := scorePsychological(nil, uniformProfile(2, 3)); ok {
		t.Error("missing profile should exclude the factor")
	}
}

func TestFieldSimilarityBuckets(t *testing.T) {
	cases := []struct {
		a, b int
		want float64
	}{
		{3, 3, 1.0},
		{3, 4, 0.6},
		{4, 3, 0.6},
		{1, 5, 0.2},
	}
	for _, tc := range cases {
		if got := fieldSimilarity(tc.a, tc.b); got != tc.want {
			t.Errorf("fieldSimilarity(%d,%d) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestChildrenSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"yes", "yes", 1.0},
		{"yes", "open", 0.6},
		{"unsure", "no", 0.6},
		{"yes", "no", 0.0},
	}
	for _, tc := range cases {
		if got := childrenSimilarity(tc.a, tc.b); got != tc.want {
			t.Errorf("childrenSimilarity(%q,%q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestScoreLifeAlignmentExcludesMissingFields(t *testing.T) {
	faithA, faithB := 4, 4
	memberA := &Member{ID: 1, FaithImportance: &faithA}
	memberB := &Member{ID: 2, FaithImportance: &faithB}

	// Only faith importance comparable on the member side, no profiles
	score, ok := scoreLifeAlignment(memberA, memberB, nil, nil)
	if !ok {
		t.Fatal("expected factor to be present")
	}
	if score != 1.0 {
		t.Errorf("single exact field should score 1.0, got %v", score)
	}
}

func TestScoreLifeAlignmentNoComparableFields(t *testing.T) {
	if _, ok := scoreLifeAlignment(&Member{ID: 1}, &Member{ID: 2}, nil, nil); ok {
		t.Error("no comparable fields should exclude the factor")
	}
}

func TestScoreChemistry(t *testing.T) {
	if _, ok := scoreChemistry(nil); ok {
		t.Error("no shared history should exclude the factor")
	}

	ratings := []*PairRating{
		{ChemistryRating: 5, WouldMeetAgain: true},
		{ChemistryRating: 3, WouldMeetAgain: false},
	}

	score, ok := scoreChemistry(ratings)
	if !ok {
		t.Fatal("expected factor to be present")
	}

	// Rating 5 + yes: 0.7*1.0 + 0.3 = 1.0; rating 3 + no: 0.7*0.5 = 0.35
	if !almostEqual(score, (1.0+0.35)/2) {
		t.Errorf("expected 0.675, got %v", score)
	}
}

func TestScoreTaste(t *testing.T) {
	if _, ok := scoreTaste(nil, []float64{1, 2}); ok {
		t.Error("missing vector should exclude the factor")
	}
	if _, ok := scoreTaste([]float64{1, 2}, []float64{1}); ok {
		t.Error("length mismatch should exclude the factor")
	}
	if _, ok := scoreTaste([]float64{0, 0}, []float64{1, 2}); ok {
		t.Error("zero vector should exclude the factor")
	}

	score, ok := scoreTaste([]float64{1, 2, 3}, []float64{2, 4, 6})
	if !ok {
		t.Fatal("expected factor to be present")
	}
	if !almostEqual(score, 1.0) {
		t.Errorf("parallel vectors should score 1.0, got %v", score)
	}

	score, _ = scoreTaste([]float64{1, 0}, []float64{-1, 0})
	if !almostEqual(score, 0.0) {
		t.Errorf("opposite vectors should score 0.0, got %v", score)
	}
}

func TestScoreCompleteness(t *testing.T) {
	if got := scoreCompleteness(nil, nil, nil); got != 0 {
		t.Errorf("missing member should score 0, got %v", got)
	}

	empty := &Member{ID: 1}
	if got := scoreCompleteness(empty, nil, nil); got != 0 {
		t.Errorf("empty member should score 0, got %v", got)
	}

	dob := someTime()
	religion := "agnostic"
	wants := "open"
	education := 3
	faith := 2
	full := &Member{
		ID:              1,
		DateOfBirth:     &dob,
		Religion:        &religion,
		WantsChildren:   &wants,
		EducationLevel:  &education,
		FaithImportance: &faith,
	}

	got := scoreCompleteness(full, uniformProfile(1, 3), &DealbreakerPreferences{UserID: 1})
	if !almostEqual(got, 1.0) {
		t.Errorf("fully filled member should score 1.0, got %v", got)
	}

	if got := pairCompleteness(1.0, 0.5); !almostEqual(got, 0.75) {
		t.Errorf("expected 0.75, got %v", got)
	}
}

func TestMeanAnswerVector(t *testing.T) {
	vector := meanAnswerVector([]*CompatibilityProfile{
		uniformProfile(1, 1),
		uniformProfile(2, 5),
	})

	if len(vector) != len(questionOrder) {
		t.Fatalf("expected %d components, got %d", len(questionOrder), len(vector))
	}
	for i, v := range vector {
		if math.Abs(v-3.0) > 1e-9 {
			t.Errorf("component %d: expected 3.0, got %v", i, v)
		}
	}
}
