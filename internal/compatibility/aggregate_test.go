package compatibility

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateSingleFactorRenormalizes(t *testing.T) {
	weights := DefaultWeightConfig()

	result := aggregate(map[string]float64{
		FactorLifeAlignment: 0.8,
	}, weights)

	// The only present factor carries full weight regardless of its
	// configured 0.30
	if result.FinalScore != 80.0 {
		t.Errorf("expected final score 80.0, got %v", result.FinalScore)
	}
	if result.Explanation != "Strong life-alignment match" {
		t.Errorf("unexpected explanation %q", result.Explanation)
	}

	contribution, ok := result.PremiumBreakdown.Factors[FactorLifeAlignment]
	if !ok {
		t.Fatal("expected life alignment in premium breakdown")
	}
	if !almostEqual(contribution.NormalizedWeight, 1.0) {
		t.Errorf("expected normalized weight 1.0, got %v", contribution.NormalizedWeight)
	}
	if contribution.ConfigWeight != 0.30 {
		t.Errorf("expected config weight 0.30, got %v", contribution.ConfigWeight)
	}
}

func TestAggregateExcludedFactorDoesNotDeflate(t *testing.T) {
	weights := DefaultWeightConfig()

	// Chemistry and taste absent: life and psych (0.30 each) plus
	// completeness (0.10) renormalize over 0.70
	result := aggregate(map[string]float64{
		FactorLifeAlignment:       1.0,
		FactorPsychological:       1.0,
		FactorProfileCompleteness: 1.0,
	}, weights)

	if result.FinalScore != 100.0 {
		t.Errorf("perfect sub-scores should aggregate to 100.0, got %v", result.FinalScore)
	}

	partial := aggregate(map[string]float64{
		FactorLifeAlignment:       0.5,
		FactorPsychological:       1.0,
		FactorProfileCompleteness: 1.0,
	}, weights)

	// (0.30*0.5 + 0.30*1.0 + 0.10*1.0) / 0.70 * 100 = 78.57... -> 78.6
	if partial.FinalScore != 78.6 {
		t.Errorf("expected 78.6, got %v", partial.FinalScore)
	}
}

func TestAggregateNoSimilarityFactors(t *testing.T) {
	result := aggregate(map[string]float64{
		FactorProfileCompleteness: 0.9,
	}, DefaultWeightConfig())

	if result.FinalScore != 0 {
		t.Errorf("completeness alone must not produce a score, got %v", result.FinalScore)
	}
	if result.Explanation != insufficientDataExplanation {
		t.Errorf("expected %q, got %q", insufficientDataExplanation, result.Explanation)
	}
}

func TestAggregateExplanationTieBreak(t *testing.T) {
	weights := &MatchWeightConfig{
		LifeAlignment: 0.25,
		Psychological: 0.25,
		Chemistry:     0.25,
		TasteLearning: 0.25,
	}

	result := aggregate(map[string]float64{
		FactorLifeAlignment: 0.6,
		FactorPsychological: 0.6,
	}, weights)

	// Equal contributions: life alignment wins by priority order
	if result.Explanation != "Good life-alignment match" {
		t.Errorf("expected life alignment to win the tie, got %q", result.Explanation)
	}
}

func TestAggregateExplanationTiers(t *testing.T) {
	weights := DefaultWeightConfig()

	cases := []struct {
		score float64
		want  string
	}{
		{0.9, "Strong psychological match"},
		{0.6, "Good psychological match"},
		{0.3, "Driven by psychological compatibility"},
	}

	for _, tc := range cases {
		result := aggregate(map[string]float64{FactorPsychological: tc.score}, weights)
		if result.Explanation != tc.want {
			t.Errorf("score %v: expected %q, got %q", tc.score, tc.want, result.Explanation)
		}
	}
}

func TestAggregateZeroWeightConfigFallsBack(t *testing.T) {
	weights := &MatchWeightConfig{}

	result := aggregate(map[string]float64{
		FactorLifeAlignment: 1.0,
		FactorPsychological: 0.5,
	}, weights)

	// Equal split: (1.0 + 0.5) / 2 * 100
	if result.FinalScore != 75.0 {
		t.Errorf("expected equal-weight fallback of 75.0, got %v", result.FinalScore)
	}
}

func TestRoundScoreOneDecimal(t *testing.T) {
	if got := roundScore(78.5714285); got != 78.6 {
		t.Errorf("expected 78.6, got %v", got)
	}
	if got := roundScore(0.04); got != 0.0 {
		t.Errorf("expected 0.0, got %v", got)
	}
}
