// internal/compatibility/aggregate.go
// Weighted aggregation of factor sub-scores into one final score.
//
// The key rule: weights of the factors actually present for a pair are
// renormalized to sum to 1 before combining. An excluded chemistry or taste
// factor therefore never deflates the score, and an admin-entered weight
// vector that does not sum to exactly 1 is tolerated rather than rejected.

package compatibility

import (
	"fmt"
	"math"
)

// explanationPriority breaks contribution ties deterministically
var explanationPriority = []string{
	FactorLifeAlignment,
	FactorPsychological,
	FactorChemistry,
	FactorTasteLearning,
}

var factorLabels = map[string]string{
	FactorLifeAlignment: "life-alignment",
	FactorPsychological: "psychological",
	FactorChemistry:     "chemistry",
	FactorTasteLearning: "taste",
}

// insufficientDataExplanation is served when no similarity factor could be
// computed for a pair
const insufficientDataExplanation = "Insufficient data"

// AggregateResult is the aggregator's output before persistence
type AggregateResult struct {
	FinalScore       float64
	Breakdown        map[string]float64
	Explanation      string
	PremiumBreakdown *PremiumBreakdown
}

// aggregate combines the present factor scores under the configured weight
// vector. factorScores holds only factors that are present for this pair;
// the final score is on a 0-100 scale rounded to one decimal.
//
// If none of the four similarity factors is present the pair has no signal
// to score on: the result is 0 with an "Insufficient data" explanation,
// deliberately not a completeness-only score that would look precise.
func aggregate(factorScores map[string]float64, weights *MatchWeightConfig) *AggregateResult {
	if !hasSimilarityFactor(factorScores) {
		return &AggregateResult{
			FinalScore:  0,
			Breakdown:   copyScores(factorScores),
			Explanation: insufficientDataExplanation,
			PremiumBreakdown: &PremiumBreakdown{
				Factors: map[string]FactorContribution{},
			},
		}
	}

	var weightSum float64
	for factor := range factorScores {
		weightSum += weights.Weight(factor)
	}
	if weightSum <= 0 {
		// Degenerate admin config: fall back to equal weights
		weightSum = float64(len(factorScores))
	}

	premium := &PremiumBreakdown{Factors: make(map[string]FactorContribution, len(factorScores))}

	var total float64
	for factor, score := range factorScores {
		configWeight := weights.Weight(factor)
		normalized := configWeight / weightSum
		if configWeight == 0 && weightSum == float64(len(factorScores)) {
			normalized = 1 / float64(len(factorScores))
		}
		contribution := normalized * score
		total += contribution

		premium.Factors[factor] = FactorContribution{
			Score:            score,
			ConfigWeight:     configWeight,
			NormalizedWeight: normalized,
			Contribution:     contribution,
		}
	}

	return &AggregateResult{
		FinalScore:       roundScore(total * 100),
		Breakdown:        copyScores(factorScores),
		Explanation:      buildExplanation(premium.Factors),
		PremiumBreakdown: premium,
	}
}

// buildExplanation names the similarity factor with the largest weighted
// contribution; ties resolve by the fixed priority order. Completeness is a
// trust multiplier, not a match signal, so it is never named as the driver.
func buildExplanation(contributions map[string]FactorContribution) string {
	driver := ""
	best := -1.0
	for _, factor := range explanationPriority {
		c, ok := contributions[factor]
		if !ok {
			continue
		}
		if c.Contribution > best {
			best = c.Contribution
			driver = factor
		}
	}

	if driver == "" {
		return insufficientDataExplanation
	}

	label := factorLabels[driver]
	score := contributions[driver].Score
	switch {
	case score >= 0.75:
		return fmt.Sprintf("Strong %s match", label)
	case score >= 0.5:
		return fmt.Sprintf("Good %s match", label)
	default:
		return fmt.Sprintf("Driven by %s compatibility", label)
	}
}

func hasSimilarityFactor(factorScores map[string]float64) bool {
	for _, factor := range explanationPriority {
		if _, ok := factorScores[factor]; ok {
			return true
		}
	}
	return false
}

// roundScore fixes the documented one-decimal precision
func roundScore(score float64) float64 {
	return math.Round(score*10) / 10
}

func copyScores(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
