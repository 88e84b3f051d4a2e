// internal/compatibility/service.go

package compatibility

import (
	"context"
	"errors"
	"log"
	"time"
)

var (
	ErrSelfPair          = errors.New("cannot score a member against themselves")
	ErrMemberNotFound    = errors.New("member not found")
	ErrPairNotEligible   = errors.New("pair fails dealbreaker constraints")
	ErrInvalidAgeRange   = errors.New("min_age cannot exceed max_age")
	ErrWeightOutOfRange  = errors.New("weights must be between 0 and 1")
	ErrInvalidPagination = errors.New("page and per_page must be positive")
)

type Service interface {
	// Profiles & preferences
	GetProfile(ctx context.Context, userID int64) (*CompatibilityProfile, error)
	SubmitProfile(ctx context.Context, userID int64, dto *SubmitProfileDTO) (*CompatibilityProfile, error)
	GetDealbreakers(ctx context.Context, userID int64) (*DealbreakerPreferences, error)
	SubmitDealbreakers(ctx context.Context, userID int64, dto *SubmitDealbreakersDTO) (*DealbreakerPreferences, error)

	// Scoring
	GetOrComputeScore(ctx context.Context, userA, userB int64) (*PairScore, error)
	GetScoreForViewer(ctx context.Context, viewerID, partnerID int64) (*PairScore, error)
	GetMatches(ctx context.Context, userID int64, page, perPage int) (*MatchPage, error)

	// Invalidation (also used by the member and ratings modules)
	InvalidateUser(ctx context.Context, userID int64) error
	InvalidatePair(ctx context.Context, userA, userB int64) error

	// Admin
	GetWeights(ctx context.Context) (*MatchWeightConfig, error)
	UpdateWeights(ctx context.Context, dto *UpdateWeightsDTO) (*MatchWeightConfig, error)
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Scheduled jobs
	RunNightlyRecompute(ctx context.Context) (*RecomputeResult, error)
	ForceRecalculate(ctx context.Context) (*RecomputeResult, error)
	RefreshTasteVectors(ctx context.Context) (int, error)
}

type service struct {
	repo       Repository
	scoreFloor float64
	now        func() time.Time
}

func NewService(repo Repository, scoreFloor float64) Service {
	return &service{
		repo:       repo,
		scoreFloor: scoreFloor,
		now:        time.Now,
	}
}

// Profiles & Preferences

func (s *service) GetProfile(ctx context.Context, userID int64) (*CompatibilityProfile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) SubmitProfile(ctx context.Context, userID int64, dto *SubmitProfileDTO) (*CompatibilityProfile, error) {
	profile := dto.ToProfile(userID)
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	// Cached scores built on the old answers are now wrong for every pair
	// involving this member
	if err := s.InvalidateUser(ctx, userID); err != nil {
		return nil, err
	}

	return profile, nil
}

func (s *service) GetDealbreakers(ctx context.Context, userID int64) (*DealbreakerPreferences, error) {
	return s.repo.GetDealbreakers(ctx, userID)
}

func (s *service) SubmitDealbreakers(ctx context.Context, userID int64, dto *SubmitDealbreakersDTO) (*DealbreakerPreferences, error) {
	if dto.MinAge != nil && dto.MaxAge != nil && *dto.MinAge > *dto.MaxAge {
		return nil, ErrInvalidAgeRange
	}

	prefs := dto.ToPreferences(userID)
	if err := s.repo.UpsertDealbreakers(ctx, prefs); err != nil {
		return nil, err
	}

	if err := s.InvalidateUser(ctx, userID); err != nil {
		return nil, err
	}

	return prefs, nil
}

// Scoring

// GetOrComputeScore serves the cached pair score, computing and caching it
// on a miss. The pair is canonicalized first so both argument orders hit
// the same row.
func (s *service) GetOrComputeScore(ctx context.Context, userA, userB int64) (*PairScore, error) {
	if userA == userB {
		return nil, ErrSelfPair
	}
	userA, userB = CanonicalPair(userA, userB)

	cached, err := s.repo.GetPairScore(ctx, userA, userB)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		scoreCacheLookupsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	scoreCacheLookupsTotal.WithLabelValues("miss").Inc()

	score, err := s.computeAndCache(ctx, userA, userB, "lazy")
	if err != nil {
		return nil, err
	}

	return score, nil
}

// GetScoreForViewer serves a pair score to one member of the pair, with
// the premium breakdown withheld from non-subscribers. The underlying
// cached row always carries the full detail so an upgrade needs no
// recompute.
func (s *service) GetScoreForViewer(ctx context.Context, viewerID, partnerID int64) (*PairScore, error) {
	viewer, err := s.repo.GetMember(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, ErrMemberNotFound
	}

	score, err := s.GetOrComputeScore(ctx, viewerID, partnerID)
	if err != nil {
		return nil, err
	}

	if !viewer.IsPremium() {
		redacted := *score
		redacted.PremiumBreakdown = nil
		return &redacted, nil
	}

	return score, nil
}

// pairInputs gathers everything the scorers need for one member
type pairInputs struct {
	member  *Member
	profile *CompatibilityProfile
	prefs   *DealbreakerPreferences
	taste   []float64
}

func (s *service) loadInputs(ctx context.Context, userID int64) (*pairInputs, error) {
	member, err := s.repo.GetMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs, err := s.repo.GetDealbreakers(ctx, userID)
	if err != nil {
		return nil, err
	}

	taste, err := s.repo.GetTasteVector(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &pairInputs{member: member, profile: profile, prefs: prefs, taste: taste}, nil
}

// computeAndCache runs the full pipeline for one canonical pair: dealbreaker
// gate, factor scorers, weighted aggregation, delete-then-insert cache write.
func (s *service) computeAndCache(ctx context.Context, userA, userB int64, trigger string) (*PairScore, error) {
	a, err := s.loadInputs(ctx, userA)
	if err != nil {
		return nil, err
	}
	b, err := s.loadInputs(ctx, userB)
	if err != nil {
		return nil, err
	}

	if !isEligible(a.member, a.prefs, b.member, b.prefs, s.now()) {
		return nil, ErrPairNotEligible
	}

	weights, err := s.repo.GetWeightConfig(ctx)
	if err != nil {
		return nil, err
	}

	factorScores := map[string]float64{}

	if psych, ok := scorePsychological(a.profile, b.profile); ok {
		factorScores[FactorPsychological] = psych
	}
	if life, ok := scoreLifeAlignment(a.member, b.member, a.profile, b.profile); ok {
		factorScores[FactorLifeAlignment] = life
	}

	ratings, err := s.repo.GetRatingsBetween(ctx, userA, userB)
	if err != nil {
		return nil, err
	}
	if chem, ok := scoreChemistry(ratings); ok {
		factorScores[FactorChemistry] = chem
	}

	if taste, ok := scoreTaste(a.taste, b.taste); ok {
		factorScores[FactorTasteLearning] = taste
	}

	factorScores[FactorProfileCompleteness] = pairCompleteness(
		scoreCompleteness(a.member, a.profile, a.prefs),
		scoreCompleteness(b.member, b.profile, b.prefs),
	)

	result := aggregate(factorScores, weights)

	score := &PairScore{
		UserAID:          userA,
		UserBID:          userB,
		FinalScore:       result.FinalScore,
		Breakdown:        result.Breakdown,
		Explanation:      result.Explanation,
		PremiumBreakdown: result.PremiumBreakdown,
	}

	if err := s.repo.ReplacePairScore(ctx, score); err != nil {
		return nil, err
	}

	scoresComputedTotal.WithLabelValues(trigger).Inc()
	finalScoreDistribution.Observe(score.FinalScore)

	return score, nil
}

// GetMatches pages through the member's cached scores above the floor,
// best first. Dealbreakers are re-checked at read time so a preference or
// attribute change hides a stale cached pair immediately; the total counts
// only pairs that survive the re-check.
func (s *service) GetMatches(ctx context.Context, userID int64, page, perPage int) (*MatchPage, error) {
	if page < 1 || perPage < 1 {
		return nil, ErrInvalidPagination
	}

	viewer, err := s.loadInputs(ctx, userID)
	if err != nil {
		return nil, err
	}

	premium := viewer.member.IsPremium()
	now := s.now()

	scores, err := s.repo.ListCachedMatches(ctx, userID, s.scoreFloor)
	if err != nil {
		return nil, err
	}

	var visible []*MatchEntry
	for _, score := range scores {
		partnerID := score.Partner(userID)

		partner, err := s.repo.GetMember(ctx, partnerID)
		if err != nil {
			return nil, err
		}
		if partner == nil || !partner.IsActive {
			continue
		}

		partnerPrefs, err := s.repo.GetDealbreakers(ctx, partnerID)
		if err != nil {
			return nil, err
		}
		if !isEligible(viewer.member, viewer.prefs, partner, partnerPrefs, now) {
			continue
		}

		entry := &MatchEntry{
			UserID:      partnerID,
			DisplayName: partner.DisplayName,
			FinalScore:  score.FinalScore,
			Explanation: score.Explanation,
			Breakdown:   score.Breakdown,
			ComputedAt:  score.ComputedAt.UTC().Format(time.RFC3339),
		}
		if premium {
			entry.PremiumBreakdown = score.PremiumBreakdown
		}
		visible = append(visible, entry)
	}

	total := len(visible)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return &MatchPage{
		Matches: visible[start:end],
		Total:   total,
		Page:    page,
		PerPage: perPage,
		HasMore: end < total,
	}, nil
}

// Invalidation

func (s *service) InvalidateUser(ctx context.Context, userID int64) error {
	deleted, err := s.repo.DeleteScoresForUser(ctx, userID)
	if err != nil {
		return err
	}
	if deleted > 0 {
		scoreInvalidationsTotal.WithLabelValues("user").Add(float64(deleted))
	}
	return nil
}

func (s *service) InvalidatePair(ctx context.Context, userA, userB int64) error {
	if err := s.repo.DeletePairScore(ctx, userA, userB); err != nil {
		return err
	}
	scoreInvalidationsTotal.WithLabelValues("pair").Inc()
	return nil
}

// Admin

func (s *service) GetWeights(ctx context.Context) (*MatchWeightConfig, error) {
	return s.repo.GetWeightConfig(ctx)
}

// UpdateWeights persists a new weight vector. Each weight is range-checked
// but the sum is not: renormalization at aggregation time absorbs any
// drift, and rejecting a 0.99 sum would only annoy operators.
func (s *service) UpdateWeights(ctx context.Context, dto *UpdateWeightsDTO) (*MatchWeightConfig, error) {
	config := &MatchWeightConfig{
		ID:                  1,
		LifeAlignment:       *dto.LifeAlignment,
		Psychological:       *dto.Psychological,
		Chemistry:           *dto.Chemistry,
		TasteLearning:       *dto.TasteLearning,
		ProfileCompleteness: *dto.ProfileCompleteness,
	}

	for _, w := range []float64{config.LifeAlignment, config.Psychological, config.Chemistry, config.TasteLearning, config.ProfileCompleteness} {
		if w < 0 || w > 1 {
			return nil, ErrWeightOutOfRange
		}
	}

	if err := s.repo.UpdateWeightConfig(ctx, config); err != nil {
		return nil, err
	}

	// Existing cached scores keep the old weights until the next recompute
	// or invalidation; the admin recalculate endpoint forces it sooner
	return config, nil
}

func (s *service) GetStats(ctx context.Context) (map[string]interface{}, error) {
	eligible, err := s.repo.ListEligibleUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	cached, err := s.repo.CountCachedScores(ctx)
	if err != nil {
		return nil, err
	}

	n := int64(len(eligible))
	possiblePairs := n * (n - 1) / 2

	stats := map[string]interface{}{
		"eligible_members": n,
		"cached_scores":    cached,
		"possible_pairs":   possiblePairs,
	}
	if possiblePairs > 0 {
		stats["cache_coverage"] = float64(cached) / float64(possiblePairs)
	}

	return stats, nil
}

// Scheduled Jobs

// RunNightlyRecompute rebuilds the score cache for every eligible pair.
// Already-cached pairs are skipped, so re-running after a partial failure
// only does the remaining work. Per-pair failures are logged and counted
// rather than aborting the batch.
func (s *service) RunNightlyRecompute(ctx context.Context) (*RecomputeResult, error) {
	started := s.now()

	userIDs, err := s.repo.ListEligibleUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	result := &RecomputeResult{}
	for i := 0; i < len(userIDs); i++ {
		for j := i + 1; j < len(userIDs); j++ {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			userA, userB := userIDs[i], userIDs[j]

			cached, err := s.repo.GetPairScore(ctx, userA, userB)
			if err != nil {
				log.Printf("recompute: lookup failed for pair (%d,%d): %v", userA, userB, err)
				result.Failed++
				continue
			}
			if cached != nil {
				result.Skipped++
				continue
			}

			if _, err := s.computeAndCache(ctx, userA, userB, "nightly"); err != nil {
				if errors.Is(err, ErrPairNotEligible) {
					result.Skipped++
					continue
				}
				log.Printf("recompute: scoring failed for pair (%d,%d): %v", userA, userB, err)
				result.Failed++
				continue
			}
			result.Computed++
		}
	}

	nightlyRecomputeDuration.Observe(s.now().Sub(started).Seconds())
	nightlyRecomputePairs.WithLabelValues("computed").Set(float64(result.Computed))
	nightlyRecomputePairs.WithLabelValues("skipped").Set(float64(result.Skipped))
	nightlyRecomputePairs.WithLabelValues("failed").Set(float64(result.Failed))

	log.Printf("recompute: finished in %s (computed=%d skipped=%d failed=%d)",
		s.now().Sub(started).Round(time.Millisecond), result.Computed, result.Skipped, result.Failed)

	return result, nil
}

// ForceRecalculate purges the whole score cache and rebuilds it, so every
// pair picks up the current weight config. The nightly job alone would
// skip pairs that still had a cached row.
func (s *service) ForceRecalculate(ctx context.Context) (*RecomputeResult, error) {
	purged, err := s.repo.DeleteAllScores(ctx)
	if err != nil {
		return nil, err
	}
	if purged > 0 {
		scoreInvalidationsTotal.WithLabelValues("all").Add(float64(purged))
	}

	return s.RunNightlyRecompute(ctx)
}

// RefreshTasteVectors rebuilds each member's taste vector as the mean of
// the answer vectors of partners they rated positively. Members with no
// positive ratings keep whatever vector they had.
func (s *service) RefreshTasteVectors(ctx context.Context) (int, error) {
	userIDs, err := s.repo.ListEligibleUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}

		profiles, err := s.repo.ListPositivelyRatedProfiles(ctx, userID)
		if err != nil {
			log.Printf("taste refresh: listing rated profiles for user %d: %v", userID, err)
			continue
		}
		if len(profiles) == 0 {
			continue
		}

		vector := meanAnswerVector(profiles)
		if err := s.repo.UpsertTasteVector(ctx, userID, vector); err != nil {
			log.Printf("taste refresh: storing vector for user %d: %v", userID, err)
			continue
		}

		// The taste factor for every pair involving this member changed
		if err := s.InvalidateUser(ctx, userID); err != nil {
			return refreshed, err
		}

		tasteVectorsRefreshed.Inc()
		refreshed++
	}

	return refreshed, nil
}

// meanAnswerVector averages the 20 answers across profiles in the fixed
// question order
func meanAnswerVector(profiles []*CompatibilityProfile) []float64 {
	vector := make([]float64, len(questionOrder))
	for _, p := range profiles {
		answers := p.Answers()
		for i, q := range questionOrder {
			vector[i] += float64(answers[q])
		}
	}
	for i := range vector {
		vector[i] /= float64(len(profiles))
	}
	return vector
}
