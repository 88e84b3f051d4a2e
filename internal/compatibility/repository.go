package compatibility

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	// Compatibility profiles
	GetProfile(ctx context.Context, userID int64) (*CompatibilityProfile, error)
	UpsertProfile(ctx context.Context, profile *CompatibilityProfile) error

	// Dealbreaker preferences
	GetDealbreakers(ctx context.Context, userID int64) (*DealbreakerPreferences, error)
	UpsertDealbreakers(ctx context.Context, prefs *DealbreakerPreferences) error

	// Members (owned by the member module; read-only here)
	GetMember(ctx context.Context, userID int64) (*Member, error)
	ListEligibleUserIDs(ctx context.Context) ([]int64, error)

	// Pairwise score cache
	GetPairScore(ctx context.Context, userA, userB int64) (*PairScore, error)
	ReplacePairScore(ctx context.Context, score *PairScore) error
	DeletePairScore(ctx context.Context, userA, userB int64) error
	DeleteScoresForUser(ctx context.Context, userID int64) (int64, error)
	DeleteAllScores(ctx context.Context) (int64, error)
	ListCachedMatches(ctx context.Context, userID int64, floor float64) ([]*PairScore, error)
	CountCachedScores(ctx context.Context) (int64, error)

	// Weight config
	GetWeightConfig(ctx context.Context) (*MatchWeightConfig, error)
	UpdateWeightConfig(ctx context.Context, config *MatchWeightConfig) error

	// Ratings & taste vectors
	GetRatingsBetween(ctx context.Context, userA, userB int64) ([]*PairRating, error)
	GetTasteVector(ctx context.Context, userID int64) ([]float64, error)
	UpsertTasteVector(ctx context.Context, userID int64, vector []float64) error
	ListPositivelyRatedProfiles(ctx context.Context, userID int64) ([]*CompatibilityProfile, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// Compatibility Profile Methods

func (r *postgresRepository) GetProfile(ctx context.Context, userID int64) (*CompatibilityProfile, error) {
	var profile CompatibilityProfile
	query := `SELECT * FROM compatibility_profiles WHERE user_id = $1`

	err := r.db.GetContext(ctx, &profile, query, userID)
	if err == sql.ErrNoRows {
		// Absent profile is a normal "no data yet" case, not an error
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get compatibility profile: %w", err)
	}

	return &profile, nil
}

func (r *postgresRepository) UpsertProfile(ctx context.Context, p *CompatibilityProfile) error {
	// Full replace on conflict: profiles are resubmitted wholesale,
	// never partially patched
	query := `
        INSERT INTO compatibility_profiles (
            user_id, emotional_expressiveness, conflict_approach, reassurance_need,
            stress_reaction, lifestyle_pace, social_energy, weekend_preference,
            structure_spontaneity, career_ambition, financial_goals, growth_drive,
            work_life_balance, parenting_style, family_involvement, relationship_timeline,
            living_preference, conversation_depth, affection_style, decision_making,
            novelty_need
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
        ON CONFLICT (user_id) DO UPDATE SET
            emotional_expressiveness = EXCLUDED.emotional_expressiveness,
            conflict_approach = EXCLUDED.conflict_approach,
            reassurance_need = EXCLUDED.reassurance_need,
            stress_reaction = EXCLUDED.stress_reaction,
            lifestyle_pace = EXCLUDED.lifestyle_pace,
            social_energy = EXCLUDED.social_energy,
            weekend_preference = EXCLUDED.weekend_preference,
            structure_spontaneity = EXCLUDED.structure_spontaneity,
            career_ambition = EXCLUDED.career_ambition,
            financial_goals = EXCLUDED.financial_goals,
            growth_drive = EXCLUDED.growth_drive,
            work_life_balance = EXCLUDED.work_life_balance,
            parenting_style = EXCLUDED.parenting_style,
            family_involvement = EXCLUDED.family_involvement,
            relationship_timeline = EXCLUDED.relationship_timeline,
            living_preference = EXCLUDED.living_preference,
            conversation_depth = EXCLUDED.conversation_depth,
            affection_style = EXCLUDED.affection_style,
            decision_making = EXCLUDED.decision_making,
            novelty_need = EXCLUDED.novelty_need,
            updated_at = CURRENT_TIMESTAMP
        RETURNING created_at, updated_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		p.UserID, p.EmotionalExpressiveness, p.ConflictApproach, p.ReassuranceNeed,
		p.StressReaction, p.LifestylePace, p.SocialEnergy, p.WeekendPreference,
		p.StructureSpontaneity, p.CareerAmbition, p.FinancialGoals, p.GrowthDrive,
		p.WorkLifeBalance, p.ParentingStyle, p.FamilyInvolvement, p.RelationshipTimeline,
		p.LivingPreference, p.ConversationDepth, p.AffectionStyle, p.DecisionMaking,
		p.NoveltyNeed,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert compatibility profile: %w", err)
	}

	return nil
}

// Dealbreaker Methods

func (r *postgresRepository) GetDealbreakers(ctx context.Context, userID int64) (*DealbreakerPreferences, error) {
	var prefs DealbreakerPreferences
	query := `SELECT * FROM dealbreaker_preferences WHERE user_id = $1`

	err := r.db.GetContext(ctx, &prefs, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dealbreaker preferences: %w", err)
	}

	return &prefs, nil
}

func (r *postgresRepository) UpsertDealbreakers(ctx context.Context, prefs *DealbreakerPreferences) error {
	query := `
        INSERT INTO dealbreaker_preferences (
            user_id, min_age, max_age, religion_must_match,
            acceptable_religions, must_want_children, min_education_level
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (user_id) DO UPDATE SET
            min_age = EXCLUDED.min_age,
            max_age = EXCLUDED.max_age,
            religion_must_match = EXCLUDED.religion_must_match,
            acceptable_religions = EXCLUDED.acceptable_religions,
            must_want_children = EXCLUDED.must_want_children,
            min_education_level = EXCLUDED.min_education_level,
            updated_at = CURRENT_TIMESTAMP
        RETURNING created_at, updated_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		prefs.UserID, prefs.MinAge, prefs.MaxAge, prefs.ReligionMustMatch,
		pq.Array([]string(prefs.AcceptableReligions)), prefs.MustWantChildren, prefs.MinEducationLevel,
	).Scan(&prefs.CreatedAt, &prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert dealbreaker preferences: %w", err)
	}

	return nil
}

// Member Methods

func (r *postgresRepository) GetMember(ctx context.Context, userID int64) (*Member, error) {
	var member Member
	query := `
        SELECT id, display_name, date_of_birth, religion, wants_children,
               education_level, faith_importance, practice_frequency,
               subscription_tier, is_active
        FROM members
        WHERE id = $1
    `

	err := r.db.GetContext(ctx, &member, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return &member, nil
}

func (r *postgresRepository) ListEligibleUserIDs(ctx context.Context) ([]int64, error) {
	// Eligible for batch scoring: active members with a submitted
	// compatibility profile
	var ids []int64
	query := `
        SELECT m.id
        FROM members m
        JOIN compatibility_profiles cp ON cp.user_id = m.id
        WHERE m.is_active = TRUE
        ORDER BY m.id
    `

	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("failed to list eligible members: %w", err)
	}

	return ids, nil
}

// Pairwise Score Cache Methods

// pairScoreRow maps the stored row; breakdown columns are JSONB
type pairScoreRow struct {
	UserAID          int64           `db:"user_a"`
	UserBID          int64           `db:"user_b"`
	FinalScore       float64         `db:"final_score"`
	Breakdown        []byte          `db:"breakdown"`
	Explanation      string          `db:"explanation"`
	PremiumBreakdown json.RawMessage `db:"premium_breakdown"`
	ComputedAt       sql.NullTime    `db:"computed_at"`
}

func (row *pairScoreRow) toPairScore() (*PairScore, error) {
	score := &PairScore{
		UserAID:     row.UserAID,
		UserBID:     row.UserBID,
		FinalScore:  row.FinalScore,
		Explanation: row.Explanation,
	}
	if row.ComputedAt.Valid {
		score.ComputedAt = row.ComputedAt.Time
	}
	if len(row.Breakdown) > 0 {
		if err := json.Unmarshal(row.Breakdown, &score.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to decode breakdown: %w", err)
		}
	}
	if len(row.PremiumBreakdown) > 0 {
		var premium PremiumBreakdown
		if err := json.Unmarshal(row.PremiumBreakdown, &premium); err != nil {
			return nil, fmt.Errorf("failed to decode premium breakdown: %w", err)
		}
		score.PremiumBreakdown = &premium
	}
	return score, nil
}

func (r *postgresRepository) GetPairScore(ctx context.Context, userA, userB int64) (*PairScore, error) {
	a, b := CanonicalPair(userA, userB)

	var row pairScoreRow
	query := `
        SELECT user_a, user_b, final_score, breakdown, explanation,
               premium_breakdown, computed_at
        FROM compatibility_scores
        WHERE user_a = $1 AND user_b = $2
    `

	err := r.db.GetContext(ctx, &row, query, a, b)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pair score: %w", err)
	}

	return row.toPairScore()
}

func (r *postgresRepository) ReplacePairScore(ctx context.Context, score *PairScore) error {
	score.UserAID, score.UserBID = CanonicalPair(score.UserAID, score.UserBID)

	breakdownJSON, err := json.Marshal(score.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to encode breakdown: %w", err)
	}

	var premiumJSON interface{}
	if score.PremiumBreakdown != nil {
		encoded, err := json.Marshal(score.PremiumBreakdown)
		if err != nil {
			return fmt.Errorf("failed to encode premium breakdown: %w", err)
		}
		premiumJSON = encoded
	}

	// Delete-then-insert in one transaction: no partial updates, so a
	// weight-config change mid-write can never leave a stale breakdown
	// attached to a fresh score
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin score write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM compatibility_scores WHERE user_a = $1 AND user_b = $2`,
		score.UserAID, score.UserBID,
	); err != nil {
		return fmt.Errorf("failed to clear pair score: %w", err)
	}

	err = tx.QueryRowxContext(ctx, `
        INSERT INTO compatibility_scores (
            user_a, user_b, final_score, breakdown, explanation, premium_breakdown
        ) VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING computed_at
    `,
		score.UserAID, score.UserBID, score.FinalScore,
		breakdownJSON, score.Explanation, premiumJSON,
	).Scan(&score.ComputedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pair score: %w", err)
	}

	return tx.Commit()
}

func (r *postgresRepository) DeletePairScore(ctx context.Context, userA, userB int64) error {
	a, b := CanonicalPair(userA, userB)

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM compatibility_scores WHERE user_a = $1 AND user_b = $2`, a, b)
	if err != nil {
		return fmt.Errorf("failed to delete pair score: %w", err)
	}

	return nil
}

func (r *postgresRepository) DeleteScoresForUser(ctx context.Context, userID int64) (int64, error) {
	// Coarse whole-user invalidation: O(n) deletes per profile edit is the
	// accepted cost of keeping invalidation trivially correct
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM compatibility_scores WHERE user_a = $1 OR user_b = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate scores for user: %w", err)
	}

	deleted, _ := result.RowsAffected()
	return deleted, nil
}

func (r *postgresRepository) DeleteAllScores(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM compatibility_scores`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear score cache: %w", err)
	}

	deleted, _ := result.RowsAffected()
	return deleted, nil
}

func (r *postgresRepository) ListCachedMatches(ctx context.Context, userID int64, floor float64) ([]*PairScore, error) {
	// Pagination happens after the read-time dealbreaker re-check in the
	// service, so totals reflect what the member can actually see
	query := `
        SELECT user_a, user_b, final_score, breakdown, explanation,
               premium_breakdown, computed_at
        FROM compatibility_scores
        WHERE (user_a = $1 OR user_b = $1) AND final_score > $2
        ORDER BY final_score DESC, user_a, user_b
    `

	rows, err := r.db.QueryxContext(ctx, query, userID, floor)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached matches: %w", err)
	}
	defer rows.Close()

	var scores []*PairScore
	for rows.Next() {
		var row pairScoreRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan cached match: %w", err)
		}
		score, err := row.toPairScore()
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}

	return scores, rows.Err()
}

func (r *postgresRepository) CountCachedScores(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM compatibility_scores`)
	if err != nil {
		return 0, fmt.Errorf("failed to count cached scores: %w", err)
	}
	return count, nil
}

// Weight Config Methods

func (r *postgresRepository) GetWeightConfig(ctx context.Context) (*MatchWeightConfig, error) {
	var config MatchWeightConfig
	query := `SELECT * FROM match_weight_config WHERE id = 1`

	err := r.db.GetContext(ctx, &config, query)
	if err == sql.ErrNoRows {
		return DefaultWeightConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weight config: %w", err)
	}

	return &config, nil
}

func (r *postgresRepository) UpdateWeightConfig(ctx context.Context, config *MatchWeightConfig) error {
	query := `
        INSERT INTO match_weight_config (
            id, life_alignment, psychological, chemistry, taste_learning, profile_completeness
        ) VALUES (1, $1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET
            life_alignment = EXCLUDED.life_alignment,
            psychological = EXCLUDED.psychological,
            chemistry = EXCLUDED.chemistry,
            taste_learning = EXCLUDED.taste_learning,
            profile_completeness = EXCLUDED.profile_completeness,
            updated_at = CURRENT_TIMESTAMP
        RETURNING updated_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		config.LifeAlignment, config.Psychological, config.Chemistry,
		config.TasteLearning, config.ProfileCompleteness,
	).Scan(&config.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update weight config: %w", err)
	}

	config.ID = 1
	return nil
}

// Rating & Taste Vector Methods

func (r *postgresRepository) GetRatingsBetween(ctx context.Context, userA, userB int64) ([]*PairRating, error) {
	var ratings []*PairRating
	query := `
        SELECT event_id, rater_id, ratee_id, chemistry_rating, would_meet_again
        FROM date_ratings
        WHERE (rater_id = $1 AND ratee_id = $2) OR (rater_id = $2 AND ratee_id = $1)
        ORDER BY created_at
    `

	if err := r.db.SelectContext(ctx, &ratings, query, userA, userB); err != nil {
		return nil, fmt.Errorf("failed to get ratings between pair: %w", err)
	}

	return ratings, nil
}

func (r *postgresRepository) GetTasteVector(ctx context.Context, userID int64) ([]float64, error) {
	var vector pq.Float64Array
	query := `SELECT vector FROM taste_vectors WHERE user_id = $1`

	err := r.db.GetContext(ctx, &vector, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get taste vector: %w", err)
	}

	return vector, nil
}

func (r *postgresRepository) UpsertTasteVector(ctx context.Context, userID int64, vector []float64) error {
	query := `
        INSERT INTO taste_vectors (user_id, vector)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET
            vector = EXCLUDED.vector,
            updated_at = CURRENT_TIMESTAMP
    `

	if _, err := r.db.ExecContext(ctx, query, userID, pq.Array(vector)); err != nil {
		return fmt.Errorf("failed to upsert taste vector: %w", err)
	}

	return nil
}

func (r *postgresRepository) ListPositivelyRatedProfiles(ctx context.Context, userID int64) ([]*CompatibilityProfile, error) {
	// Profiles of partners this member rated well, the raw material for
	// the learned taste vector
	var profiles []*CompatibilityProfile
	query := `
        SELECT cp.*
        FROM date_ratings dr
        JOIN compatibility_profiles cp ON cp.user_id = dr.ratee_id
        WHERE dr.rater_id = $1
          AND (dr.would_meet_again = TRUE OR dr.chemistry_rating >= 4)
    `

	if err := r.db.SelectContext(ctx, &profiles, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list positively rated profiles: %w", err)
	}

	return profiles, nil
}
