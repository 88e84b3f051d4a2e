package ratings

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	InsertRating(ctx context.Context, rating *DateRating) error
	ListRatingsByRater(ctx context.Context, raterID int64) ([]*DateRating, error)
	InsertFeedback(ctx context.Context, feedback *EventFeedback) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) InsertRating(ctx context.Context, rating *DateRating) error {
	query := `
        INSERT INTO date_ratings (event_id, rater_id, ratee_id, chemistry_rating, would_meet_again)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		rating.EventID, rating.RaterID, rating.RateeID,
		rating.ChemistryRating, rating.WouldMeetAgain,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateRating
		}
		return fmt.Errorf("failed to insert rating: %w", err)
	}

	return nil
}

func (r *postgresRepository) ListRatingsByRater(ctx context.Context, raterID int64) ([]*DateRating, error) {
	var ratings []*DateRating
	query := `SELECT * FROM date_ratings WHERE rater_id = $1 ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &ratings, query, raterID); err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	return ratings, nil
}

func (r *postgresRepository) InsertFeedback(ctx context.Context, feedback *EventFeedback) error {
	query := `
        INSERT INTO event_feedback (event_id, user_id, event_rating, comments)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (event_id, user_id) DO UPDATE SET
            event_rating = EXCLUDED.event_rating,
            comments = EXCLUDED.comments
        RETURNING id, created_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		feedback.EventID, feedback.UserID, feedback.EventRating, feedback.Comments,
	).Scan(&feedback.ID, &feedback.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save event feedback: %w", err)
	}

	return nil
}
