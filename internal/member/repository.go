package member

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetByID(ctx context.Context, userID int64) (*Member, error)
	UpdateProfile(ctx context.Context, userID int64, updates map[string]interface{}) (*Member, error)
	UpdateSubscriptionTier(ctx context.Context, userID int64, tier string) error
	Deactivate(ctx context.Context, userID int64) error
	TouchLastActive(ctx context.Context, userID int64) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetByID(ctx context.Context, userID int64) (*Member, error) {
	var member Member
	query := `SELECT * FROM members WHERE id = $1`

	err := r.db.GetContext(ctx, &member, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return &member, nil
}

// UpdateProfile applies a partial update. The updates map is built by the
// service from the validated DTO, so column names are trusted here.
func (r *postgresRepository) UpdateProfile(ctx context.Context, userID int64, updates map[string]interface{}) (*Member, error) {
	if len(updates) == 0 {
		return r.GetByID(ctx, userID)
	}

	setClauses := make([]string, 0, len(updates)+1)
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for column, value := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, value)
		i++
	}
	setClauses = append(setClauses, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, userID)

	query := fmt.Sprintf(
		`UPDATE members SET %s WHERE id = $%d RETURNING *`,
		strings.Join(setClauses, ", "), i,
	)

	var member Member
	err := r.db.GetContext(ctx, &member, query, args...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return &member, nil
}

func (r *postgresRepository) UpdateSubscriptionTier(ctx context.Context, userID int64, tier string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE members SET subscription_tier = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		tier, userID)
	if err != nil {
		return fmt.Errorf("failed to update subscription tier: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *postgresRepository) Deactivate(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE members SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate member: %w", err)
	}

	return nil
}

func (r *postgresRepository) TouchLastActive(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE members SET last_active = $1 WHERE id = $2`,
		time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update last active: %w", err)
	}

	return nil
}
