package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
)

type PostgresBadgeRepository struct {
	db *sqlx.DB
}

func NewPostgresBadgeRepository(db *sqlx.DB) *PostgresBadgeRepository {
	return &PostgresBadgeRepository{db: db}
}

func (r *PostgresBadgeRepository) Create(ctx context.Context, badge *domain.Badge) error {
	query := `
		INSERT INTO badges (
			id, code, name, description, icon, streak_target, created_at, updated_at
		) VALUES (
			:id, :code, :name, :description, :icon, :streak_target, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, badge)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrBadgeAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresBadgeRepository) List(ctx context.Context) ([]*domain.Badge, error) {
	badges := []*domain.Badge{}

	query := `SELECT * FROM badges ORDER BY streak_target ASC`

	err := r.db.SelectContext(ctx, &badges, query)
	if err != nil {
		return nil, err
	}
	return badges, nil
}

// Award grants a badge exactly once per user. Returns true when this call
// created the grant, false when the user already held it.
func (r *PostgresBadgeRepository) Award(ctx context.Context, userID, badgeID string, awardedAt time.Time) (bool, error) {
	query := `
		INSERT INTO user_badges (user_id, badge_id, awarded_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, badge_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, userID, badgeID, awardedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return false, errors.New("referenced badge or user does not exist")
		}
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *PostgresBadgeRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.UserBadge, error) {
	query := `
		SELECT ub.user_id, ub.badge_id, ub.awarded_at,
		       b.id, b.code, b.name, b.description, b.icon, b.streak_target,
		       b.created_at, b.updated_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.awarded_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	earned := []*domain.UserBadge{}

	for rows.Next() {
		var ub domain.UserBadge
		var b domain.Badge

		err := rows.Scan(
			&ub.UserID, &ub.BadgeID, &ub.AwardedAt,
			&b.ID, &b.Code, &b.Name, &b.Description, &b.Icon, &b.StreakTarget,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}

		ub.Badge = &b
		earned = append(earned, &ub)
	}

	return earned, rows.Err()
}
