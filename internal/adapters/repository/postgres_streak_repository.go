package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
)

type PostgresStreakRepository struct {
	db *sqlx.DB
}

func NewPostgresStreakRepository(db *sqlx.DB) *PostgresStreakRepository {
	return &PostgresStreakRepository{db: db}
}

func (r *PostgresStreakRepository) GetByUserID(ctx context.Context, userID string) (*domain.MoodStreak, error) {
	var streak domain.MoodStreak
	query := `SELECT * FROM user_streaks WHERE user_id = $1`

	err := r.db.GetContext(ctx, &streak, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStreakNotFound
		}
		return nil, err
	}
	return &streak, nil
}

// Upsert writes the full streak state. One row per user; created_at is
// kept from the first insert.
func (r *PostgresStreakRepository) Upsert(ctx context.Context, streak *domain.MoodStreak) error {
	query := `
		INSERT INTO user_streaks (
			user_id, current_streak, longest_streak,
			current_start_date, longest_start_date, longest_end_date,
			last_log_date, is_active, created_at, updated_at
		) VALUES (
			:user_id, :current_streak, :longest_streak,
			:current_start_date, :longest_start_date, :longest_end_date,
			:last_log_date, :is_active, :created_at, :updated_at
		)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			current_start_date = EXCLUDED.current_start_date,
			longest_start_date = EXCLUDED.longest_start_date,
			longest_end_date = EXCLUDED.longest_end_date,
			last_log_date = EXCLUDED.last_log_date,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.NamedExecContext(ctx, query, streak)
	return err
}

func (r *PostgresStreakRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_streaks WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrStreakNotFound
	}
	return nil
}

func (r *PostgresStreakRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	ids := []string{}

	err := r.db.SelectContext(ctx, &ids, `SELECT user_id FROM user_streaks ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
