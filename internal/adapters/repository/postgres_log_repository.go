package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"
)

type PostgresLogRepository struct {
	db *sqlx.DB
}

func NewPostgresLogRepository(db *sqlx.DB) *PostgresLogRepository {
	return &PostgresLogRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

// logColumns is the select list scanRow expects, mood attributes joined in.
const logColumns = `
	l.id, l.user_id, l.mood_id, l.activity_ids, l.note, l.logged_at,
	l.version, l.created_at, l.updated_at, l.deleted_at,
	m.name, m.emoji, m.color`

func (r *PostgresLogRepository) scanRow(row scannable) (*domain.MoodLog, error) {
	var l domain.MoodLog
	var activitiesJSON []byte

	err := row.Scan(
		&l.ID, &l.UserID, &l.MoodID, &activitiesJSON, &l.Note, &l.LoggedAt,
		&l.Version, &l.CreatedAt, &l.UpdatedAt, &l.DeletedAt,
		&l.MoodName, &l.MoodEmoji, &l.MoodColor,
	)
	if err != nil {
		return nil, err
	}

	if len(activitiesJSON) > 0 {
		if err := json.Unmarshal(activitiesJSON, &l.ActivityIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal activity ids: %w", err)
		}
	}

	return &l, nil
}

func (r *PostgresLogRepository) Create(ctx context.Context, entry *domain.MoodLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	activitiesJSON, err := json.Marshal(entry.ActivityIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal activity ids: %w", err)
	}

	query := `
		INSERT INTO mood_logs (
			id, user_id, mood_id, activity_ids, note, logged_at,
			version, created_at, updated_at, deleted_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			1, $7, $8, NULL
		)`

	_, err = r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.MoodID, activitiesJSON, entry.Note, entry.LoggedAt,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" {
				return errors.New("referenced mood or user does not exist")
			}
			if pqErr.Code == "23505" {
				return domain.ErrLogConflict
			}
		}
		return err
	}

	entry.Version = 1
	return nil
}

func (r *PostgresLogRepository) GetByID(ctx context.Context, id string) (*domain.MoodLog, error) {
	query := `
		SELECT ` + logColumns + `
		FROM mood_logs l
		JOIN moods m ON m.id = l.mood_id
		WHERE l.id = $1 AND l.deleted_at IS NULL`

	row := r.db.QueryRowContext(ctx, query, id)

	entry, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLogNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return entry, nil
}

func (r *PostgresLogRepository) ListByUserID(ctx context.Context, userID string, from, to time.Time) ([]*domain.MoodLog, error) {
	query := `
		SELECT ` + logColumns + `
		FROM mood_logs l
		JOIN moods m ON m.id = l.mood_id
		WHERE l.user_id = $1
		  AND l.logged_at >= $2
		  AND l.logged_at <= $3
		  AND l.deleted_at IS NULL
		ORDER BY l.logged_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	entries := []*domain.MoodLog{}

	for rows.Next() {
		entry, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *PostgresLogRepository) Update(ctx context.Context, entry *domain.MoodLog) error {
	activitiesJSON, err := json.Marshal(entry.ActivityIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal activity ids: %w", err)
	}

	query := `
		UPDATE mood_logs
		SET mood_id = $1,
		    activity_ids = $2,
		    note = $3,
		    logged_at = $4,
		    version = $5,
		    updated_at = $6
		WHERE id = $7
		  AND version = $5 - 1  -- Optimistic Lock check
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query,
		entry.MoodID, activitiesJSON, entry.Note, entry.LoggedAt,
		entry.Version, entry.UpdatedAt, entry.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		exists, _ := r.exists(ctx, entry.ID)
		if !exists {
			return domain.ErrLogNotFound
		}
		return domain.ErrLogConflict
	}

	return nil
}

func (r *PostgresLogRepository) Delete(ctx context.Context, id string, userID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE mood_logs
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE id = $2
		  AND user_id = $3 -- Security Check
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrLogNotFound
	}

	return nil
}

// ListLogDays returns the distinct calendar days (UTC) the user has live
// logs on, oldest first.
func (r *PostgresLogRepository) ListLogDays(ctx context.Context, userID string) ([]time.Time, error) {
	query := `
		SELECT DISTINCT (logged_at AT TIME ZONE 'UTC')::date AS log_day
		FROM mood_logs
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY log_day ASC`

	days := []time.Time{}

	err := r.db.SelectContext(ctx, &days, query, userID)
	if err != nil {
		return nil, err
	}
	return days, nil
}

func (r *PostgresLogRepository) CountByMoodID(ctx context.Context, moodID string) (int, error) {
	var count int
	query := `SELECT count(*) FROM mood_logs WHERE mood_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &count, query, moodID)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresLogRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM mood_logs WHERE id = $1", id)
	return count > 0, err
}
