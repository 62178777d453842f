package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/moodpulse/moodpulse-api/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresMoodRepository struct {
	db *sqlx.DB
}

func NewPostgresMoodRepository(db *sqlx.DB) *PostgresMoodRepository {
	return &PostgresMoodRepository{db: db}
}

func (r *PostgresMoodRepository) Create(ctx context.Context, mood *domain.Mood) error {
	query := `
		INSERT INTO moods (
			id, name, emoji, color, sort_order, created_at, updated_at
		) VALUES (
			:id, :name, :emoji, :color, :sort_order, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, mood)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrMoodAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresMoodRepository) GetByID(ctx context.Context, id string) (*domain.Mood, error) {
	var mood domain.Mood
	query := `SELECT * FROM moods WHERE id = $1`

	err := r.db.GetContext(ctx, &mood, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMoodNotFound
		}
		return nil, err
	}
	return &mood, nil
}

func (r *PostgresMoodRepository) List(ctx context.Context) ([]*domain.Mood, error) {
	moods := []*domain.Mood{}

	query := `SELECT * FROM moods ORDER BY sort_order ASC, name ASC`

	err := r.db.SelectContext(ctx, &moods, query)
	if err != nil {
		return nil, err
	}
	return moods, nil
}

func (r *PostgresMoodRepository) Update(ctx context.Context, mood *domain.Mood) error {
	query := `
		UPDATE moods
		SET name = :name,
		    emoji = :emoji,
		    color = :color,
		    sort_order = :sort_order,
		    updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, mood)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrMoodAlreadyExists
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMoodNotFound
	}
	return nil
}

func (r *PostgresMoodRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM moods WHERE id = $1`, id)
	if err != nil {
		// mood_logs holds a FK to moods.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return domain.ErrMoodInUse
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMoodNotFound
	}
	return nil
}
