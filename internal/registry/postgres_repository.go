package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository implements Repository using PostgreSQL via sqlx.
type PostgresRepository struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

// NewPostgresRepository creates a new PostgreSQL grammar registry repository.
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) getContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if r.tx != nil {
		return r.tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *PostgresRepository) selectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if r.tx != nil {
		return r.tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}

func (r *PostgresRepository) queryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	if r.tx != nil {
		return r.tx.QueryRowxContext(ctx, query, args...)
	}
	return r.db.QueryRowxContext(ctx, query, args...)
}

func (r *PostgresRepository) execContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if r.tx != nil {
		return r.tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *PostgresRepository) Create(ctx context.Context, rec *GrammarRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	query := `
		INSERT INTO "metagrammar".grammar_records
		(id, name, source, version, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.queryRowxContext(ctx, query,
		rec.ID, rec.Name, rec.Source, rec.Version, rec.Active,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create grammar record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*GrammarRecord, error) {
	var rec GrammarRecord
	query := `
		SELECT id, name, source, version, active, created_at, updated_at
		FROM "metagrammar".grammar_records
		WHERE id = $1`

	err := r.getContext(ctx, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("grammar record not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grammar record: %w", err)
	}
	return &rec, nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*GrammarRecord, error) {
	var rec GrammarRecord
	query := `
		SELECT id, name, source, version, active, created_at, updated_at
		FROM "metagrammar".grammar_records
		WHERE name = $1 AND active = true
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.getContext(ctx, &rec, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("grammar record not found: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grammar record by name: %w", err)
	}
	return &rec, nil
}

func (r *PostgresRepository) List(ctx context.Context, activeOnly bool) ([]*GrammarRecord, error) {
	var recs []*GrammarRecord
	query := `
		SELECT id, name, source, version, active, created_at, updated_at
		FROM "metagrammar".grammar_records`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name, created_at DESC`

	if err := r.selectContext(ctx, &recs, query); err != nil {
		return nil, fmt.Errorf("failed to list grammar records: %w", err)
	}
	return recs, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rec *GrammarRecord) error {
	query := `
		UPDATE "metagrammar".grammar_records
		SET source = $2, version = $3, active = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.queryRowxContext(ctx, query, rec.ID, rec.Source, rec.Version, rec.Active).Scan(&rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("grammar record not found: %s", rec.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update grammar record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM "metagrammar".grammar_records WHERE id = $1`
	result, err := r.execContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete grammar record: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm grammar record deletion: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("grammar record not found: %s", id)
	}
	return nil
}

func (r *PostgresRepository) Activate(ctx context.Context, id string) error {
	query := `UPDATE "metagrammar".grammar_records SET active = true, updated_at = now() WHERE id = $1`
	result, err := r.execContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to activate grammar record: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm grammar record activation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("grammar record not found: %s", id)
	}
	return nil
}
