package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"facturio/internal/port"
)

type counterRepo struct {
	db *sqlx.DB
}

// NewCounterRepo creates a new PostgreSQL-backed CounterRepository.
// Counters live in their own table, apart from documents: deleting a
// document must never free its number.
func NewCounterRepo(db *sqlx.DB) port.CounterRepository {
	return &counterRepo{db: db}
}

func (r *counterRepo) LoadCounters(ctx context.Context) (map[string]int, error) {
	rows := []struct {
		BucketKey    string `db:"bucket_key"`
		LastSequence int    `db:"last_sequence"`
	}{}
	err := r.db.SelectContext(ctx, &rows,
		"SELECT bucket_key, last_sequence FROM document_counters")
	if err != nil {
		return nil, fmt.Errorf("counterRepo.LoadCounters: %w", err)
	}

	counters := make(map[string]int, len(rows))
	for _, row := range rows {
		counters[row.BucketKey] = row.LastSequence
	}
	return counters, nil
}

func (r *counterRepo) SaveCounters(ctx context.Context, counters map[string]int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("counterRepo.SaveCounters: begin: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO document_counters (bucket_key, last_sequence)
		VALUES ($1, $2)
		ON CONFLICT (bucket_key) DO UPDATE SET last_sequence = EXCLUDED.last_sequence`
	for key, sequence := range counters {
		if _, err := tx.ExecContext(ctx, query, key, sequence); err != nil {
			return fmt.Errorf("counterRepo.SaveCounters: upsert %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("counterRepo.SaveCounters: commit: %w", err)
	}
	return nil
}
