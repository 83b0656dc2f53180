package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/jaskcalc/internal/database"
)

// TapeRepo handles tape entries.
type TapeRepo struct {
	db *sql.DB
}

func NewTapeRepo(db *sql.DB) *TapeRepo { return &TapeRepo{db: db} }

const insertTapeEntry = `
	INSERT INTO tape_entries(id, expression, result, is_error, created_at)
	VALUES(?, ?, ?, ?, ?);
	`

func (r *TapeRepo) Insert(ctx context.Context, e TapeEntry) error {
	return r.InsertBatch(ctx, []TapeEntry{e})
}

// InsertBatch stores entries in order within one transaction. Either all
// entries are stored or none.
func (r *TapeRepo) InsertBatch(ctx context.Context, entries []TapeEntry) error {
	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("insert tape entry: id is required")
		}
	}
	if len(entries) == 0 {
		return nil
	}
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, e := range entries {
			if _, err := tx.ExecContext(ctx, insertTapeEntry, e.ID, e.Expression, e.Result, e.IsError, e.CreatedAt.UTC()); err != nil {
				return fmt.Errorf("insert tape entry %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (r *TapeRepo) List(ctx context.Context, limit int) ([]TapeEntry, error) {
	query := `SELECT id, expression, result, is_error, created_at FROM tape_entries ORDER BY seq DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TapeEntry
	for rows.Next() {
		var e TapeEntry
		if err := rows.Scan(&e.ID, &e.Expression, &e.Result, &e.IsError, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *TapeRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tape_entries`).Scan(&n)
	return n, err
}

func (r *TapeRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tape_entries`)
	return err
}
