package checks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/myposcore/backend/internal/collection"
)

var (
	ErrNotFound  = errors.New("check run not found")
	ErrDuplicate = errors.New("check run already recorded")
)

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

// Create inserts run and fills its ID and CreatedAt.
func (r *Repo) Create(ctx context.Context, run *Run) error {
	const q = `
INSERT INTO collection_checks (name, fingerprint, total, valid, issues)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

	issues, err := json.Marshal(run.Issues)
	if err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}
	err = r.pg.QueryRow(ctx, q, run.Name, run.Fingerprint, run.Total, run.Valid, issues).
		Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*Run, error) {
	const q = `
SELECT id, name, fingerprint, total, valid, issues, created_at
FROM collection_checks
WHERE id = $1
LIMIT 1`

	return scanRun(r.pg.QueryRow(ctx, q, id))
}

// List returns a page of runs, newest first, and the total row count.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]Run, int64, error) {
	var total int64
	if err := r.pg.QueryRow(ctx, `SELECT count(*) FROM collection_checks`).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
SELECT id, name, fingerprint, total, valid, issues, created_at
FROM collection_checks
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`

	rows, err := r.pg.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

func scanRun(row pgx.Row) (*Run, error) {
	var run Run
	var issues []byte
	err := row.Scan(&run.ID, &run.Name, &run.Fingerprint, &run.Total, &run.Valid, &issues, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(issues, &run.Issues); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	if run.Issues == nil {
		run.Issues = []collection.Issue{}
	}
	return &run, nil
}
