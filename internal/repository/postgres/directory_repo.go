package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/openscholar/reviewd/internal/errs"
	"github.com/openscholar/reviewd/internal/model"
)

// EditorRepo implements EditorRepository using PostgreSQL.
type EditorRepo struct{ db *DB }

// NewEditorRepo constructs an editor repository.
func NewEditorRepo(db *DB) *EditorRepo { return &EditorRepo{db: db} }

// GetByLogin resolves an editor by handle.
func (r *EditorRepo) GetByLogin(ctx context.Context, login string) (*model.Editor, error) {
	const q = `
SELECT id, login, full_name, email
FROM editors WHERE login=$1`
	row := r.db.Pool.QueryRow(ctx, q, login)
	var e model.Editor
	if err := row.Scan(&e.ID, &e.Login, &e.FullName, &e.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetByID selects an editor by id.
func (r *EditorRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Editor, error) {
	const q = `
SELECT id, login, full_name, email
FROM editors WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var e model.Editor
	if err := row.Scan(&e.ID, &e.Login, &e.FullName, &e.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// TrackRepo implements TrackRepository using PostgreSQL.
type TrackRepo struct{ db *DB }

// NewTrackRepo constructs a track repository.
func NewTrackRepo(db *DB) *TrackRepo { return &TrackRepo{db: db} }

// GetByID selects a track by id.
func (r *TrackRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Track, error) {
	const q = `
SELECT id, label, name
FROM tracks WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var t model.Track
	if err := row.Scan(&t.ID, &t.Label, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
