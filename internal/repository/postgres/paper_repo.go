package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/openscholar/reviewd/internal/errs"
	"github.com/openscholar/reviewd/internal/model"
	"github.com/openscholar/reviewd/internal/repository"
)

// PaperRepo implements PaperRepository using PostgreSQL.
type PaperRepo struct{ db *DB }

// NewPaperRepo constructs a paper repository.
func NewPaperRepo(db *DB) *PaperRepo { return &PaperRepo{db: db} }

const paperCols = `
id, sha, title, repository_url, software_version, body, submission_kind, state,
track_id, editor_id, eic_id, reviewers, meta_review_issue_id, review_issue_id,
repository_doi, data_doi, book_doi, docker_doi, metadata,
created_at, accepted_at, last_activity`

// Create inserts a new paper row in its initial state.
func (r *PaperRepo) Create(ctx context.Context, p *model.Paper) error {
	const q = `
INSERT INTO papers (id, sha, title, repository_url, software_version, body, submission_kind, state, track_id, reviewers)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Pool.Exec(ctx, q,
		p.ID, p.SHA, p.Title, p.RepositoryURL, p.SoftwareVersion, p.Body,
		p.SubmissionKind, p.State, p.TrackID, p.Reviewers)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: paper already exists", errs.ErrValidation)
	}
	return err
}

// GetBySHA selects a paper by its public identifier.
func (r *PaperRepo) GetBySHA(ctx context.Context, sha string) (*model.Paper, error) {
	q := `SELECT ` + paperCols + ` FROM papers WHERE sha=$1`
	row := r.db.Pool.QueryRow(ctx, q, sha)

	var (
		p     model.Paper
		state string
		md    []byte
	)
	err := row.Scan(&p.ID, &p.SHA, &p.Title, &p.RepositoryURL, &p.SoftwareVersion,
		&p.Body, &p.SubmissionKind, &state,
		&p.TrackID, &p.EditorID, &p.EICID, &p.Reviewers,
		&p.MetaReviewIssueID, &p.ReviewIssueID,
		&p.RepositoryDOI, &p.DataDOI, &p.BookDOI, &p.DockerDOI, &md,
		&p.CreatedAt, &p.AcceptedAt, &p.LastActivity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	p.State = model.State(state)
	if len(md) > 0 {
		p.Metadata = &model.Metadata{}
		if err := json.Unmarshal(md, p.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", sha, err)
		}
	}
	return &p, nil
}

// ClaimMetaReview advances submitted->review_pending and stores the
// meta-review issue id in one conditional update. The write-once guard on
// the issue id is the concurrency mechanism: the losing side of a race sees
// zero rows affected and reports a duplicate ticket.
func (r *PaperRepo) ClaimMetaReview(ctx context.Context, sha string, issueID int64, eicID uuid.UUID, trackID uuid.NullUUID) error {
	const q = `
UPDATE papers
SET meta_review_issue_id = $2,
    eic_id = $3,
    track_id = COALESCE($4, track_id),
    state = 'review_pending'
WHERE sha = $1 AND meta_review_issue_id IS NULL AND state = 'submitted'`
	tag, err := r.db.Pool.Exec(ctx, q, sha, issueID, eicID, trackID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrDuplicateTicket
	}
	return nil
}

// ClaimReview advances review_pending->under_review and stores the review
// issue id, editor and reviewer list under the same write-once guard.
func (r *PaperRepo) ClaimReview(ctx context.Context, sha string, issueID int64, editorID uuid.UUID, reviewers []string) error {
	const q = `
UPDATE papers
SET review_issue_id = $2,
    editor_id = $3,
    reviewers = $4,
    state = 'under_review'
WHERE sha = $1 AND review_issue_id IS NULL AND state = 'review_pending'`
	tag, err := r.db.Pool.Exec(ctx, q, sha, issueID, editorID, reviewers)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrDuplicateTicket
	}
	return nil
}

// UpdateState applies an unconditional transition as an expected-state CAS.
// accepted_at is stamped when the paper lands in accepted.
func (r *PaperRepo) UpdateState(ctx context.Context, sha string, from, to model.State) error {
	const q = `
UPDATE papers
SET state = $3,
    accepted_at = CASE WHEN $3 = 'accepted' THEN now() ELSE accepted_at END
WHERE sha = $1 AND state = $2`
	tag, err := r.db.Pool.Exec(ctx, q, sha, string(from), string(to))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrInvalidTransition
	}
	return nil
}

// OverrideState writes the state directly, refusing only to leave a sink.
func (r *PaperRepo) OverrideState(ctx context.Context, sha string, to model.State) error {
	const q = `
UPDATE papers
SET state = $2
WHERE sha = $1 AND state NOT IN ('accepted', 'rejected', 'retracted', 'withdrawn')`
	tag, err := r.db.Pool.Exec(ctx, q, sha, string(to))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrTerminalState
	}
	return nil
}

// SetTrack updates the track pointer.
func (r *PaperRepo) SetTrack(ctx context.Context, sha string, trackID uuid.UUID) error {
	const q = `UPDATE papers SET track_id = $2 WHERE sha = $1`
	tag, err := r.db.Pool.Exec(ctx, q, sha, trackID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SetMetadata attaches the bibliographic deposit as JSONB.
func (r *PaperRepo) SetMetadata(ctx context.Context, sha string, md *model.Metadata) error {
	raw, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	const q = `UPDATE papers SET metadata = $2 WHERE sha = $1`
	tag, err := r.db.Pool.Exec(ctx, q, sha, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SetArchives records the archival DOIs.
func (r *PaperRepo) SetArchives(ctx context.Context, sha string, a repository.Archives) error {
	const q = `
UPDATE papers
SET repository_doi = $2, data_doi = $3, book_doi = $4, docker_doi = $5
WHERE sha = $1`
	tag, err := r.db.Pool.Exec(ctx, q, sha, a.RepositoryDOI, a.DataDOI, a.BookDOI, a.DockerDOI)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
