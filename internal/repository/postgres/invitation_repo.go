package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/openscholar/reviewd/internal/model"
)

// InvitationRepo implements InvitationRepository using PostgreSQL.
type InvitationRepo struct{ db *DB }

// NewInvitationRepo constructs an invitation repository.
func NewInvitationRepo(db *DB) *InvitationRepo { return &InvitationRepo{db: db} }

// Create records a pending invitation.
func (r *InvitationRepo) Create(ctx context.Context, inv *model.Invitation) error {
	const q = `
INSERT INTO invitations (id, paper_id, editor_id, status)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, inv.ID, inv.PaperID, inv.EditorID, string(inv.Status))
	return err
}

// ResolvePending marks this editor's pending invitations as accepted.
func (r *InvitationRepo) ResolvePending(ctx context.Context, paperID, editorID uuid.UUID) error {
	const q = `
UPDATE invitations
SET status = 'accepted', updated_at = now()
WHERE paper_id = $1 AND editor_id = $2 AND status = 'pending'`
	_, err := r.db.Pool.Exec(ctx, q, paperID, editorID)
	return err
}

// ExpireAllForPaper expires every pending invitation for the paper.
func (r *InvitationRepo) ExpireAllForPaper(ctx context.Context, paperID uuid.UUID) (int64, error) {
	const q = `
UPDATE invitations
SET status = 'expired', updated_at = now()
WHERE paper_id = $1 AND status = 'pending'`
	tag, err := r.db.Pool.Exec(ctx, q, paperID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListByPaper returns all invitations for a paper, newest first.
func (r *InvitationRepo) ListByPaper(ctx context.Context, paperID uuid.UUID) ([]model.Invitation, error) {
	const q = `
SELECT id, paper_id, editor_id, status, created_at, updated_at
FROM invitations
WHERE paper_id = $1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, paperID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Invitation
	for rows.Next() {
		var (
			inv    model.Invitation
			status string
		)
		if err = rows.Scan(&inv.ID, &inv.PaperID, &inv.EditorID, &status, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		inv.Status = model.InvitationStatus(status)
		out = append(out, inv)
	}
	return out, rows.Err()
}
