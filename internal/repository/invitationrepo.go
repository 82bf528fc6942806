package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/openscholar/reviewd/internal/model"
)

// InvitationRepository tracks pending editor invitations per paper.
type InvitationRepository interface {
	// Create records a pending invitation.
	Create(ctx context.Context, inv *model.Invitation) error

	// ResolvePending marks this editor's pending invitations for the paper
	// as accepted. Resolving zero rows is not an error.
	ResolvePending(ctx context.Context, paperID, editorID uuid.UUID) error

	// ExpireAllForPaper expires every pending invitation for the paper and
	// reports how many were expired.
	ExpireAllForPaper(ctx context.Context, paperID uuid.UUID) (int64, error)

	// ListByPaper returns all invitations for a paper, newest first.
	ListByPaper(ctx context.Context, paperID uuid.UUID) ([]model.Invitation, error)
}
