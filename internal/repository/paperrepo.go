// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/openscholar/reviewd/internal/model"
)

// Archives bundles the four archival DOIs set after acceptance workflows.
type Archives struct {
	RepositoryDOI string
	DataDOI       string
	BookDOI       string
	DockerDOI     string
}

// PaperRepository provides durable access to papers. The two Start* claims
// and UpdateState are single conditional updates so concurrent transition
// attempts race on the database row, not on in-memory checks.
type PaperRepository interface {
	// Create inserts a new paper in its initial state.
	Create(ctx context.Context, p *model.Paper) error

	// GetBySHA loads a paper by its public identifier.
	GetBySHA(ctx context.Context, sha string) (*model.Paper, error)

	// ClaimMetaReview stores the meta-review issue id, assigns the EIC,
	// optionally reassigns the track and advances submitted->review_pending,
	// all guarded by "issue id still unset and state still submitted".
	// Returns errs.ErrDuplicateTicket when the guard does not hold.
	ClaimMetaReview(ctx context.Context, sha string, issueID int64, eicID uuid.UUID, trackID uuid.NullUUID) error

	// ClaimReview stores the review issue id, assigns the editor and the
	// reviewer list and advances review_pending->under_review under the same
	// write-once guard as ClaimMetaReview.
	ClaimReview(ctx context.Context, sha string, issueID int64, editorID uuid.UUID, reviewers []string) error

	// UpdateState moves a paper from an expected state to a new one.
	// Sets accepted_at when the target is accepted. Returns
	// errs.ErrInvalidTransition when the row is no longer in `from`.
	UpdateState(ctx context.Context, sha string, from, to model.State) error

	// OverrideState writes the state directly, refusing only to leave a
	// terminal sink. Administrative escape hatch for review_completed,
	// superceded and retracted.
	OverrideState(ctx context.Context, sha string, to model.State) error

	// SetTrack updates the track pointer.
	SetTrack(ctx context.Context, sha string, trackID uuid.UUID) error

	// SetMetadata attaches the external bibliographic deposit.
	SetMetadata(ctx context.Context, sha string, md *model.Metadata) error

	// SetArchives records the archival DOIs.
	SetArchives(ctx context.Context, sha string, a Archives) error
}
