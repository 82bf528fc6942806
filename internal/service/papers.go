// Package service contains the application service orchestrating the paper
// review lifecycle: transition validation, tracker side effects, invitations
// and notifications.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/openscholar/reviewd/internal/errs"
	"github.com/openscholar/reviewd/internal/lifecycle"
	"github.com/openscholar/reviewd/internal/model"
	"github.com/openscholar/reviewd/internal/notify"
	"github.com/openscholar/reviewd/internal/repository"
	"github.com/openscholar/reviewd/internal/tracker"
)

// Config carries the settings the lifecycle needs, passed explicitly so the
// service is testable without environment setup.
type Config struct {
	TrackerRepo string // owner/repo that holds review tickets
}

// SubmitRequest is a new submission from the form.
type SubmitRequest struct {
	Title           string
	RepositoryURL   string
	SoftwareVersion string
	Body            string
	SubmissionKind  string
	TrackID         uuid.UUID
	AuthorEmail     string
}

// PaperService defines the editorial operations over papers.
type PaperService interface {
	// Submit validates and stores a new paper in the submitted state.
	Submit(ctx context.Context, req SubmitRequest) (*model.Paper, error)
	// Get loads a paper by its public sha.
	Get(ctx context.Context, sha string) (*model.Paper, error)

	// StartMetaReview opens the pre-review ticket and moves
	// submitted->review_pending. The state does not advance unless the
	// ticket genuinely exists.
	StartMetaReview(ctx context.Context, sha, suggestedEditor, eicLogin string, newTrackID uuid.NullUUID) error
	// StartReview opens the review ticket, assigns the editor and reviewers
	// and moves review_pending->under_review.
	StartReview(ctx context.Context, sha, editorLogin string, reviewers []string, branch string) error
	// Accept moves the paper to accepted and stamps accepted_at.
	Accept(ctx context.Context, sha string) error
	// Reject moves the paper to rejected and expires pending invitations.
	Reject(ctx context.Context, sha string) error
	// Withdraw moves the paper to withdrawn.
	Withdraw(ctx context.Context, sha string) error
	// OverrideState writes a state directly (review_completed, superceded,
	// retracted); it refuses to leave a terminal sink.
	OverrideState(ctx context.Context, sha string, to model.State) error

	// InviteEditor records a pending invitation and notifies the editor.
	InviteEditor(ctx context.Context, sha, editorLogin string) error
	// MoveToTrack changes the paper's track and relabels open tickets.
	MoveToTrack(ctx context.Context, sha string, newTrackID uuid.UUID) error
	// PostReviewComment appends a comment to the review ticket.
	PostReviewComment(ctx context.Context, sha, text string) error
	// SetMetadata attaches the external bibliographic deposit.
	SetMetadata(ctx context.Context, sha string, md *model.Metadata) error
	// SetArchives records the archival DOIs.
	SetArchives(ctx context.Context, sha string, a repository.Archives) error
}

// PaperServiceImpl implements PaperService over the repositories and gateways.
type PaperServiceImpl struct {
	papers   repository.PaperRepository
	invites  repository.InvitationRepository
	editors  repository.EditorRepository
	tracks   repository.TrackRepository
	tracker  tracker.Gateway
	notifier notify.Notifier
	checker  RepoChecker
	cfg      Config
	log      *zap.Logger
}

// NewPaperService constructs the service with its collaborators.
func NewPaperService(
	papers repository.PaperRepository,
	invites repository.InvitationRepository,
	editors repository.EditorRepository,
	tracks repository.TrackRepository,
	gw tracker.Gateway,
	notifier notify.Notifier,
	checker RepoChecker,
	cfg Config,
	log *zap.Logger,
) *PaperServiceImpl {
	return &PaperServiceImpl{
		papers:   papers,
		invites:  invites,
		editors:  editors,
		tracks:   tracks,
		tracker:  gw,
		notifier: notifier,
		checker:  checker,
		cfg:      cfg,
		log:      log,
	}
}

// newSHA generates the public content token, 32 hex chars.
func newSHA() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

// Submit validates the submission, probes the repository address and stores
// the paper. Notifications to the editorial team and the author are
// fire-and-forget.
func (s *PaperServiceImpl) Submit(ctx context.Context, req SubmitRequest) (*model.Paper, error) {
	var problems []string
	if req.Title == "" {
		problems = append(problems, "the paper must have a title")
	}
	if req.RepositoryURL == "" {
		problems = append(problems, "repository address can't be blank")
	}
	if req.SoftwareVersion == "" {
		problems = append(problems, "version can't be blank")
	}
	if req.Body == "" {
		problems = append(problems, "description can't be blank")
	}
	if !validSubmissionKind(req.SubmissionKind) {
		problems = append(problems, "you must select a submission type")
	}
	if req.TrackID == uuid.Nil {
		problems = append(problems, "you must select a valid subject for the paper")
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrValidation, strings.Join(problems, "; "))
	}

	if _, err := s.tracks.GetByID(ctx, req.TrackID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrUnknownTrack
		}
		return nil, err
	}
	if err := s.checker.Check(ctx, req.RepositoryURL); err != nil {
		return nil, err
	}

	sha, err := newSHA()
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	p := &model.Paper{
		ID:              id,
		SHA:             sha,
		Title:           req.Title,
		RepositoryURL:   req.RepositoryURL,
		SoftwareVersion: req.SoftwareVersion,
		Body:            req.Body,
		SubmissionKind:  req.SubmissionKind,
		State:           model.Submitted,
		TrackID:         uuid.NullUUID{UUID: req.TrackID, Valid: true},
		Reviewers:       []string{},
	}
	if err := s.papers.Create(ctx, p); err != nil {
		return nil, err
	}

	s.send(ctx, notify.KindSubmissionReceived, notify.Payload{
		PaperSHA: p.SHA, Title: p.Title, RepositoryURL: p.RepositoryURL,
	})
	s.send(ctx, notify.KindAuthorConfirmation, notify.Payload{
		PaperSHA: p.SHA, Title: p.Title, Recipient: req.AuthorEmail,
	})
	return p, nil
}

// Get loads a paper by sha.
func (s *PaperServiceImpl) Get(ctx context.Context, sha string) (*model.Paper, error) {
	return s.papers.GetBySHA(ctx, sha)
}

// StartMetaReview runs the guarded submitted->review_pending transition.
// Order matters: the duplicate check happens before any tracker call, the
// ticket is created before any state is persisted, and the persistence step
// is a single conditional update so a concurrent winner makes this call
// abort with ErrDuplicateTicket.
func (s *PaperServiceImpl) StartMetaReview(ctx context.Context, sha, suggestedEditor, eicLogin string, newTrackID uuid.NullUUID) error {
	p, err := s.papers.GetBySHA(ctx, sha)
	if err != nil {
		return err
	}
	if p.MetaReviewIssueID != nil {
		return errs.ErrDuplicateTicket
	}
	if _, err := lifecycle.Next(p.State, lifecycle.StartMetaReview); err != nil {
		return err
	}

	eic, err := s.editors.GetByLogin(ctx, eicLogin)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("%w: %s", errs.ErrUnknownEditor, eicLogin)
		}
		return err
	}

	labels := []string{"pre-review"}
	trackID := p.TrackID
	if newTrackID.Valid {
		trackID = newTrackID
	}
	if trackID.Valid {
		track, err := s.tracks.GetByID(ctx, trackID.UUID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.ErrUnknownTrack
			}
			return err
		}
		labels = append(labels, track.Label)
	}

	issueID, err := s.tracker.CreateIssue(ctx, s.cfg.TrackerRepo, tracker.IssueRequest{
		Title:  "[PRE REVIEW]: " + p.Title,
		Body:   metaReviewBody(p, suggestedEditor, eic.FullName),
		Labels: labels,
	})
	if err != nil {
		return err
	}

	if err := s.papers.ClaimMetaReview(ctx, sha, issueID, eic.ID, newTrackID); err != nil {
		if errors.Is(err, errs.ErrDuplicateTicket) {
			// Lost a race after creating the ticket; the ticket is orphaned
			// and needs a human to close it.
			s.log.Error("orphaned meta-review ticket after concurrent claim",
				zap.String("sha", sha),
				zap.Int64("issue", issueID),
			)
		}
		return err
	}
	s.log.Info("meta review started", zap.String("sha", sha), zap.Int64("issue", issueID))
	return nil
}

// StartReview runs the guarded review_pending->under_review transition and
// resolves the editor's pending invitation once the claim commits.
func (s *PaperServiceImpl) StartReview(ctx context.Context, sha, editorLogin string, reviewers []string, branch string) error {
	p, err := s.papers.GetBySHA(ctx, sha)
	if err != nil {
		return err
	}
	if p.ReviewIssueID != nil {
		return errs.ErrDuplicateTicket
	}
	if _, err := lifecycle.Next(p.State, lifecycle.StartReview); err != nil {
		return err
	}

	editor, err := s.editors.GetByLogin(ctx, editorLogin)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("%w: %s", errs.ErrUnknownEditor, editorLogin)
		}
		return err
	}

	handles := normalizeHandles(reviewers)
	labels := []string{"review"}
	if p.TrackID.Valid {
		if track, err := s.tracks.GetByID(ctx, p.TrackID.UUID); err == nil {
			labels = append(labels, track.Label)
		}
	}

	issueID, err := s.tracker.CreateIssue(ctx, s.cfg.TrackerRepo, tracker.IssueRequest{
		Title:     "[REVIEW]: " + p.Title,
		Body:      reviewBody(p, editor.Login, handles, branch),
		Assignees: []string{editor.Login},
		Labels:    labels,
	})
	if err != nil {
		return err
	}

	if err := s.papers.ClaimReview(ctx, sha, issueID, editor.ID, handles); err != nil {
		if errors.Is(err, errs.ErrDuplicateTicket) {
			s.log.Error("orphaned review ticket after concurrent claim",
				zap.String("sha", sha),
				zap.Int64("issue", issueID),
			)
		}
		return err
	}

	// Follow-up on a committed transition: failure is operator-visible, not
	// a rollback.
	if err := s.invites.ResolvePending(ctx, p.ID, editor.ID); err != nil {
		s.log.Error("resolving pending invitation failed",
			zap.String("sha", sha),
			zap.String("editor", editor.Login),
			zap.Error(err),
		)
	}
	s.log.Info("review started", zap.String("sha", sha), zap.Int64("issue", issueID))
	return nil
}

// Accept runs the unconditional transition to accepted.
func (s *PaperServiceImpl) Accept(ctx context.Context, sha string) error {
	return s.transition(ctx, sha, lifecycle.Accept)
}

// Reject runs the unconditional transition to rejected and expires every
// pending invitation for the paper.
func (s *PaperServiceImpl) Reject(ctx context.Context, sha string) error {
	p, err := s.papers.GetBySHA(ctx, sha)
	if err != nil {
		return err
	}
	next, err := lifecycle.Next(p.State, lifecycle.Reject)
	if err != nil {
		return err
	}
	if err := s.papers.UpdateState(ctx, sha, p.State, next); err != nil {
		return err
	}
	n, err := s.invites.ExpireAllForPaper(ctx, p.ID)
	if err != nil {
		// State is committed; surface the divergence without reversing it.
		s.log.Error("expiring invitations failed after reject",
			zap.String("sha", sha),
			zap.Error(err),
		)
		return err
	}
	if n > 0 {
		s.log.Info("invitations expired", zap.String("sha", sha), zap.Int64("count", n))
	}
	return nil
}

// Withdraw runs the unconditional transition to withdrawn.
func (s *PaperServiceImpl) Withdraw(ctx context.Context, sha string) error {
	return s.transition(ctx, sha, lifecycle.Withdraw)
}

func (s *PaperServiceImpl) transition(ctx context.Context, sha string, ev lifecycle.Event) error {
	p, err := s.papers.GetBySHA(ctx, sha)
	if err != nil {
		return err
	}
	next, err := lifecycle.Next(p.State, ev)
	if err != nil {
		return err
	}
	return s.papers.UpdateState(ctx, sha, p.State, next)
}

// OverrideState is the administrative escape hatch for states without an
// inbound event. Only those states may be written directly; everything else
// goes through the event table, so the override can neither skip the
// acceptance stamp nor re-enter an exited state.
func (s *PaperServiceImpl) OverrideState(ctx context.Context, sha string, to model.State) error {
	switch to {
	case model.ReviewCompleted, model.Superceded, model.Retracted:
	default:
		return fmt.Errorf("%w: state %q cannot be set directly", errs.ErrValidation, to)
	}
	p, err := s.papers.GetBySHA(ctx, sha)
	if err != nil {
		return err
	}
	if lifecycle.Terminal(p.State) {
		return errs.ErrTerminalState
	}
	return s.papers.OverrideState(ctx, sha, to)
}

// InviteEditor records a pending invitation for the paper. It does not
// change the paper's state.
func (s *PaperServiceImpl) InviteEditor(ctx context.Context, sha, editorLogin string) error {
	p, err := s.papers.GetBySHA(ctx, sha)
	if err != nil {
		return err
	}
	editor, err := s.editors.GetByLogin(ctx, editorLogin)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("%w: %s", errs.ErrUnknownEditor, editorLogin)
		}
		return err
	}

	s.send(ctx, notify.KindEditorInvited, notify.Payload{
		PaperSHA: p.SHA, Title: p.Title, Editor: editor.Login, Recipient: editor.Email,
	})

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	return s.invites.Create(ctx, &model.Invitation{
		ID:       id,
		PaperID:  p.ID,
		EditorID: editor.ID,
		Status:   model.InvitePending,
	})
}

// MoveToTrack changes the paper's track. The pointer commits first; label
// changes on open tickets are best-effort and a tracker failure surfaces
// without reversing the pointer (last-writer-wins, intentional).
func (s *PaperServiceImpl) MoveToTrack(ctx context.Context, sha string, newTrackID uuid.UUID) error {
	p, err := s.papers.GetBySHA(ctx, sha)
	if err != nil {
		return err
	}
	if lifecycle.Terminal(p.State) {
		return errs.ErrTerminalState
	}

	newTrack, err := s.tracks.GetByID(ctx, newTrackID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.ErrUnknownTrack
		}
		return err
	}

	currentLabel := ""
	if p.TrackID.Valid {
		if cur, err := s.tracks.GetByID(ctx, p.TrackID.UUID); err == nil {
			currentLabel = cur.Label
		}
	}
	if currentLabel == newTrack.Label {
		return nil
	}

	if err := s.papers.SetTrack(ctx, sha, newTrack.ID); err != nil {
		return err
	}

	s.send(ctx, notify.KindTrackChanged, notify.Payload{
		PaperSHA: p.SHA, Title: p.Title, OldTrack: currentLabel, NewTrack: newTrack.Label,
	})

	var trackerErr error
	for _, issueID := range []*int64{p.MetaReviewIssueID, p.ReviewIssueID} {
		if issueID == nil {
			continue
		}
		if currentLabel != "" {
			if err := s.tracker.RemoveLabel(ctx, s.cfg.TrackerRepo, *issueID, currentLabel); err != nil {
				s.log.Error("removing old track label failed",
					zap.String("sha", sha),
					zap.Int64("issue", *issueID),
					zap.String("label", currentLabel),
					zap.Error(err),
				)
				trackerErr = err
			}
		}
		if err := s.tracker.AddLabels(ctx, s.cfg.TrackerRepo, *issueID, []string{newTrack.Label}); err != nil {
			s.log.Error("adding new track label failed",
				zap.String("sha", sha),
				zap.Int64("issue", *issueID),
				zap.String("label", newTrack.Label),
				zap.Error(err),
			)
			trackerErr = err
		}
	}
	return trackerErr
}

// PostReviewComment appends a comment to the paper's review ticket.
func (s *PaperServiceImpl) PostReviewComment(ctx context.Context, sha, text string) error {
	p, err := s.papers.GetBySHA(ctx, sha)
	if err != nil {
		return err
	}
	if p.ReviewIssueID == nil {
		return fmt.Errorf("%w: paper has no review ticket", errs.ErrValidation)
	}
	return s.tracker.AddComment(ctx, s.cfg.TrackerRepo, *p.ReviewIssueID, text)
}

// SetMetadata attaches the external bibliographic deposit.
func (s *PaperServiceImpl) SetMetadata(ctx context.Context, sha string, md *model.Metadata) error {
	if md == nil {
		return fmt.Errorf("%w: empty metadata", errs.ErrValidation)
	}
	return s.papers.SetMetadata(ctx, sha, md)
}

// SetArchives records the archival DOIs.
func (s *PaperServiceImpl) SetArchives(ctx context.Context, sha string, a repository.Archives) error {
	return s.papers.SetArchives(ctx, sha, a)
}

// send delivers a notification without letting a failure affect the caller.
func (s *PaperServiceImpl) send(ctx context.Context, kind notify.Kind, p notify.Payload) {
	if err := s.notifier.Send(ctx, kind, p); err != nil {
		s.log.Error("notification delivery failed",
			zap.String("kind", string(kind)),
			zap.String("sha", p.PaperSHA),
			zap.Error(err),
		)
	}
}

func validSubmissionKind(kind string) bool {
	for _, k := range model.SubmissionKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// normalizeHandles trims reviewer handles and ensures the "@" prefix.
func normalizeHandles(reviewers []string) []string {
	out := make([]string, 0, len(reviewers))
	for _, r := range reviewers {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !strings.HasPrefix(r, "@") {
			r = "@" + r
		}
		out = append(out, r)
	}
	return out
}
