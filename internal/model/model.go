// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// State is a paper's lifecycle state.
type State string

// Lifecycle states. Submitted is the initial state; Accepted, Rejected,
// Retracted and Withdrawn are sinks.
const (
	Submitted       State = "submitted"
	ReviewPending   State = "review_pending"
	UnderReview     State = "under_review"
	ReviewCompleted State = "review_completed"
	Superceded      State = "superceded"
	Accepted        State = "accepted"
	Rejected        State = "rejected"
	Retracted       State = "retracted"
	Withdrawn       State = "withdrawn"
)

// SubmissionKinds are the accepted values for Paper.SubmissionKind.
var SubmissionKinds = []string{"new", "resubmission", "new version"}

// Paper is a scholarly submission moving through the editorial lifecycle.
// SHA is the externally visible identifier; the row id never leaves the
// persistence layer.
type Paper struct {
	ID              uuid.UUID
	SHA             string // content token, unique, immutable
	Title           string
	RepositoryURL   string
	SoftwareVersion string
	Body            string
	SubmissionKind  string
	State           State

	TrackID   uuid.NullUUID
	EditorID  uuid.NullUUID
	EICID     uuid.NullUUID
	Reviewers []string // ordered GitHub-style handles, "@" prefixed

	// Tracker linkage; both write-once, claimed via conditional update.
	MetaReviewIssueID *int64
	ReviewIssueID     *int64

	// Archival DOIs, set independently after acceptance workflows.
	RepositoryDOI string
	DataDOI       string
	BookDOI       string
	DockerDOI     string

	Metadata *Metadata // deposited externally once accepted; nil until then

	CreatedAt    time.Time
	AcceptedAt   *time.Time
	LastActivity time.Time
}

// Published reports whether bibliographic metadata is authoritative.
func (p *Paper) Published() bool {
	return p.State == Accepted || p.State == Retracted
}

// TrackLabel fields live on Track; papers reference tracks by id only.
type Track struct {
	ID    uuid.UUID
	Label string // short tracker label, e.g. "Neuro"
	Name  string
}

// Editor is a member of the editorial board, resolved by login handle.
type Editor struct {
	ID       uuid.UUID
	Login    string
	FullName string
	Email    string
}

// InvitationStatus is the lifecycle of an editor invitation.
type InvitationStatus string

const (
	InvitePending  InvitationStatus = "pending"
	InviteAccepted InvitationStatus = "accepted"
	InviteExpired  InvitationStatus = "expired"
)

// Invitation links a paper to a candidate editor. Pending invitations are
// resolved when that editor's review starts and expired in bulk on rejection.
type Invitation struct {
	ID        uuid.UUID
	PaperID   uuid.UUID
	EditorID  uuid.UUID
	Status    InvitationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Author is one entry of the deposited author list.
type Author struct {
	GivenName  string `json:"given_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	ORCID      string `json:"orcid,omitempty"`
}

// Metadata is the structured deposit attached to a paper at acceptance.
// Stored as JSONB; the shape mirrors the compiled paper document.
type Metadata struct {
	Paper MetadataPaper `json:"paper"`
}

// MetadataPaper carries the bibliographic fields of the deposit.
type MetadataPaper struct {
	Title     string   `json:"title"`
	Authors   []Author `json:"authors"`
	Reviewers []string `json:"reviewers"`
	Editor    string   `json:"editor"`
	Languages []string `json:"languages"`
	Tags      []string `json:"tags"`
	Year      int      `json:"year"`
	Volume    int      `json:"volume"`
	Issue     int      `json:"issue"`
	Page      int      `json:"page"`
}
