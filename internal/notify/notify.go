// Package notify abstracts outbound notifications. Deliveries are
// fire-and-forget from the lifecycle's point of view: a failed send is
// logged by the caller, never rolled back into the state machine.
package notify

import "context"

// Kind identifies a notification template.
type Kind string

// Notification kinds emitted by the review lifecycle.
const (
	KindSubmissionReceived  Kind = "submission_received"  // to the editorial team
	KindAuthorConfirmation  Kind = "author_confirmation"  // to the submitting author
	KindEditorInvited       Kind = "editor_invited"       // to the invited editor
	KindTrackChanged        Kind = "track_changed"        // to the incoming track's AEiC
)

// Payload carries the context a template needs. Unused fields stay empty.
type Payload struct {
	PaperSHA      string `json:"paper_sha"`
	Title         string `json:"title"`
	RepositoryURL string `json:"repository_url,omitempty"`
	Editor        string `json:"editor,omitempty"`
	OldTrack      string `json:"old_track,omitempty"`
	NewTrack      string `json:"new_track,omitempty"`
	Recipient     string `json:"recipient,omitempty"`
}

// Notifier delivers a single notification.
type Notifier interface {
	Send(ctx context.Context, kind Kind, p Payload) error
}

// Noop discards notifications; used when no delivery endpoint is configured.
type Noop struct{}

// Send does nothing.
func (Noop) Send(context.Context, Kind, Payload) error { return nil }
