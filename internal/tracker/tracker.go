// Package tracker abstracts the external issue tracking system used to
// coordinate review work. The core calls it; it never calls back.
package tracker

import "context"

// IssueRequest describes a ticket to create.
type IssueRequest struct {
	Title     string
	Body      string
	Assignees []string
	Labels    []string
}

// Gateway is the capability surface the review lifecycle needs from the
// tracker. Issue ids are stable once returned and remain valid comment and
// label targets. Operations are synchronous; retry policy belongs to the
// implementation, not the caller.
type Gateway interface {
	// CreateIssue opens a ticket and returns its number.
	CreateIssue(ctx context.Context, repo string, req IssueRequest) (int64, error)
	// AddLabels adds labels to an existing ticket.
	AddLabels(ctx context.Context, repo string, issueID int64, labels []string) error
	// RemoveLabel removes a single label from a ticket.
	RemoveLabel(ctx context.Context, repo string, issueID int64, label string) error
	// AddComment appends a comment to a ticket.
	AddComment(ctx context.Context, repo string, issueID int64, text string) error
}
