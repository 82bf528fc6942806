// Package lifecycle holds the review state machine as data: an explicit
// transition table over states and events, plus the state classification
// queries the rest of the system keys off.
package lifecycle

import (
	"fmt"

	"github.com/openscholar/reviewd/internal/errs"
	"github.com/openscholar/reviewd/internal/model"
)

// Event is a requested lifecycle transition.
type Event string

// Lifecycle events. StartMetaReview and StartReview are guarded by ticket
// creation in the service layer; the rest are unconditional administrative
// acts.
const (
	StartMetaReview Event = "start_meta_review"
	StartReview     Event = "start_review"
	Accept          Event = "accept"
	Reject          Event = "reject"
	Withdraw        Event = "withdraw"
)

// edge is one row of the transition table. A nil From set means "any
// non-terminal state".
type edge struct {
	from []model.State // nil = any non-terminal
	to   model.State
}

var transitions = map[Event]edge{
	StartMetaReview: {from: []model.State{model.Submitted}, to: model.ReviewPending},
	StartReview:     {from: []model.State{model.ReviewPending}, to: model.UnderReview},
	Accept:          {to: model.Accepted},
	Reject:          {to: model.Rejected},
	Withdraw:        {to: model.Withdrawn},
}

// Terminal reports whether s is a sink state with no outgoing transitions.
func Terminal(s model.State) bool {
	switch s {
	case model.Accepted, model.Rejected, model.Retracted, model.Withdrawn:
		return true
	}
	return false
}

// Published reports whether s implies authoritative bibliographic metadata.
func Published(s model.State) bool {
	return s == model.Accepted || s == model.Retracted
}

// Valid reports whether s is a known lifecycle state.
func Valid(s model.State) bool {
	switch s {
	case model.Submitted, model.ReviewPending, model.UnderReview,
		model.ReviewCompleted, model.Superceded,
		model.Accepted, model.Rejected, model.Retracted, model.Withdrawn:
		return true
	}
	return false
}

// Next returns the state reached by applying ev from cur, or
// errs.ErrInvalidTransition when the table has no such edge. Pure; the
// caller persists the result and runs the side effects.
func Next(cur model.State, ev Event) (model.State, error) {
	e, ok := transitions[ev]
	if !ok {
		return cur, fmt.Errorf("%w: unknown event %q", errs.ErrInvalidTransition, ev)
	}
	if Terminal(cur) {
		return cur, fmt.Errorf("%w: %s is terminal", errs.ErrInvalidTransition, cur)
	}
	if e.from == nil {
		return e.to, nil
	}
	for _, f := range e.from {
		if f == cur {
			return e.to, nil
		}
	}
	return cur, fmt.Errorf("%w: %s from %s", errs.ErrInvalidTransition, ev, cur)
}
