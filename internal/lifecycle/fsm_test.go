package lifecycle

import (
	"testing"

	"github.com/openscholar/reviewd/internal/errs"
	"github.com/openscholar/reviewd/internal/model"
	"github.com/stretchr/testify/require"
)

func TestNext_Table(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		from model.State
		ev   Event
		want model.State
		err  error
	}{
		{"meta review from submitted", model.Submitted, StartMetaReview, model.ReviewPending, nil},
		{"meta review from review_pending", model.ReviewPending, StartMetaReview, model.ReviewPending, errs.ErrInvalidTransition},
		{"meta review from under_review", model.UnderReview, StartMetaReview, model.UnderReview, errs.ErrInvalidTransition},
		{"review from review_pending", model.ReviewPending, StartReview, model.UnderReview, nil},
		{"review from submitted", model.Submitted, StartReview, model.Submitted, errs.ErrInvalidTransition},
		{"accept from submitted", model.Submitted, Accept, model.Accepted, nil},
		{"accept from under_review", model.UnderReview, Accept, model.Accepted, nil},
		{"accept from review_completed", model.ReviewCompleted, Accept, model.Accepted, nil},
		{"accept from superceded", model.Superceded, Accept, model.Accepted, nil},
		{"reject from review_pending", model.ReviewPending, Reject, model.Rejected, nil},
		{"withdraw from under_review", model.UnderReview, Withdraw, model.Withdrawn, nil},
		{"accept from accepted", model.Accepted, Accept, model.Accepted, errs.ErrInvalidTransition},
		{"reject from withdrawn", model.Withdrawn, Reject, model.Withdrawn, errs.ErrInvalidTransition},
		{"withdraw from retracted", model.Retracted, Withdraw, model.Retracted, errs.ErrInvalidTransition},
		{"unknown event", model.Submitted, Event("publish"), model.Submitted, errs.ErrInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Next(tc.from, tc.ev)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				// state must be reported unchanged on rejection
				require.Equal(t, tc.from, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestTerminal(t *testing.T) {
	t.Parallel()

	for _, s := range []model.State{model.Accepted, model.Rejected, model.Retracted, model.Withdrawn} {
		require.True(t, Terminal(s), "state %s", s)
	}
	for _, s := range []model.State{model.Submitted, model.ReviewPending, model.UnderReview, model.ReviewCompleted, model.Superceded} {
		require.False(t, Terminal(s), "state %s", s)
	}
}

func TestPublished(t *testing.T) {
	t.Parallel()

	require.True(t, Published(model.Accepted))
	require.True(t, Published(model.Retracted))
	for _, s := range []model.State{model.Submitted, model.ReviewPending, model.UnderReview, model.ReviewCompleted, model.Superceded, model.Rejected, model.Withdrawn} {
		require.False(t, Published(s), "state %s", s)
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	require.True(t, Valid(model.Submitted))
	require.True(t, Valid(model.Superceded))
	require.False(t, Valid(model.State("in_limbo")))
}
