package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openscholar/reviewd/internal/errs"
)

func TestWebhook_Send(t *testing.T) {
	var got envelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewWebhook(srv.URL, zap.NewNop())
	err := n.Send(context.Background(), KindEditorInvited, Payload{
		PaperSHA: "abc", Title: "A paper", Editor: "ed-handle",
	})
	require.NoError(t, err)
	require.Equal(t, KindEditorInvited, got.Kind)
	require.Equal(t, "ed-handle", got.Payload.Editor)
}

func TestWebhook_Send_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhook(srv.URL, zap.NewNop())
	err := n.Send(context.Background(), KindTrackChanged, Payload{PaperSHA: "abc"})
	require.ErrorIs(t, err, errs.ErrGatewayFailure)
}
