package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openscholar/reviewd/internal/biblio"
	"github.com/openscholar/reviewd/internal/errs"
	"github.com/openscholar/reviewd/internal/model"
	"github.com/openscholar/reviewd/internal/repository"
	"github.com/openscholar/reviewd/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

// fakeService answers with a canned paper or error and records what it saw.
type fakeService struct {
	paper *model.Paper
	err   error

	submitted   *service.SubmitRequest
	comment     string
	overrideTo  model.State
	movedTo     uuid.UUID
	invited     string
	reviewedBy  string
	reviewers   []string
	metadataSet *model.Metadata
	archivesSet *repository.Archives
}

var _ service.PaperService = (*fakeService)(nil)

func (f *fakeService) Submit(_ context.Context, req service.SubmitRequest) (*model.Paper, error) {
	f.submitted = &req
	return f.paper, f.err
}

func (f *fakeService) Get(context.Context, string) (*model.Paper, error) {
	return f.paper, f.err
}

func (f *fakeService) StartMetaReview(_ context.Context, _, _, _ string, _ uuid.NullUUID) error {
	return f.err
}

func (f *fakeService) StartReview(_ context.Context, _, editor string, reviewers []string, _ string) error {
	f.reviewedBy, f.reviewers = editor, reviewers
	return f.err
}

func (f *fakeService) Accept(context.Context, string) error   { return f.err }
func (f *fakeService) Reject(context.Context, string) error   { return f.err }
func (f *fakeService) Withdraw(context.Context, string) error { return f.err }

func (f *fakeService) OverrideState(_ context.Context, _ string, to model.State) error {
	f.overrideTo = to
	return f.err
}

func (f *fakeService) InviteEditor(_ context.Context, _, editor string) error {
	f.invited = editor
	return f.err
}

func (f *fakeService) MoveToTrack(_ context.Context, _ string, id uuid.UUID) error {
	f.movedTo = id
	return f.err
}

func (f *fakeService) PostReviewComment(_ context.Context, _, text string) error {
	f.comment = text
	return f.err
}

func (f *fakeService) SetMetadata(_ context.Context, _ string, md *model.Metadata) error {
	f.metadataSet = md
	return f.err
}

func (f *fakeService) SetArchives(_ context.Context, _ string, a repository.Archives) error {
	f.archivesSet = &a
	return f.err
}

func newRouter(f *fakeService, apiKey string) *gin.Engine {
	srv := New(f, Config{
		APIKey: apiKey,
		Biblio: biblio.Config{
			Abbreviation: "NeuroLibre",
			DOIPrefix:    "10.55458",
			SiteURL:      "https://neurolibre.org",
			PapersURL:    "https://papers.neurolibre.org",
			TrackerRepo:  "openscholar/reviews",
		},
	}, zap.NewNop())
	return srv.Router()
}

func do(t *testing.T, router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("{}")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func samplePaper() *model.Paper {
	meta := int64(41)
	return &model.Paper{
		ID:              uuid.Must(uuid.NewV4()),
		SHA:             "cafe0123cafe0123cafe0123cafe0123",
		Title:           "A tool",
		RepositoryURL:   "https://github.com/lab/tool",
		SoftwareVersion: "v0.1",
		SubmissionKind:  "new",
		State:           model.Submitted,
		Reviewers:       []string{},

		MetaReviewIssueID: &meta,
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	f := &fakeService{paper: samplePaper()}
	router := newRouter(f, "sekret")

	w := do(t, router, http.MethodGet, "/api/papers/x", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodGet, "/api/papers/x", "", map[string]string{"X-API-KEY": "sekret"})
	require.Equal(t, http.StatusOK, w.Code)

	// healthz stays open
	w = do(t, router, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSubmit(t *testing.T) {
	f := &fakeService{paper: samplePaper()}
	router := newRouter(f, "")

	trackID := uuid.Must(uuid.NewV4())
	body := `{"title":"A tool","repository_url":"https://github.com/lab/tool","software_version":"v0.1","body":"d","submission_kind":"new","track_id":"` + trackID.String() + `"}`
	w := do(t, router, http.MethodPost, "/api/papers", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, trackID, f.submitted.TrackID)

	var got paperView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "cafe0123cafe0123cafe0123cafe0123", got.SHA)
	require.Equal(t, "https://github.com/openscholar/reviews/issues/41", got.MetaReviewURL)
}

func TestSubmit_BadTrackID(t *testing.T) {
	f := &fakeService{paper: samplePaper()}
	router := newRouter(f, "")

	w := do(t, router, http.MethodPost, "/api/papers", `{"track_id":"nope"}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Nil(t, f.submitted)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.ErrValidation, http.StatusUnprocessableEntity},
		{errs.ErrUnknownEditor, http.StatusUnprocessableEntity},
		{errs.ErrUnknownTrack, http.StatusUnprocessableEntity},
		{errs.ErrNotFound, http.StatusNotFound},
		{errs.ErrInvalidTransition, http.StatusConflict},
		{errs.ErrTerminalState, http.StatusConflict},
		{errs.ErrDuplicateTicket, http.StatusConflict},
		{errs.ErrGatewayFailure, http.StatusBadGateway},
	}
	for _, tc := range cases {
		f := &fakeService{err: tc.err}
		router := newRouter(f, "")
		w := do(t, router, http.MethodPost, "/api/papers/x/accept", "", nil)
		require.Equal(t, tc.want, w.Code, "error %v", tc.err)
	}
}

func TestStartReview_PassesThrough(t *testing.T) {
	f := &fakeService{}
	router := newRouter(f, "")

	body := `{"editor":"handler","reviewers":["rev1","rev2"],"branch":"paper"}`
	w := do(t, router, http.MethodPost, "/api/papers/x/review", body, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "handler", f.reviewedBy)
	require.Equal(t, []string{"rev1", "rev2"}, f.reviewers)
}

func TestStatus_Unpublished(t *testing.T) {
	f := &fakeService{paper: samplePaper()}
	router := newRouter(f, "")

	w := do(t, router, http.MethodGet, "/api/papers/x/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got statusView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.False(t, got.Published)
	require.Nil(t, got.Publication)
	require.Equal(t, "submitted", got.BadgeLabel)
	require.Equal(t, "lab / tool", got.Repository)
	require.Equal(t, "New submission", got.Kind)
}

func TestStatus_Published(t *testing.T) {
	p := samplePaper()
	p.State = model.Accepted
	review := int64(42)
	p.ReviewIssueID = &review
	p.Metadata = &model.Metadata{Paper: model.MetadataPaper{
		Title:   "A tool",
		Authors: []model.Author{{GivenName: "A", LastName: "Smith"}},
		Year:    2026,
	}}
	f := &fakeService{paper: p}
	router := newRouter(f, "")

	w := do(t, router, http.MethodGet, "/api/papers/x/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got statusView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.True(t, got.Published)
	require.NotNil(t, got.Publication)
	require.Equal(t, "10.55458/neurolibre.00042", got.Publication.DOI)
	require.Equal(t, got.Publication.DOI, got.BadgeLabel)
	require.Equal(t, "Smith2026", got.Publication.CitationKey)
	require.Equal(t, "https://neurolibre.org/papers/10.55458/neurolibre.00042.pdf", got.Publication.SEOPDFURL)
}

func TestOverrideState(t *testing.T) {
	f := &fakeService{}
	router := newRouter(f, "")

	w := do(t, router, http.MethodPost, "/api/papers/x/state", `{"state":"superceded"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, model.Superceded, f.overrideTo)
}

func TestMoveToTrackAndInviteAndComment(t *testing.T) {
	f := &fakeService{}
	router := newRouter(f, "")

	id := uuid.Must(uuid.NewV4())
	w := do(t, router, http.MethodPost, "/api/papers/x/track", `{"track_id":"`+id.String()+`"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, id, f.movedTo)

	w = do(t, router, http.MethodPost, "/api/papers/x/invite", `{"editor":"handler"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "handler", f.invited)

	w = do(t, router, http.MethodPost, "/api/papers/x/comment", `{"text":"ready"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "ready", f.comment)
}

func TestSetArchives(t *testing.T) {
	f := &fakeService{}
	router := newRouter(f, "")

	w := do(t, router, http.MethodPut, "/api/papers/x/archives", `{"repository_doi":"10.5281/zenodo.100"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "10.5281/zenodo.100", f.archivesSet.RepositoryDOI)
}
