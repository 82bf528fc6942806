package biblio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openscholar/reviewd/internal/model"
)

var cfg = Config{
	Abbreviation: "NeuroLibre",
	DOIPrefix:    "10.55458",
	SiteURL:      "https://neurolibre.org",
	PapersURL:    "https://papers.neurolibre.org",
	TrackerRepo:  "openscholar/reviews",
}

func publishedPaper() *model.Paper {
	issue := int64(42)
	return &model.Paper{
		SHA:           "5e290cb57b61f83de4460fd0eca22726",
		State:         model.Accepted,
		ReviewIssueID: &issue,
		Metadata: &model.Metadata{
			Paper: model.MetadataPaper{
				Title: "fMRI pipelines revisited",
				Authors: []model.Author{
					{GivenName: "A", LastName: "Smith"},
					{GivenName: "B", LastName: "Jones"},
				},
				Languages: []string{"Python", "Shell", "TeX", "R"},
				Tags:      []string{"neuroimaging", "Python", "fmri"},
				Year:      2026,
				Volume:    4,
				Issue:     1,
				Page:      42,
			},
		},
	}
}

func TestFor_UnpublishedStates(t *testing.T) {
	t.Parallel()

	for _, s := range []model.State{
		model.Submitted, model.ReviewPending, model.UnderReview,
		model.ReviewCompleted, model.Superceded, model.Rejected, model.Withdrawn,
	} {
		_, ok := For(&model.Paper{State: s}, cfg)
		require.False(t, ok, "state %s must report unpublished", s)
	}

	_, ok := For(nil, cfg)
	require.False(t, ok)

	for _, s := range []model.State{model.Accepted, model.Retracted} {
		_, ok := For(&model.Paper{State: s}, cfg)
		require.True(t, ok, "state %s", s)
	}
}

func TestAuthors(t *testing.T) {
	t.Parallel()

	pub, ok := For(publishedPaper(), cfg)
	require.True(t, ok)
	require.Equal(t, "A Smith, B Jones", pub.ScholarAuthors())
	require.Equal(t, "A Smith and B Jones", pub.CitationAuthors())
	require.Equal(t, "Smith2026", pub.CitationKey())
}

func TestAuthors_SquishesMiddleNames(t *testing.T) {
	t.Parallel()

	p := publishedPaper()
	p.Metadata.Paper.Authors = []model.Author{
		{GivenName: "Ada", MiddleName: "", LastName: "Lovelace"},
		{GivenName: " Jean ", MiddleName: "M.", LastName: "Vide"},
	}
	pub, _ := For(p, cfg)
	require.Equal(t, "Ada Lovelace, Jean M. Vide", pub.ScholarAuthors())
}

func TestDOINormalization(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		pretty  string
		withURL string
	}{
		{"bare doi", "10.5555/ABC.123", "10.5555/ABC.123", "https://doi.org/10.5555/ABC.123"},
		{"already a url", "https://doi.org/10.5555/ABC.123", "10.5555/ABC.123", "https://doi.org/10.5555/ABC.123"},
		{"decorated", `doi:"10.6084/m9.figshare.828487"`, "10.6084/m9.figshare.828487", "https://doi.org/10.6084/m9.figshare.828487"},
		{"unset", "", DOIPending, DOIPending},
		{"garbage passes through", "not-a-doi", "not-a-doi", "not-a-doi"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := publishedPaper()
			p.RepositoryDOI = tc.raw
			pub, _ := For(p, cfg)
			require.Equal(t, tc.pretty, pub.PrettyDOI())
			require.Equal(t, tc.withURL, pub.DOIWithURL())
		})
	}
}

func TestCleanDOI_StripsQuotes(t *testing.T) {
	t.Parallel()

	p := publishedPaper()
	p.RepositoryDOI = `"10.5555/ABC.123"`
	pub, _ := For(p, cfg)
	require.Equal(t, "https://doi.org/10.5555/ABC.123", pub.CleanDOI())
}

func TestLanguageAndAuthorTags(t *testing.T) {
	t.Parallel()

	pub, _ := For(publishedPaper(), cfg)
	require.Equal(t, []string{"Python", "R"}, pub.LanguageTags())
	// tags minus whatever is still classified as a language
	require.Equal(t, []string{"neuroimaging", "fmri"}, pub.AuthorTags())
}

func TestArchiveIDAndDOI(t *testing.T) {
	t.Parallel()

	pub, _ := For(publishedPaper(), cfg)
	require.Equal(t, "neurolibre.00042", pub.ArchiveID())
	require.Equal(t, "10.55458/neurolibre.00042", pub.DOI())
	require.Equal(t, "https://doi.org/10.55458/neurolibre.00042", pub.CrossRefURL())
	require.Equal(t, "https://neurolibre.org/papers/10.55458/neurolibre.00042", pub.SEOURL())
}

func TestPDFURLs(t *testing.T) {
	t.Parallel()

	pub, _ := For(publishedPaper(), cfg)
	require.Equal(t, "https://neurolibre.org/papers/10.55458/neurolibre.00042.pdf", pub.SEOPDFURL())
	require.Equal(t, "https://papers.neurolibre.org/neurolibre.00042/10.55458.neurolibre.00042.pdf", pub.PDFURL())
}

func TestSEOURL_RetractedFallsBackToSHA(t *testing.T) {
	t.Parallel()

	p := publishedPaper()
	p.State = model.Retracted
	pub, _ := For(p, cfg)
	require.Equal(t, "https://neurolibre.org/papers/5e290cb57b61f83de4460fd0eca22726", pub.SEOURL())
}

func TestStatusBadgeLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		state model.State
		want  string
	}{
		{model.Submitted, "submitted"},
		{model.ReviewPending, "submitted"},
		{model.UnderReview, "under review"},
		{model.ReviewCompleted, "review complete"},
		{model.Accepted, "10.55458/neurolibre.00042"},
		{model.Rejected, "rejected"},
		{model.Retracted, "retracted"},
		{model.Withdrawn, "unknown"},
		{model.Superceded, "unknown"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, StatusBadgeLabel(tc.state, "10.55458/neurolibre.00042"), "state %s", tc.state)
	}
}

func TestPrettyRepositoryName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "lab / pipelines", PrettyRepositoryName("https://github.com/lab/pipelines"))
	require.Equal(t, "lab / pipelines", PrettyRepositoryName("https://github.com/lab/pipelines.git"))
	require.Equal(t, "https://gitlab.com/lab/pipelines", PrettyRepositoryName("https://gitlab.com/lab/pipelines"))
}

func TestReviewURLs(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://github.com/openscholar/reviews/issues/42", ReviewURL(cfg.TrackerRepo, 42))
	require.Equal(t, "https://github.com/openscholar/reviews/issues/41", MetaReviewURL(cfg.TrackerRepo, 41))
}

func TestKindLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "New submission", KindLabel("new"))
	require.Equal(t, "Resubmission", KindLabel("resubmission"))
	require.Equal(t, "New version", KindLabel("new version"))
	require.Equal(t, "Unknown", KindLabel("wat"))
}
