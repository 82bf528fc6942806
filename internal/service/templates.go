package service

import (
	"strings"
	"text/template"

	"github.com/openscholar/reviewd/internal/model"
)

// Issue bodies for the two review tickets. Plain text; the tracker renders
// markdown.

var metaReviewTmpl = template.Must(template.New("meta").Parse(
	`**Submitting author:** {{.Paper.Title}}
**Repository:** {{.Paper.RepositoryURL}}
**Version:** {{.Paper.SoftwareVersion}}
**Suggested editor:** {{.SuggestedEditor}}

Hello human, I'm the submission bot. This is the pre-review issue for this
submission, opened on behalf of {{.EICName}}.

The author's suggested editor is listed above. An editor will be assigned
here before the review starts. @{{.EICName}} please take a look at the
submission and assign an editor and reviewers.
`))

var reviewTmpl = template.Must(template.New("review").Parse(
	`**Submitting author:** {{.Paper.Title}}
**Repository:** {{.Paper.RepositoryURL}}
**Version:** {{.Paper.SoftwareVersion}}{{if .Branch}}
**Branch:** {{.Branch}}{{end}}
**Editor:** {{.Editor}}
**Reviewers:** {{.Reviewers}}

Reviewers, please carry out your review in this issue. Check off the review
checklist as you work through it, and open issues on the submission
repository for anything that needs changing.
`))

type metaReviewVars struct {
	Paper           *model.Paper
	SuggestedEditor string
	EICName         string
}

type reviewVars struct {
	Paper     *model.Paper
	Editor    string
	Reviewers string
	Branch    string
}

func metaReviewBody(p *model.Paper, suggestedEditor, eicName string) string {
	if strings.TrimSpace(suggestedEditor) == "" {
		suggestedEditor = "Pending"
	}
	var b strings.Builder
	_ = metaReviewTmpl.Execute(&b, metaReviewVars{Paper: p, SuggestedEditor: suggestedEditor, EICName: eicName})
	return b.String()
}

func reviewBody(p *model.Paper, editor string, reviewers []string, branch string) string {
	var b strings.Builder
	_ = reviewTmpl.Execute(&b, reviewVars{
		Paper:     p,
		Editor:    "@" + strings.TrimPrefix(editor, "@"),
		Reviewers: strings.Join(reviewers, ", "),
		Branch:    branch,
	})
	return b.String()
}
