package biblio

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/openscholar/reviewd/internal/model"
)

// StatusBadgeLabel selects the short machine-readable status label external
// consumers render. The DOI replaces the label only for accepted papers;
// a paper still in pre-review reads as submitted.
func StatusBadgeLabel(state model.State, doi string) string {
	switch state {
	case model.Submitted, model.ReviewPending:
		return "submitted"
	case model.UnderReview:
		return "under review"
	case model.ReviewCompleted:
		return "review complete"
	case model.Accepted:
		return doi
	case model.Rejected:
		return "rejected"
	case model.Retracted:
		return "retracted"
	default:
		return "unknown"
	}
}

// PrettyState is the human display form of a state.
func PrettyState(state model.State) string {
	return strings.ReplaceAll(string(state), "_", " ")
}

// KindLabel is the display form of a submission kind.
func KindLabel(kind string) string {
	switch kind {
	case "new":
		return "New submission"
	case "resubmission":
		return "Resubmission"
	case "new version":
		return "New version"
	default:
		return "Unknown"
	}
}

var githubRepoPattern = regexp.MustCompile(`github\.com/([^/\s]+)/([^/\s]+)`)

// PrettyRepositoryName renders GitHub addresses as "owner / name"; anything
// else passes through.
func PrettyRepositoryName(repositoryURL string) string {
	m := githubRepoPattern.FindStringSubmatch(repositoryURL)
	if m == nil {
		return repositoryURL
	}
	return m[1] + " / " + strings.TrimSuffix(m[2], ".git")
}

// MetaReviewURL is the public URL of the meta-review ticket.
func MetaReviewURL(trackerRepo string, issueID int64) string {
	return fmt.Sprintf("https://github.com/%s/issues/%d", trackerRepo, issueID)
}

// ReviewURL is the public URL of the review ticket.
func ReviewURL(trackerRepo string, issueID int64) string {
	return fmt.Sprintf("https://github.com/%s/issues/%d", trackerRepo, issueID)
}
