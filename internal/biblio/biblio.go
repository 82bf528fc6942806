// Package biblio derives bibliographic views from a published paper's
// metadata deposit. Everything here is pure: no clock, no store, no
// gateways. Display layers query these constantly, so nothing may panic
// and unpublished papers must be reported explicitly.
package biblio

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/openscholar/reviewd/internal/lifecycle"
	"github.com/openscholar/reviewd/internal/model"
)

// Config carries journal-level settings. Passed explicitly so derivation is
// testable without process-wide state.
type Config struct {
	Abbreviation string // journal abbreviation, e.g. "NeuroLibre"
	DOIPrefix    string // registrant prefix, e.g. "10.55458"
	SiteURL      string // public site base, e.g. "https://neurolibre.org"
	PapersURL    string // base serving compiled paper PDFs
	TrackerRepo  string // owner/repo holding review issues
}

// DOIPending is returned in place of a DOI that has not been minted yet.
const DOIPending = "DOI pending"

// Build and markup languages that say nothing about the paper's science.
var ignoredLanguages = []string{"Shell", "TeX", "Makefile", "HTML", "CSS", "CMake"}

// Canonical DOI shape: 10.<4+ digit registrant>/<suffix>. The suffix class
// excludes whitespace and the characters DOIs never carry in decorated
// strings ("&'<>).
var doiPattern = regexp.MustCompile(`\b(10\.[0-9]{4,}(?:\.[0-9]+)*/[^\s"&'<>]+)`)

// Publication is the derivation view over a published paper. Obtain one via
// For; its methods are total.
type Publication struct {
	p   *model.Paper
	cfg Config
}

// For gates derivation behind the published check. The second return is the
// explicit "not published" signal: callers branch once and can never observe
// stale or guessed bibliographic values for in-progress papers.
func For(p *model.Paper, cfg Config) (*Publication, bool) {
	if p == nil || !lifecycle.Published(p.State) {
		return nil, false
	}
	return &Publication{p: p, cfg: cfg}, true
}

func (pub *Publication) meta() *model.MetadataPaper {
	if pub.p.Metadata == nil {
		return &model.MetadataPaper{}
	}
	return &pub.p.Metadata.Paper
}

// squish collapses internal whitespace, as Rails' String#squish does.
func squish(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func authorName(a model.Author) string {
	return squish(a.GivenName + " " + a.MiddleName + " " + a.LastName)
}

// Title returns the deposited paper title.
func (pub *Publication) Title() string { return pub.meta().Title }

// ScholarAuthors formats the author list for display: names joined by ", ".
func (pub *Publication) ScholarAuthors() string {
	names := make([]string, 0, len(pub.meta().Authors))
	for _, a := range pub.meta().Authors {
		names = append(names, authorName(a))
	}
	return strings.Join(names, ", ")
}

// CitationAuthors formats the author list for citation output: " and " joined.
func (pub *Publication) CitationAuthors() string {
	names := make([]string, 0, len(pub.meta().Authors))
	for _, a := range pub.meta().Authors {
		names = append(names, authorName(a))
	}
	return strings.Join(names, " and ")
}

// CitationKey is the first author's surname concatenated with the
// publication year from the deposit.
func (pub *Publication) CitationKey() string {
	authors := pub.meta().Authors
	if len(authors) == 0 {
		return ""
	}
	return fmt.Sprintf("%s%d", authors[0].LastName, pub.meta().Year)
}

// Year, Volume, Issue and Page come from the deposit, not from timestamps.
func (pub *Publication) Year() int   { return pub.meta().Year }
func (pub *Publication) Volume() int { return pub.meta().Volume }
func (pub *Publication) Issue() int  { return pub.meta().Issue }
func (pub *Publication) Page() int   { return pub.meta().Page }

// Reviewers returns the deposited reviewer handles.
func (pub *Publication) Reviewers() []string { return pub.meta().Reviewers }

// Editor returns the deposited handling editor.
func (pub *Publication) Editor() string { return pub.meta().Editor }

// LanguageTags filters build/markup noise out of the deposited language list.
func (pub *Publication) LanguageTags() []string {
	return subtract(pub.meta().Languages, ignoredLanguages)
}

// AuthorTags returns author-supplied tags minus anything still classified as
// a language.
func (pub *Publication) AuthorTags() []string {
	tags := pub.meta().Tags
	if len(tags) == 0 {
		return []string{}
	}
	return subtract(tags, pub.LanguageTags())
}

func subtract(from, remove []string) []string {
	out := make([]string, 0, len(from))
	for _, s := range from {
		drop := false
		for _, r := range remove {
			if s == r {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, s)
		}
	}
	return out
}

// PrettyDOI extracts the bare canonical DOI from the possibly decorated
// repository DOI. Falls back to the raw value when no canonical DOI is
// present, and to the pending sentinel when none is set.
func (pub *Publication) PrettyDOI() string {
	raw := pub.p.RepositoryDOI
	if raw == "" {
		return DOIPending
	}
	if m := doiPattern.FindString(raw); m != "" {
		return m
	}
	return raw
}

// DOIWithURL normalizes the repository DOI to a full https://doi.org URL.
// Values already carrying the resolver prefix pass through unchanged.
func (pub *Publication) DOIWithURL() string {
	raw := pub.p.RepositoryDOI
	if raw == "" {
		return DOIPending
	}
	if strings.Contains(raw, "https://doi.org/") {
		return raw
	}
	if m := doiPattern.FindString(raw); m != "" {
		return "https://doi.org/" + m
	}
	return raw
}

// CleanDOI is DOIWithURL with stray double quotes stripped.
func (pub *Publication) CleanDOI() string {
	return strings.ReplaceAll(pub.DOIWithURL(), `"`, "")
}

// ArchiveID is the zero-padded journal identifier derived from the review
// ticket number, e.g. "neurolibre.00042".
func (pub *Publication) ArchiveID() string {
	var n int64
	if pub.p.ReviewIssueID != nil {
		n = *pub.p.ReviewIssueID
	}
	return fmt.Sprintf("%s.%05d", strings.ToLower(pub.cfg.Abbreviation), n)
}

// DOI is the journal-minted DOI for this paper.
func (pub *Publication) DOI() string {
	return pub.cfg.DOIPrefix + "/" + pub.ArchiveID()
}

// CrossRefURL is the resolver URL for the journal DOI.
func (pub *Publication) CrossRefURL() string {
	return "https://doi.org/" + pub.DOI()
}

// SEOURL is the DOI-optimized public URL for an accepted paper; retracted
// papers keep the sha-based form.
func (pub *Publication) SEOURL() string {
	if pub.p.State == model.Accepted {
		return fmt.Sprintf("%s/papers/%s", pub.cfg.SiteURL, pub.DOI())
	}
	return fmt.Sprintf("%s/papers/%s", pub.cfg.SiteURL, pub.p.SHA)
}

// SEOPDFURL is the SEOURL plus ".pdf". Scholarly indexers want a PDF link on
// the journal domain; the site redirects it to PDFURL.
func (pub *Publication) SEOPDFURL() string {
	return pub.SEOURL() + ".pdf"
}

// PDFURL is where the compiled PDF actually lives: the papers base, the
// archive id, and the DOI with slashes flattened into dots as a filename.
func (pub *Publication) PDFURL() string {
	doiToFile := strings.ReplaceAll(pub.DOI(), "/", ".")
	return fmt.Sprintf("%s/%s/%s.pdf", pub.cfg.PapersURL, pub.ArchiveID(), doiToFile)
}
