package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"

	"github.com/openscholar/reviewd/internal/biblio"
	"github.com/openscholar/reviewd/internal/errs"
	"github.com/openscholar/reviewd/internal/model"
	"github.com/openscholar/reviewd/internal/repository"
	"github.com/openscholar/reviewd/internal/service"
)

type submitRequest struct {
	Title           string `json:"title"`
	RepositoryURL   string `json:"repository_url"`
	SoftwareVersion string `json:"software_version"`
	Body            string `json:"body"`
	SubmissionKind  string `json:"submission_kind"`
	TrackID         string `json:"track_id"`
	AuthorEmail     string `json:"author_email"`
}

type paperView struct {
	SHA               string          `json:"sha"`
	Title             string          `json:"title"`
	RepositoryURL     string          `json:"repository_url"`
	SoftwareVersion   string          `json:"software_version"`
	Body              string          `json:"body"`
	SubmissionKind    string          `json:"submission_kind"`
	State             string          `json:"state"`
	Reviewers         []string        `json:"reviewers"`
	MetaReviewIssueID *int64          `json:"meta_review_issue_id,omitempty"`
	ReviewIssueID     *int64          `json:"review_issue_id,omitempty"`
	MetaReviewURL     string          `json:"meta_review_url,omitempty"`
	ReviewURL         string          `json:"review_url,omitempty"`
	RepositoryDOI     string          `json:"repository_doi,omitempty"`
	DataDOI           string          `json:"data_doi,omitempty"`
	BookDOI           string          `json:"book_doi,omitempty"`
	DockerDOI         string          `json:"docker_doi,omitempty"`
	Metadata          *model.Metadata `json:"metadata,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	AcceptedAt        *time.Time      `json:"accepted_at,omitempty"`
}

func (s *Server) view(p *model.Paper) paperView {
	v := paperView{
		SHA:               p.SHA,
		Title:             p.Title,
		RepositoryURL:     p.RepositoryURL,
		SoftwareVersion:   p.SoftwareVersion,
		Body:              p.Body,
		SubmissionKind:    p.SubmissionKind,
		State:             string(p.State),
		Reviewers:         p.Reviewers,
		MetaReviewIssueID: p.MetaReviewIssueID,
		ReviewIssueID:     p.ReviewIssueID,
		RepositoryDOI:     p.RepositoryDOI,
		DataDOI:           p.DataDOI,
		BookDOI:           p.BookDOI,
		DockerDOI:         p.DockerDOI,
		Metadata:          p.Metadata,
		CreatedAt:         p.CreatedAt,
		AcceptedAt:        p.AcceptedAt,
	}
	if p.MetaReviewIssueID != nil {
		v.MetaReviewURL = biblio.MetaReviewURL(s.cfg.Biblio.TrackerRepo, *p.MetaReviewIssueID)
	}
	if p.ReviewIssueID != nil {
		v.ReviewURL = biblio.ReviewURL(s.cfg.Biblio.TrackerRepo, *p.ReviewIssueID)
	}
	return v
}

func (s *Server) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	var trackID uuid.UUID
	if req.TrackID != "" {
		id, err := uuid.FromString(req.TrackID)
		if err != nil {
			s.writeError(c, fmt.Errorf("%w: malformed track id", errs.ErrValidation))
			return
		}
		trackID = id
	}
	p, err := s.svc.Submit(c.Request.Context(), service.SubmitRequest{
		Title:           req.Title,
		RepositoryURL:   req.RepositoryURL,
		SoftwareVersion: req.SoftwareVersion,
		Body:            req.Body,
		SubmissionKind:  req.SubmissionKind,
		TrackID:         trackID,
		AuthorEmail:     req.AuthorEmail,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	submissionsTotal.Inc()
	c.JSON(http.StatusCreated, s.view(p))
}

func (s *Server) get(c *gin.Context) {
	p, err := s.svc.Get(c.Request.Context(), c.Param("sha"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.view(p))
}

type publicationView struct {
	DOI             string   `json:"doi"`
	ArchiveID       string   `json:"archive_id"`
	CrossRefURL     string   `json:"crossref_url"`
	SEOURL          string   `json:"seo_url"`
	SEOPDFURL       string   `json:"seo_pdf_url"`
	PDFURL          string   `json:"pdf_url"`
	ScholarAuthors  string   `json:"scholar_authors"`
	CitationAuthors string   `json:"citation_authors"`
	CitationKey     string   `json:"citation_key"`
	Year            int      `json:"year"`
	Volume          int      `json:"volume"`
	Issue           int      `json:"issue"`
	Page            int      `json:"page"`
	LanguageTags    []string `json:"language_tags"`
	AuthorTags      []string `json:"author_tags"`
}

type statusView struct {
	State       string           `json:"state"`
	PrettyState string           `json:"pretty_state"`
	BadgeLabel  string           `json:"badge_label"`
	Kind        string           `json:"kind"`
	Repository  string           `json:"repository"`
	Published   bool             `json:"published"`
	Publication *publicationView `json:"publication,omitempty"`
}

func (s *Server) status(c *gin.Context) {
	p, err := s.svc.Get(c.Request.Context(), c.Param("sha"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	v := statusView{
		State:       string(p.State),
		PrettyState: biblio.PrettyState(p.State),
		Kind:        biblio.KindLabel(p.SubmissionKind),
		Repository:  biblio.PrettyRepositoryName(p.RepositoryURL),
	}
	if pub, ok := biblio.For(p, s.cfg.Biblio); ok {
		v.Published = true
		v.BadgeLabel = biblio.StatusBadgeLabel(p.State, pub.DOI())
		v.Publication = &publicationView{
			DOI:             pub.DOI(),
			ArchiveID:       pub.ArchiveID(),
			CrossRefURL:     pub.CrossRefURL(),
			SEOURL:          pub.SEOURL(),
			SEOPDFURL:       pub.SEOPDFURL(),
			PDFURL:          pub.PDFURL(),
			ScholarAuthors:  pub.ScholarAuthors(),
			CitationAuthors: pub.CitationAuthors(),
			CitationKey:     pub.CitationKey(),
			Year:            pub.Year(),
			Volume:          pub.Volume(),
			Issue:           pub.Issue(),
			Page:            pub.Page(),
			LanguageTags:    pub.LanguageTags(),
			AuthorTags:      pub.AuthorTags(),
		}
	} else {
		v.BadgeLabel = biblio.StatusBadgeLabel(p.State, "")
	}
	c.JSON(http.StatusOK, v)
}

type metaReviewRequest struct {
	SuggestedEditor string `json:"suggested_editor"`
	EIC             string `json:"eic"`
	TrackID         string `json:"track_id"`
}

func (s *Server) startMetaReview(c *gin.Context) {
	var req metaReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	var trackID uuid.NullUUID
	if req.TrackID != "" {
		id, err := uuid.FromString(req.TrackID)
		if err != nil {
			s.writeError(c, fmt.Errorf("%w: malformed track id", errs.ErrValidation))
			return
		}
		trackID = uuid.NullUUID{UUID: id, Valid: true}
	}
	if err := s.svc.StartMetaReview(c.Request.Context(), c.Param("sha"), req.SuggestedEditor, req.EIC, trackID); err != nil {
		s.writeError(c, err)
		return
	}
	transitionsTotal.WithLabelValues("start_meta_review").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "review_pending"})
}

type reviewRequest struct {
	Editor    string   `json:"editor"`
	Reviewers []string `json:"reviewers"`
	Branch    string   `json:"branch"`
}

func (s *Server) startReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.svc.StartReview(c.Request.Context(), c.Param("sha"), req.Editor, req.Reviewers, req.Branch); err != nil {
		s.writeError(c, err)
		return
	}
	transitionsTotal.WithLabelValues("start_review").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "under_review"})
}

func (s *Server) accept(c *gin.Context) {
	if err := s.svc.Accept(c.Request.Context(), c.Param("sha")); err != nil {
		s.writeError(c, err)
		return
	}
	transitionsTotal.WithLabelValues("accept").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

func (s *Server) reject(c *gin.Context) {
	if err := s.svc.Reject(c.Request.Context(), c.Param("sha")); err != nil {
		s.writeError(c, err)
		return
	}
	transitionsTotal.WithLabelValues("reject").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

func (s *Server) withdraw(c *gin.Context) {
	if err := s.svc.Withdraw(c.Request.Context(), c.Param("sha")); err != nil {
		s.writeError(c, err)
		return
	}
	transitionsTotal.WithLabelValues("withdraw").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "withdrawn"})
}

type stateRequest struct {
	State string `json:"state"`
}

func (s *Server) overrideState(c *gin.Context) {
	var req stateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.svc.OverrideState(c.Request.Context(), c.Param("sha"), model.State(req.State)); err != nil {
		s.writeError(c, err)
		return
	}
	transitionsTotal.WithLabelValues("override").Inc()
	c.JSON(http.StatusOK, gin.H{"status": req.State})
}

type inviteRequest struct {
	Editor string `json:"editor"`
}

func (s *Server) invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.svc.InviteEditor(c.Request.Context(), c.Param("sha"), req.Editor); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "invited"})
}

type trackRequest struct {
	TrackID string `json:"track_id"`
}

func (s *Server) moveToTrack(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id, err := uuid.FromString(req.TrackID)
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: malformed track id", errs.ErrValidation))
		return
	}
	if err := s.svc.MoveToTrack(c.Request.Context(), c.Param("sha"), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "moved"})
}

type commentRequest struct {
	Text string `json:"text"`
}

func (s *Server) comment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.svc.PostReviewComment(c.Request.Context(), c.Param("sha"), req.Text); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "commented"})
}

func (s *Server) setMetadata(c *gin.Context) {
	var md model.Metadata
	if err := c.ShouldBindJSON(&md); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.svc.SetMetadata(c.Request.Context(), c.Param("sha"), &md); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "stored"})
}

type archivesRequest struct {
	RepositoryDOI string `json:"repository_doi"`
	DataDOI       string `json:"data_doi"`
	BookDOI       string `json:"book_doi"`
	DockerDOI     string `json:"docker_doi"`
}

func (s *Server) setArchives(c *gin.Context) {
	var req archivesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	a := repository.Archives{
		RepositoryDOI: req.RepositoryDOI,
		DataDOI:       req.DataDOI,
		BookDOI:       req.BookDOI,
		DockerDOI:     req.DockerDOI,
	}
	if err := s.svc.SetArchives(c.Request.Context(), c.Param("sha"), a); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "stored"})
}
