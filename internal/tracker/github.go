package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/openscholar/reviewd/internal/errs"
)

// GitHub implements Gateway against the GitHub REST v3 issues API.
type GitHub struct {
	BaseURL string // https://api.github.com, overridable for tests
	Token   string
	Client  *http.Client
	Logger  *zap.Logger
}

// NewGitHub constructs a GitHub gateway with a sane request timeout.
func NewGitHub(token string, logger *zap.Logger) *GitHub {
	return &GitHub{
		BaseURL: "https://api.github.com",
		Token:   token,
		Client:  &http.Client{Timeout: 30 * time.Second},
		Logger:  logger,
	}
}

type issueResponse struct {
	Number int64 `json:"number"`
}

// CreateIssue opens an issue and returns its number.
func (g *GitHub) CreateIssue(ctx context.Context, repo string, req IssueRequest) (int64, error) {
	payload := map[string]any{
		"title": req.Title,
		"body":  req.Body,
	}
	if len(req.Assignees) > 0 {
		payload["assignees"] = req.Assignees
	}
	if len(req.Labels) > 0 {
		payload["labels"] = req.Labels
	}

	var out issueResponse
	path := fmt.Sprintf("/repos/%s/issues", repo)
	if err := g.do(ctx, http.MethodPost, path, payload, &out); err != nil {
		return 0, err
	}
	g.Logger.Info("tracker issue created",
		zap.String("repo", repo),
		zap.Int64("issue", out.Number),
		zap.Strings("labels", req.Labels),
	)
	return out.Number, nil
}

// AddLabels adds labels to an issue.
func (g *GitHub) AddLabels(ctx context.Context, repo string, issueID int64, labels []string) error {
	path := fmt.Sprintf("/repos/%s/issues/%d/labels", repo, issueID)
	return g.do(ctx, http.MethodPost, path, map[string]any{"labels": labels}, nil)
}

// RemoveLabel removes one label from an issue.
func (g *GitHub) RemoveLabel(ctx context.Context, repo string, issueID int64, label string) error {
	path := fmt.Sprintf("/repos/%s/issues/%d/labels/%s", repo, issueID, url.PathEscape(label))
	return g.do(ctx, http.MethodDelete, path, nil, nil)
}

// AddComment appends a comment to an issue.
func (g *GitHub) AddComment(ctx context.Context, repo string, issueID int64, text string) error {
	path := fmt.Sprintf("/repos/%s/issues/%d/comments", repo, issueID)
	return g.do(ctx, http.MethodPost, path, map[string]any{"body": text}, nil)
}

// do performs one API call, mapping transport and non-2xx responses onto
// ErrGatewayFailure so the service layer can treat tracker failures uniformly.
func (g *GitHub) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode tracker request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrGatewayFailure, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.Token)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", errs.ErrGatewayFailure, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.Logger.Warn("tracker call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: %s %s: status %d", errs.ErrGatewayFailure, method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode %s: %v", errs.ErrGatewayFailure, path, err)
		}
	}
	return nil
}
