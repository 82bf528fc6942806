package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/openscholar/reviewd/internal/errs"
)

// Webhook posts notifications as JSON to a delivery endpoint (the mailer
// service sits behind it).
type Webhook struct {
	URL    string
	Client *http.Client
	Logger *zap.Logger
}

// NewWebhook constructs a webhook notifier.
func NewWebhook(url string, logger *zap.Logger) *Webhook {
	return &Webhook{
		URL:    url,
		Client: &http.Client{Timeout: 15 * time.Second},
		Logger: logger,
	}
}

type envelope struct {
	Kind    Kind    `json:"kind"`
	Payload Payload `json:"payload"`
}

// Send posts one notification. Non-2xx responses map to ErrGatewayFailure.
func (w *Webhook) Send(ctx context.Context, kind Kind, p Payload) error {
	raw, err := json.Marshal(envelope{Kind: kind, Payload: p})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrGatewayFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: notify %s: %v", errs.ErrGatewayFailure, kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		w.Logger.Warn("notification delivery failed",
			zap.String("kind", string(kind)),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: notify %s: status %d", errs.ErrGatewayFailure, kind, resp.StatusCode)
	}
	return nil
}
