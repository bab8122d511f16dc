package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookSink forwards the full submission JSON to a single URL. The generic
// form webhook and the n8n automation webhook are two instances of this type.
type WebhookSink struct {
	name   string
	url    string
	client *http.Client
}

func NewWebhookSink(name, url string) *WebhookSink {
	return &WebhookSink{
		name: name,
		url:  url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (w *WebhookSink) Name() string     { return w.name }
func (w *WebhookSink) Configured() bool { return w.url != "" }
func (w *WebhookSink) BestEffort() bool { return false }

func (w *WebhookSink) Deliver(ctx context.Context, sub *Submission) error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to %s webhook: %w", w.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s webhook returned status %d", w.name, resp.StatusCode)
	}
	return nil
}
