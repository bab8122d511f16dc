package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// Mailer sends transactional mail through the Resend REST API.
type Mailer struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewMailer(apiKey string) *Mailer {
	return &Mailer{
		apiKey:   apiKey,
		endpoint: resendEndpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (m *Mailer) Configured() bool {
	return m != nil && m.apiKey != ""
}

type email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

func (m *Mailer) Send(ctx context.Context, msg email) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email provider returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Classifier produces a short qualification note for a lead. Implementations
// are best-effort: an error just drops the note from the notification.
type Classifier interface {
	Classify(ctx context.Context, sub *Submission) (string, error)
}

// NotificationSink emails the submission summary to the internal inbox.
type NotificationSink struct {
	mailer     *Mailer
	from       string
	to         string
	classifier Classifier
}

func NewNotificationSink(mailer *Mailer, from, to string, classifier Classifier) *NotificationSink {
	return &NotificationSink{mailer: mailer, from: from, to: to, classifier: classifier}
}

func (n *NotificationSink) Name() string     { return "email" }
func (n *NotificationSink) Configured() bool { return n.mailer.Configured() && n.to != "" }
func (n *NotificationSink) BestEffort() bool { return false }

func (n *NotificationSink) Deliver(ctx context.Context, sub *Submission) error {
	insight := ""
	if n.classifier != nil {
		note, err := n.classifier.Classify(ctx, sub)
		if err != nil {
			slog.Warn("lead classification failed", "submission_id", sub.ID, "error", err)
		} else {
			insight = note
		}
	}

	return n.mailer.Send(ctx, email{
		From:    n.from,
		To:      []string{n.to},
		Subject: fmt.Sprintf("New contact form submission from %s", sub.Name),
		HTML:    notificationHTML(sub, insight),
		Text:    notificationText(sub, insight),
	})
}

func notificationHTML(sub *Submission, insight string) string {
	var b strings.Builder
	b.WriteString("<h2>New contact form submission</h2>")
	if insight != "" {
		b.WriteString(fmt.Sprintf("<p><em>%s</em></p>", html.EscapeString(insight)))
	}
	b.WriteString("<ul>")
	for _, f := range submissionFields(sub) {
		if f.value == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("<li><strong>%s:</strong> %s</li>", f.label, html.EscapeString(f.value)))
	}
	b.WriteString("</ul>")
	return b.String()
}

func notificationText(sub *Submission, insight string) string {
	var b strings.Builder
	b.WriteString("New contact form submission\n\n")
	if insight != "" {
		b.WriteString(insight + "\n\n")
	}
	for _, f := range submissionFields(sub) {
		if f.value == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", f.label, f.value))
	}
	return b.String()
}

type field struct {
	label string
	value string
}

func submissionFields(sub *Submission) []field {
	return []field{
		{"Name", sub.Name},
		{"Email", sub.Email},
		{"Phone", sub.Phone},
		{"Business", sub.Business},
		{"Message", sub.Message},
		{"Selected option", sub.SelectedOption},
		{"Option title", sub.OptionTitle},
		{"Service path", sub.ServicePath},
		{"Source", sub.Source},
		{"Type", sub.Type},
		{"Offer", sub.Offer},
		{"Submitted at", sub.SubmittedAt.Format(time.RFC3339)},
	}
}

// AutoReplySink sends the canned thank-you to the submitter. Best effort: a
// lost auto-reply never fails the submission.
type AutoReplySink struct {
	mailer *Mailer
	from   string
}

func NewAutoReplySink(mailer *Mailer, from string) *AutoReplySink {
	return &AutoReplySink{mailer: mailer, from: from}
}

func (a *AutoReplySink) Name() string     { return "auto_reply" }
func (a *AutoReplySink) Configured() bool { return a.mailer.Configured() }
func (a *AutoReplySink) BestEffort() bool { return true }

func (a *AutoReplySink) Deliver(ctx context.Context, sub *Submission) error {
	name := strings.TrimSpace(sub.Name)
	return a.mailer.Send(ctx, email{
		From:    a.from,
		To:      []string{sub.Email},
		Subject: "Thanks for reaching out",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Thanks for getting in touch. Your message has been received and you can expect a reply within one business day.</p>",
			html.EscapeString(name)),
		Text: fmt.Sprintf(
			"Hi %s,\n\nThanks for getting in touch. Your message has been received and you can expect a reply within one business day.\n",
			name),
	})
}
