package enrich

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dkranz/leadgate/internal/contact"
)

const systemPrompt = "You qualify inbound consulting leads. Given a contact form submission, " +
	"reply with a single sentence naming the likely audience segment and what the lead wants. " +
	"No preamble, no formatting."

// Classifier annotates a lead with a one-line qualification note via a chat
// completion. Callers treat errors as "no note".
type Classifier struct {
	client *openai.Client
	model  string
}

func New(apiKey, model string) *Classifier {
	return &Classifier{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *Classifier) Classify(ctx context.Context, sub *contact.Submission) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		MaxTokens:   120,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: leadDescription(sub)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("classify lead: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("classify lead: empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func leadDescription(sub *contact.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", sub.Name)
	if sub.Business != "" {
		fmt.Fprintf(&b, "Business: %s\n", sub.Business)
	}
	if sub.SelectedOption != "" {
		fmt.Fprintf(&b, "Selected option: %s\n", sub.SelectedOption)
	}
	if sub.ServicePath != "" {
		fmt.Fprintf(&b, "Service path: %s\n", sub.ServicePath)
	}
	if sub.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", sub.Message)
	}
	return b.String()
}
