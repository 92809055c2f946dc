// Package classify talks to OpenAI-compatible endpoints to obtain folder
// recommendations for a batch of files.
package classify

import (
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"github.com/black-lotus-01/data-organizer/internal/model"
	"github.com/black-lotus-01/data-organizer/internal/organizer"
)

// defaultModel is used when the provider does not pin one.
const defaultModel = "gpt-4o-mini"

// OpenAIClassifier implements organizer.Classifier over the
// chat-completions API. Any OpenAI-compatible endpoint works via the
// provider's base URL override.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

var _ organizer.Classifier = (*OpenAIClassifier)(nil)

// New creates a classifier for the given provider.
func New(p model.AIProvider) *OpenAIClassifier {
	cfg := openai.DefaultConfig(p.APIKey)
	if p.BaseURL != "" {
		cfg.BaseURL = p.BaseURL
	}
	m := p.Model
	if m == "" {
		m = defaultModel
	}
	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(cfg),
		model:  m,
	}
}

// Factory adapts New to the organizer.ClassifierFactory signature.
func Factory(p model.AIProvider) organizer.Classifier { return New(p) }

// Classify sends the batch summary and returns the raw JSON
// recommendation. Shape validation is the plan builder's job.
func (c *OpenAIClassifier) Classify(ctx context.Context, req *organizer.ClassificationRequest) ([]byte, error) {
	user, err := userPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	return []byte(ExtractJSON(resp.Choices[0].Message.Content)), nil
}

// TestConnection probes the endpoint with a model listing.
func (c *OpenAIClassifier) TestConnection(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("listing models: %w", err)
	}
	return nil
}
