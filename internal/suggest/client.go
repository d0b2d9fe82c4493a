// Package suggest generates draft survey questions from a topic description
// using Gemini, then maps the model's loose question vocabulary onto the
// canonical question types.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"formforge/backend/internal"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel   = "gemini-2.0-flash"
	maxRetries     = 3
	initialBackoff = time.Second
)

const systemPrompt = `You are a survey design expert. Create clear, relevant, and well-structured survey questions based on the given requirements.
You must respond with a valid JSON object containing an array of questions under the "questions" key.
Each question object must have these exact properties:
{
  "type": string (one of: "text", "multipleChoice", "checkbox", "rating"),
  "text": string (the question text),
  "options": string[] (required for multipleChoice and checkbox types),
  "required": boolean,
  "validation": object (optional validation rules)
}`

// Prompt describes the survey the host wants drafted.
type Prompt struct {
	Topic             string
	Purpose           string
	TargetAudience    string
	AdditionalContext string
}

func (p Prompt) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a survey about: %s\n", p.Topic)
	fmt.Fprintf(&b, "Purpose: %s\n", p.Purpose)
	if p.TargetAudience != "" {
		fmt.Fprintf(&b, "Target Audience: %s\n", p.TargetAudience)
	}
	if p.AdditionalContext != "" {
		fmt.Fprintf(&b, "Additional Context: %s\n", p.AdditionalContext)
	}
	return b.String()
}

type Client struct {
	logger *zap.Logger
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, logger *zap.Logger, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("suggestion API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		logger: logger,
		client: client,
		model:  model,
	}, nil
}

// Generate asks the model for survey questions, retrying transient failures
// with exponential backoff. The response must be the documented JSON shape;
// anything else is reported as malformed rather than half-parsed.
func (c *Client) Generate(ctx context.Context, prompt Prompt) ([]SuggestedQuestion, error) {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying question suggestion",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		result, err := c.client.Models.GenerateContent(ctx, c.model,
			genai.Text(prompt.render()),
			&genai.GenerateContentConfig{
				SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
				ResponseMIMEType:  "application/json",
				Temperature:       genai.Ptr[float32](0.7),
			})
		if err != nil {
			lastErr = err
			continue
		}

		questions, err := parseSuggestions(result.Text())
		if err != nil {
			return nil, err
		}
		return questions, nil
	}

	return nil, fmt.Errorf("%w: %v", internal.ErrSuggestionUnavailable, lastErr)
}

func parseSuggestions(raw string) ([]SuggestedQuestion, error) {
	if raw == "" {
		return nil, internal.ErrSuggestionMalformed
	}

	var payload struct {
		Questions []SuggestedQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrSuggestionMalformed, err)
	}
	if payload.Questions == nil {
		return nil, internal.ErrSuggestionMalformed
	}

	return payload.Questions, nil
}
