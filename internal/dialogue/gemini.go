// internal/dialogue/gemini.go
package dialogue

import (
	"context"
	"errors"
	"fmt"

	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

var _ Backend = (*GeminiBackend)(nil)

// GeminiBackend calls the Gemini API.
type GeminiBackend struct {
	client *genai.Client
	log    zerolog.Logger
}

func NewGeminiBackend(ctx context.Context, apiKey string, logger zerolog.Logger) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &GeminiBackend{client: client, log: logger}, nil
}

func (b *GeminiBackend) Generate(ctx context.Context, req Request) (string, error) {
	cfg, contents := geminiRequest(req)

	resp, err := b.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		if e, ok := err.(*apierror.APIError); ok {
			err = e.Unwrap()
		}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			b.log.Error().Int("code", apiErr.Code).Str("status", apiErr.Status).Msg(apiErr.Message)
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if text := resp.Text(); text != "" {
		return text, nil
	}

	ev := b.log.Error().Str("model", req.Model)
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		ev = ev.Str("block_reason", string(resp.PromptFeedback.BlockReason))
	}
	if len(resp.Candidates) > 0 {
		c := resp.Candidates[0]
		ev = ev.Str("finish_reason", string(c.FinishReason))
		for _, r := range c.SafetyRatings {
			if r == nil {
				continue
			}
			ev = ev.Str(string(r.Category), string(r.Probability))
		}
	}
	ev.Msg("response contained no text")
	return "", ErrNoText
}

func geminiRequest(req Request) (*genai.GenerateContentConfig, []*genai.Content) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		TopP:            genai.Ptr(req.TopP),
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(req.System)}}
	}
	if req.DisableThinking {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)}
	}

	contents := make([]*genai.Content, 0, len(req.Contents))
	for _, m := range req.Contents {
		role := m.Role
		if role == "" {
			role = genai.RoleUser
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(m.Text)},
		})
	}
	return cfg, contents
}
