// internal/workers/ai-conversation/generate-reply/gemini.go
package generatereply

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"pump-advisor/internal/models"
)

const (
	defaultGeminiModel = "gemini-2.0-flash"
	geminiRoleUser     = "user"
	geminiRoleModel    = "model"
)

// NewGeminiHandler sends replies through the Gemini API instead of the JSON
// generation service. Retries and timeouts are the same as NewHandler.
func NewGeminiHandler(ctx context.Context, config *Config, log Logger) (*Handler, error) {
	cc := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.GenAIBaseURL != "" {
		cc.HTTPOptions.BaseURL = config.GenAIBaseURL
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}

	model := config.Model
	if model == "" {
		model = defaultGeminiModel
	}

	h := NewHandler(config, log)
	h.complete = func(ctx context.Context, input *Input) (string, error) {
		resp, err := cli.Models.GenerateContent(ctx, model, geminiContents(input.Messages), geminiConfig(config, input.SystemContext))
		if err != nil {
			return "", err
		}
		return geminiText(resp)
	}
	return h, nil
}

func geminiContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := geminiRoleUser
		if m.Role != models.RoleUser {
			role = geminiRoleModel
		}
		out = append(out, &genai.Content{Role: role, Parts: []*genai.Part{{Text: m.Content}}})
	}
	return out
}

func geminiConfig(config *Config, systemContext string) *genai.GenerateContentConfig {
	temp := float32(config.Temperature)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemContext}}},
		Temperature:       &temp,
		MaxOutputTokens:   int32(config.MaxTokens),
	}
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no candidates")
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			b.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("empty reply")
	}
	return text, nil
}
