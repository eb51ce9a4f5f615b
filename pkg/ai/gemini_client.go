// pkg/ai/gemini_client.go

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"krishibondhu/entities"
)

const DefaultModel = "gemini-3-flash-preview"

// generator is the part of *genai.Models the client uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type gemini struct {
	models generator
	model  string
	log    *zap.Logger
}

func NewGemini(ctx context.Context, apiKey, model string, log *zap.Logger) (Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newGemini(client.Models, model, log), nil
}

func newGemini(models generator, model string, log *zap.Logger) *gemini {
	if model == "" {
		model = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &gemini{models: models, model: model, log: log}
}

func (g *gemini) DiagnoseImage(ctx context.Context, image []byte, mimeType string, lang entities.Language) string {
	if mimeType == "" {
		mimeType = DefaultImageMIME
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(diagnosePrompt.in(lang)),
		}, genai.RoleUser),
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		g.log.Error("image diagnosis failed", zap.Error(err), zap.Int("image_bytes", len(image)))
		return diagnoseFailed.in(lang)
	}
	if text := responseText(resp); text != "" {
		return text
	}
	return diagnoseEmpty.in(lang)
}

func (g *gemini) Chat(ctx context.Context, message string, history []entities.ChatMessage, lang entities.Language) string {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, h := range history {
		role := genai.Role(genai.RoleModel)
		if h.Role == entities.RoleUser {
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(h.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatInstruction.in(lang), genai.RoleUser),
	}
	resp, err := g.models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		g.log.Error("chat failed", zap.Error(err), zap.Int("history", len(history)))
		return chatFailed.in(lang)
	}
	if text := responseText(resp); text != "" {
		return text
	}
	return chatEmpty.in(lang)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return strings.TrimSpace(resp.Text())
}
