package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const geminiModel = "gemini-2.0-flash"

// GeminiProvider implements ChatProvider using the Gemini API. It is the
// only backend with a dedicated structured-output mode: when a request
// carries a Schema, the response is constrained server-side instead of
// relying on prompt instructions.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini provider with the given API key.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiProvider{client: client, model: geminiModel}, nil
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() ProviderID { return ProviderGemini }

// SupportsImages reports image input support.
func (p *GeminiProvider) SupportsImages() bool { return true }

// Complete performs a single generateContent call and returns the raw text.
func (p *GeminiProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	parts := []*genai.Part{{Text: req.User}}
	if req.Image != nil {
		data, err := base64.StdEncoding.DecodeString(req.Image.Base64)
		if err != nil {
			return "", &ValidationError{Message: "invalid base64 image payload: " + err.Error()}
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: req.Image.MimeType,
				Data:     data,
			},
		})
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleModel),
		Temperature:       genai.Ptr(req.Temperature),
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSONMode {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	res, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", newTransportError(ProviderGemini, apiErr.Code, apiErr.Message)
		}
		return "", fmt.Errorf("gemini: calling GenerateContent: %w", err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response from model")
	}

	var text string
	for _, part := range res.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", fmt.Errorf("gemini: no text content in response")
	}
	return text, nil
}
