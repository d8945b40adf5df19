package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nutripraxis/nutripraxis-api/internal/ai"
	"github.com/nutripraxis/nutripraxis-api/internal/config"
	"github.com/nutripraxis/nutripraxis-api/internal/models"
)

// AnalysisService handles the free-text AI tasks: food analysis, medical
// document extraction, and progress insights.
type AnalysisService struct {
	Cfg       *config.Config
	Providers *ai.Registry
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(cfg *config.Config, providers *ai.Registry) *AnalysisService {
	return &AnalysisService{Cfg: cfg, Providers: providers}
}

// AnalyzeFood analyzes a food photo, a client note, or both. At least one
// of image and note must be supplied; an image is rejected up front for
// providers without image support.
func (s *AnalysisService) AnalyzeFood(ctx context.Context, providerID ai.ProviderID, image *ai.ImagePayload, note, goal string) (string, error) {
	if image == nil && strings.TrimSpace(note) == "" {
		return "", &ai.ValidationError{Message: "either an image or a client note is required"}
	}

	provider, err := s.Providers.Get(providerID)
	if err != nil {
		return "", err
	}
	if image != nil && !provider.SupportsImages() {
		return "", &ai.ValidationError{Message: fmt.Sprintf("provider %q does not accept image input", providerID)}
	}

	system, err := config.RenderPrompt(s.Cfg.Prompts.Analysis.Food.System, map[string]interface{}{
		"Goal": goal,
	})
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	user, err := config.RenderPrompt(s.Cfg.Prompts.Analysis.Food.User, map[string]interface{}{
		"Note": note,
	})
	if err != nil {
		return "", fmt.Errorf("render user prompt: %w", err)
	}
	if strings.TrimSpace(user) == "" {
		user = "Analyze the attached food image."
	}

	callCtx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	return provider.Complete(callCtx, ai.ChatRequest{
		System:      system,
		User:        user,
		Image:       image,
		Temperature: 0.4,
		MaxTokens:   1024,
	})
}

// AnalyzeDocument extracts structured health records from a medical
// document. Images go to the provider directly as an image part; other
// formats are reduced to plain text first, since no provider here accepts
// raw binary uploads.
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, providerID ai.ProviderID, fileContent, mimeType string, isImage bool) (*models.ExtractedRecords, error) {
	if strings.TrimSpace(fileContent) == "" {
		return nil, &ai.ValidationError{Message: "fileContent is required"}
	}

	provider, err := s.Providers.Get(providerID)
	if err != nil {
		return nil, err
	}

	req := ai.ChatRequest{
		System:      s.Cfg.Prompts.Analysis.Document.System,
		User:        s.Cfg.Prompts.Analysis.Document.User,
		JSONMode:    true,
		Temperature: 0.1,
		MaxTokens:   2048,
	}

	if isImage {
		if !provider.SupportsImages() {
			return nil, &ai.ValidationError{Message: fmt.Sprintf("provider %q does not accept image input", providerID)}
		}
		req.Image = &ai.ImagePayload{Base64: fileContent, MimeType: mimeType}
	} else {
		data, err := base64.StdEncoding.DecodeString(fileContent)
		if err != nil {
			return nil, &ai.ValidationError{Message: "fileContent is not valid base64: " + err.Error()}
		}
		text, err := ExtractDocumentText(data, mimeType)
		if err != nil {
			return nil, err
		}
		req.User = req.User + "\n\nDocument text:\n" + text
	}

	callCtx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	raw, err := provider.Complete(callCtx, req)
	if err != nil {
		return nil, err
	}

	var records models.ExtractedRecords
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &records); err != nil {
		return nil, &NormalizationError{Message: "document extraction response is not valid JSON: " + err.Error()}
	}
	return &records, nil
}

// GenerateInsights produces a short free-text progress insight from a
// client's weight history. The least complex AI path: one prompt, one
// plain-text answer.
func (s *AnalysisService) GenerateInsights(ctx context.Context, providerID ai.ProviderID, clientName string, weightHistory []float64, goal string) (string, error) {
	if len(weightHistory) == 0 {
		return "", &ai.ValidationError{Message: "weightHistory must not be empty"}
	}

	provider, err := s.Providers.Get(providerID)
	if err != nil {
		return "", err
	}

	history := make([]string, len(weightHistory))
	for i, w := range weightHistory {
		history[i] = fmt.Sprintf("%.1f", w)
	}

	user, err := config.RenderPrompt(s.Cfg.Prompts.Insights.User, map[string]interface{}{
		"ClientName":    clientName,
		"Goal":          goal,
		"WeightHistory": strings.Join(history, ", "),
	})
	if err != nil {
		return "", fmt.Errorf("render user prompt: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	return provider.Complete(callCtx, ai.ChatRequest{
		System:      s.Cfg.Prompts.Insights.System,
		User:        user,
		Temperature: 0.6,
		MaxTokens:   512,
	})
}
