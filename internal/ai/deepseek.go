package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

const (
	deepSeekBaseURL = "https://api.deepseek.com/v1"
	deepSeekModel   = "deepseek-chat"
)

// DeepSeekProvider implements ChatProvider against the DeepSeek API, which
// is OpenAI-compatible on the wire. It accepts no image input: callers get
// a validation error rather than a silently degraded text-only call.
type DeepSeekProvider struct {
	client *openai.Client
	model  string
}

// NewDeepSeekProvider creates a DeepSeek provider with the given API key.
func NewDeepSeekProvider(apiKey string) *DeepSeekProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = deepSeekBaseURL
	return &DeepSeekProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  deepSeekModel,
	}
}

// Name returns the provider identifier.
func (p *DeepSeekProvider) Name() ProviderID { return ProviderDeepSeek }

// SupportsImages reports image input support.
func (p *DeepSeekProvider) SupportsImages() bool { return false }

// Complete performs a single chat completion call and returns the raw text.
func (p *DeepSeekProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	return completeChat(ctx, p.client, ProviderDeepSeek, p.model, req, false)
}
