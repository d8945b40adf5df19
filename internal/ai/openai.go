package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const openAIModel = openai.GPT4oMini

// OpenAIProvider implements ChatProvider using the OpenAI chat completion
// API. It has no schema enforcement: JSON mode only guarantees a JSON
// object, so the system instruction must spell out the expected shape.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAI provider with the given API key.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  openAIModel,
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() ProviderID { return ProviderOpenAI }

// SupportsImages reports image input support.
func (p *OpenAIProvider) SupportsImages() bool { return true }

// Complete performs a single chat completion call and returns the raw text.
func (p *OpenAIProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	return completeChat(ctx, p.client, ProviderOpenAI, p.model, req, true)
}

// completeChat is shared by the OpenAI and DeepSeek callers, which speak
// the same wire protocol. allowImages gates the vision content part.
func completeChat(ctx context.Context, client *openai.Client, provider ProviderID, model string, req ChatRequest, allowImages bool) (string, error) {
	userMsg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if req.Image != nil {
		if !allowImages {
			return "", &ValidationError{Message: fmt.Sprintf("provider %q does not accept image input", provider)}
		}
		userMsg.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: req.User},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    fmt.Sprintf("data:%s;base64,%s", req.Image.MimeType, req.Image.Base64),
					Detail: openai.ImageURLDetailAuto,
				},
			},
		}
	} else {
		userMsg.Content = req.User
	}

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			userMsg,
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", newTransportError(provider, apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%s: chat completion: %w", provider, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: empty response from model", provider)
	}
	return resp.Choices[0].Message.Content, nil
}
