package ai

import (
	"context"
	"fmt"
	"sort"

	"google.golang.org/genai"
)

// ProviderID identifies one of the interchangeable LLM backends.
type ProviderID string

// ProviderID enum values.
const (
	ProviderGemini   ProviderID = "gemini"
	ProviderOpenAI   ProviderID = "openai"
	ProviderDeepSeek ProviderID = "deepseek"
)

// Valid reports whether id names a known provider.
func (id ProviderID) Valid() bool {
	switch id {
	case ProviderGemini, ProviderOpenAI, ProviderDeepSeek:
		return true
	}
	return false
}

// ImagePayload is a base64-encoded image attached to a chat request.
type ImagePayload struct {
	Base64   string
	MimeType string
}

// ChatRequest is the canonical single-turn request every provider caller
// translates into its own wire format.
type ChatRequest struct {
	System string
	User   string
	Image  *ImagePayload
	// JSONMode asks the provider for a JSON response. Providers without
	// schema enforcement rely on the system instruction to pin the shape.
	JSONMode bool
	// Schema is honored only by providers with a structured response-schema
	// mode (Gemini); the others ignore it.
	Schema      *genai.Schema
	Temperature float32
	MaxTokens   int
}

// ChatProvider wraps one chat-completion backend. Implementations perform
// exactly one outbound call per Complete invocation; retry policy belongs
// to the caller.
type ChatProvider interface {
	Name() ProviderID
	SupportsImages() bool
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Registry holds the providers whose credentials are configured. It is
// built once at startup and is immutable afterwards, so it is safe for
// concurrent reads from any number of in-flight requests.
type Registry struct {
	providers map[ProviderID]ChatProvider
}

// NewRegistry builds a registry from the given providers, skipping nils.
func NewRegistry(providers ...ChatProvider) *Registry {
	r := &Registry{providers: make(map[ProviderID]ChatProvider)}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// Get returns the provider for id. An unknown name and a known-but-
// unconfigured provider produce distinct errors so handlers can map them
// to different status codes.
func (r *Registry) Get(id ProviderID) (ChatProvider, error) {
	if !id.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown provider %q", id)}
	}
	p, ok := r.providers[id]
	if !ok {
		return nil, &NotConfiguredError{Provider: id}
	}
	return p, nil
}

// Available returns the configured provider names in stable order.
func (r *Registry) Available() []string {
	names := make([]string, 0, len(r.providers))
	for id := range r.providers {
		names = append(names, string(id))
	}
	sort.Strings(names)
	return names
}
