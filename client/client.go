// Package client is the Go gateway for the NutriPraxis AI endpoints. It
// attaches the caller's bearer token and chosen provider to each request,
// and retries transient provider failures with exponential backoff.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nutripraxis/nutripraxis-api/internal/models"
)

// Config carries everything the gateway needs to reach the API.
type Config struct {
	// BaseURL is the API origin, e.g. "https://api.nutripraxis.app".
	BaseURL string
	// Token is the bearer access token attached to every request.
	Token string
	// Provider selects the LLM backend: "gemini", "openai", or "deepseek".
	Provider string
	// HTTPClient is optional; http.DefaultClient is used when nil.
	HTTPClient *http.Client
	// MaxAttempts caps retries on transient failures. Zero means 3.
	MaxAttempts int
	// BaseBackoff is the first retry delay, doubled per attempt.
	// Zero means one second.
	BaseBackoff time.Duration
}

// Client calls the AI endpoints on behalf of a signed-in practitioner.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a gateway from the given config.
func New(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = time.Second
	}
	return &Client{cfg: cfg, http: cfg.HTTPClient}
}

// APIError is a non-2xx response from the API. Message holds the
// user-facing error text returned by the server.
type APIError struct {
	StatusCode int
	Message    string
	Retryable  bool
}

// Error returns the error message.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// errorBody is the server's JSON error envelope.
type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// retryable reports whether the failure is worth another attempt. The
// server marks transient transport failures with a retryable flag; rate
// limiting and an unavailable provider are transient by definition.
func retryable(apiErr *APIError) bool {
	if apiErr.Retryable {
		return true
	}
	return apiErr.StatusCode == http.StatusTooManyRequests ||
		apiErr.StatusCode == http.StatusServiceUnavailable
}

// do posts the body to path and decodes a 2xx response into out,
// retrying transient failures with doubling backoff.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	backoff := c.cfg.BaseBackoff
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		err := c.doOnce(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err

		apiErr, ok := err.(*APIError)
		if !ok || !retryable(apiErr) {
			return err
		}
	}

	return lastErr
}

// doOnce performs a single HTTP exchange.
func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, out interface{}) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		msg := eb.Error
		if msg == "" {
			msg = eb.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg, Retryable: eb.Retryable}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Providers returns the provider names the server has credentials for.
func (c *Client) Providers(ctx context.Context) ([]string, error) {
	var resp struct {
		Providers []string `json:"providers"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/ai/providers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Providers, nil
}

// GenerateMealPlan requests a seven-day plan for the given parameters.
// When clientID is nonzero the server archives the plan on that client's
// record.
func (c *Client) GenerateMealPlan(ctx context.Context, clientID uint, params models.MealGenerationParams) ([]models.DailyPlan, error) {
	body := struct {
		Provider string                      `json:"provider"`
		ClientID uint                        `json:"client_id,omitempty"`
		Params   models.MealGenerationParams `json:"params"`
	}{Provider: c.cfg.Provider, ClientID: clientID, Params: params}

	var resp struct {
		Plan []models.DailyPlan `json:"plan"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/ai/generate-meal-plan", body, &resp); err != nil {
		return nil, err
	}
	return resp.Plan, nil
}

// AnalyzeFoodImage asks for a nutritional read of a meal photo or note.
func (c *Client) AnalyzeFoodImage(ctx context.Context, base64Image, mimeType, clientNote, goal string) (string, error) {
	body := struct {
		Provider    string `json:"provider"`
		Base64Image string `json:"base64Image,omitempty"`
		MimeType    string `json:"mimeType,omitempty"`
		ClientNote  string `json:"clientNote,omitempty"`
		Goal        string `json:"goal"`
	}{Provider: c.cfg.Provider, Base64Image: base64Image, MimeType: mimeType, ClientNote: clientNote, Goal: goal}

	var resp struct {
		Result string `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/ai/analyze-food-image", body, &resp); err != nil {
		return "", err
	}
	return resp.Result, nil
}

// AnalyzeMedicalDocument extracts structured intake records from an
// uploaded document. fileContent is base64 for binary formats and images.
func (c *Client) AnalyzeMedicalDocument(ctx context.Context, fileContent, mimeType string, isImage bool) (*models.ExtractedRecords, error) {
	body := struct {
		Provider    string `json:"provider"`
		FileContent string `json:"fileContent"`
		MimeType    string `json:"mimeType"`
		IsImage     bool   `json:"isImage"`
	}{Provider: c.cfg.Provider, FileContent: fileContent, MimeType: mimeType, IsImage: isImage}

	var records models.ExtractedRecords
	if err := c.do(ctx, http.MethodPost, "/api/ai/analyze-medical-document", body, &records); err != nil {
		return nil, err
	}
	return &records, nil
}

// GenerateClientInsights asks for a progress narrative over a client's
// weight history.
func (c *Client) GenerateClientInsights(ctx context.Context, clientName string, weightHistory []float64, goal string) (string, error) {
	body := struct {
		Provider      string    `json:"provider"`
		ClientName    string    `json:"clientName"`
		WeightHistory []float64 `json:"weightHistory"`
		Goal          string    `json:"goal"`
	}{Provider: c.cfg.Provider, ClientName: clientName, WeightHistory: weightHistory, Goal: goal}

	var resp struct {
		Result string `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/ai/generate-insights", body, &resp); err != nil {
		return "", err
	}
	return resp.Result, nil
}
