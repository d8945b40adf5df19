package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nutripraxis/nutripraxis-api/internal/ai"
	"github.com/nutripraxis/nutripraxis-api/internal/config"
	"github.com/nutripraxis/nutripraxis-api/internal/service"
	"github.com/nutripraxis/nutripraxis-api/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setUserID is a test middleware that injects a user ID into the gin context.
func setUserID(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func aiTestConfig() *config.Config {
	return &config.Config{
		Prompts: &config.Prompts{
			MealPlan: config.MealPlanPrompts{
				Generate: config.PromptPair{System: "Plan meals.{{if .ExcludedMeal}} No {{.ExcludedMeal}}.{{end}}{{.CustomInstructions}}"},
				Shape:    "Respond as {\"plan\": [...]}.",
			},
			Analysis: config.AnalysisPrompts{
				Food:     config.PromptPair{System: "Analyze food."},
				Document: config.PromptPair{System: "Extract records as JSON."},
			},
			Insights: config.PromptPair{System: "Summarize progress."},
		},
	}
}

// newAIRouter wires the AI routes against mocked providers and repos.
func newAIRouter(providers ...ai.ChatProvider) (*gin.Engine, *testutil.MockPlanRepo) {
	registry := ai.NewRegistry(providers...)
	cfg := aiTestConfig()
	plans := testutil.NewMockPlanRepo()
	users := testutil.NewMockUserRepo()

	handler := NewAIHandler(
		registry,
		service.NewMealPlanService(cfg, registry, plans, users),
		service.NewAnalysisService(cfg, registry),
	)

	r := gin.New()
	api := r.Group("/api", setUserID(1))
	api.GET("/ai/providers", handler.ListProviders)
	api.POST("/ai/generate-meal-plan", handler.GenerateMealPlan)
	api.POST("/ai/analyze-food-image", handler.AnalyzeFoodImage)
	api.POST("/ai/analyze-medical-document", handler.AnalyzeMedicalDocument)
	api.POST("/ai/generate-insights", handler.GenerateInsights)
	return r, plans
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListProviders(t *testing.T) {
	r, _ := newAIRouter(
		&testutil.MockChatProvider{ID: ai.ProviderGemini, Images: true},
		&testutil.MockChatProvider{ID: ai.ProviderDeepSeek},
	)

	req := httptest.NewRequest("GET", "/api/ai/providers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var body struct {
		Providers []string `json:"providers"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Providers) != 2 || body.Providers[0] != "deepseek" || body.Providers[1] != "gemini" {
		t.Errorf("providers = %v, want sorted [deepseek gemini]", body.Providers)
	}
}

func TestGenerateMealPlan_Success(t *testing.T) {
	provider := &testutil.MockChatProvider{
		ID:     ai.ProviderGemini,
		Images: true,
		CompleteFunc: func(ctx context.Context, req ai.ChatRequest) (string, error) {
			return testutil.WeeklyPlanWrapperJSON(), nil
		},
	}
	r, plans := newAIRouter(provider)

	w := postJSON(r, "/api/ai/generate-meal-plan", `{"provider": "gemini", "client_id": 3, "params": {"goal": "lose weight"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var body struct {
		Plan []json.RawMessage `json:"plan"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Plan) != 7 {
		t.Errorf("plan length = %d, want 7", len(body.Plan))
	}
	if len(plans.Plans) != 1 {
		t.Errorf("expected 1 persisted plan, got %d", len(plans.Plans))
	}
}

func TestGenerateMealPlan_UnknownProvider(t *testing.T) {
	provider := &testutil.MockChatProvider{ID: ai.ProviderGemini}
	r, _ := newAIRouter(provider)

	w := postJSON(r, "/api/ai/generate-meal-plan", `{"provider": "claude", "params": {}}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if provider.Calls != 0 {
		t.Errorf("provider calls = %d, want 0", provider.Calls)
	}
}

func TestGenerateMealPlan_UnconfiguredProvider(t *testing.T) {
	r, _ := newAIRouter(&testutil.MockChatProvider{ID: ai.ProviderGemini})

	w := postJSON(r, "/api/ai/generate-meal-plan", `{"provider": "openai", "params": {}}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestGenerateMealPlan_ImageWithTextOnlyProvider(t *testing.T) {
	provider := &testutil.MockChatProvider{ID: ai.ProviderDeepSeek, Images: false}
	r, _ := newAIRouter(provider)

	w := postJSON(r, "/api/ai/generate-meal-plan", `{"provider": "deepseek", "params": {"base64Image": "aGVsbG8=", "imageMimeType": "image/jpeg"}}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d. body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
	if provider.Calls != 0 {
		t.Errorf("provider calls = %d, want 0: rejection must happen before any provider call", provider.Calls)
	}
}

func TestGenerateMealPlan_TransportError(t *testing.T) {
	provider := &testutil.MockChatProvider{
		ID: ai.ProviderGemini,
		CompleteFunc: func(ctx context.Context, req ai.ChatRequest) (string, error) {
			return "", &ai.TransportError{Provider: ai.ProviderGemini, StatusCode: 429, Message: "rate limited", Retryable: true}
		},
	}
	r, _ := newAIRouter(provider)

	w := postJSON(r, "/api/ai/generate-meal-plan", `{"provider": "gemini", "params": {}}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var body struct {
		Error     string `json:"error"`
		Retryable bool   `json:"retryable"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if !body.Retryable {
		t.Error("429 transport failure should be marked retryable")
	}
}

func TestGenerateMealPlan_NormalizationError(t *testing.T) {
	provider := &testutil.MockChatProvider{
		ID: ai.ProviderGemini,
		CompleteFunc: func(ctx context.Context, req ai.ChatRequest) (string, error) {
			return "not json", nil
		},
	}
	r, _ := newAIRouter(provider)

	w := postJSON(r, "/api/ai/generate-meal-plan", `{"provider": "gemini", "params": {}}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(w.Body.String(), "not valid JSON") {
		t.Errorf("expected normalization message in body: %s", w.Body.String())
	}
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if _, ok := body["plan"]; ok {
		t.Error("no partial plan may be returned on normalization failure")
	}
}

func TestAnalyzeFoodImage_Success(t *testing.T) {
	provider := &testutil.MockChatProvider{
		ID:     ai.ProviderOpenAI,
		Images: true,
		CompleteFunc: func(ctx context.Context, req ai.ChatRequest) (string, error) {
			return "Approximately 520 kcal.", nil
		},
	}
	r, _ := newAIRouter(provider)

	w := postJSON(r, "/api/ai/analyze-food-image", `{"provider": "openai", "base64Image": "aGVsbG8=", "mimeType": "image/jpeg", "goal": "maintain"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var body struct {
		Result string `json:"result"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Result != "Approximately 520 kcal." {
		t.Errorf("result = %q", body.Result)
	}
}

func TestAnalyzeFoodImage_MissingInput(t *testing.T) {
	r, _ := newAIRouter(&testutil.MockChatProvider{ID: ai.ProviderOpenAI, Images: true})

	w := postJSON(r, "/api/ai/analyze-food-image", `{"provider": "openai", "goal": "maintain"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAnalyzeMedicalDocument_Success(t *testing.T) {
	provider := &testutil.MockChatProvider{
		ID: ai.ProviderOpenAI,
		CompleteFunc: func(ctx context.Context, req ai.ChatRequest) (string, error) {
			return testutil.ExtractedRecordsJSON(), nil
		},
	}
	r, _ := newAIRouter(provider)

	// "patient notes" base64-encoded.
	w := postJSON(r, "/api/ai/analyze-medical-document", `{"provider": "openai", "fileContent": "cGF0aWVudCBub3Rlcw==", "mimeType": "text/plain", "isImage": false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	for _, field := range []string{"medicalHistory", "allergies", "medications", "dietaryHistory", "socialBackground"} {
		if body[field] == "" {
			t.Errorf("field %q missing from response: %s", field, w.Body.String())
		}
	}
}

func TestAnalyzeMedicalDocument_MissingContent(t *testing.T) {
	r, _ := newAIRouter(&testutil.MockChatProvider{ID: ai.ProviderOpenAI})

	w := postJSON(r, "/api/ai/analyze-medical-document", `{"provider": "openai", "mimeType": "text/plain"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAnalyzeMedicalDocument_UnsupportedFormat(t *testing.T) {
	r, _ := newAIRouter(&testutil.MockChatProvider{ID: ai.ProviderOpenAI})

	w := postJSON(r, "/api/ai/analyze-medical-document", `{"provider": "openai", "fileContent": "cGF0aWVudCBub3Rlcw==", "mimeType": "application/msword", "isImage": false}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d. body: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

func TestGenerateInsights_Success(t *testing.T) {
	provider := &testutil.MockChatProvider{
		ID: ai.ProviderGemini,
		CompleteFunc: func(ctx context.Context, req ai.ChatRequest) (string, error) {
			return "Weight is trending down steadily.", nil
		},
	}
	r, _ := newAIRouter(provider)

	w := postJSON(r, "/api/ai/generate-insights", `{"provider": "gemini", "clientName": "Maria", "weightHistory": [74, 73.2, 72.5], "goal": "lose weight"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestGenerateInsights_EmptyHistory(t *testing.T) {
	r, _ := newAIRouter(&testutil.MockChatProvider{ID: ai.ProviderGemini})

	w := postJSON(r, "/api/ai/generate-insights", `{"provider": "gemini", "clientName": "Maria", "weightHistory": [], "goal": "lose weight"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
