package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutripraxis/nutripraxis-api/internal/ai"
	"github.com/nutripraxis/nutripraxis-api/internal/logger"
	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"github.com/nutripraxis/nutripraxis-api/internal/service"
	"github.com/nutripraxis/nutripraxis-api/internal/util"
	"go.uber.org/zap"
)

// AIHandler exposes the provider-proxy endpoints.
type AIHandler struct {
	Providers *ai.Registry
	MealPlans *service.MealPlanService
	Analysis  *service.AnalysisService
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(providers *ai.Registry, mealPlans *service.MealPlanService, analysis *service.AnalysisService) *AIHandler {
	return &AIHandler{Providers: providers, MealPlans: mealPlans, Analysis: analysis}
}

// ListProviders handles GET /api/ai/providers. Only providers whose
// credentials are configured are advertised.
func (h *AIHandler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": h.Providers.Available()})
}

// generateMealPlanRequest is the body for POST /api/ai/generate-meal-plan.
type generateMealPlanRequest struct {
	Provider ai.ProviderID               `json:"provider"`
	ClientID uint                        `json:"client_id"`
	Params   models.MealGenerationParams `json:"params"`
}

// GenerateMealPlan handles POST /api/ai/generate-meal-plan.
func (h *AIHandler) GenerateMealPlan(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req generateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	plan, err := h.MealPlans.Generate(c.Request.Context(), userID, req.Provider, req.ClientID, req.Params)
	if err != nil {
		respondAIError(c, "generate meal plan", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// analyzeFoodImageRequest is the body for POST /api/ai/analyze-food-image.
type analyzeFoodImageRequest struct {
	Provider    ai.ProviderID `json:"provider"`
	Base64Image string        `json:"base64Image"`
	MimeType    string        `json:"mimeType"`
	ClientNote  string        `json:"clientNote"`
	Goal        string        `json:"goal"`
}

// AnalyzeFoodImage handles POST /api/ai/analyze-food-image.
func (h *AIHandler) AnalyzeFoodImage(c *gin.Context) {
	var req analyzeFoodImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var image *ai.ImagePayload
	if req.Base64Image != "" {
		image = &ai.ImagePayload{Base64: req.Base64Image, MimeType: req.MimeType}
	}

	result, err := h.Analysis.AnalyzeFood(c.Request.Context(), req.Provider, image, req.ClientNote, req.Goal)
	if err != nil {
		respondAIError(c, "analyze food image", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// analyzeDocumentRequest is the body for POST /api/ai/analyze-medical-document.
type analyzeDocumentRequest struct {
	Provider    ai.ProviderID `json:"provider"`
	FileContent string        `json:"fileContent"`
	MimeType    string        `json:"mimeType"`
	IsImage     bool          `json:"isImage"`
}

// AnalyzeMedicalDocument handles POST /api/ai/analyze-medical-document.
func (h *AIHandler) AnalyzeMedicalDocument(c *gin.Context) {
	var req analyzeDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.FileContent == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileContent is required"})
		return
	}

	records, err := h.Analysis.AnalyzeDocument(c.Request.Context(), req.Provider, req.FileContent, req.MimeType, req.IsImage)
	if err != nil {
		respondAIError(c, "analyze medical document", err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// generateInsightsRequest is the body for POST /api/ai/generate-insights.
type generateInsightsRequest struct {
	Provider      ai.ProviderID `json:"provider"`
	ClientName    string        `json:"clientName"`
	WeightHistory []float64     `json:"weightHistory"`
	Goal          string        `json:"goal"`
}

// GenerateInsights handles POST /api/ai/generate-insights.
func (h *AIHandler) GenerateInsights(c *gin.Context) {
	var req generateInsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.Analysis.GenerateInsights(c.Request.Context(), req.Provider, req.ClientName, req.WeightHistory, req.Goal)
	if err != nil {
		respondAIError(c, "generate insights", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// respondAIError maps provider-proxy errors onto HTTP statuses: validation
// and capability problems are 400, an unconfigured provider is 503, quota
// exhaustion is 429, and transport or normalization failures are 500.
// Transport responses carry a retryable flag so callers can back off.
func respondAIError(c *gin.Context, op string, err error) {
	var validationErr *ai.ValidationError
	var svcValidationErr *service.ValidationError
	var notConfiguredErr *ai.NotConfiguredError
	var transportErr *ai.TransportError
	var normErr *service.NormalizationError
	var quotaErr *service.QuotaExceededError
	var formatErr *service.UnsupportedFormatError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &svcValidationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": svcValidationErr.Error()})
	case errors.As(err, &formatErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": formatErr.Error()})
	case errors.As(err, &notConfiguredErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": notConfiguredErr.Error()})
	case errors.As(err, &quotaErr):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": quotaErr.Error()})
	case errors.As(err, &transportErr):
		logger.Get().Error("provider call failed",
			zap.String("op", op),
			zap.String("provider", string(transportErr.Provider)),
			zap.Int("status", transportErr.StatusCode),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     transportErr.Error(),
			"retryable": transportErr.Retryable,
		})
	case errors.As(err, &normErr):
		logger.Get().Error("response normalization failed", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": normErr.Error()})
	default:
		logger.Get().Error("ai request failed", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
