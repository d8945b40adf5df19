package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nutripraxis/nutripraxis-api/internal/ai"
	"github.com/nutripraxis/nutripraxis-api/internal/config"
	"github.com/nutripraxis/nutripraxis-api/internal/logger"
	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"github.com/nutripraxis/nutripraxis-api/internal/repository"
	"go.uber.org/zap"
)

// providerCallTimeout bounds every outbound provider call. The underlying
// HTTP clients have no default deadline of their own.
const providerCallTimeout = 120 * time.Second

// MealPlanService generates, normalizes, and persists weekly meal plans.
type MealPlanService struct {
	Cfg       *config.Config
	Providers *ai.Registry
	Plans     repository.PlanRepo
	Users     repository.UserRepo
}

// NewMealPlanService creates a new MealPlanService.
func NewMealPlanService(cfg *config.Config, providers *ai.Registry, plans repository.PlanRepo, users repository.UserRepo) *MealPlanService {
	return &MealPlanService{
		Cfg:       cfg,
		Providers: providers,
		Plans:     plans,
		Users:     users,
	}
}

// Generate produces a normalized seven-day plan for the given parameters
// via the selected provider. When clientID is nonzero the plan is persisted
// against that client's record.
func (s *MealPlanService) Generate(ctx context.Context, userID uint, providerID ai.ProviderID, clientID uint, params models.MealGenerationParams) ([]models.DailyPlan, error) {
	if !params.ExcludedMeal.Valid() {
		return nil, &ai.ValidationError{Message: fmt.Sprintf("unknown meal slot %q", params.ExcludedMeal)}
	}

	provider, err := s.Providers.Get(providerID)
	if err != nil {
		return nil, err
	}

	var image *ai.ImagePayload
	if params.Base64Image != "" {
		if !provider.SupportsImages() {
			return nil, &ai.ValidationError{Message: fmt.Sprintf("provider %q does not accept image input", providerID)}
		}
		image = &ai.ImagePayload{Base64: params.Base64Image, MimeType: params.ImageMimeType}
	}

	if err := s.consumeGeneration(userID); err != nil {
		return nil, err
	}

	system, user, err := s.buildPrompts(provider, params)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()

	raw, err := provider.Complete(callCtx, ai.ChatRequest{
		System:      system,
		User:        user,
		Image:       image,
		JSONMode:    true,
		Schema:      ai.WeeklyPlanSchema(),
		Temperature: 0.7,
		MaxTokens:   8192,
	})
	if err != nil {
		return nil, err
	}

	days, err := NormalizeWeeklyPlan(raw, params.ExcludedMeal)
	if err != nil {
		return nil, err
	}
	if len(days) != 7 {
		return nil, &NormalizationError{Message: fmt.Sprintf("provider returned %d days, expected 7", len(days))}
	}

	if clientID != 0 {
		record := &models.MealPlanRecord{
			ClientID:  clientID,
			CreatedBy: userID,
			Provider:  string(providerID),
			Plan:      days,
		}
		if err := s.Plans.CreatePlan(record); err != nil {
			// The plan itself is good; losing the write-behind copy is not
			// a reason to fail the request.
			logger.Get().Error("failed to persist meal plan",
				zap.Uint("client_id", clientID),
				zap.Error(err),
			)
		}
	}

	return days, nil
}

// buildPrompts renders the system instruction and composes the user prompt
// embedding every client attribute. Providers without schema enforcement
// get the exact JSON shape appended to the system instruction.
func (s *MealPlanService) buildPrompts(provider ai.ChatProvider, params models.MealGenerationParams) (string, string, error) {
	system, err := config.RenderPrompt(s.Cfg.Prompts.MealPlan.Generate.System, map[string]interface{}{
		"ExcludedMeal":       string(params.ExcludedMeal),
		"CustomInstructions": params.CustomInstructions,
	})
	if err != nil {
		return "", "", fmt.Errorf("render system prompt: %w", err)
	}
	if provider.Name() != ai.ProviderGemini {
		system = system + "\n" + s.Cfg.Prompts.MealPlan.Shape
	}

	var b strings.Builder
	b.WriteString("Create a seven-day meal plan for this client:\n")
	writeAttr := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&b, "- %s: %s\n", label, value)
		}
	}
	if params.Age > 0 {
		fmt.Fprintf(&b, "- Age: %d\n", params.Age)
	}
	writeAttr("Gender", params.Gender)
	if params.Weight > 0 {
		fmt.Fprintf(&b, "- Weight: %.1f kg\n", params.Weight)
	}
	if params.Height > 0 {
		fmt.Fprintf(&b, "- Height: %.1f cm\n", params.Height)
	}
	writeAttr("Goal", params.Goal)
	writeAttr("Activity level", params.ActivityLevel)
	writeAttr("Allergies", params.Allergies)
	writeAttr("Food preferences", params.Preferences)
	writeAttr("Medical history", params.MedicalHistory)
	writeAttr("Medications", params.Medications)
	writeAttr("Dietary history", params.DietaryHistory)
	writeAttr("Social background", params.SocialBackground)
	if params.Base64Image != "" {
		b.WriteString("A reference image is attached; take it into account.\n")
	}

	return system, b.String(), nil
}

// consumeGeneration enforces the monthly AI generation quota for the
// practitioner's subscription tier.
func (s *MealPlanService) consumeGeneration(userID uint) error {
	sub, err := s.Users.GetSubscription(userID)
	if err != nil {
		return fmt.Errorf("failed to load subscription: %w", err)
	}

	if time.Now().After(sub.MonthlyResetAt) {
		sub.AIGenerationsUsed = 0
		sub.MonthlyResetAt = time.Now().AddDate(0, 1, 0)
	}

	if sub.AIGenerationsUsed >= sub.MonthlyGenerationLimit() {
		return &QuotaExceededError{Limit: sub.MonthlyGenerationLimit()}
	}

	sub.AIGenerationsUsed++
	return s.Users.UpdateSubscription(sub)
}

// QuotaExceededError indicates the monthly AI generation quota is spent.
type QuotaExceededError struct {
	Limit int
}

// Error returns the error message.
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("monthly AI generation limit of %d reached", e.Limit)
}
