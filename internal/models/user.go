package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the model for a practitioner account. Authentication tokens are
// issued by the external identity service; this model only tracks the
// attributes the API itself needs.
type User struct {
	gorm.Model
	Email        string        `gorm:"index" json:"email"`
	FullName     string        `json:"full_name"`
	PracticeName string        `json:"practice_name"`
	Subscription *Subscription `gorm:"foreignKey:UserID" json:"subscription,omitempty"`
}

// SubscriptionTier is the type for the subscription tier enum.
type SubscriptionTier string

// SubscriptionTier enum values.
const (
	TierFree    SubscriptionTier = "free"
	TierPremium SubscriptionTier = "premium"
)

// Subscription tracks a practitioner's plan tier and monthly AI usage.
type Subscription struct {
	gorm.Model
	UserID            uint             `gorm:"uniqueIndex" json:"-"`
	Tier              SubscriptionTier `gorm:"type:text;default:'free'" json:"tier"`
	AIGenerationsUsed int              `json:"ai_generations_used"`
	MonthlyResetAt    time.Time        `json:"monthly_reset_at"`
	ExpiresAt         *time.Time       `json:"expires_at,omitempty"`
}

// MonthlyGenerationLimit returns the AI generation quota for the tier.
func (s *Subscription) MonthlyGenerationLimit() int {
	if s.Tier == TierPremium {
		return 500
	}
	return 20
}
