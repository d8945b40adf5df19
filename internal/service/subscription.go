package service

import (
	"time"

	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"github.com/nutripraxis/nutripraxis-api/internal/repository"
)

// SubscriptionService manages practitioner plan tiers and AI usage.
type SubscriptionService struct {
	Users repository.UserRepo
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(users repository.UserRepo) *SubscriptionService {
	return &SubscriptionService{Users: users}
}

// GetSubscription returns the practitioner's subscription, creating the
// default free record on first contact.
func (s *SubscriptionService) GetSubscription(userID uint) (*models.Subscription, error) {
	if _, err := s.Users.GetOrCreateUser(userID); err != nil {
		return nil, err
	}
	return s.Users.GetSubscription(userID)
}

// Upgrade moves the practitioner to the premium tier for one billing year.
// Payment capture happens upstream; this records the entitlement.
func (s *SubscriptionService) Upgrade(userID uint) (*models.Subscription, error) {
	sub, err := s.GetSubscription(userID)
	if err != nil {
		return nil, err
	}
	expiry := time.Now().AddDate(1, 0, 0)
	sub.Tier = models.TierPremium
	sub.ExpiresAt = &expiry
	if err := s.Users.UpdateSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Downgrade returns the practitioner to the free tier at period end.
func (s *SubscriptionService) Downgrade(userID uint) (*models.Subscription, error) {
	sub, err := s.GetSubscription(userID)
	if err != nil {
		return nil, err
	}
	sub.Tier = models.TierFree
	sub.ExpiresAt = nil
	if err := s.Users.UpdateSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}
