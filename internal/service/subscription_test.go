package service

import (
	"testing"
	"time"

	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"github.com/nutripraxis/nutripraxis-api/internal/testutil"
)

func TestGetSubscriptionDefaultsToFree(t *testing.T) {
	users := testutil.NewMockUserRepo()
	svc := NewSubscriptionService(users)

	sub, err := svc.GetSubscription(7)
	if err != nil {
		t.Fatalf("GetSubscription returned error: %v", err)
	}
	if sub.Tier != models.TierFree {
		t.Errorf("tier = %q, want %q", sub.Tier, models.TierFree)
	}
	if sub.ExpiresAt != nil {
		t.Errorf("free tier should have no expiry, got %v", sub.ExpiresAt)
	}
	if _, ok := users.Users[7]; !ok {
		t.Error("practitioner record should be created on first contact")
	}
}

func TestUpgradeAndDowngrade(t *testing.T) {
	users := testutil.NewMockUserRepo()
	svc := NewSubscriptionService(users)

	sub, err := svc.Upgrade(7)
	if err != nil {
		t.Fatalf("Upgrade returned error: %v", err)
	}
	if sub.Tier != models.TierPremium {
		t.Errorf("tier = %q, want %q", sub.Tier, models.TierPremium)
	}
	if sub.ExpiresAt == nil {
		t.Fatal("premium subscription should carry an expiry")
	}
	if remaining := time.Until(*sub.ExpiresAt); remaining < 360*24*time.Hour {
		t.Errorf("expiry %v is sooner than a billing year", sub.ExpiresAt)
	}

	sub, err = svc.Downgrade(7)
	if err != nil {
		t.Fatalf("Downgrade returned error: %v", err)
	}
	if sub.Tier != models.TierFree {
		t.Errorf("tier after downgrade = %q", sub.Tier)
	}
	if sub.ExpiresAt != nil {
		t.Errorf("downgrade should clear expiry, got %v", sub.ExpiresAt)
	}
	if stored := users.Subscriptions[7]; stored.Tier != models.TierFree {
		t.Errorf("stored tier = %q, want %q", stored.Tier, models.TierFree)
	}
}
