package repository

import (
	"errors"
	"time"

	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"gorm.io/gorm"
)

// UserRepository is a repository for interacting with practitioner accounts.
type UserRepository struct {
	DB *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// GetOrCreateUser loads the practitioner row for an authenticated identity,
// creating it on first contact. Token issuance lives in the external
// identity service, so a valid token for an unseen ID is a new account.
func (r *UserRepository) GetOrCreateUser(userID uint) (*models.User, error) {
	var user models.User
	err := r.DB.Preload("Subscription").Where("id = ?", userID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		Model: gorm.Model{ID: userID},
		Subscription: &models.Subscription{
			UserID:         userID,
			Tier:           models.TierFree,
			MonthlyResetAt: time.Now().AddDate(0, 1, 0),
		},
	}
	if err := r.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetSubscription loads the subscription for a practitioner, creating the
// account on first contact.
func (r *UserRepository) GetSubscription(userID uint) (*models.Subscription, error) {
	user, err := r.GetOrCreateUser(userID)
	if err != nil {
		return nil, err
	}
	if user.Subscription == nil {
		sub := &models.Subscription{
			UserID:         userID,
			Tier:           models.TierFree,
			MonthlyResetAt: time.Now().AddDate(0, 1, 0),
		}
		if err := r.DB.Create(sub).Error; err != nil {
			return nil, err
		}
		return sub, nil
	}
	return user.Subscription, nil
}

// UpdateSubscription saves subscription changes.
func (r *UserRepository) UpdateSubscription(sub *models.Subscription) error {
	return r.DB.Save(sub).Error
}
