package repository

import "github.com/nutripraxis/nutripraxis-api/internal/models"

// ClientRepo is the interface for client-record repository operations.
type ClientRepo interface {
	CreateClient(client *models.ClientRecord) error
	GetClientByID(clientID uint) (*models.ClientRecord, error)
	GetUserClients(userID uint, page, pageSize int) ([]models.ClientRecord, int64, error)
	UpdateClient(client *models.ClientRecord) error
	DeleteClient(clientID uint) error
	SetPortalPasscodeHash(clientID uint, hash string) error
	CreateWeightEntry(entry *models.WeightEntry) error
	GetWeightEntries(clientID uint) ([]models.WeightEntry, error)
}

// PlanRepo is the interface for meal-plan repository operations.
type PlanRepo interface {
	CreatePlan(plan *models.MealPlanRecord) error
	GetPlanByID(planID uint) (*models.MealPlanRecord, error)
	GetClientPlans(clientID uint, page, pageSize int) ([]models.MealPlanRecord, int64, error)
	DeletePlan(planID uint) error
}

// MessageRepo is the interface for message repository operations.
type MessageRepo interface {
	CreateMessage(msg *models.Message) error
	GetClientMessages(clientID uint, page, pageSize int) ([]models.Message, int64, error)
}

// UserRepo is the interface for practitioner repository operations.
type UserRepo interface {
	GetOrCreateUser(userID uint) (*models.User, error)
	GetSubscription(userID uint) (*models.Subscription, error)
	UpdateSubscription(sub *models.Subscription) error
}
