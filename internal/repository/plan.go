package repository

import (
	"errors"

	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"gorm.io/gorm"
)

// PlanRepository is a repository for interacting with persisted meal plans.
type PlanRepository struct {
	DB *gorm.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{DB: db}
}

// CreatePlan persists a generated meal plan.
func (r *PlanRepository) CreatePlan(plan *models.MealPlanRecord) error {
	return r.DB.Create(plan).Error
}

// GetPlanByID retrieves a meal plan by ID.
func (r *PlanRepository) GetPlanByID(planID uint) (*models.MealPlanRecord, error) {
	var plan models.MealPlanRecord
	if err := r.DB.Where("id = ?", planID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "meal plan not found"}
		}
		return nil, err
	}
	return &plan, nil
}

// GetClientPlans returns a page of a client's meal plans, newest first.
func (r *PlanRepository) GetClientPlans(clientID uint, page, pageSize int) ([]models.MealPlanRecord, int64, error) {
	var plans []models.MealPlanRecord
	var total int64

	if err := r.DB.Model(&models.MealPlanRecord{}).
		Where("client_id = ?", clientID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.DB.Where("client_id = ?", clientID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&plans).Error; err != nil {
		return nil, 0, err
	}

	return plans, total, nil
}

// DeletePlan deletes a meal plan by ID.
func (r *PlanRepository) DeletePlan(planID uint) error {
	return r.DB.Delete(&models.MealPlanRecord{}, planID).Error
}
