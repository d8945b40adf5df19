package repository

import (
	"errors"

	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"gorm.io/gorm"
)

// ClientRepository is a repository for interacting with client records.
type ClientRepository struct {
	DB *gorm.DB
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

// CreateClient creates a new client record.
func (r *ClientRepository) CreateClient(client *models.ClientRecord) error {
	return r.DB.Create(client).Error
}

// GetClientByID retrieves a client record by ID.
func (r *ClientRepository) GetClientByID(clientID uint) (*models.ClientRecord, error) {
	var client models.ClientRecord
	if err := r.DB.Where("id = ?", clientID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "client not found"}
		}
		return nil, err
	}
	return &client, nil
}

// GetUserClients returns a page of the practitioner's clients and the total count.
func (r *ClientRepository) GetUserClients(userID uint, page, pageSize int) ([]models.ClientRecord, int64, error) {
	var clients []models.ClientRecord
	var total int64

	if err := r.DB.Model(&models.ClientRecord{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.DB.Where("user_id = ?", userID).
		Order("full_name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&clients).Error; err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

// UpdateClient saves the full client record.
func (r *ClientRepository) UpdateClient(client *models.ClientRecord) error {
	return r.DB.Save(client).Error
}

// DeleteClient deletes a client record by ID.
func (r *ClientRepository) DeleteClient(clientID uint) error {
	return r.DB.Delete(&models.ClientRecord{}, clientID).Error
}

// SetPortalPasscodeHash stores the bcrypt hash of a client's portal passcode.
func (r *ClientRepository) SetPortalPasscodeHash(clientID uint, hash string) error {
	return r.DB.Model(&models.ClientRecord{}).
		Where("id = ?", clientID).
		Update("portal_passcode_hash", hash).Error
}

// CreateWeightEntry creates a new weight entry for a client.
func (r *ClientRepository) CreateWeightEntry(entry *models.WeightEntry) error {
	return r.DB.Create(entry).Error
}

// GetWeightEntries returns a client's weight entries, oldest first.
func (r *ClientRepository) GetWeightEntries(clientID uint) ([]models.WeightEntry, error) {
	var entries []models.WeightEntry
	if err := r.DB.Where("client_id = ?", clientID).
		Order("recorded_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
