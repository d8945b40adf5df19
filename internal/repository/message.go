package repository

import (
	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"gorm.io/gorm"
)

// MessageRepository is a repository for interacting with messages.
type MessageRepository struct {
	DB *gorm.DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

// CreateMessage persists a message.
func (r *MessageRepository) CreateMessage(msg *models.Message) error {
	return r.DB.Create(msg).Error
}

// GetClientMessages returns a page of a client's conversation, newest first.
func (r *MessageRepository) GetClientMessages(clientID uint, page, pageSize int) ([]models.Message, int64, error) {
	var messages []models.Message
	var total int64

	if err := r.DB.Model(&models.Message{}).
		Where("client_id = ?", clientID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.DB.Where("client_id = ?", clientID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}
