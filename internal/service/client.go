package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/nutripraxis/nutripraxis-api/internal/config"
	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"github.com/nutripraxis/nutripraxis-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// ValidationError rejects bad client-record input before it reaches storage.
type ValidationError struct {
	Message string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return e.Message
}

// ClientService is the business logic layer for client records and
// progress tracking.
type ClientService struct {
	Cfg  *config.Config
	Repo repository.ClientRepo
}

// NewClientService creates a new ClientService.
func NewClientService(cfg *config.Config, repo repository.ClientRepo) *ClientService {
	return &ClientService{Cfg: cfg, Repo: repo}
}

// validateClient checks the fields a practitioner can get wrong.
func validateClient(client *models.ClientRecord) error {
	if strings.TrimSpace(client.FullName) == "" {
		return &ValidationError{Message: "full_name is required"}
	}
	if client.Email != "" && !govalidator.IsEmail(client.Email) {
		return &ValidationError{Message: "email is not a valid address"}
	}
	if client.Age < 0 || client.Age > 130 {
		return &ValidationError{Message: "age must be between 0 and 130"}
	}
	if client.Weight < 0 || client.Height < 0 {
		return &ValidationError{Message: "weight and height must not be negative"}
	}
	return nil
}

// CreateClient validates and creates a client record for the practitioner.
func (s *ClientService) CreateClient(userID uint, client *models.ClientRecord) error {
	client.UserID = userID
	if err := validateClient(client); err != nil {
		return err
	}
	return s.Repo.CreateClient(client)
}

// GetClient loads a client record, enforcing ownership.
func (s *ClientService) GetClient(userID, clientID uint) (*models.ClientRecord, error) {
	client, err := s.Repo.GetClientByID(clientID)
	if err != nil {
		return nil, err
	}
	if client.UserID != userID {
		return nil, repository.NewNotFoundError("client not found")
	}
	return client, nil
}

// ListClients returns a page of the practitioner's clients.
func (s *ClientService) ListClients(userID uint, page, pageSize int) ([]models.ClientRecord, int64, error) {
	return s.Repo.GetUserClients(userID, page, pageSize)
}

// UpdateClient validates and saves changes to an owned client record.
func (s *ClientService) UpdateClient(userID uint, client *models.ClientRecord) error {
	existing, err := s.GetClient(userID, client.ID)
	if err != nil {
		return err
	}
	client.UserID = existing.UserID
	client.PortalPasscodeHash = existing.PortalPasscodeHash
	if err := validateClient(client); err != nil {
		return err
	}
	return s.Repo.UpdateClient(client)
}

// DeleteClient deletes an owned client record.
func (s *ClientService) DeleteClient(userID, clientID uint) error {
	if _, err := s.GetClient(userID, clientID); err != nil {
		return err
	}
	return s.Repo.DeleteClient(clientID)
}

// IssuePortalPasscode generates a fresh portal passcode for the client,
// stores its bcrypt hash, and returns the plaintext exactly once.
func (s *ClientService) IssuePortalPasscode(userID, clientID uint) (string, error) {
	if _, err := s.GetClient(userID, clientID); err != nil {
		return "", err
	}

	passcode := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), 10)
	if err != nil {
		return "", fmt.Errorf("error hashing passcode: %v", err)
	}

	if err := s.Repo.SetPortalPasscodeHash(clientID, string(hash)); err != nil {
		return "", err
	}
	return passcode, nil
}

// VerifyPortalPasscode checks a client portal passcode against the stored hash.
func (s *ClientService) VerifyPortalPasscode(clientID uint, passcode string) error {
	client, err := s.Repo.GetClientByID(clientID)
	if err != nil {
		return err
	}
	if client.PortalPasscodeHash == "" {
		return errors.New("no portal access has been issued for this client")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.PortalPasscodeHash), []byte(passcode)); err != nil {
		return errors.New("invalid passcode")
	}
	return nil
}

// AddWeightEntry records a progress measurement for an owned client.
func (s *ClientService) AddWeightEntry(userID, clientID uint, weight float64, recordedAt time.Time, note string) (*models.WeightEntry, error) {
	if _, err := s.GetClient(userID, clientID); err != nil {
		return nil, err
	}
	if weight <= 0 {
		return nil, &ValidationError{Message: "weight must be positive"}
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	entry := &models.WeightEntry{
		ClientID:   clientID,
		Weight:     weight,
		RecordedAt: recordedAt,
		Note:       note,
	}
	if err := s.Repo.CreateWeightEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetWeightHistory returns an owned client's weight entries, oldest first.
func (s *ClientService) GetWeightHistory(userID, clientID uint) ([]models.WeightEntry, error) {
	if _, err := s.GetClient(userID, clientID); err != nil {
		return nil, err
	}
	return s.Repo.GetWeightEntries(clientID)
}
