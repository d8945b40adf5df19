package service

import (
	"fmt"
	"strings"

	goaway "github.com/TwiN/go-away"
	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"github.com/nutripraxis/nutripraxis-api/internal/repository"
)

// Broadcaster pushes a persisted message to connected portal sessions.
type Broadcaster interface {
	BroadcastToRoom(room string, message []byte)
}

// MessageService handles the coach/client message thread.
type MessageService struct {
	Repo    repository.MessageRepo
	Clients repository.ClientRepo
	Hub     Broadcaster
}

// NewMessageService creates a new MessageService.
func NewMessageService(repo repository.MessageRepo, clients repository.ClientRepo, hub Broadcaster) *MessageService {
	return &MessageService{Repo: repo, Clients: clients, Hub: hub}
}

// ClientRoom is the hub room name for a client's message thread.
func ClientRoom(clientID uint) string {
	return fmt.Sprintf("client:%d", clientID)
}

// SendMessage persists a message on a client thread and broadcasts it to
// any live portal sessions. Profanity is censored, not rejected.
func (s *MessageService) SendMessage(userID, clientID uint, sender models.SenderRole, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, &ValidationError{Message: "message body is required"}
	}
	if !sender.Valid() {
		return nil, &ValidationError{Message: "sender must be coach or client"}
	}

	client, err := s.Clients.GetClientByID(clientID)
	if err != nil {
		return nil, err
	}
	if sender == models.SenderCoach && client.UserID != userID {
		return nil, repository.NewNotFoundError("client not found")
	}

	msg := &models.Message{
		ClientID: clientID,
		Sender:   sender,
		Body:     goaway.Censor(body),
	}
	if err := s.Repo.CreateMessage(msg); err != nil {
		return nil, err
	}

	if s.Hub != nil {
		if payload, err := msg.MarshalPayload(); err == nil {
			s.Hub.BroadcastToRoom(ClientRoom(clientID), payload)
		}
	}
	return msg, nil
}

// GetThread returns a page of a client thread, newest first.
func (s *MessageService) GetThread(userID, clientID uint, page, pageSize int) ([]models.Message, int64, error) {
	client, err := s.Clients.GetClientByID(clientID)
	if err != nil {
		return nil, 0, err
	}
	if client.UserID != userID {
		return nil, 0, repository.NewNotFoundError("client not found")
	}
	return s.Repo.GetClientMessages(clientID, page, pageSize)
}
