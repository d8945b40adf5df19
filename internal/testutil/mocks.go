package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/nutripraxis/nutripraxis-api/internal/ai"
	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"github.com/nutripraxis/nutripraxis-api/internal/repository"
	"gorm.io/gorm"
)

// --- MockChatProvider ---

// MockChatProvider is a mock implementation of ai.ChatProvider. Calls
// counts Complete invocations so tests can assert no provider was hit.
type MockChatProvider struct {
	mu           sync.Mutex
	ID           ai.ProviderID
	Images       bool
	CompleteFunc func(ctx context.Context, req ai.ChatRequest) (string, error)
	Calls        int
	LastRequest  ai.ChatRequest
}

func (m *MockChatProvider) Name() ai.ProviderID {
	return m.ID
}

func (m *MockChatProvider) SupportsImages() bool {
	return m.Images
}

func (m *MockChatProvider) Complete(ctx context.Context, req ai.ChatRequest) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.LastRequest = req
	m.mu.Unlock()
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "", fmt.Errorf("Complete not configured")
}

// --- MockClientRepo ---

// MockClientRepo is an in-memory mock implementation of repository.ClientRepo.
type MockClientRepo struct {
	mu      sync.Mutex
	Clients map[uint]*models.ClientRecord
	Weights map[uint][]models.WeightEntry
	NextID  uint

	// Error overrides: set these to force specific methods to return errors.
	CreateClientErr      error
	GetClientByIDErr     error
	UpdateClientErr      error
	DeleteClientErr      error
	CreateWeightEntryErr error
}

// NewMockClientRepo creates a new MockClientRepo with initialized maps.
func NewMockClientRepo() *MockClientRepo {
	return &MockClientRepo{
		Clients: make(map[uint]*models.ClientRecord),
		Weights: make(map[uint][]models.WeightEntry),
		NextID:  1,
	}
}

func (m *MockClientRepo) CreateClient(client *models.ClientRecord) error {
	if m.CreateClientErr != nil {
		return m.CreateClientErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if client.ID == 0 {
		client.ID = m.NextID
		m.NextID++
	}
	copied := *client
	m.Clients[client.ID] = &copied
	return nil
}

func (m *MockClientRepo) GetClientByID(clientID uint) (*models.ClientRecord, error) {
	if m.GetClientByIDErr != nil {
		return nil, m.GetClientByIDErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	client, ok := m.Clients[clientID]
	if !ok {
		return nil, repository.NewNotFoundError("client not found")
	}
	copied := *client
	return &copied, nil
}

func (m *MockClientRepo) GetUserClients(userID uint, page, pageSize int) ([]models.ClientRecord, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var clients []models.ClientRecord
	for _, c := range m.Clients {
		if c.UserID == userID {
			clients = append(clients, *c)
		}
	}
	total := int64(len(clients))
	start := (page - 1) * pageSize
	if start >= len(clients) {
		return []models.ClientRecord{}, total, nil
	}
	end := start + pageSize
	if end > len(clients) {
		end = len(clients)
	}
	return clients[start:end], total, nil
}

func (m *MockClientRepo) UpdateClient(client *models.ClientRecord) error {
	if m.UpdateClientErr != nil {
		return m.UpdateClientErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Clients[client.ID]; !ok {
		return repository.NewNotFoundError("client not found")
	}
	copied := *client
	m.Clients[client.ID] = &copied
	return nil
}

func (m *MockClientRepo) DeleteClient(clientID uint) error {
	if m.DeleteClientErr != nil {
		return m.DeleteClientErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Clients, clientID)
	return nil
}

func (m *MockClientRepo) SetPortalPasscodeHash(clientID uint, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	client, ok := m.Clients[clientID]
	if !ok {
		return repository.NewNotFoundError("client not found")
	}
	client.PortalPasscodeHash = hash
	return nil
}

func (m *MockClientRepo) CreateWeightEntry(entry *models.WeightEntry) error {
	if m.CreateWeightEntryErr != nil {
		return m.CreateWeightEntryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Weights[entry.ClientID] = append(m.Weights[entry.ClientID], *entry)
	return nil
}

func (m *MockClientRepo) GetWeightEntries(clientID uint) ([]models.WeightEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.WeightEntry(nil), m.Weights[clientID]...), nil
}

// --- MockPlanRepo ---

// MockPlanRepo is an in-memory mock implementation of repository.PlanRepo.
type MockPlanRepo struct {
	mu     sync.Mutex
	Plans  map[uint]*models.MealPlanRecord
	NextID uint

	CreatePlanErr error
}

// NewMockPlanRepo creates a new MockPlanRepo with initialized maps.
func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{
		Plans:  make(map[uint]*models.MealPlanRecord),
		NextID: 1,
	}
}

func (m *MockPlanRepo) CreatePlan(plan *models.MealPlanRecord) error {
	if m.CreatePlanErr != nil {
		return m.CreatePlanErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if plan.ID == 0 {
		plan.ID = m.NextID
		m.NextID++
	}
	copied := *plan
	m.Plans[plan.ID] = &copied
	return nil
}

func (m *MockPlanRepo) GetPlanByID(planID uint) (*models.MealPlanRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.Plans[planID]
	if !ok {
		return nil, repository.NewNotFoundError("meal plan not found")
	}
	copied := *plan
	return &copied, nil
}

func (m *MockPlanRepo) GetClientPlans(clientID uint, page, pageSize int) ([]models.MealPlanRecord, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var plans []models.MealPlanRecord
	for _, p := range m.Plans {
		if p.ClientID == clientID {
			plans = append(plans, *p)
		}
	}
	total := int64(len(plans))
	start := (page - 1) * pageSize
	if start >= len(plans) {
		return []models.MealPlanRecord{}, total, nil
	}
	end := start + pageSize
	if end > len(plans) {
		end = len(plans)
	}
	return plans[start:end], total, nil
}

func (m *MockPlanRepo) DeletePlan(planID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Plans, planID)
	return nil
}

// --- MockMessageRepo ---

// MockMessageRepo is an in-memory mock implementation of repository.MessageRepo.
type MockMessageRepo struct {
	mu       sync.Mutex
	Messages map[uint][]models.Message
	NextID   uint

	CreateMessageErr error
}

// NewMockMessageRepo creates a new MockMessageRepo with initialized maps.
func NewMockMessageRepo() *MockMessageRepo {
	return &MockMessageRepo{
		Messages: make(map[uint][]models.Message),
		NextID:   1,
	}
}

func (m *MockMessageRepo) CreateMessage(msg *models.Message) error {
	if m.CreateMessageErr != nil {
		return m.CreateMessageErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.ID == 0 {
		msg.ID = m.NextID
		m.NextID++
	}
	m.Messages[msg.ClientID] = append(m.Messages[msg.ClientID], *msg)
	return nil
}

func (m *MockMessageRepo) GetClientMessages(clientID uint, page, pageSize int) ([]models.Message, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.Messages[clientID]
	total := int64(len(msgs))
	start := (page - 1) * pageSize
	if start >= len(msgs) {
		return []models.Message{}, total, nil
	}
	end := start + pageSize
	if end > len(msgs) {
		end = len(msgs)
	}
	return append([]models.Message(nil), msgs[start:end]...), total, nil
}

// --- MockUserRepo ---

// MockUserRepo is an in-memory mock implementation of repository.UserRepo.
type MockUserRepo struct {
	mu            sync.Mutex
	Users         map[uint]*models.User
	Subscriptions map[uint]*models.Subscription

	GetSubscriptionErr    error
	UpdateSubscriptionErr error
}

// NewMockUserRepo creates a new MockUserRepo with initialized maps.
func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{
		Users:         make(map[uint]*models.User),
		Subscriptions: make(map[uint]*models.Subscription),
	}
}

func (m *MockUserRepo) GetOrCreateUser(userID uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[userID]; ok {
		return user, nil
	}
	user := &models.User{Model: gorm.Model{ID: userID}}
	m.Users[userID] = user
	if _, ok := m.Subscriptions[userID]; !ok {
		m.Subscriptions[userID] = &models.Subscription{
			UserID: userID,
			Tier:   models.TierFree,
		}
	}
	return user, nil
}

func (m *MockUserRepo) GetSubscription(userID uint) (*models.Subscription, error) {
	if m.GetSubscriptionErr != nil {
		return nil, m.GetSubscriptionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.Subscriptions[userID]
	if !ok {
		sub = &models.Subscription{UserID: userID, Tier: models.TierFree}
		m.Subscriptions[userID] = sub
	}
	return sub, nil
}

func (m *MockUserRepo) UpdateSubscription(sub *models.Subscription) error {
	if m.UpdateSubscriptionErr != nil {
		return m.UpdateSubscriptionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *sub
	m.Subscriptions[sub.UserID] = &copied
	return nil
}
