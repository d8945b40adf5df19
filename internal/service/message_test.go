package service

import (
	"strings"
	"sync"
	"testing"

	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"github.com/nutripraxis/nutripraxis-api/internal/testutil"
)

// recordingHub captures broadcasts without a live websocket hub.
type recordingHub struct {
	mu       sync.Mutex
	Rooms    []string
	Payloads [][]byte
}

func (h *recordingHub) BroadcastToRoom(room string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Rooms = append(h.Rooms, room)
	h.Payloads = append(h.Payloads, message)
}

func newTestMessageService() (*MessageService, *testutil.MockMessageRepo, *testutil.MockClientRepo, *recordingHub) {
	messages := testutil.NewMockMessageRepo()
	clients := testutil.NewMockClientRepo()
	hub := &recordingHub{}
	return NewMessageService(messages, clients, hub), messages, clients, hub
}

func TestSendMessagePersistsAndBroadcasts(t *testing.T) {
	svc, messages, clients, hub := newTestMessageService()
	client := testutil.TestClientRecord()
	clients.Clients[client.ID] = client

	msg, err := svc.SendMessage(1, client.ID, models.SenderCoach, "How was the week?")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if msg.Body != "How was the week?" {
		t.Errorf("body = %q", msg.Body)
	}
	if len(messages.Messages[client.ID]) != 1 {
		t.Errorf("message not persisted")
	}
	if len(hub.Rooms) != 1 || hub.Rooms[0] != ClientRoom(client.ID) {
		t.Errorf("broadcast rooms = %v, want [%s]", hub.Rooms, ClientRoom(client.ID))
	}
}

func TestSendMessageCensorsProfanity(t *testing.T) {
	svc, messages, clients, _ := newTestMessageService()
	client := testutil.TestClientRecord()
	clients.Clients[client.ID] = client

	msg, err := svc.SendMessage(1, client.ID, models.SenderCoach, "that plan was shit")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if strings.Contains(msg.Body, "shit") {
		t.Errorf("profanity not censored: %q", msg.Body)
	}
	if !strings.Contains(msg.Body, "that plan was") {
		t.Errorf("surrounding text mangled: %q", msg.Body)
	}
	if stored := messages.Messages[client.ID][0]; strings.Contains(stored.Body, "shit") {
		t.Errorf("censored form not the one persisted: %q", stored.Body)
	}
}

func TestSendMessageValidation(t *testing.T) {
	svc, _, clients, hub := newTestMessageService()
	client := testutil.TestClientRecord()
	clients.Clients[client.ID] = client

	if _, err := svc.SendMessage(1, client.ID, models.SenderCoach, "   "); err == nil {
		t.Error("expected error for empty body")
	}
	if _, err := svc.SendMessage(1, client.ID, "bot", "hello"); err == nil {
		t.Error("expected error for unknown sender role")
	}
	if len(hub.Rooms) != 0 {
		t.Errorf("nothing should be broadcast on validation failure, got %v", hub.Rooms)
	}
}

func TestSendMessageForeignClient(t *testing.T) {
	svc, _, clients, _ := newTestMessageService()
	client := testutil.TestClientRecord()
	client.UserID = 2
	clients.Clients[client.ID] = client

	_, err := svc.SendMessage(1, client.ID, models.SenderCoach, "hello")
	if err == nil {
		t.Fatal("expected error for foreign client")
	}
}

func TestGetThreadPagination(t *testing.T) {
	svc, _, clients, _ := newTestMessageService()
	client := testutil.TestClientRecord()
	clients.Clients[client.ID] = client

	for i := 0; i < 5; i++ {
		if _, err := svc.SendMessage(1, client.ID, models.SenderCoach, "message"); err != nil {
			t.Fatalf("SendMessage returned error: %v", err)
		}
	}

	msgs, total, err := svc.GetThread(1, client.ID, 1, 2)
	if err != nil {
		t.Fatalf("GetThread returned error: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(msgs) != 2 {
		t.Errorf("page size = %d, want 2", len(msgs))
	}
}

func TestSendMessageNilHub(t *testing.T) {
	messages := testutil.NewMockMessageRepo()
	clients := testutil.NewMockClientRepo()
	svc := NewMessageService(messages, clients, nil)
	client := testutil.TestClientRecord()
	clients.Clients[client.ID] = client

	if _, err := svc.SendMessage(1, client.ID, models.SenderCoach, "hello"); err != nil {
		t.Fatalf("SendMessage with nil hub returned error: %v", err)
	}
}
