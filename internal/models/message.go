package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// SenderRole identifies which side of a conversation sent a message.
type SenderRole string

// SenderRole enum values.
const (
	SenderCoach  SenderRole = "coach"
	SenderClient SenderRole = "client"
)

// Valid reports whether the role is a known sender.
func (r SenderRole) Valid() bool {
	return r == SenderCoach || r == SenderClient
}

// Message is a single message between a practitioner and a client.
type Message struct {
	gorm.Model
	ClientID uint       `gorm:"index" json:"client_id"`
	Sender   SenderRole `gorm:"type:text" json:"sender"`
	Body     string     `json:"body"`
}

// MarshalPayload renders the message as the JSON frame pushed to live
// portal sessions.
func (m *Message) MarshalPayload() ([]byte, error) {
	return json.Marshal(m)
}
