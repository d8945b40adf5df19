package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ClientRecord is the model for a client of a nutrition practice.
type ClientRecord struct {
	gorm.Model
	UserID             uint           `gorm:"index" json:"-"` // owning practitioner
	FullName           string         `json:"full_name"`
	Email              string         `json:"email"`
	Age                int            `json:"age"`
	Gender             string         `json:"gender"`
	Weight             float64        `json:"weight"` // kg
	Height             float64        `json:"height"` // cm
	Goal               string         `json:"goal"`
	ActivityLevel      string         `json:"activity_level"`
	Allergies          string         `json:"allergies"`
	Preferences        string         `json:"preferences"`
	MedicalHistory     string         `json:"medical_history"`
	Medications        string         `json:"medications"`
	DietaryHistory     string         `json:"dietary_history"`
	SocialBackground   string         `json:"social_background"`
	Tags               pq.StringArray `gorm:"type:text[]" json:"tags"`
	PortalPasscodeHash string         `json:"-"`
	WeightEntries      []WeightEntry  `gorm:"foreignKey:ClientID" json:"-"`
}

// WeightEntry is a single progress measurement for a client.
type WeightEntry struct {
	gorm.Model
	ClientID   uint      `gorm:"index" json:"client_id"`
	Weight     float64   `json:"weight"` // kg
	RecordedAt time.Time `json:"recorded_at"`
	Note       string    `json:"note"`
}

// GenerationParams builds meal generation parameters from the client's
// stored attributes. Callers may override fields before generating.
func (c *ClientRecord) GenerationParams() MealGenerationParams {
	return MealGenerationParams{
		Age:              c.Age,
		Gender:           c.Gender,
		Weight:           c.Weight,
		Height:           c.Height,
		Goal:             c.Goal,
		ActivityLevel:    c.ActivityLevel,
		Allergies:        c.Allergies,
		Preferences:      c.Preferences,
		MedicalHistory:   c.MedicalHistory,
		Medications:      c.Medications,
		DietaryHistory:   c.DietaryHistory,
		SocialBackground: c.SocialBackground,
	}
}
