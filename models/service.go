package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is static marketing content (airport pickup, chauffeur, ...).
type Service struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Icon        string    `gorm:"type:varchar(40)" json:"icon"` // symbolic glyph name, resolved by the UI
	CreatedAt   time.Time `json:"createdAt"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
