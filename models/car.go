package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Car is a fleet vehicle offered for rent. Cars are created by seeding and
// are read-only to the booking flow.
type Car struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Model        string    `gorm:"not null" json:"model"`
	Type         string    `gorm:"type:varchar(40);index;not null" json:"type"` // Luxury, SUV, Electric, Sedan
	Price        float64   `gorm:"type:decimal(10,2);not null" json:"price"`    // daily rate
	Image        string    `json:"image"`
	Transmission string    `gorm:"type:varchar(40);index" json:"transmission"`
	Fuel         string    `gorm:"type:varchar(40);index" json:"fuel"`
	Seats        int       `gorm:"not null" json:"seats"`
	Rating       float64   `gorm:"type:decimal(2,1);default:0" json:"rating"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (c *Car) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
