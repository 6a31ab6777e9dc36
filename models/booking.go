package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingExpired   BookingStatus = "expired"
)

// CanTransitionTo reports whether a booking in status s may move to target.
// Only pending bookings move, and never back to pending.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	if s != BookingPending {
		return false
	}
	switch target {
	case BookingConfirmed, BookingCancelled, BookingExpired:
		return true
	}
	return false
}

type Booking struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Reference string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"reference"`

	CarID uuid.UUID `gorm:"type:varchar(36);index;not null" json:"carId"`
	Car   Car       `gorm:"foreignKey:CarID" json:"car"`

	CustomerName   string    `gorm:"not null" json:"customerName"`
	Email          string    `gorm:"not null" json:"email"`
	Phone          string    `gorm:"not null" json:"phone"`
	PickupDate     time.Time `gorm:"not null" json:"pickupDate"`
	ReturnDate     time.Time `gorm:"not null" json:"returnDate"`
	PickupLocation string    `gorm:"not null" json:"pickupLocation"`

	TotalPrice      float64       `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
	Status          BookingStatus `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	PaymentIntentID string        `gorm:"type:varchar(255);index" json:"paymentIntentId,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BookingPending
	}
	return
}
