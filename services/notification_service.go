// services/notification_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rentalcar-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type messageSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
	Currency       string
}

// SMSNotifier texts the customer once a booking is confirmed and keeps a log
// of every attempt.
type SMSNotifier struct {
	db           *gorm.DB
	api          messageSender
	from         string
	whatsappFrom string
	currency     string
}

func NewSMSNotifier(db *gorm.DB, cfg TwilioConfig) *SMSNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &SMSNotifier{
		db:           db,
		api:          client.Api,
		from:         cfg.PhoneNumber,
		whatsappFrom: cfg.WhatsAppNumber,
		currency:     strings.ToUpper(cfg.Currency),
	}
}

// NewNotifier picks the Twilio notifier when credentials are configured.
func NewNotifier(db *gorm.DB, cfg TwilioConfig) Notifier {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		zap.S().Warn("twilio credentials missing, booking notifications disabled")
		return NoopNotifier{}
	}
	return NewSMSNotifier(db, cfg)
}

func confirmationMessage(b models.Booking, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("Hi %s, your booking %s for the %s is confirmed. Pickup %s at %s, return %s. Total %.2f %s.",
		b.CustomerName,
		b.Reference,
		b.Car.Model,
		b.PickupDate.Format("Jan 2, 2006"),
		b.PickupLocation,
		b.ReturnDate.Format("Jan 2, 2006"),
		b.TotalPrice,
		currency)
}

func (n *SMSNotifier) BookingConfirmed(ctx context.Context, b models.Booking) {
	message := confirmationMessage(b, n.currency)

	// WhatsApp when the number is E.164 and a WhatsApp sender exists, else SMS
	channel := "sms"
	to := b.Phone
	from := n.from
	if strings.HasPrefix(b.Phone, "+") && n.whatsappFrom != "" {
		channel = "whatsapp"
		to = "whatsapp:" + b.Phone
		from = "whatsapp:" + n.whatsappFrom
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	status := "sent"
	errorMsg := ""
	resp, err := n.api.CreateMessage(params)
	if err != nil {
		zap.S().Errorf("Failed to send confirmation to %s: %v", b.Phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp != nil && resp.Sid != nil {
		zap.S().Infof("Confirmation sent to %s, SID: %s", b.Phone, *resp.Sid)
	}

	entry := models.NotificationLog{
		BookingID:    b.ID,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}
	if err := n.db.WithContext(ctx).Create(&entry).Error; err != nil {
		zap.S().Errorf("Failed to log notification for booking %s: %v", b.ID, err)
	}
}
