package services

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// MinimumCharge is the smallest amount, in major currency units, accepted for
// a payment intent.
const MinimumCharge = 1.0

type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       int64 // minor units
	Currency     string
}

// PaymentGateway creates charge intents at the payment processor. Card data is
// collected by the processor's own UI using the returned client secret.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount float64, bookingID string) (*PaymentIntent, error)
}

// ToMinorUnits converts a major-unit amount to integer cents, rounding half
// away from zero.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func ValidateChargeAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < MinimumCharge {
		return errors.Wrapf(ErrInvalidInput, "amount must be at least %v", MinimumCharge)
	}
	return nil
}

type StripeGateway struct {
	client   *client.API
	currency string
}

func NewStripeGateway(secretKey, currency string) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeGateway{client: sc, currency: currency}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount float64, bookingID string) (*PaymentIntent, error) {
	if err := ValidateChargeAmount(amount); err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(ToMinorUnits(amount)),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if bookingID != "" {
		params.AddMetadata("booking_id", bookingID)
	}

	pi, err := g.client.PaymentIntents.New(params)
	if err != nil {
		return nil, errors.Wrapf(ErrUpstream, "stripe create payment intent: %v", err)
	}

	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}
