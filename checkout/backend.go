package checkout

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"rentalcar-backend/models"
	"rentalcar-backend/services"
	"rentalcar-backend/utils"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIError is a non-success answer from the booking API.
type APIError struct {
	Status  int
	Message string
	Details []utils.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// Temporary reports whether repeating the request may succeed.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return services.ErrNotFound
	case e.Status == http.StatusUnauthorized:
		return services.ErrUnauthorized
	case e.Status == http.StatusTooManyRequests:
		return services.ErrRateLimited
	case e.Status == http.StatusConflict:
		return services.ErrInvalidTransition
	case e.Status == http.StatusBadRequest:
		return services.ErrInvalidInput
	case e.Status >= 500:
		return services.ErrUpstream
	}
	return nil
}

// HTTPBackend talks to the booking API over HTTP.
type HTTPBackend struct {
	baseURL string
	timeout time.Duration
}

func NewHTTPBackend(baseURL string) *HTTPBackend {
	return &HTTPBackend{baseURL: strings.TrimRight(baseURL, "/"), timeout: 15 * time.Second}
}

// GetCar loads one car from the catalog so the first step prices with the
// real daily rate.
func (b *HTTPBackend) GetCar(ctx context.Context, carID string) (*models.Car, error) {
	var car models.Car
	if err := b.send(ctx, http.MethodGet, "/cars/"+carID, nil, http.StatusOK, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (b *HTTPBackend) CreateBooking(ctx context.Context, in utils.BookingInput) (*models.Booking, error) {
	var booking models.Booking
	if err := b.send(ctx, http.MethodPost, "/bookings", in, http.StatusCreated, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (b *HTTPBackend) CreatePaymentIntent(ctx context.Context, amount float64, bookingID string) (string, error) {
	body := map[string]interface{}{"amount": amount}
	if bookingID != "" {
		body["bookingId"] = bookingID
	}

	var resp struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := b.send(ctx, http.MethodPost, "/create-payment-intent", body, http.StatusOK, &resp); err != nil {
		return "", err
	}
	if resp.ClientSecret == "" {
		return "", errors.New("payment intent response carried no client secret")
	}
	return resp.ClientSecret, nil
}

func (b *HTTPBackend) UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) (*models.Booking, error) {
	var booking models.Booking
	body := map[string]string{"status": string(status)}
	if err := b.send(ctx, http.MethodPatch, "/bookings/"+bookingID, body, http.StatusOK, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (b *HTTPBackend) send(ctx context.Context, method, path string, body interface{}, want int, out interface{}) error {
	url := b.baseURL + path
	flow := gout.POST(url)
	switch method {
	case http.MethodGet:
		flow = gout.GET(url)
	case http.MethodPatch:
		flow = gout.PATCH(url)
	}
	if body != nil {
		flow = flow.SetJSON(body)
	}

	var (
		raw  string
		code int
	)
	err := flow.WithContext(ctx).
		SetTimeout(b.timeout).
		BindBody(&raw).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}

	if code != want {
		var apiErr struct {
			Error   string             `json:"error"`
			Details []utils.FieldError `json:"details"`
		}
		_ = json.UnmarshalFromString(raw, &apiErr)
		return &APIError{Status: code, Message: apiErr.Error, Details: apiErr.Details}
	}

	if err := json.UnmarshalFromString(raw, out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}
