// utils/validation.go
package utils

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-playground/validator/v10"
)

// BookingInput is the raw booking submission as posted by the checkout.
type BookingInput struct {
	CarID          string `json:"carId" validate:"required"`
	CustomerName   string `json:"customerName" validate:"min=2"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"min=5"`
	PickupDate     string `json:"pickupDate" validate:"required,calendardate"`
	ReturnDate     string `json:"returnDate" validate:"required,calendardate"`
	PickupLocation string `json:"pickupLocation" validate:"min=2"`
}

// ValidatedBooking is a BookingInput that passed every rule, with dates parsed.
type ValidatedBooking struct {
	CarID          string
	CustomerName   string
	Email          string
	Phone          string
	PickupDate     time.Time
	ReturnDate     time.Time
	PickupLocation string
}

// FieldError reports one failed rule against a JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Field returns the first error reported for field, if any.
func (v ValidationErrors) Field(field string) (FieldError, bool) {
	for _, fe := range v {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// ParseDate accepts calendar dates ("2024-06-01") and full timestamps.
// Values without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	return dateparse.ParseIn(s, time.UTC)
}

// ValidateBooking checks every structural rule and the pickup/return ordering,
// collecting all failures instead of stopping at the first one.
func ValidateBooking(in BookingInput) (*ValidatedBooking, ValidationErrors) {
	in = in.trimmed()
	errs := collect(validate.Struct(in))

	var pickup, ret time.Time
	_, pickupBad := errs.Field("pickupDate")
	_, returnBad := errs.Field("returnDate")
	if !pickupBad && !returnBad {
		pickup, _ = ParseDate(in.PickupDate)
		ret, _ = ParseDate(in.ReturnDate)
		if !ret.After(pickup) {
			errs = append(errs, FieldError{Field: "returnDate", Message: "returnDate must be after pickupDate"})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &ValidatedBooking{
		CarID:          in.CarID,
		CustomerName:   in.CustomerName,
		Email:          in.Email,
		Phone:          in.Phone,
		PickupDate:     pickup,
		ReturnDate:     ret,
		PickupLocation: in.PickupLocation,
	}, nil
}

// trimmed strips surrounding whitespace so length rules apply to what is stored.
func (in BookingInput) trimmed() BookingInput {
	return BookingInput{
		CarID:          strings.TrimSpace(in.CarID),
		CustomerName:   strings.TrimSpace(in.CustomerName),
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		PickupDate:     strings.TrimSpace(in.PickupDate),
		ReturnDate:     strings.TrimSpace(in.ReturnDate),
		PickupLocation: strings.TrimSpace(in.PickupLocation),
	}
}

// ValidateContact applies the personal-info subset of the booking rules.
func ValidateContact(name, email, phone string) ValidationErrors {
	var errs ValidationErrors
	errs = append(errs, collectVar("customerName", strings.TrimSpace(name), "min=2")...)
	errs = append(errs, collectVar("email", strings.TrimSpace(email), "required,email")...)
	errs = append(errs, collectVar("phone", strings.TrimSpace(phone), "min=5")...)
	return errs
}

func collectVar(field, value, tag string) ValidationErrors {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var errs ValidationErrors
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errs = append(errs, FieldError{Field: field, Message: message(field, fe.Tag(), fe.Param())})
		}
		return errs
	}
	return ValidationErrors{{Field: field, Message: err.Error()}}
}

func collect(err error) ValidationErrors {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "", Message: err.Error()}}
	}
	errs := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, FieldError{Field: fe.Field(), Message: message(fe.Field(), fe.Tag(), fe.Param())})
	}
	return errs
}

func message(field, tag, param string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "email":
		return field + " must be a valid email address"
	case "calendardate":
		return field + " must be a valid date"
	}
	return field + " is invalid"
}
