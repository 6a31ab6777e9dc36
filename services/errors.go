package services

import "github.com/pkg/errors"

var (
	// ErrNotFound: unknown car or booking id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput: a value outside what the operation accepts.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidTransition: the booking's current status forbids the change.
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrRateLimited       = errors.New("rate limited")
	// ErrUpstream: the payment processor failed.
	ErrUpstream = errors.New("upstream failure")
)
