package services

import "errors"

// Failure taxonomy surfaced to the handler layer. Handlers translate these
// to HTTP statuses; anything else is logged and reported as a generic
// internal failure so storage details never leak to clients.
var (
	ErrInvalidInput         = errors.New("missing or invalid details")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrUserNotFound         = errors.New("user not found")
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrDoctorUnavailable    = errors.New("doctor not available")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnauthorized         = errors.New("unauthorized action")
	ErrSlotUnavailable      = errors.New("slot not available")
	ErrSlotBusy             = errors.New("slot is being processed, try again")
	ErrAppointmentCancelled = errors.New("appointment has been cancelled")
	ErrPaymentVerification  = errors.New("payment verification failed")
)
