package utils

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
)

// ValidateRegistration validates a patient registration request.
func ValidateRegistration(name, email, password string) error {
	return validation.Errors{
		"name":     validation.Validate(name, validation.Required, validation.Length(2, 100)),
		"email":    validation.Validate(email, validation.Required, is.Email),
		"password": validation.Validate(password, validation.Required, validation.By(validatePassword)),
	}.Filter()
}

// ValidateNewDoctor validates the admin add-doctor form.
func ValidateNewDoctor(name, email, password, speciality string, fees float64) error {
	return validation.Errors{
		"name":       validation.Validate(name, validation.Required, validation.Length(2, 100)),
		"email":      validation.Validate(email, validation.Required, is.Email),
		"password":   validation.Validate(password, validation.Required, validation.By(validatePassword)),
		"speciality": validation.Validate(speciality, validation.Required),
		"fees":       validation.Validate(fees, validation.Min(0.0)),
	}.Filter()
}

// validatePassword checks the minimum length. No complexity classes are
// required, matching the registration contract.
func validatePassword(value interface{}) error {
	password, _ := value.(string)
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}
