package handlers

import (
	"Prescripto/middlewares"
	"Prescripto/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a storage or upstream failure: it gets
// logged and reported as a generic message so internals never leak.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrPaymentVerification):
		middlewares.RespondError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, services.ErrDuplicateEmail):
		middlewares.RespondError(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrDoctorNotFound),
		errors.Is(err, services.ErrDoctorUnavailable),
		errors.Is(err, services.ErrAppointmentNotFound):
		middlewares.RespondError(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		middlewares.RespondError(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, services.ErrUnauthorized):
		middlewares.RespondError(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, services.ErrSlotUnavailable),
		errors.Is(err, services.ErrSlotBusy),
		errors.Is(err, services.ErrAppointmentCancelled):
		middlewares.RespondError(c, http.StatusConflict, err.Error(), nil)
	default:
		middlewares.RespondError(c, http.StatusInternalServerError, "Something went wrong", err)
	}
}
