package handlers

import (
	"Prescripto/middlewares"
	"Prescripto/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	doctorService  *services.DoctorService
	bookingService *services.BookingService
}

func NewDoctorHandler(doctorService *services.DoctorService, bookingService *services.BookingService) *DoctorHandler {
	return &DoctorHandler{doctorService: doctorService, bookingService: bookingService}
}

// List is the public doctor catalogue, booked-slot maps included.
func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.doctorService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"doctors": doctors})
}

// Login authenticates a doctor and returns a token.
func (h *DoctorHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token, err := h.doctorService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"token": token})
}

// Appointments lists the authenticated doctor's bookings, newest first.
func (h *DoctorHandler) Appointments(c *gin.Context) {
	doctorID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	appointments, err := h.bookingService.ListForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"appointments": appointments})
}

// CompleteAppointment marks one of the doctor's appointments fulfilled.
func (h *DoctorHandler) CompleteAppointment(c *gin.Context) {
	doctorID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req struct {
		AppointmentID string `json:"appointmentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.bookingService.CompleteAppointment(c.Request.Context(), doctorID, req.AppointmentID); err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"message": "Appointment Completed"})
}

// CancelAppointment cancels one of the doctor's own appointments.
func (h *DoctorHandler) CancelAppointment(c *gin.Context) {
	doctorID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req struct {
		AppointmentID string `json:"appointmentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	role, _ := middlewares.ExtractUserRoleFromContext(c.Request.Context())
	if err := h.bookingService.CancelAppointment(c.Request.Context(), doctorID, role, req.AppointmentID); err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"message": "Appointment Cancelled"})
}

// ChangeAvailability toggles the authenticated doctor's own flag.
func (h *DoctorHandler) ChangeAvailability(c *gin.Context) {
	doctorID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := h.doctorService.ChangeAvailability(c.Request.Context(), doctorID); err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"message": "Availability Changed"})
}

// Profile returns the authenticated doctor's record.
func (h *DoctorHandler) Profile(c *gin.Context) {
	doctorID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	doctor, err := h.doctorService.Profile(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"profileData": doctor})
}

// UpdateProfile edits fees, address, and availability.
func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	doctorID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req struct {
		Fees      float64 `json:"fees"`
		Address   string  `json:"address"`
		Available bool    `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.doctorService.UpdateProfile(c.Request.Context(), doctorID, req.Fees, req.Address, req.Available); err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"message": "Profile Updated"})
}

// Dashboard aggregates the doctor's earnings and booking counts.
func (h *DoctorHandler) Dashboard(c *gin.Context) {
	doctorID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	dashboard, err := h.doctorService.Dashboard(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"dashData": dashboard})
}

// parseFees parses the fees value from multipart forms, where it arrives as a string.
func parseFees(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
