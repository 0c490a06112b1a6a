package handlers

import (
	"Prescripto/middlewares"
	"Prescripto/services"
	"Prescripto/uploads"
	"Prescripto/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService    *services.UserService
	bookingService *services.BookingService
	store          uploads.Store
}

func NewUserHandler(userService *services.UserService, bookingService *services.BookingService, store uploads.Store) *UserHandler {
	return &UserHandler{userService: userService, bookingService: bookingService, store: store}
}

// Register handles new patient registration.
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token, err := h.userService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"token": token, "message": "User registered successfully"})
}

// Login authenticates a patient and returns a token.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"token": token})
}

// GetProfile returns the authenticated patient's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	user, err := h.userService.Profile(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"userData": user})
}

// UpdateProfile edits the patient's profile. The form is multipart so an
// image can ride along; the image is optional.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var imageURL string
	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			middlewares.RespondError(c, http.StatusBadRequest, "Failed to read image", err)
			return
		}
		defer src.Close()

		imageURL, err = h.store.Save(file.Filename, src)
		if err != nil {
			middlewares.RespondError(c, http.StatusInternalServerError, "Failed to store image", err)
			return
		}
	}

	err = h.userService.UpdateProfile(c.Request.Context(), userID,
		c.PostForm("name"), c.PostForm("phone"), c.PostForm("address"),
		c.PostForm("dob"), c.PostForm("gender"), imageURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"message": "Profile Updated"})
}

// BookAppointment reserves a slot for the authenticated patient.
func (h *UserHandler) BookAppointment(c *gin.Context) {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req struct {
		DocID    string `json:"docId"`
		SlotDate string `json:"slotDate"`
		SlotTime string `json:"slotTime"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	_, err = h.bookingService.BookSlot(c.Request.Context(), userID, req.DocID, req.SlotDate, req.SlotTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"message": "Appointment Booked"})
}

// ListAppointments returns the patient's bookings, newest first.
func (h *UserHandler) ListAppointments(c *gin.Context) {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	appointments, err := h.bookingService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"appointments": appointments})
}

// CancelAppointment cancels one of the patient's own bookings.
func (h *UserHandler) CancelAppointment(c *gin.Context) {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
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

	err = h.bookingService.CancelAppointment(c.Request.Context(), userID, utils.RolePatient, req.AppointmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"message": "Appointment Cancelled"})
}
