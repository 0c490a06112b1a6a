package handlers

import (
	"Prescripto/middlewares"
	"Prescripto/services"
	"Prescripto/uploads"
	"Prescripto/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService   *services.AdminService
	doctorService  *services.DoctorService
	bookingService *services.BookingService
	store          uploads.Store
}

func NewAdminHandler(
	adminService *services.AdminService,
	doctorService *services.DoctorService,
	bookingService *services.BookingService,
	store uploads.Store,
) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		doctorService:  doctorService,
		bookingService: bookingService,
		store:          store,
	}
}

// Login checks the fixed admin credentials and returns a token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token, err := h.adminService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"token": token})
}

// AddDoctor registers a new doctor from the admin panel's multipart form.
func (h *AdminHandler) AddDoctor(c *gin.Context) {
	fees, err := parseFees(c.PostForm("fees"))
	if err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid fees value", err)
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

	input := services.NewDoctorInput{
		Name:       c.PostForm("name"),
		Email:      c.PostForm("email"),
		Password:   c.PostForm("password"),
		Speciality: c.PostForm("speciality"),
		Degree:     c.PostForm("degree"),
		Experience: c.PostForm("experience"),
		About:      c.PostForm("about"),
		Fees:       fees,
		Address:    c.PostForm("address"),
		ImageURL:   imageURL,
	}

	if _, err := h.adminService.AddDoctor(c.Request.Context(), input); err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"message": "Doctor Added"})
}

// AllDoctors lists every doctor for the admin panel.
func (h *AdminHandler) AllDoctors(c *gin.Context) {
	doctors, err := h.doctorService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"doctors": doctors})
}

// Appointments lists every booking in the system, newest first.
func (h *AdminHandler) Appointments(c *gin.Context) {
	appointments, err := h.bookingService.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"appointments": appointments})
}

// CancelAppointment cancels any booking on a patient's behalf.
func (h *AdminHandler) CancelAppointment(c *gin.Context) {
	adminID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
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

	if err := h.bookingService.CancelAppointment(c.Request.Context(), adminID, utils.RoleAdmin, req.AppointmentID); err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"message": "Appointment Cancelled"})
}

// ChangeAvailability toggles any doctor's availability flag.
func (h *AdminHandler) ChangeAvailability(c *gin.Context) {
	var req struct {
		DocID string `json:"docId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.doctorService.ChangeAvailability(c.Request.Context(), req.DocID); err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"message": "Availability Changed"})
}

// Dashboard aggregates panel-wide counts and the latest bookings.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"dashData": dashboard})
}
