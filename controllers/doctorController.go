package controllers

import (
	"Prescripto/handlers"
	"Prescripto/middlewares"
	"Prescripto/utils"

	"github.com/gin-gonic/gin"
)

type DoctorController struct {
	Handler    *handlers.DoctorHandler
	TokenMaker *utils.TokenMaker
}

// NewDoctorController creates a new DoctorController with the given DoctorHandler
func NewDoctorController(doctorHandler *handlers.DoctorHandler, tokenMaker *utils.TokenMaker) *DoctorController {
	return &DoctorController{
		Handler:    doctorHandler,
		TokenMaker: tokenMaker,
	}
}

// RegisterRoutes initializes all doctor-facing routes on the router
func (dc *DoctorController) RegisterRoutes(router *gin.Engine) {
	// Public routes: No authentication required
	router.GET("/api/doctor/list", dc.Handler.List)
	router.POST("/api/doctor/login", dc.Handler.Login)

	// Protected routes: Requires a valid doctor token
	doctorGroup := router.Group("/api/doctor").Use(
		middlewares.Authenticate(dc.TokenMaker, utils.RoleDoctor),
	)
	{
		doctorGroup.GET("/appointments", dc.Handler.Appointments)
		doctorGroup.POST("/complete-appointment", dc.Handler.CompleteAppointment)
		doctorGroup.POST("/cancel-appointment", dc.Handler.CancelAppointment)
		doctorGroup.POST("/change-availability", dc.Handler.ChangeAvailability)
		doctorGroup.GET("/profile", dc.Handler.Profile)
		doctorGroup.POST("/update-profile", dc.Handler.UpdateProfile)
		doctorGroup.GET("/dashboard", dc.Handler.Dashboard)
	}
}
