package controllers

import (
	"Prescripto/handlers"
	"Prescripto/middlewares"
	"Prescripto/utils"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Handler    *handlers.AdminHandler
	TokenMaker *utils.TokenMaker
}

// NewAdminController creates a new AdminController with the given AdminHandler
func NewAdminController(adminHandler *handlers.AdminHandler, tokenMaker *utils.TokenMaker) *AdminController {
	return &AdminController{
		Handler:    adminHandler,
		TokenMaker: tokenMaker,
	}
}

// RegisterRoutes initializes all admin panel routes on the router
func (ac *AdminController) RegisterRoutes(router *gin.Engine) {
	// Public routes: No authentication required
	router.POST("/api/admin/login", ac.Handler.Login)

	// Protected routes: Requires a valid admin token
	adminGroup := router.Group("/api/admin").Use(
		middlewares.Authenticate(ac.TokenMaker, utils.RoleAdmin),
	)
	{
		adminGroup.POST("/add-doctor", ac.Handler.AddDoctor)
		adminGroup.GET("/all-doctors", ac.Handler.AllDoctors)
		adminGroup.GET("/appointments", ac.Handler.Appointments)
		adminGroup.POST("/cancel-appointment", ac.Handler.CancelAppointment)
		adminGroup.POST("/change-availability", ac.Handler.ChangeAvailability)
		adminGroup.GET("/dashboard", ac.Handler.Dashboard)
	}
}
