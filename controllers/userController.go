package controllers

import (
	"Prescripto/handlers"
	"Prescripto/middlewares"
	"Prescripto/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Handler        *handlers.UserHandler
	PaymentHandler *handlers.PaymentHandler
	TokenMaker     *utils.TokenMaker
}

// NewUserController creates a new UserController with the given handlers
func NewUserController(userHandler *handlers.UserHandler, paymentHandler *handlers.PaymentHandler, tokenMaker *utils.TokenMaker) *UserController {
	return &UserController{
		Handler:        userHandler,
		PaymentHandler: paymentHandler,
		TokenMaker:     tokenMaker,
	}
}

// RegisterRoutes initializes all patient-facing routes on the router
func (uc *UserController) RegisterRoutes(router *gin.Engine) {
	// Public routes: No authentication required
	router.POST("/api/user/register", uc.Handler.Register)
	router.POST("/api/user/login", uc.Handler.Login)

	// Protected routes: Requires a valid patient token
	userGroup := router.Group("/api/user").Use(
		middlewares.Authenticate(uc.TokenMaker, utils.RolePatient),
	)
	{
		userGroup.GET("/get-profile", uc.Handler.GetProfile)
		userGroup.POST("/update-profile", uc.Handler.UpdateProfile)
		userGroup.POST("/book-appointment", uc.Handler.BookAppointment)
		userGroup.GET("/appointments", uc.Handler.ListAppointments)
		userGroup.POST("/cancel-appointment", uc.Handler.CancelAppointment)
		userGroup.POST("/payment-razorpay", uc.PaymentHandler.CreateOrder)
		userGroup.POST("/verifyRazorpay", uc.PaymentHandler.VerifyPayment)
	}
}
