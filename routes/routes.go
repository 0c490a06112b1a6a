package routes

import (
	"Prescripto/cache"
	"Prescripto/config"
	"Prescripto/controllers"
	"Prescripto/database"
	"Prescripto/handlers"
	"Prescripto/middlewares"
	"Prescripto/payments"
	"Prescripto/repositories"
	"Prescripto/services"
	"Prescripto/uploads"
	"Prescripto/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) (http.Handler, error) {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	tokenMaker, err := utils.NewTokenMaker(config.GetSymmetricKey(), config.AdminEmail)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create token maker")
	}

	store, err := uploads.NewDiskStore(config.UploadDir, config.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize upload store")
	}

	mailer := utils.NewMailer(config)
	gateway := payments.NewGateway(config.RazorpayKeyID, config.RazorpayKeySecret)

	// Initialize repositories, services, and handlers
	userRepo := repositories.NewUserRepository(db, cache)
	doctorRepo := repositories.NewDoctorRepository(db, cache)
	ledgerRepo := repositories.NewSlotLedgerRepository(db, cache)
	appointmentRepo := repositories.NewAppointmentRepository(db, cache)

	userService := services.NewUserService(userRepo, tokenMaker)
	doctorService := services.NewDoctorService(doctorRepo, ledgerRepo, appointmentRepo, tokenMaker)
	adminService := services.NewAdminService(config, doctorRepo, userRepo, appointmentRepo, tokenMaker)
	bookingService := services.NewBookingService(
		userRepo,
		doctorRepo,
		ledgerRepo,
		appointmentRepo,
		database.RedisLocker{},
		mailer,
	)

	paymentService := services.NewPaymentService(gateway, bookingService)

	userHandler := handlers.NewUserHandler(userService, bookingService, store)
	doctorHandler := handlers.NewDoctorHandler(doctorService, bookingService)
	adminHandler := handlers.NewAdminHandler(adminService, doctorService, bookingService, store)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Serve stored profile and doctor images
	router.Static("/uploads", store.Dir())

	// Register routes
	userController := controllers.NewUserController(userHandler, paymentHandler, tokenMaker)
	userController.RegisterRoutes(router)

	doctorController := controllers.NewDoctorController(doctorHandler, tokenMaker)
	doctorController.RegisterRoutes(router)

	adminController := controllers.NewAdminController(adminHandler, tokenMaker)
	adminController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router, nil
}
