package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"companion-booking-server/config"
	"companion-booking-server/database"
	"companion-booking-server/jobs"
	"companion-booking-server/middleware"
	"companion-booking-server/routes"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security middleware stack
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.CORSMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Companion Booking Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		// Auth routes (no authentication required)
		authRoutes := api.Group("/auth")
		routes.RegisterAuthRoutes(authRoutes)

		// Public profile pages
		publicProfiles := api.Group("/profiles")
		routes.RegisterPublicProfileRoutes(publicProfiles)

		// Public booking surface: slot discovery and anonymous booking.
		// Optional auth links bookings from logged-in clients to their account.
		publicAppointments := api.Group("/appointments")
		publicAppointments.Use(middleware.OptionalAuthMiddleware())
		routes.RegisterPublicAppointmentRoutes(publicAppointments)

		// Blocked-date reads are public so the booking page can grey dates out
		publicAvailability := api.Group("/availability")
		routes.RegisterPublicAvailabilityRoutes(publicAvailability)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			profileRoutes := protected.Group("/profiles")
			routes.RegisterProfileRoutes(profileRoutes)

			appointmentRoutes := protected.Group("/appointments")
			routes.RegisterAppointmentRoutes(appointmentRoutes)

			availabilityRoutes := protected.Group("/availability")
			routes.RegisterAvailabilityRoutes(availabilityRoutes)
		}
	}

	// Start background jobs
	expiryJob := jobs.NewExpiryJob()
	expiryJob.Start()
	defer expiryJob.Stop()

	// Get port from environment or use default
	port := config.AppConfig.Server.Port

	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
