package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/ridelink/ridelink-backend/internal/database"
	"github.com/ridelink/ridelink-backend/internal/drivers"
	"github.com/ridelink/ridelink-backend/internal/handlers"
	"github.com/ridelink/ridelink-backend/internal/middleware"
	"github.com/ridelink/ridelink-backend/internal/rides"
	"github.com/ridelink/ridelink-backend/internal/services"
	"github.com/ridelink/ridelink-backend/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	defer log.Sync()

	db, err := database.InitDB()
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get database instance", zap.Error(err))
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		log.Fatal("failed to initialize Redis", zap.Error(err))
	}

	if err := services.InitStorage(); err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}

	// The hub is the notification emitter for terminal ride statuses; its
	// lifecycle belongs to the host, not the domain services.
	hub := services.NewHub(log)
	go hub.Run()

	rideService := rides.NewService(db, hub, log)
	driverService := drivers.NewService(db, log)

	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))
	r.Use(middleware.RequestID())

	api := r.Group("/api")
	{
		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			ridesGroup := protected.Group("/rides")
			{
				ridesGroup.POST("", handlers.RequestRide(rideService))
				ridesGroup.GET("", handlers.GetAllRides(rideService))
				ridesGroup.GET("/history", handlers.GetRideHistory(rideService))
				ridesGroup.GET("/earnings", handlers.GetEarningsHistory(rideService))
				ridesGroup.GET("/active", handlers.GetActiveRide(rideService))
				ridesGroup.GET("/:rideId/details", handlers.GetRideDetails(rideService))
				ridesGroup.PATCH("/:rideId/status", handlers.UpdateRideStatus(rideService))
				ridesGroup.PATCH("/:rideId/cancel", handlers.CancelRide(rideService))
			}

			driversGroup := protected.Group("/drivers")
			{
				driversGroup.POST("/apply", handlers.ApplyForDriver(driverService))
				driversGroup.GET("/availability", handlers.GetDriverAvailability(driverService))
				driversGroup.PATCH("/availability", handlers.UpdateDriverAvailability(driverService))
				driversGroup.GET("/applications", handlers.GetDriverApplications(driverService))
				driversGroup.PATCH("/applications/:applicationId/status", handlers.ReviewDriverApplication(driverService))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
