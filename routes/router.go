package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tamurbek/dacha-bron/config"
	"github.com/Tamurbek/dacha-bron/controllers"
	"github.com/Tamurbek/dacha-bron/middleware"
	"github.com/Tamurbek/dacha-bron/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	listingController := controllers.NewListingController(db)
	bookingController := controllers.NewBookingController(db)
	reviewController := controllers.NewReviewController(db)
	amenityController := controllers.NewAmenityController(db)
	uploadController := controllers.NewUploadController(db)
	proxyController := controllers.NewProxyController(db)
	settingsController := controllers.NewSettingsController(db)

	// Stored media URLs point here; kept at the root so the path survives
	// the public base URL prefix unchanged.
	r.GET("/proxy/:file_id", proxyController.ProxyFile)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	listings := api.Group("/listings")
	listings.GET("", listingController.ListListings)
	listings.GET("/:id", listingController.GetListing)
	listings.POST("", middleware.AuthRequired(), listingController.CreateListing)
	listings.PUT("/:id", middleware.AuthRequired(), listingController.UpdateListing)
	listings.DELETE("/:id", middleware.AuthRequired(), listingController.DeleteListing)

	bookings := api.Group("/bookings")
	bookings.POST("", bookingController.CreateBooking)
	bookings.GET("", middleware.AuthRequired(), bookingController.ListBookings)
	bookings.GET("/:id", middleware.AuthRequired(), bookingController.GetBooking)
	bookings.PUT("/:id", middleware.AuthRequired(), bookingController.UpdateBooking)
	bookings.DELETE("/:id", middleware.AuthRequired(), bookingController.DeleteBooking)

	reviews := api.Group("/reviews")
	reviews.GET("", reviewController.ListReviews)
	reviews.GET("/:id", reviewController.GetReview)
	reviews.POST("", reviewController.CreateReview)
	reviews.PUT("/:id", middleware.AuthRequired(), reviewController.UpdateReview)
	reviews.DELETE("/:id", middleware.AuthRequired(), reviewController.DeleteReview)

	amenities := api.Group("/amenities")
	amenities.GET("", amenityController.ListAmenities)
	amenities.POST("", middleware.AuthRequired(), amenityController.CreateAmenity)
	amenities.PUT("/:id", middleware.AuthRequired(), amenityController.UpdateAmenity)
	amenities.DELETE("/:id", middleware.AuthRequired(), amenityController.DeleteAmenity)

	users := api.Group("/users")
	users.Use(middleware.AuthRequired())
	users.GET("", userController.ListUsers)
	users.POST("", userController.CreateUser)
	users.PUT("/:id", userController.UpdateUser)
	users.DELETE("/:id", userController.DeleteUser)

	settings := api.Group("/settings")
	settings.Use(middleware.AuthRequired())
	settings.GET("/storage", settingsController.GetStorageSettings)
	settings.POST("/storage", settingsController.UpdateStorageSettings)

	// Uploads are open like booking creation; abuse control lives at the
	// reverse proxy, not here.
	upload := api.Group("/upload")
	upload.POST("/file", uploadController.UploadFile)
	upload.POST("/files", uploadController.UploadFiles)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
