package main

import (
	"storefront-service/internal/handler"
	mid "storefront-service/internal/middleware"
	"storefront-service/pkg/config"
	"storefront-service/pkg/database"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (reads .env when present)
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting storefront-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	authHandler := handler.NewAuthHandler(appConfig)
	paymentHandler := handler.NewPaymentHandler(appConfig)

	api := e.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, mid.Authenticate)
	auth.PUT("/profile", authHandler.UpdateProfile, mid.Authenticate)
	auth.PUT("/password", authHandler.ChangePassword, mid.Authenticate)

	// Catalog routes - public reads, admin writes
	products := api.Group("/products")
	products.GET("", handler.ListProducts)
	products.GET("/featured", handler.FeaturedProducts)
	products.GET("/:id", handler.GetProduct)
	products.POST("", handler.CreateProduct, mid.Authenticate, mid.AdminOnly)
	products.PUT("/:id", handler.UpdateProduct, mid.Authenticate, mid.AdminOnly)
	products.DELETE("/:id", handler.DeleteProduct, mid.Authenticate, mid.AdminOnly)
	products.POST("/:id/reviews", handler.AddReview, mid.Authenticate)

	// Category routes - public reads, admin writes
	categories := api.Group("/categories")
	categories.GET("", handler.ListCategories)
	categories.POST("", handler.CreateCategory, mid.Authenticate, mid.AdminOnly)
	categories.PUT("/:id", handler.UpdateCategory, mid.Authenticate, mid.AdminOnly)
	categories.DELETE("/:id", handler.DeleteCategory, mid.Authenticate, mid.AdminOnly)

	// Order routes
	orders := api.Group("/orders", mid.Authenticate)
	orders.POST("", handler.CreateOrder)
	orders.GET("/my", handler.MyOrders)
	orders.GET("/:id", handler.GetOrder)
	orders.GET("", handler.ListOrders, mid.AdminOnly)
	orders.PUT("/:id/status", handler.UpdateOrderStatus, mid.AdminOnly)
	orders.DELETE("/:id", handler.DeleteOrder, mid.AdminOnly)

	// User admin routes plus self-service address book
	users := api.Group("/users", mid.Authenticate)
	users.PUT("/address", handler.AddAddress)
	users.GET("", handler.ListUsers, mid.AdminOnly)
	users.GET("/:id", handler.GetUser, mid.AdminOnly)
	users.PUT("/:id", handler.UpdateUser, mid.AdminOnly)
	users.DELETE("/:id", handler.DeleteUser, mid.AdminOnly)

	// Dashboard route
	api.GET("/dashboard/stats", handler.DashboardStats, mid.Authenticate, mid.AdminOnly)

	// Payment passthrough
	payment := api.Group("/payment", mid.Authenticate)
	payment.GET("/key", paymentHandler.Key)
	payment.POST("/intent", paymentHandler.CreateIntent)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
