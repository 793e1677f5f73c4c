package main

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Thesarss/Lautan-Kita/internal/handler"
	mid "github.com/Thesarss/Lautan-Kita/internal/middleware"
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository/gormstore"
	"github.com/Thesarss/Lautan-Kita/internal/service"
	"github.com/Thesarss/Lautan-Kita/pkg/config"
	"github.com/Thesarss/Lautan-Kita/pkg/database"
	"github.com/Thesarss/Lautan-Kita/pkg/jwtutil"
	"github.com/Thesarss/Lautan-Kita/pkg/logger"
	"github.com/Thesarss/Lautan-Kita/prometheus"
)

func main() {
	// Load configuration (.env is read inside Load when present)
	appConfig, err := config.Load("lautan-kita")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting lautan-kita", appConfig.LogConfig()...)

	// Initialize JWT utility
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      appConfig.JWT.SigningKey,
		ExpirationHours: appConfig.JWT.ExpirationHours,
	})

	// Initialize database
	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(db,
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.Review{},
		&model.SellerRating{},
		&model.Shipment{},
		&model.Payout{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	store := gormstore.New(db)

	// Services
	orderService := service.NewOrderService(store)
	paymentService := service.NewPaymentService(store)
	ratingService := service.NewRatingService(store)
	catalogService := service.NewCatalogService(store)
	shipmentService := service.NewShipmentService(store)

	// Handlers
	authHandler := handler.NewAuthHandler(store, jwt)
	productHandler := handler.NewProductHandler(store, catalogService, ratingService)
	cartHandler := handler.NewCartHandler(store)
	orderHandler := handler.NewOrderHandler(store, orderService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	shipmentHandler := handler.NewShipmentHandler(store, shipmentService)
	adminHandler := handler.NewAdminHandler(store, orderService, ratingService)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomw.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	auth := mid.Auth(jwt)
	buyerOnly := mid.RequireRole(model.RoleBuyer)
	sellerOnly := mid.RequireRole(model.RoleSeller)
	courierOnly := mid.RequireRole(model.RoleCourier)
	adminOnly := mid.RequireRole(model.RoleAdmin)

	// Metrics and health endpoints
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.GET("/health", handler.HealthCheck)

	// Public auth routes
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// Profile
	profileAPI := e.Group("/api/profile", auth)
	profileAPI.GET("", authHandler.Me)
	profileAPI.PUT("", authHandler.UpdateProfile)

	// Public catalog
	e.GET("/api/produk", productHandler.List)
	e.GET("/api/produk/:id", productHandler.Get)
	e.GET("/api/produk/:id/ulasan", ratingHandler.ProductReviews)
	e.GET("/api/penjual/:id/rating", ratingHandler.SellerRatings)

	// Seller product management
	sellerAPI := e.Group("/api/penjual", auth, sellerOnly)
	sellerAPI.GET("/produk", productHandler.Mine)
	sellerAPI.POST("/produk", productHandler.Create)
	sellerAPI.PUT("/produk/:id", productHandler.Update)
	sellerAPI.DELETE("/produk/:id", productHandler.Delete)
	sellerAPI.POST("/produk/:id/stok", productHandler.AdjustStock)
	sellerAPI.GET("/pesanan", orderHandler.SellerOrders)
	sellerAPI.PUT("/pesanan/:id/kemas", orderHandler.Pack)

	// Buyer cart
	cartAPI := e.Group("/api/keranjang", auth, buyerOnly)
	cartAPI.GET("", cartHandler.Get)
	cartAPI.POST("/items", cartHandler.AddItem)
	cartAPI.PUT("/items/:itemId", cartHandler.UpdateItem)
	cartAPI.DELETE("/items/:itemId", cartHandler.DeleteItem)
	cartAPI.DELETE("", cartHandler.Clear)

	// Buyer orders
	orderAPI := e.Group("/api/pesanan", auth)
	orderAPI.POST("/checkout", orderHandler.Checkout, buyerOnly)
	orderAPI.GET("", orderHandler.Mine, buyerOnly)
	orderAPI.GET("/:id", orderHandler.Get)
	orderAPI.PUT("/:id/batal", orderHandler.Cancel, buyerOnly)
	orderAPI.PUT("/:id/selesai", orderHandler.Complete, buyerOnly)
	orderAPI.GET("/:id/pembayaran", paymentHandler.ListByOrder, mid.RequireRole(model.RoleBuyer, model.RoleAdmin))
	orderAPI.GET("/:id/ulasan", ratingHandler.OrderReviews, buyerOnly)
	orderAPI.GET("/:id/pengiriman", shipmentHandler.ByOrder)

	// Payments
	paymentAPI := e.Group("/api/pembayaran", auth)
	paymentAPI.POST("", paymentHandler.CreateIntent, buyerOnly)
	paymentAPI.GET("/:id", paymentHandler.Get, mid.RequireRole(model.RoleBuyer, model.RoleAdmin))
	paymentAPI.PUT("/:id/konfirmasi", paymentHandler.Confirm, mid.RequireRole(model.RoleBuyer, model.RoleAdmin))
	paymentAPI.PUT("/:id/gagal", paymentHandler.Fail, adminOnly)

	// Ratings and reviews
	ratingAPI := e.Group("/api/rating", auth, buyerOnly)
	ratingAPI.POST("/produk", ratingHandler.CreateReview)
	ratingAPI.POST("/penjual", ratingHandler.CreateSellerRating)
	ratingAPI.PUT("/penjual/:id", ratingHandler.UpdateSellerRating)
	ratingAPI.GET("/pesanan", ratingHandler.RateableOrders)

	// Courier deliveries
	courierAPI := e.Group("/api/kurir", auth, courierOnly)
	courierAPI.GET("/pesanan", orderHandler.Deliveries)
	courierAPI.PUT("/pesanan/:id/kirim", orderHandler.Ship)
	courierAPI.PUT("/pesanan/:id/terima", orderHandler.Deliver)
	courierAPI.PUT("/pesanan/:id/lokasi", orderHandler.UpdateLocation)
	courierAPI.GET("/pengiriman", shipmentHandler.Mine)
	courierAPI.POST("/pengiriman", shipmentHandler.Create)
	courierAPI.PUT("/pengiriman/:id", shipmentHandler.UpdateStatus)

	// Admin back office
	adminAPI := e.Group("/api/admin", auth, adminOnly)
	adminAPI.GET("/dashboard", adminHandler.Dashboard)
	adminAPI.GET("/users", adminHandler.ListUsers)
	adminAPI.PUT("/users/:id/verifikasi", adminHandler.SetUserVerified)
	adminAPI.PUT("/users/:id/role", adminHandler.SetUserRole)
	adminAPI.PUT("/produk/:id/status", adminHandler.SetProductStatus)
	adminAPI.GET("/pesanan", adminHandler.ListOrders)
	adminAPI.PUT("/pesanan/:id/status", adminHandler.ForceOrderStatus)
	adminAPI.GET("/pembayaran", adminHandler.ListPayments)
	adminAPI.GET("/ulasan", adminHandler.ListReviews)
	adminAPI.PUT("/ulasan/:id/status", adminHandler.SetReviewStatus)
	adminAPI.PUT("/rating/:id/status", adminHandler.SetSellerRatingStatus)
	adminAPI.GET("/laporan/penjualan", adminHandler.SalesReport)
	adminAPI.GET("/payouts", adminHandler.ListPayouts)
	adminAPI.DELETE("/produk/:id", productHandler.Delete)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
