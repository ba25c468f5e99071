package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/farmlink/internal/config"
	"github.com/example/farmlink/internal/handlers"
	"github.com/example/farmlink/internal/middleware"
	"github.com/example/farmlink/internal/models"
	"github.com/example/farmlink/internal/otp"
	"github.com/example/farmlink/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	smsSender := services.NewSMSSender(cfg.SMSGatewayURL, cfg.SMSGatewayToken)
	otpManager := otp.NewManager(otp.NewGormStore(db), cfg.OTPExpires)

	authHandler := handlers.NewAuthHandler(db, cfg, otpManager, smsSender)
	catalogHandler := handlers.NewCatalogHandler(db)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db)

	api := app.Group("/api")

	// Auth routes
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/verify-otp", authHandler.VerifyOTP)

	// Public catalog
	api.Get("/categories", catalogHandler.ListCategories)
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Post("/categories",
		middleware.RequireRoles(models.RoleAdmin),
		catalogHandler.CreateCategory)

	protected.Post("/products",
		middleware.RequireRoles(models.RoleFarmer),
		productHandler.CreateProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Patch("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id",
		middleware.RequireRoles(models.RoleFarmer, models.RoleAdmin),
		productHandler.DeleteProduct)

	protected.Post("/orders",
		middleware.RequireRoles(models.RoleConsumer),
		orderHandler.CreateOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Patch("/orders/:id/status",
		middleware.RequireRoles(models.RoleFarmer, models.RoleAdmin),
		orderHandler.UpdateStatus)

	dashboard := protected.Group("/dashboard",
		middleware.RequireRoles(models.RoleFarmer, models.RoleAdmin))
	dashboard.Get("/summary", dashboardHandler.Summary)
	dashboard.Get("/top-selling", dashboardHandler.TopSelling)
	dashboard.Get("/recent-orders", dashboardHandler.RecentOrders)
}
