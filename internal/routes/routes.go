package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nick19y/PizzApp-sub001/internal/config"
	"github.com/nick19y/PizzApp-sub001/internal/handlers"
	"github.com/nick19y/PizzApp-sub001/internal/middleware"
	"github.com/nick19y/PizzApp-sub001/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *zap.SugaredLogger) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	orderService := services.NewOrderService(db, logger)
	reportService := services.NewReportService(db, logger)

	authHandler := handlers.NewAuthHandler(db, cfg)
	itemHandler := handlers.NewItemHandler(db)
	ingredientHandler := handlers.NewIngredientHandler(db)
	orderHandler := handlers.NewOrderHandler(db, orderService, telegramService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Public routes
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "message": "pong"})
	})
	app.Post("/signup", authHandler.Signup)
	app.Post("/login", authHandler.Login)

	// Protected routes
	protected := app.Group("", middleware.AuthMiddleware(db, cfg))

	protected.Post("/logout", authHandler.Logout)
	protected.Get("/user", authHandler.Me)

	items := protected.Group("/items")
	items.Get("/", itemHandler.ListItems)
	items.Get("/:id", itemHandler.GetItem)

	orders := protected.Group("/orders")
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/", orderHandler.ListOrders)

	protected.Get("/order-items/:order_id", orderHandler.GetOrderItems)

	// Admin routes
	admin := protected.Group("", middleware.RequireAdmin(db))

	admin.Post("/items", itemHandler.CreateItem)
	admin.Put("/items/:id", itemHandler.UpdateItem)
	admin.Delete("/items/:id", itemHandler.DeleteItem)

	ingredients := admin.Group("/ingredients")
	ingredients.Get("/", ingredientHandler.ListIngredients)
	ingredients.Post("/", ingredientHandler.CreateIngredient)
	ingredients.Get("/:id", ingredientHandler.GetIngredient)
	ingredients.Put("/:id", ingredientHandler.UpdateIngredient)
	ingredients.Delete("/:id", ingredientHandler.DeleteIngredient)

	admin.Put("/orders/:id/status", orderHandler.UpdateOrderStatus)

	reports := admin.Group("/reports")
	reports.Get("/sales-stats", reportHandler.SalesStats)
	reports.Get("/most-sold-item", reportHandler.MostSoldItem)
	reports.Get("/sales-by-day", reportHandler.SalesByDay)
	reports.Get("/sales-by-product", reportHandler.SalesByProduct)
	reports.Get("/sales-by-category", reportHandler.SalesByCategory)
	reports.Get("/sales-by-hour", reportHandler.SalesByHour)
}
