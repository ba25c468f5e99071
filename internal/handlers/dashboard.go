package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/farmlink/internal/models"
)

// DashboardHandler serves aggregate statistics for the farmer and admin
// dashboards.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

const lowStockThreshold = 10

// Summary returns the headline numbers: product count, pending orders,
// current-month sales and low-stock items.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	var totalProducts int64
	if err := h.db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}

	var pendingOrders int64
	if err := h.db.Model(&models.Order{}).
		Where("status = ?", models.OrderPending).
		Count(&pendingOrders).Error; err != nil {
		return err
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var monthlySales float64
	if err := h.db.Model(&models.Order{}).
		Where("created_at >= ?", startOfMonth).
		Select("COALESCE(SUM(total), 0)").
		Scan(&monthlySales).Error; err != nil {
		return err
	}

	var lowStockItems int64
	if err := h.db.Model(&models.Product{}).
		Where("stock < ?", lowStockThreshold).
		Count(&lowStockItems).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_products":  totalProducts,
			"pending_orders":  pendingOrders,
			"monthly_sales":   monthlySales,
			"low_stock_items": lowStockItems,
		},
	})
}

// TopSelling returns the five products with the highest total ordered
// quantity.
func (h *DashboardHandler) TopSelling(c *fiber.Ctx) error {
	type topProduct struct {
		ProductID uuid.UUID `json:"product_id"`
		Name      string    `json:"name"`
		TotalSold int64     `json:"total_sold"`
	}

	var rows []topProduct
	if err := h.db.Model(&models.OrderItem{}).
		Select("order_items.product_id, products.name, SUM(order_items.quantity) as total_sold").
		Joins("JOIN products ON products.id = order_items.product_id").
		Group("order_items.product_id, products.name").
		Order("total_sold desc").
		Limit(5).
		Scan(&rows).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": rows})
}

// RecentOrders returns the five most recent orders with user and items.
func (h *DashboardHandler) RecentOrders(c *fiber.Ctx) error {
	var recent []models.Order
	if err := h.db.Preload("Items").Preload("User").
		Order("created_at desc").
		Limit(5).
		Find(&recent).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": recent})
}
