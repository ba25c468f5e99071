package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/farmlink/internal/common"
	"github.com/example/farmlink/internal/middleware"
	"github.com/example/farmlink/internal/models"
	"github.com/example/farmlink/internal/orders"
	"github.com/example/farmlink/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	Items []orderItemRequest `json:"items"`
}

// CreateOrder places an order for the authenticated consumer. Prices are
// captured from the product rows, never trusted from the request, and stock
// is checked and decremented inside the same transaction.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return common.New(common.KindUnauthenticated, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return common.New(common.KindValidation, "invalid request body")
	}

	if len(req.Items) == 0 {
		return common.New(common.KindValidation, "order must contain at least one item")
	}

	type line struct {
		productID uuid.UUID
		quantity  int
	}
	lines := make([]line, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return common.New(common.KindValidation, "quantity must be a positive integer")
		}
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return common.New(common.KindValidation, "invalid product_id")
		}
		lines = append(lines, line{productID: productID, quantity: item.Quantity})
	}

	order := models.Order{
		UserID: userID,
		Status: models.OrderPending,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for _, l := range lines {
			var product models.Product
			if err := tx.First(&product, "id = ?", l.productID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return common.New(common.KindValidation, "unknown product in order")
				}
				return err
			}

			// Guarded decrement; a concurrent checkout that drained the
			// stock first makes this a no-op.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", l.productID, l.quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", l.quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return common.New(common.KindValidation, "insufficient stock for "+product.Name)
			}

			order.Items = append(order.Items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  l.quantity,
				UnitPrice: product.Price,
			})
			order.Total += product.Price * float64(l.quantity)
		}

		return tx.Create(&order).Error
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// ListOrders returns orders visible to the caller: consumers see their own,
// farmers and admins see everything.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return common.New(common.KindUnauthenticated, "unauthorized")
	}
	role, _ := middleware.GetCurrentRole(c)

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})
	if role == models.RoleConsumer {
		query = query.Where("user_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var result []models.Order
	if err := query.Preload("Items.Product").Preload("User").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&result).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order, with the same visibility rule as ListOrders.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return common.New(common.KindUnauthenticated, "unauthorized")
	}
	role, _ := middleware.GetCurrentRole(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return common.New(common.KindValidation, "invalid id")
	}

	query := h.db.Preload("Items.Product").Preload("User")
	if role == models.RoleConsumer {
		query = query.Where("user_id = ?", userID)
	}

	var order models.Order
	if err := query.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.New(common.KindNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order along the lifecycle. The route is restricted to
// farmers and admins; the legality of the move itself is decided by the
// transition table.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return common.New(common.KindValidation, "invalid id")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return common.New(common.KindValidation, "invalid request body")
	}

	target := models.OrderStatus(req.Status)
	if !orders.ValidStatus(target) {
		return common.New(common.KindValidation, "invalid order status provided")
	}

	order, err := orders.Apply(h.db, id, target)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return common.New(common.KindNotFound, "order not found")
		case errors.Is(err, orders.ErrInvalidTransition):
			return common.New(common.KindInvalidTransition, "invalid status transition")
		default:
			return err
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
