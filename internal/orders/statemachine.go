package orders

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/farmlink/internal/models"
)

// ErrInvalidTransition is returned when the requested status is not reachable
// from the order's current status. Requesting the already-current status is
// invalid too, not a no-op.
var ErrInvalidTransition = errors.New("invalid order status transition")

// transitions maps each status to the set of statuses reachable in one legal
// step. DELIVERED and CANCELLED are terminal. Adding a status means adding a
// row here, nothing else.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered, models.OrderCancelled},
	models.OrderDelivered:  {},
	models.OrderCancelled:  {},
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether target is a legal next status for current.
func CanTransition(current, target models.OrderStatus) bool {
	for _, next := range transitions[current] {
		if next == target {
			return true
		}
	}
	return false
}

// Apply moves the order to target if the transition table allows it. The
// write is a compare-and-set against the status read here, so two concurrent
// requests cannot both move the order off the same stale status. Returns
// gorm.ErrRecordNotFound when the order does not exist.
func Apply(db *gorm.DB, orderID uuid.UUID, target models.OrderStatus) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, target) {
		return nil, ErrInvalidTransition
	}

	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, order.Status).
		Update("status", target)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race: another request already moved the order.
		return nil, ErrInvalidTransition
	}

	order.Status = target
	return &order, nil
}
