package models

import "github.com/google/uuid"

// OrderStatus is the order lifecycle state. Transitions between statuses are
// governed by the orders package; nothing else should write the column.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// Order is a consumer purchase. Total always equals the sum of line totals,
// computed server-side at checkout.
type Order struct {
	BaseModel
	UserID uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User   *User       `json:"user,omitempty"`
	Status OrderStatus `gorm:"type:varchar(16);index" json:"status"`
	Total  float64     `json:"total"`
	Items  []OrderItem `json:"items,omitempty"`
}

// OrderItem captures the unit price at order time, so later price edits do
// not rewrite history.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}
