package models

import "github.com/google/uuid"

// Category groups products for browsing.
type Category struct {
	BaseModel
	Name     string    `gorm:"uniqueIndex" json:"name"`
	Products []Product `json:"products,omitempty"`
}

// Product is a listing created by a farmer. Stock is decremented at checkout
// time, not on order status changes.
type Product struct {
	BaseModel
	Name        string    `gorm:"uniqueIndex" json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    *string   `json:"image_url"`
	CategoryID  uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category `json:"category,omitempty"`
}
