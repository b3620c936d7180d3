package models

import (
	"time"
)

const (
	OrderStatusPlaced    = "placed"
	OrderStatusCancelled = "cancelled"
)

const (
	ShippingStandard = "standard"
	ShippingExpress  = "express"
	ShippingSameDay  = "same_day"
)

const (
	DeliveryStatusProcessing = "processing"
	DeliveryStatusShipped    = "shipped"
	DeliveryStatusDelivered  = "delivered"
)

const (
	TicketStatusOpen    = "open"
	TicketStatusPending = "pending"
	TicketStatusClosed  = "closed"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string `gorm:"not null"                 json:"first_name"`
	LastName     string `gorm:"not null"                 json:"last_name"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Mobile       string `gorm:"not null"                 json:"mobile"`
	Role         string `gorm:"not null"                 json:"role"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"            json:"id"`
	Name        string  `gorm:"not null"                            json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null"                            json:"price"`
	Stock       int64   `gorm:"not null;default:0;check:stock >= 0" json:"stock"`

	Promotions []Promotion `gorm:"many2many:promotion_products" json:"-"`
}

type Promotion struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"not null"                 json:"name"`
	DiscountPercent float64   `gorm:"not null"                 json:"discount_percent"`
	StartsAt        time.Time `gorm:"not null"                 json:"starts_at"`
	EndsAt          time.Time `gorm:"not null"                 json:"ends_at"`

	Products []Product `gorm:"many2many:promotion_products" json:"-"`
}

// Cart exists only between the first add-to-cart and a successful
// checkout; checkout deletes it together with its items.
type Cart struct {
	ID     uint `gorm:"primaryKey"           json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                                       json:"id"`
	CartID    uint `gorm:"not null;uniqueIndex:idx_cart_items_cart_product" json:"cart_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_items_cart_product" json:"product_id"`
	Quantity  uint `gorm:"not null;check:quantity > 0"                      json:"quantity"`
}

type Order struct {
	ID             uint    `gorm:"primaryKey"     json:"id"`
	UserID         uint    `gorm:"index;not null" json:"user_id"`
	Total          float64 `gorm:"not null"       json:"total"`
	Status         string  `gorm:"not null"       json:"status"`
	ShippingMethod string  `gorm:"not null"       json:"shipping_method"`
	PlacedAt       int64   `gorm:"not null"       json:"placed_at"`
}

// OrderItem is immutable after checkout: unit price and discount are the
// values the pricing engine computed at checkout time, never recomputed.
type OrderItem struct {
	ID              uint    `gorm:"primaryKey"                  json:"id"`
	OrderID         uint    `gorm:"index;not null"              json:"order_id"`
	ProductID       uint    `gorm:"not null"                    json:"product_id"`
	Quantity        uint    `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice       float64 `gorm:"not null"                    json:"unit_price"`
	DiscountPercent float64 `gorm:"not null"                    json:"discount_percent"`
	LineTotal       float64 `gorm:"not null"                    json:"line_total"`
}

type DeliveryRecord struct {
	ID           uint       `gorm:"primaryKey"           json:"id"`
	OrderID      uint       `gorm:"uniqueIndex;not null" json:"order_id"`
	TrackingID   string     `gorm:"not null"             json:"tracking_id"`
	ExpectedDate time.Time  `gorm:"not null"             json:"expected_date"`
	ActualDate   *time.Time `json:"actual_date,omitempty"`
	Status       string     `gorm:"not null"             json:"status"`
}

type SupportTicket struct {
	ID          uint   `gorm:"primaryKey"     json:"id"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	OrderID     *uint  `json:"order_id,omitempty"`
	Description string `gorm:"not null"       json:"description"`
	Status      string `gorm:"not null"       json:"status"`
}
