package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of a placed order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string { return string(s) }

// Order is created exactly once at checkout. Afterwards only Status changes.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerName    string          `gorm:"type:varchar(200);not null" json:"customer_name"`
	CustomerEmail   string          `gorm:"type:varchar(320);not null" json:"customer_email"`
	CustomerPhone   string          `gorm:"type:varchar(50);not null" json:"customer_phone"`
	DeliveryDate    *time.Time      `gorm:"type:date" json:"delivery_date,omitempty"`
	DeliveryAddress *string         `gorm:"type:text" json:"delivery_address,omitempty"`
	TotalAmount     int64           `gorm:"not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes           *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Items           []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

// OrderLineItem keeps a denormalized product name so historical orders stay
// readable after the product is renamed or removed.
type OrderLineItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	ProductName string    `gorm:"type:varchar(200);not null" json:"product_name"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	UnitPrice   int64     `gorm:"not null" json:"unit_price"`
	TotalPrice  int64     `gorm:"not null" json:"total_price"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (OrderLineItem) TableName() string { return "order_items" }

// CheckoutRequest is the customer-supplied contact and delivery details.
type CheckoutRequest struct {
	CustomerName    string `json:"customer_name" validate:"required,max=200"`
	CustomerEmail   string `json:"customer_email" validate:"required,email,max=320"`
	CustomerPhone   string `json:"customer_phone" validate:"required,max=50"`
	DeliveryDate    string `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	DeliveryAddress string `json:"delivery_address"`
	Notes           string `json:"notes"`
}

// UpdateStatusRequest is the staff payload for a status transition.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
