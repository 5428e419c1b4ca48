package models

import "time"

const (
	EventOrderPlaced            = "order.placed"
	EventOrderStatusChanged     = "order.status_changed"
	EventContactMessageReceived = "contact_message.received"
)

// OrderPlacedEvent is emitted after both checkout writes succeed.
type OrderPlacedEvent struct {
	Event        string    `json:"event"`
	OrderID      string    `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	TotalAmount  int64     `json:"total_amount"` // minor units
	DisplayTotal string    `json:"display_total"`
	ItemCount    int       `json:"item_count"`
	Timestamp    time.Time `json:"timestamp"`
}

// OrderStatusChangedEvent is emitted after a status transition is persisted.
type OrderStatusChangedEvent struct {
	Event     string    `json:"event"`
	OrderID   string    `json:"order_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

// ContactMessageReceivedEvent notifies staff of a new inquiry.
type ContactMessageReceivedEvent struct {
	Event     string    `json:"event"`
	MessageID string    `json:"message_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
}

// DashboardStats backs the admin overview.
type DashboardStats struct {
	TotalProducts   int64 `json:"total_products"`
	PendingOrders   int64 `json:"pending_orders"`
	PendingMessages int64 `json:"pending_messages"`
	MonthlyRevenue  int64 `json:"monthly_revenue"`
}
