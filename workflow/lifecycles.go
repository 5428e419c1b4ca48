package workflow

import "bakery-service/models"

// Orders is the order lifecycle. Delivered and cancelled are terminal.
var Orders = NewMachine("order",
	[]models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	},
	[]models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusDelivered,
	},
	[]models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusCancelled},
)

// Messages is the contact message lifecycle. Every state is reachable from
// every other, so it has no sequence and no terminal states.
var Messages = NewMachine("message",
	[]models.MessageStatus{
		models.MessageStatusPending,
		models.MessageStatusRead,
		models.MessageStatusReplied,
	},
	nil,
	nil,
)
