package model

import "time"

const (
	OrderStatusPaid    = "paid"
	OrderStatusPending = "pending"
)

type OrderItem struct {
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	LineTotal int64  `json:"lineTotal"`
}

type Order struct {
	ID          string      `json:"orderId"`
	TotalAmount int64       `json:"totalAmount"`
	PaymentType string      `json:"paymentType"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	Items       []OrderItem `json:"items"`
}

type SubmitOrderItemRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Quantity  int32  `json:"quantity" validate:"required,gt=0"`
	UnitPrice int64  `json:"unitPrice" validate:"gte=0"`
}

type SubmitOrderRequest struct {
	TotalAmount int64                    `json:"totalAmount" validate:"gte=0"`
	PaymentType string                   `json:"paymentType" validate:"required,max=50"`
	Items       []SubmitOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderCreatedEventMessage struct {
	OrderID     string `json:"order_id"`
	TotalAmount int64  `json:"total_amount"`
	PaymentType string `json:"payment_type"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// DeriveOrderStatus marks an order pending when it was taken against the
// deferred payment label, paid otherwise. The match is exact.
func DeriveOrderStatus(paymentType, deferredLabel string) string {
	if paymentType == deferredLabel {
		return OrderStatusPending
	}
	return OrderStatusPaid
}
