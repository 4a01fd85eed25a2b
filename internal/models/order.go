package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses, in forward lifecycle order.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusDelivered  = "delivered"
)

// Payment methods accepted at checkout.
const (
	PaymentCash       = "cash"
	PaymentCreditCard = "credit_card"
	PaymentDebitCard  = "debit_card"
	PaymentPix        = "pix"
)

// ValidOrderStatus reports whether the status is one of the known values.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted,
		OrderStatusCancelled, OrderStatusDelivered:
		return true
	}
	return false
}

// orderTransitions lists the allowed next statuses per current status.
// The lifecycle only moves forward; cancellation is reachable from any
// non-terminal status, and cancelled/delivered are terminal.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted:  {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransitionOrder reports whether an order may move from one status
// to another.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a placed order and its line items. TotalAmount always equals
// the sum of the line subtotals; both are written in the same transaction.
type Order struct {
	BaseModel
	UserID          uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User            *User       `json:"user,omitempty"`
	Status          string      `gorm:"index" json:"status"`
	TotalAmount     float64     `json:"total_amount"`
	DeliveryAddress string      `json:"delivery_address"`
	ContactPhone    string      `json:"contact_phone"`
	Notes           string      `json:"notes"`
	DeliveryTime    *time.Time  `json:"delivery_time"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentStatus   bool        `json:"payment_status"`
	Items           []ItemOrder `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// ItemOrder is one line of an order. UnitPrice is a snapshot of the item's
// size price at order time; later catalog price changes never touch it.
type ItemOrder struct {
	BaseModel
	OrderID             uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ItemID              uuid.UUID `gorm:"type:uuid;index" json:"item_id"`
	Item                *Item     `json:"item,omitempty"`
	Size                Size      `json:"size"`
	Quantity            int       `json:"quantity"`
	UnitPrice           float64   `json:"unit_price"`
	Subtotal            float64   `json:"subtotal"`
	SpecialInstructions string    `json:"special_instructions"`
}
