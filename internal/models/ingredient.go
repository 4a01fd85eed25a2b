package models

import (
	"time"
)

// Ingredient is a stock-tracked supply used in the kitchen. Stock is
// managed manually through the inventory endpoints; placing an order does
// not touch ingredient quantities.
type Ingredient struct {
	BaseModel
	Code          string     `gorm:"uniqueIndex" json:"code"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	PurchasePrice float64    `json:"purchase_price"`
	SalePrice     float64    `json:"sale_price"`
	Quantity      float64    `json:"quantity"`
	MinimumStock  float64    `json:"minimum_stock"`
	Supplier      string     `json:"supplier"`
	Location      string     `json:"location"`
	LastPurchase  *time.Time `json:"last_purchase"`
	Unit          string     `json:"unit"`
	ExpiryDate    time.Time  `json:"expiry_date"`
	Image         string     `json:"image"`
}

// IngredientStatus carries the derived stock and expiry flags. The flags
// are independent predicates, not a mutually exclusive enum: an ingredient
// can be low on stock and near expiration at the same time.
type IngredientStatus struct {
	IsOutOfStock     bool `json:"is_out_of_stock"`
	IsLowStock       bool `json:"is_low_stock"`
	IsNearExpiration bool `json:"is_near_expiration"`
	IsExpired        bool `json:"is_expired"`
}

// nearExpirationDays is how far ahead an upcoming expiry date is flagged.
const nearExpirationDays = 7

// StatusAt evaluates the derived flags against the given clock. Nothing is
// stored; callers recompute on every read.
func (i *Ingredient) StatusAt(now time.Time) IngredientStatus {
	today := calendarDate(now)
	expiry := calendarDate(i.ExpiryDate)

	return IngredientStatus{
		IsOutOfStock:     i.Quantity <= 0,
		IsLowStock:       i.Quantity > 0 && i.Quantity < i.MinimumStock,
		IsNearExpiration: !expiry.Before(today) && !expiry.After(today.AddDate(0, 0, nearExpirationDays)),
		IsExpired:        expiry.Before(today),
	}
}

// calendarDate normalizes a timestamp to its calendar day in a fixed
// location, so expiry dates stored as UTC midnights and a server-local
// clock compare by date rather than by instant.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
