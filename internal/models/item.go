package models

import (
	"github.com/google/uuid"
)

// Item categories.
const (
	CategoryPizzas   = "pizzas"
	CategoryDrinks   = "drinks"
	CategoryDesserts = "desserts"
)

// Size tiers an item can be ordered in.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Item is a sellable catalog entry. Exactly one specialization record
// (Pizza, Drink or Dessert) exists, selected by the Category tag.
type Item struct {
	BaseModel
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `gorm:"index" json:"category"`
	PriceSmall    float64  `json:"price_small"`
	PriceMedium   *float64 `json:"price_medium"`
	PriceLarge    *float64 `json:"price_large"`
	Image         string   `json:"image"`
	Available     bool     `json:"available"`
	Featured      bool     `json:"featured"`
	EstimatedTime int      `json:"estimated_time"`
	Pizza         *Pizza   `gorm:"constraint:OnDelete:CASCADE" json:"pizza,omitempty"`
	Drink         *Drink   `gorm:"constraint:OnDelete:CASCADE" json:"drink,omitempty"`
	Dessert       *Dessert `gorm:"constraint:OnDelete:CASCADE" json:"dessert,omitempty"`
}

// Pizza holds the pizza specialization of an item.
type Pizza struct {
	BaseModel
	ItemID      uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"item_id"`
	Ingredients string    `json:"ingredients"`
}

// Drink holds the drink specialization of an item.
type Drink struct {
	BaseModel
	ItemID   uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"item_id"`
	Type     string    `json:"type"`
	VolumeML int       `json:"volume_ml"`
}

// Dessert holds the dessert specialization of an item.
type Dessert struct {
	BaseModel
	ItemID      uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"item_id"`
	Ingredients string    `json:"ingredients"`
}

// ItemDetails is the specialization payload matching the item's category tag.
type ItemDetails struct {
	Pizza   *Pizza
	Drink   *Drink
	Dessert *Dessert
}

// Details returns the specialization record matching the category tag.
// Records attached under a non-matching category are ignored.
func (i *Item) Details() ItemDetails {
	switch i.Category {
	case CategoryPizzas:
		return ItemDetails{Pizza: i.Pizza}
	case CategoryDrinks:
		return ItemDetails{Drink: i.Drink}
	case CategoryDesserts:
		return ItemDetails{Dessert: i.Dessert}
	}
	return ItemDetails{}
}

// PriceFor maps a size tier to the item's configured price. The second
// return value is false when the item has no price for that size.
func (i *Item) PriceFor(size Size) (float64, bool) {
	switch size {
	case SizeSmall:
		return i.PriceSmall, true
	case SizeMedium:
		if i.PriceMedium == nil {
			return 0, false
		}
		return *i.PriceMedium, true
	case SizeLarge:
		if i.PriceLarge == nil {
			return 0, false
		}
		return *i.PriceLarge, true
	}
	return 0, false
}
