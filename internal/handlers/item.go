package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nick19y/PizzApp-sub001/internal/models"
	"github.com/nick19y/PizzApp-sub001/internal/utils"
)

// ItemHandler manages the item catalog.
type ItemHandler struct {
	db *gorm.DB
}

// NewItemHandler constructs ItemHandler.
func NewItemHandler(db *gorm.DB) *ItemHandler {
	return &ItemHandler{db: db}
}

type itemRequest struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description"`
	Category      string   `json:"category" validate:"required,oneof=pizzas drinks desserts"`
	PriceSmall    *float64 `json:"price_small" validate:"required,gte=0"`
	PriceMedium   *float64 `json:"price_medium" validate:"omitempty,gte=0"`
	PriceLarge    *float64 `json:"price_large" validate:"omitempty,gte=0"`
	Image         string   `json:"image"`
	Available     *bool    `json:"available"`
	Featured      bool     `json:"featured"`
	EstimatedTime int      `json:"estimated_time" validate:"gte=0"`

	// Specialization payload, matched against Category.
	Ingredients string `json:"ingredients"`
	DrinkType   string `json:"drink_type"`
	VolumeML    int    `json:"volume_ml" validate:"gte=0"`
}

// ListItems returns paginated catalog items with their specialization.
func (h *ItemHandler) ListItems(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Item{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if available := c.Query("available"); available != "" {
		query = query.Where("available = ?", available == "true")
	}
	if featured := c.Query("featured"); featured != "" {
		query = query.Where("featured = ?", featured == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var items []models.Item
	if err := query.Preload("Pizza").Preload("Drink").Preload("Dessert").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetItem returns a single item by ID.
func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.Item
	if err := h.db.Preload("Pizza").Preload("Drink").Preload("Dessert").
		First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "item not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// CreateItem persists a new item with its specialization record.
func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.UnprocessableEntity(c, fields)
	}

	item := itemFromRequest(req)
	attachDetails(&item, req)

	if err := h.db.Create(&item).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

// UpdateItem updates an item, keeping its specialization record in sync
// with the category tag.
func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.Item
	if err := h.db.Preload("Pizza").Preload("Drink").Preload("Dessert").
		First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "item not found")
		}
		return err
	}

	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.UnprocessableEntity(c, fields)
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		updated := itemFromRequest(req)
		updated.ID = item.ID

		if err := tx.Model(&item).Select(
			"name", "description", "category", "price_small", "price_medium",
			"price_large", "image", "available", "featured", "estimated_time",
		).Updates(&updated).Error; err != nil {
			return err
		}

		// Drop any specialization rows no longer matching the category.
		if err := clearStaleDetails(tx, &item, req.Category); err != nil {
			return err
		}

		item.Category = req.Category
		attachDetails(&item, req)
		return syncDetails(tx, &item)
	})
	if err != nil {
		return err
	}

	var fresh models.Item
	if err := h.db.Preload("Pizza").Preload("Drink").Preload("Dessert").
		First(&fresh, "id = ?", item.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fresh})
}

// DeleteItem removes an item and its specialization rows.
func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Pizza{}, "item_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Drink{}, "item_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Dessert{}, "item_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Item{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func itemFromRequest(req itemRequest) models.Item {
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	return models.Item{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		PriceSmall:    *req.PriceSmall,
		PriceMedium:   req.PriceMedium,
		PriceLarge:    req.PriceLarge,
		Image:         req.Image,
		Available:     available,
		Featured:      req.Featured,
		EstimatedTime: req.EstimatedTime,
	}
}

// attachDetails sets the specialization record matching the category tag.
func attachDetails(item *models.Item, req itemRequest) {
	item.Pizza, item.Drink, item.Dessert = nil, nil, nil

	switch req.Category {
	case models.CategoryPizzas:
		item.Pizza = &models.Pizza{Ingredients: req.Ingredients}
	case models.CategoryDrinks:
		item.Drink = &models.Drink{Type: req.DrinkType, VolumeML: req.VolumeML}
	case models.CategoryDesserts:
		item.Dessert = &models.Dessert{Ingredients: req.Ingredients}
	}
}

func clearStaleDetails(tx *gorm.DB, item *models.Item, newCategory string) error {
	if newCategory != models.CategoryPizzas {
		if err := tx.Delete(&models.Pizza{}, "item_id = ?", item.ID).Error; err != nil {
			return err
		}
	}
	if newCategory != models.CategoryDrinks {
		if err := tx.Delete(&models.Drink{}, "item_id = ?", item.ID).Error; err != nil {
			return err
		}
	}
	if newCategory != models.CategoryDesserts {
		if err := tx.Delete(&models.Dessert{}, "item_id = ?", item.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// syncDetails upserts the specialization row for the item's category.
func syncDetails(tx *gorm.DB, item *models.Item) error {
	switch item.Category {
	case models.CategoryPizzas:
		var existing models.Pizza
		err := tx.First(&existing, "item_id = ?", item.ID).Error
		if err == gorm.ErrRecordNotFound {
			item.Pizza.ItemID = item.ID
			return tx.Create(item.Pizza).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Update("ingredients", item.Pizza.Ingredients).Error
	case models.CategoryDrinks:
		var existing models.Drink
		err := tx.First(&existing, "item_id = ?", item.ID).Error
		if err == gorm.ErrRecordNotFound {
			item.Drink.ItemID = item.ID
			return tx.Create(item.Drink).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Updates(map[string]interface{}{
			"type":      item.Drink.Type,
			"volume_ml": item.Drink.VolumeML,
		}).Error
	case models.CategoryDesserts:
		var existing models.Dessert
		err := tx.First(&existing, "item_id = ?", item.ID).Error
		if err == gorm.ErrRecordNotFound {
			item.Dessert.ItemID = item.ID
			return tx.Create(item.Dessert).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Update("ingredients", item.Dessert.Ingredients).Error
	}
	return nil
}
