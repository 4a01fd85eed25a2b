package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nick19y/PizzApp-sub001/internal/database"
	"github.com/nick19y/PizzApp-sub001/internal/models"
	"github.com/nick19y/PizzApp-sub001/internal/utils"
)

// IngredientHandler manages inventory ingredients.
type IngredientHandler struct {
	db *gorm.DB
}

// NewIngredientHandler constructs IngredientHandler.
func NewIngredientHandler(db *gorm.DB) *IngredientHandler {
	return &IngredientHandler{db: db}
}

type ingredientRequest struct {
	Code          string  `json:"code" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	PurchasePrice float64 `json:"purchase_price" validate:"gte=0"`
	SalePrice     float64 `json:"sale_price" validate:"gte=0"`
	Quantity      float64 `json:"quantity" validate:"gte=0"`
	MinimumStock  float64 `json:"minimum_stock" validate:"gte=0"`
	Supplier      string  `json:"supplier"`
	Location      string  `json:"location"`
	LastPurchase  string  `json:"last_purchase"`
	Unit          string  `json:"unit"`
	ExpiryDate    string  `json:"expiry_date" validate:"required"`
	Image         string  `json:"image"`
}

// fieldAliases maps the admin client's Portuguese field names onto the
// canonical snake_case names, applied before validation so both spellings
// validate identically.
var fieldAliases = map[string]string{
	"codigo":             "code",
	"nome":               "name",
	"descricao":          "description",
	"categoria":          "category",
	"preco_compra":       "purchase_price",
	"preco_venda":        "sale_price",
	"quantidade":         "quantity",
	"estoque_minimo":     "minimum_stock",
	"fornecedor":         "supplier",
	"localizacao":        "location",
	"data_ultima_compra": "last_purchase",
	"unidade_medida":     "unit",
	"data_validade":      "expiry_date",
	"imagem":             "image",
}

func parseIngredientBody(c *fiber.Ctx) (*ingredientRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	for alias, canonical := range fieldAliases {
		if value, ok := raw[alias]; ok {
			if _, exists := raw[canonical]; !exists {
				raw[canonical] = value
			}
			delete(raw, alias)
		}
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var req ingredientRequest
	if err := json.Unmarshal(normalized, &req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return &req, nil
}

// parseDate accepts ISO calendar dates as well as full RFC3339 timestamps.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (req *ingredientRequest) toModel() (*models.Ingredient, map[string][]string) {
	expiry, err := parseDate(req.ExpiryDate)
	if err != nil {
		return nil, utils.FieldError("expiry_date", "must be an ISO date")
	}

	ingredient := &models.Ingredient{
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		Quantity:      req.Quantity,
		MinimumStock:  req.MinimumStock,
		Supplier:      req.Supplier,
		Location:      req.Location,
		Unit:          req.Unit,
		ExpiryDate:    expiry,
		Image:         req.Image,
	}

	if req.LastPurchase != "" {
		purchased, err := parseDate(req.LastPurchase)
		if err != nil {
			return nil, utils.FieldError("last_purchase", "must be an ISO date")
		}
		ingredient.LastPurchase = &purchased
	}

	return ingredient, nil
}

type ingredientResponse struct {
	models.Ingredient
	Status models.IngredientStatus `json:"status"`
}

func withStatus(ingredient models.Ingredient, now time.Time) ingredientResponse {
	return ingredientResponse{Ingredient: ingredient, Status: ingredient.StatusAt(now)}
}

// ListIngredients returns paginated ingredients with derived status flags.
func (h *IngredientHandler) ListIngredients(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Ingredient{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("low_stock") == "true" {
		query = query.Where("quantity > 0 AND quantity < minimum_stock")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var ingredients []models.Ingredient
	if err := query.Order("name asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&ingredients).Error; err != nil {
		return err
	}

	now := time.Now()
	data := make([]ingredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		data = append(data, withStatus(ingredient, now))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetIngredient returns a single ingredient by ID.
func (h *IngredientHandler) GetIngredient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var ingredient models.Ingredient
	if err := h.db.First(&ingredient, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "ingredient not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": withStatus(ingredient, time.Now())})
}

// CreateIngredient persists a new ingredient.
func (h *IngredientHandler) CreateIngredient(c *fiber.Ctx) error {
	req, err := parseIngredientBody(c)
	if err != nil {
		return err
	}

	if fields := utils.ValidateStruct(*req); fields != nil {
		return utils.UnprocessableEntity(c, fields)
	}

	ingredient, fields := req.toModel()
	if fields != nil {
		return utils.UnprocessableEntity(c, fields)
	}

	var existing models.Ingredient
	if err := h.db.Where("code = ?", ingredient.Code).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "ingredient code already in use")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	if err := h.db.Create(ingredient).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "ingredient code already in use")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    withStatus(*ingredient, time.Now()),
	})
}

// UpdateIngredient updates an existing ingredient.
func (h *IngredientHandler) UpdateIngredient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var ingredient models.Ingredient
	if err := h.db.First(&ingredient, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "ingredient not found")
		}
		return err
	}

	req, err := parseIngredientBody(c)
	if err != nil {
		return err
	}

	if fields := utils.ValidateStruct(*req); fields != nil {
		return utils.UnprocessableEntity(c, fields)
	}

	updated, fields := req.toModel()
	if fields != nil {
		return utils.UnprocessableEntity(c, fields)
	}

	var conflict models.Ingredient
	if err := h.db.Where("code = ? AND id <> ?", updated.Code, id).First(&conflict).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "ingredient code already in use")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	updated.ID = ingredient.ID
	if err := h.db.Model(&ingredient).Select(
		"code", "name", "description", "category", "purchase_price", "sale_price",
		"quantity", "minimum_stock", "supplier", "location", "last_purchase",
		"unit", "expiry_date", "image",
	).Updates(updated).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "ingredient code already in use")
		}
		return err
	}

	var fresh models.Ingredient
	if err := h.db.First(&fresh, "id = ?", id).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": withStatus(fresh, time.Now())})
}

// DeleteIngredient removes an ingredient by ID.
func (h *IngredientHandler) DeleteIngredient(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Ingredient{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
