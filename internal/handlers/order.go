package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nick19y/PizzApp-sub001/internal/middleware"
	"github.com/nick19y/PizzApp-sub001/internal/models"
	"github.com/nick19y/PizzApp-sub001/internal/services"
	"github.com/nick19y/PizzApp-sub001/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db       *gorm.DB
	orders   *services.OrderService
	telegram *services.TelegramService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, orders *services.OrderService, telegram *services.TelegramService) *OrderHandler {
	return &OrderHandler{db: db, orders: orders, telegram: telegram}
}

// CreateOrder places an order for the authenticated user. The order and all
// of its lines are written in one transaction; any invalid line aborts the
// whole order.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var input services.PlaceOrderInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fields := utils.ValidateStruct(input); fields != nil {
		return utils.UnprocessableEntity(c, fields)
	}

	order, err := h.orders.PlaceOrder(c.Context(), userID, input)
	if err != nil {
		var placement *services.PlacementError
		if errors.As(err, &placement) {
			return utils.UnprocessableEntity(c, placement.Fields)
		}
		return err
	}

	go h.dispatchOrderNotification(*order, userID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// dispatchOrderNotification notifies the admin chat about a new order.
func (h *OrderHandler) dispatchOrderNotification(order models.Order, userID uuid.UUID) {
	if h.telegram == nil {
		return
	}

	var customer models.User
	if err := h.db.First(&customer, "id = ?", userID).Error; err != nil {
		log.Printf("[Order] Failed to load customer %s for notification: %v", userID, err)
	}

	var full models.Order
	if err := h.db.Preload("Items").Preload("Items.Item").
		First(&full, "id = ?", order.ID).Error; err != nil {
		full = order
	}

	if err := h.telegram.NotifyNewOrder(full, customer); err != nil {
		log.Printf("[Order] Telegram notification failed for order %s: %v", order.ID, err)
	}
}

// ListOrders returns orders for the authenticated user; admins see every
// order and may filter by status or user.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if user.IsAdmin() {
		if filter := c.Query("user_id"); filter != "" {
			query = query.Where("user_id = ?", filter)
		}
	} else {
		query = query.Where("user_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrderItems returns the lines of an order. Customers may only read
// their own orders.
func (h *OrderHandler) GetOrderItems(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Params("order_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if order.UserID != userID {
		var user models.User
		if err := h.db.First(&user, "id = ?", userID).Error; err != nil || !user.IsAdmin() {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
	}

	var lines []models.ItemOrder
	if err := h.db.Preload("Item").
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Find(&lines).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": lines})
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing completed cancelled delivered"`
}

// UpdateOrderStatus moves an order to a new lifecycle status. Admin only.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.UnprocessableEntity(c, fields)
	}

	order, err := h.orders.UpdateStatus(c.Context(), orderID, req.Status)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		var placement *services.PlacementError
		if errors.As(err, &placement) {
			return utils.UnprocessableEntity(c, placement.Fields)
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
