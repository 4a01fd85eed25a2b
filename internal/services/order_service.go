package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nick19y/PizzApp-sub001/internal/models"
)

// OrderService composes and persists orders.
type OrderService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewOrderService constructs OrderService.
func NewOrderService(db *gorm.DB, logger *zap.SugaredLogger) *OrderService {
	return &OrderService{db: db, logger: logger}
}

// OrderLineInput is one requested line of a new order.
type OrderLineInput struct {
	ItemID              string `json:"item_id" validate:"required,uuid"`
	Size                string `json:"size" validate:"required,oneof=small medium large"`
	Quantity            int    `json:"quantity" validate:"required,gte=1"`
	SpecialInstructions string `json:"special_instructions"`
}

// PlaceOrderInput is the checkout payload.
type PlaceOrderInput struct {
	DeliveryAddress string           `json:"delivery_address"`
	ContactPhone    string           `json:"contact_phone" validate:"required"`
	Notes           string           `json:"notes"`
	DeliveryTime    *time.Time       `json:"delivery_time"`
	PaymentMethod   string           `json:"payment_method" validate:"required,oneof=cash credit_card debit_card pix"`
	Items           []OrderLineInput `json:"items" validate:"required,min=1,dive"`
}

// PlacementError reports per-field problems found while resolving order
// lines, such as a missing item or an unpriced size.
type PlacementError struct {
	Fields map[string][]string
}

func (e *PlacementError) Error() string {
	return "order placement failed validation"
}

func lineError(index int, field, message string) *PlacementError {
	key := fmt.Sprintf("items[%d].%s", index, field)
	return &PlacementError{Fields: map[string][]string{key: {message}}}
}

// PlaceOrder resolves each line against the catalog, snapshots the size
// price, and persists the order with all its lines in one transaction.
// Any invalid line aborts the whole order; no partial rows survive.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	order := &models.Order{
		UserID:          userID,
		Status:          models.OrderStatusPending,
		DeliveryAddress: input.DeliveryAddress,
		ContactPhone:    input.ContactPhone,
		Notes:           input.Notes,
		DeliveryTime:    input.DeliveryTime,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   false,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero

		for i, line := range input.Items {
			itemID, err := uuid.Parse(line.ItemID)
			if err != nil {
				return lineError(i, "item_id", "must be a valid id")
			}

			var item models.Item
			if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return lineError(i, "item_id", "item not found")
				}
				return err
			}

			if !item.Available {
				return lineError(i, "item_id", "item is not available")
			}

			price, ok := item.PriceFor(models.Size(line.Size))
			if !ok {
				return lineError(i, "size", fmt.Sprintf("item has no %s price", line.Size))
			}

			subtotal := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(subtotal)

			order.Items = append(order.Items, models.ItemOrder{
				ItemID:              item.ID,
				Size:                models.Size(line.Size),
				Quantity:            line.Quantity,
				UnitPrice:           price,
				Subtotal:            subtotal.InexactFloat64(),
				SpecialInstructions: line.SpecialInstructions,
			})
		}

		order.TotalAmount = total.InexactFloat64()
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("order placed",
		"order_id", order.ID,
		"user_id", userID,
		"lines", len(order.Items),
		"total", order.TotalAmount,
	)
	return order, nil
}

// UpdateStatus moves an order forward to a new lifecycle status.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, &PlacementError{Fields: map[string][]string{
			"status": {"must be one of: pending, processing, completed, cancelled, delivered"},
		}}
	}

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}

	if !models.CanTransitionOrder(order.Status, status) {
		return nil, &PlacementError{Fields: map[string][]string{
			"status": {fmt.Sprintf("cannot transition from %s to %s", order.Status, status)},
		}}
	}

	order.Status = status
	if err := s.db.WithContext(ctx).Model(&order).Update("status", status).Error; err != nil {
		return nil, err
	}

	s.logger.Infow("order status updated", "order_id", orderID, "status", status)
	return &order, nil
}
