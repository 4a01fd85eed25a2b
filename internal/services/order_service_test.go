package services

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nick19y/PizzApp-sub001/internal/database"
	"github.com/nick19y/PizzApp-sub001/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func floatPtr(v float64) *float64 { return &v }

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	user := models.User{
		Name:  "Maria Souza",
		Email: "maria@example.com",
		Role:  models.RoleCustomer,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedItem(t *testing.T, db *gorm.DB, name string, small float64, medium, large *float64, available bool) models.Item {
	t.Helper()

	item := models.Item{
		Name:        name,
		Category:    models.CategoryPizzas,
		PriceSmall:  small,
		PriceMedium: medium,
		PriceLarge:  large,
		Available:   available,
		Pizza:       &models.Pizza{Ingredients: "mozzarella, tomato"},
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestPlaceOrderComputesTotalsFromSizePrices(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, zap.NewNop().Sugar())
	user := seedUser(t, db)

	itemA := seedItem(t, db, "Margherita", 20, floatPtr(30), floatPtr(40), true)
	itemB := seedItem(t, db, "Calabresa", 10, nil, nil, true)

	order, err := svc.PlaceOrder(context.Background(), user.ID, PlaceOrderInput{
		ContactPhone:  "+55 11 99999-0000",
		PaymentMethod: models.PaymentPix,
		Items: []OrderLineInput{
			{ItemID: itemA.ID.String(), Size: "medium", Quantity: 2},
			{ItemID: itemB.ID.String(), Size: "small", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 70.0, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	var lines []models.ItemOrder
	require.NoError(t, db.Where("order_id = ?", order.ID).Order("subtotal desc").Find(&lines).Error)
	require.Len(t, lines, 2)

	assert.Equal(t, 30.0, lines[0].UnitPrice)
	assert.Equal(t, 60.0, lines[0].Subtotal)
	assert.Equal(t, 10.0, lines[1].UnitPrice)
	assert.Equal(t, 10.0, lines[1].Subtotal)
}

func TestPlaceOrderTotalMatchesLineSubtotals(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, zap.NewNop().Sugar())
	user := seedUser(t, db)
	item := seedItem(t, db, "Quatro Queijos", 25.5, floatPtr(35.9), nil, true)

	order, err := svc.PlaceOrder(context.Background(), user.ID, PlaceOrderInput{
		ContactPhone:  "+55 11 99999-0000",
		PaymentMethod: models.PaymentCash,
		Items: []OrderLineInput{
			{ItemID: item.ID.String(), Size: "small", Quantity: 3},
			{ItemID: item.ID.String(), Size: "medium", Quantity: 2},
		},
	})
	require.NoError(t, err)

	var sum float64
	for _, line := range order.Items {
		sum += line.Subtotal
	}
	assert.InDelta(t, sum, order.TotalAmount, 1e-9)
	assert.InDelta(t, 148.3, order.TotalAmount, 1e-9)
}

func TestPlaceOrderRejectsUnpricedSize(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, zap.NewNop().Sugar())
	user := seedUser(t, db)

	priced := seedItem(t, db, "Margherita", 20, floatPtr(30), nil, true)
	smallOnly := seedItem(t, db, "Calabresa", 10, nil, nil, true)

	_, err := svc.PlaceOrder(context.Background(), user.ID, PlaceOrderInput{
		ContactPhone:  "+55 11 99999-0000",
		PaymentMethod: models.PaymentCash,
		Items: []OrderLineInput{
			{ItemID: priced.ID.String(), Size: "medium", Quantity: 1},
			{ItemID: smallOnly.ID.String(), Size: "large", Quantity: 1},
		},
	})

	var placement *PlacementError
	require.ErrorAs(t, err, &placement)
	assert.Contains(t, placement.Fields, "items[1].size")

	// The whole order must be aborted; no partial rows survive.
	var orderCount, lineCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.ItemOrder{}).Count(&lineCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, lineCount)
}

func TestPlaceOrderRejectsUnavailableItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, zap.NewNop().Sugar())
	user := seedUser(t, db)
	item := seedItem(t, db, "Margherita", 20, nil, nil, false)

	_, err := svc.PlaceOrder(context.Background(), user.ID, PlaceOrderInput{
		ContactPhone:  "+55 11 99999-0000",
		PaymentMethod: models.PaymentCash,
		Items: []OrderLineInput{
			{ItemID: item.ID.String(), Size: "small", Quantity: 1},
		},
	})

	var placement *PlacementError
	require.ErrorAs(t, err, &placement)
	assert.Contains(t, placement.Fields, "items[0].item_id")
}

func TestPlaceOrderRejectsUnknownItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, zap.NewNop().Sugar())
	user := seedUser(t, db)

	_, err := svc.PlaceOrder(context.Background(), user.ID, PlaceOrderInput{
		ContactPhone:  "+55 11 99999-0000",
		PaymentMethod: models.PaymentCash,
		Items: []OrderLineInput{
			{ItemID: "00000000-0000-0000-0000-000000000001", Size: "small", Quantity: 1},
		},
	})

	var placement *PlacementError
	require.ErrorAs(t, err, &placement)
	assert.Contains(t, placement.Fields, "items[0].item_id")
}

func TestPlaceOrderSnapshotsUnitPrice(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, zap.NewNop().Sugar())
	user := seedUser(t, db)
	item := seedItem(t, db, "Margherita", 20, nil, nil, true)

	order, err := svc.PlaceOrder(context.Background(), user.ID, PlaceOrderInput{
		ContactPhone:  "+55 11 99999-0000",
		PaymentMethod: models.PaymentCash,
		Items: []OrderLineInput{
			{ItemID: item.ID.String(), Size: "small", Quantity: 1},
		},
	})
	require.NoError(t, err)

	// Catalog price changes must not touch already placed orders.
	require.NoError(t, db.Model(&models.Item{}).Where("id = ?", item.ID).
		Update("price_small", 99.0).Error)

	var line models.ItemOrder
	require.NoError(t, db.First(&line, "order_id = ?", order.ID).Error)
	assert.Equal(t, 20.0, line.UnitPrice)
	assert.Equal(t, 20.0, line.Subtotal)
}

func TestUpdateStatusOnlyMovesForward(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, zap.NewNop().Sugar())
	user := seedUser(t, db)
	item := seedItem(t, db, "Margherita", 30, nil, nil, true)

	order, err := svc.PlaceOrder(context.Background(), user.ID, PlaceOrderInput{
		ContactPhone:  "+55 11 99999-0000",
		PaymentMethod: models.PaymentCash,
		Items: []OrderLineInput{
			{ItemID: item.ID.String(), Size: "small", Quantity: 1},
		},
	})
	require.NoError(t, err)

	for _, status := range []string{
		models.OrderStatusProcessing,
		models.OrderStatusCompleted,
		models.OrderStatusDelivered,
	} {
		updated, err := svc.UpdateStatus(context.Background(), order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	// Delivered is terminal; nothing may follow it.
	for _, status := range []string{
		models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusCancelled,
	} {
		_, err := svc.UpdateStatus(context.Background(), order.ID, status)
		var placement *PlacementError
		require.ErrorAs(t, err, &placement, "delivered -> %s must be rejected", status)
		assert.Contains(t, placement.Fields, "status")
	}

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusDelivered, stored.Status)
}

func TestUpdateStatusCancelledIsTerminal(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, zap.NewNop().Sugar())
	user := seedUser(t, db)
	item := seedItem(t, db, "Margherita", 30, nil, nil, true)

	order, err := svc.PlaceOrder(context.Background(), user.ID, PlaceOrderInput{
		ContactPhone:  "+55 11 99999-0000",
		PaymentMethod: models.PaymentCash,
		Items: []OrderLineInput{
			{ItemID: item.ID.String(), Size: "small", Quantity: 1},
		},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusProcessing)
	var placement *PlacementError
	require.ErrorAs(t, err, &placement)
	assert.Contains(t, placement.Fields, "status")
}
