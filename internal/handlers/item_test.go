package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nick19y/PizzApp-sub001/internal/models"
)

func TestCreateItemWithSpecialization(t *testing.T) {
	app, db := newTestApp(t)
	token := signup(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, "admin@example.com")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/items", map[string]interface{}{
		"name":         "Margherita",
		"category":     "pizzas",
		"price_small":  20.0,
		"price_medium": 30.0,
		"ingredients":  "mozzarella, tomato, basil",
	}, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var item models.Item
	require.NoError(t, db.Preload("Pizza").First(&item, "name = ?", "Margherita").Error)
	require.NotNil(t, item.Pizza)
	assert.Equal(t, "mozzarella, tomato, basil", item.Pizza.Ingredients)
	assert.True(t, item.Available, "items default to available")

	var pizzaCount, drinkCount int64
	require.NoError(t, db.Model(&models.Pizza{}).Where("item_id = ?", item.ID).Count(&pizzaCount).Error)
	require.NoError(t, db.Model(&models.Drink{}).Where("item_id = ?", item.ID).Count(&drinkCount).Error)
	assert.EqualValues(t, 1, pizzaCount, "exactly one specialization row exists")
	assert.Zero(t, drinkCount)
}

func TestCreateItemValidation(t *testing.T) {
	app, db := newTestApp(t)
	token := signup(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, "admin@example.com")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/items", map[string]interface{}{
		"category": "sushi",
	}, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	errs := decodeBody(t, resp)["errors"].(map[string]interface{})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "category")
	assert.Contains(t, errs, "price_small")
}

func TestUpdateItemCategorySwapsSpecialization(t *testing.T) {
	app, db := newTestApp(t)
	token := signup(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, "admin@example.com")

	item := seedCatalogItem(t, db, "Margherita", 20, nil)

	resp, err := app.Test(jsonRequest(http.MethodPut, "/items/"+item.ID.String(), map[string]interface{}{
		"name":        "Guaraná",
		"category":    "drinks",
		"price_small": 8.0,
		"drink_type":  "soda",
		"volume_ml":   350,
	}, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pizzaCount, drinkCount int64
	require.NoError(t, db.Model(&models.Pizza{}).Where("item_id = ?", item.ID).Count(&pizzaCount).Error)
	require.NoError(t, db.Model(&models.Drink{}).Where("item_id = ?", item.ID).Count(&drinkCount).Error)
	assert.Zero(t, pizzaCount, "the stale specialization row is removed")
	assert.EqualValues(t, 1, drinkCount)

	var drink models.Drink
	require.NoError(t, db.First(&drink, "item_id = ?", item.ID).Error)
	assert.Equal(t, 350, drink.VolumeML)
}

func TestDeleteItemRemovesSpecialization(t *testing.T) {
	app, db := newTestApp(t)
	token := signup(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, "admin@example.com")

	item := seedCatalogItem(t, db, "Margherita", 20, nil)

	resp, err := app.Test(jsonRequest(http.MethodDelete, "/items/"+item.ID.String(), nil, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var itemCount, pizzaCount int64
	require.NoError(t, db.Model(&models.Item{}).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.Pizza{}).Count(&pizzaCount).Error)
	assert.Zero(t, itemCount)
	assert.Zero(t, pizzaCount)
}

func TestListItemsFiltersByCategory(t *testing.T) {
	app, db := newTestApp(t)
	token := signup(t, app, "Maria Souza", "maria@example.com")

	seedCatalogItem(t, db, "Margherita", 20, nil)
	require.NoError(t, db.Create(&models.Item{
		Name:       "Guaraná",
		Category:   models.CategoryDrinks,
		PriceSmall: 8,
		Available:  true,
		Drink:      &models.Drink{Type: "soda", VolumeML: 350},
	}).Error)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/items?category=drinks", nil, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Guaraná", data[0].(map[string]interface{})["name"])
}

func TestItemMutationRequiresAdmin(t *testing.T) {
	app, _ := newTestApp(t)
	token := signup(t, app, "Maria Souza", "maria@example.com")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/items", map[string]interface{}{
		"name":        "Margherita",
		"category":    "pizzas",
		"price_small": 20.0,
	}, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
