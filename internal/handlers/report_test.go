package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nick19y/PizzApp-sub001/internal/models"
)

func seedPaidOrder(t *testing.T, db *gorm.DB, user models.User, total float64, at time.Time) {
	t.Helper()

	order := models.Order{
		UserID:        user.ID,
		Status:        models.OrderStatusCompleted,
		TotalAmount:   total,
		ContactPhone:  "+55 11 99999-0000",
		PaymentMethod: models.PaymentCash,
	}
	order.CreatedAt = at
	require.NoError(t, db.Create(&order).Error)
}

func TestSalesStatsEndpoint(t *testing.T) {
	app, db := newTestApp(t)
	token := signup(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, "admin@example.com")

	var admin models.User
	require.NoError(t, db.First(&admin, "email = ?", "admin@example.com").Error)

	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seedPaidOrder(t, db, admin, 100, day)
	seedPaidOrder(t, db, admin, 50, day.Add(time.Hour))

	resp, err := app.Test(jsonRequest(http.MethodGet,
		"/reports/sales-stats?start_date=2026-03-10&end_date=2026-03-10", nil, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, 150.0, data["total_sales"])
	assert.Equal(t, 2.0, data["total_orders"])
	assert.Equal(t, 75.0, data["average_ticket"])
}

func TestReportEndpointsRejectBadDates(t *testing.T) {
	app, db := newTestApp(t)
	token := signup(t, app, "Admin", "admin@example.com")
	promoteToAdmin(t, db, "admin@example.com")

	resp, err := app.Test(jsonRequest(http.MethodGet,
		"/reports/sales-by-day?start_date=10/03/2026", nil, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodGet,
		"/reports/sales-by-day?start_date=2026-03-10&end_date=2026-03-01", nil, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportsRequireAdmin(t *testing.T) {
	app, _ := newTestApp(t)
	token := signup(t, app, "Maria Souza", "maria@example.com")

	resp, err := app.Test(jsonRequest(http.MethodGet, "/reports/sales-stats", nil, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
