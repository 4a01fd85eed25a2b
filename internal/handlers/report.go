package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nick19y/PizzApp-sub001/internal/services"
)

// ReportHandler exposes the sales report endpoints.
type ReportHandler struct {
	reports *services.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// parseRange reads the start_date/end_date query params as ISO dates,
// defaulting to the last 30 days.
func parseRange(c *fiber.Ctx) (start, end time.Time, err error) {
	now := time.Now()
	start = now.AddDate(0, 0, -29)
	end = now

	if raw := c.Query("start_date"); raw != "" {
		start, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return start, end, fiber.NewError(fiber.StatusBadRequest, "start_date must be an ISO date")
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		end, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return start, end, fiber.NewError(fiber.StatusBadRequest, "end_date must be an ISO date")
		}
	}

	if end.Before(start) {
		return start, end, fiber.NewError(fiber.StatusBadRequest, "end_date must not precede start_date")
	}
	return start, end, nil
}

func parseLimit(c *fiber.Ctx) int {
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			return limit
		}
	}
	return 0
}

// SalesStats returns period totals with growth against the previous period.
func (h *ReportHandler) SalesStats(c *fiber.Ctx) error {
	start, end, err := parseRange(c)
	if err != nil {
		return err
	}

	stats, err := h.reports.GetSalesStats(c.Context(), start, end)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// MostSoldItem returns the period's top seller, or null when nothing sold.
func (h *ReportHandler) MostSoldItem(c *fiber.Ctx) error {
	start, end, err := parseRange(c)
	if err != nil {
		return err
	}

	item, err := h.reports.GetMostSoldItem(c.Context(), start, end)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// SalesByDay returns daily sales buckets; days without orders are omitted.
func (h *ReportHandler) SalesByDay(c *fiber.Ctx) error {
	start, end, err := parseRange(c)
	if err != nil {
		return err
	}

	buckets, err := h.reports.GetSalesByDay(c.Context(), start, end)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": buckets})
}

// SalesByHour returns hour-of-day sales buckets.
func (h *ReportHandler) SalesByHour(c *fiber.Ctx) error {
	start, end, err := parseRange(c)
	if err != nil {
		return err
	}

	buckets, err := h.reports.GetSalesByHour(c.Context(), start, end)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": buckets})
}

// SalesByProduct returns per-item sales ordered by descending value.
func (h *ReportHandler) SalesByProduct(c *fiber.Ctx) error {
	start, end, err := parseRange(c)
	if err != nil {
		return err
	}

	sales, err := h.reports.GetSalesByProduct(c.Context(), start, end, parseLimit(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": sales})
}

// SalesByCategory returns per-category sales ordered by descending value.
func (h *ReportHandler) SalesByCategory(c *fiber.Ctx) error {
	start, end, err := parseRange(c)
	if err != nil {
		return err
	}

	sales, err := h.reports.GetSalesByCategory(c.Context(), start, end)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": sales})
}
