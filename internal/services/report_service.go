package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nick19y/PizzApp-sub001/internal/models"
)

// ReportService computes sales reports over a date range. Cancelled orders
// never count toward any report.
type ReportService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewReportService constructs ReportService.
func NewReportService(db *gorm.DB, logger *zap.SugaredLogger) *ReportService {
	return &ReportService{db: db, logger: logger}
}

// SalesStats summarizes a period and its growth against the immediately
// preceding period of equal length.
type SalesStats struct {
	TotalSales    float64      `json:"total_sales"`
	TotalOrders   int          `json:"total_orders"`
	AverageTicket float64      `json:"average_ticket"`
	SalesGrowth   float64      `json:"sales_growth"`
	OrdersGrowth  float64      `json:"orders_growth"`
	TicketGrowth  float64      `json:"ticket_growth"`
	Previous      PeriodTotals `json:"previous"`
}

// PeriodTotals carries the raw figures of a comparison period.
type PeriodTotals struct {
	TotalSales    float64 `json:"total_sales"`
	TotalOrders   int     `json:"total_orders"`
	AverageTicket float64 `json:"average_ticket"`
}

// MostSoldItem is the top seller of a period with its aggregate figures.
type MostSoldItem struct {
	Item          models.Item `json:"item"`
	TotalQuantity int         `json:"total_quantity"`
	TotalValue    float64     `json:"total_value"`
}

// DayBucket groups sales figures by calendar day.
type DayBucket struct {
	Date       string  `json:"date"`
	TotalSales float64 `json:"total_sales"`
	OrderCount int     `json:"order_count"`
}

// HourBucket groups sales figures by hour of day.
type HourBucket struct {
	Hour       int     `json:"hour"`
	TotalSales float64 `json:"total_sales"`
	OrderCount int     `json:"order_count"`
}

// ProductSales aggregates line figures for one item.
type ProductSales struct {
	ItemID        string  `json:"item_id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	TotalQuantity int     `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
}

// CategorySales aggregates line figures for one item category.
type CategorySales struct {
	Category      string  `json:"category"`
	TotalQuantity int     `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
}

// rangeOrders loads non-cancelled orders placed inside the inclusive
// calendar range, optionally with their lines and items.
func (s *ReportService) rangeOrders(ctx context.Context, start, end time.Time, withLines bool) ([]models.Order, error) {
	from := startOfDay(start)
	until := startOfDay(end).Add(24 * time.Hour)

	query := s.db.WithContext(ctx).
		Where("status <> ?", models.OrderStatusCancelled).
		Where("created_at >= ? AND created_at < ?", from, until)

	if withLines {
		query = query.Preload("Items").Preload("Items.Item")
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetSalesStats computes period totals and growth versus the preceding
// period of equal length. Averages and growth are 0 when their denominator
// is 0, never a fault.
func (s *ReportService) GetSalesStats(ctx context.Context, start, end time.Time) (*SalesStats, error) {
	current, err := s.rangeOrders(ctx, start, end, false)
	if err != nil {
		return nil, err
	}

	days := int(startOfDay(end).Sub(startOfDay(start)).Hours()/24) + 1
	prevEnd := startOfDay(start).AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(days - 1))

	previous, err := s.rangeOrders(ctx, prevStart, prevEnd, false)
	if err != nil {
		return nil, err
	}

	curr := totalsOf(current)
	prev := totalsOf(previous)

	stats := &SalesStats{
		TotalSales:    curr.TotalSales,
		TotalOrders:   curr.TotalOrders,
		AverageTicket: curr.AverageTicket,
		SalesGrowth:   growth(curr.TotalSales, prev.TotalSales),
		OrdersGrowth:  growth(float64(curr.TotalOrders), float64(prev.TotalOrders)),
		TicketGrowth:  growth(curr.AverageTicket, prev.AverageTicket),
		Previous:      prev,
	}

	s.logger.Infow("sales stats computed",
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"total_sales", stats.TotalSales,
		"total_orders", stats.TotalOrders,
	)
	return stats, nil
}

// GetMostSoldItem returns the item with the highest ordered quantity in the
// range. Ties resolve by higher total value, then ascending item id. The
// result is nil when the period has no sales.
func (s *ReportService) GetMostSoldItem(ctx context.Context, start, end time.Time) (*MostSoldItem, error) {
	orders, err := s.rangeOrders(ctx, start, end, true)
	if err != nil {
		return nil, err
	}

	type agg struct {
		item     *models.Item
		quantity int
		value    decimal.Decimal
	}
	byItem := make(map[string]*agg)

	for _, order := range orders {
		for _, line := range order.Items {
			key := line.ItemID.String()
			entry, ok := byItem[key]
			if !ok {
				entry = &agg{item: line.Item, value: decimal.Zero}
				byItem[key] = entry
			}
			entry.quantity += line.Quantity
			entry.value = entry.value.Add(decimal.NewFromFloat(line.Subtotal))
		}
	}

	var bestKey string
	var best *agg
	for key, entry := range byItem {
		if best == nil {
			bestKey, best = key, entry
			continue
		}
		switch {
		case entry.quantity != best.quantity:
			if entry.quantity > best.quantity {
				bestKey, best = key, entry
			}
		case !entry.value.Equal(best.value):
			if entry.value.GreaterThan(best.value) {
				bestKey, best = key, entry
			}
		case strings.Compare(key, bestKey) < 0:
			bestKey, best = key, entry
		}
	}

	if best == nil || best.item == nil {
		return nil, nil
	}

	return &MostSoldItem{
		Item:          *best.item,
		TotalQuantity: best.quantity,
		TotalValue:    best.value.InexactFloat64(),
	}, nil
}

// GetSalesByDay buckets order totals by calendar day. Days without orders
// are omitted; callers must handle sparse series.
func (s *ReportService) GetSalesByDay(ctx context.Context, start, end time.Time) ([]DayBucket, error) {
	orders, err := s.rangeOrders(ctx, start, end, false)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for _, order := range orders {
		day := order.CreatedAt.Format("2006-01-02")
		totals[day] = totals[day].Add(decimal.NewFromFloat(order.TotalAmount))
		counts[day]++
	}

	buckets := make([]DayBucket, 0, len(totals))
	for day, total := range totals {
		buckets = append(buckets, DayBucket{
			Date:       day,
			TotalSales: total.InexactFloat64(),
			OrderCount: counts[day],
		})
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
	return buckets, nil
}

// GetSalesByHour buckets order totals by hour of day across the range.
func (s *ReportService) GetSalesByHour(ctx context.Context, start, end time.Time) ([]HourBucket, error) {
	orders, err := s.rangeOrders(ctx, start, end, false)
	if err != nil {
		return nil, err
	}

	totals := make(map[int]decimal.Decimal)
	counts := make(map[int]int)
	for _, order := range orders {
		hour := order.CreatedAt.Hour()
		totals[hour] = totals[hour].Add(decimal.NewFromFloat(order.TotalAmount))
		counts[hour]++
	}

	buckets := make([]HourBucket, 0, len(totals))
	for hour, total := range totals {
		buckets = append(buckets, HourBucket{
			Hour:       hour,
			TotalSales: total.InexactFloat64(),
			OrderCount: counts[hour],
		})
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Hour < buckets[j].Hour })
	return buckets, nil
}

// GetSalesByProduct aggregates line subtotals and quantities per item,
// ordered by descending total value. limit <= 0 means no cap.
func (s *ReportService) GetSalesByProduct(ctx context.Context, start, end time.Time, limit int) ([]ProductSales, error) {
	orders, err := s.rangeOrders(ctx, start, end, true)
	if err != nil {
		return nil, err
	}

	type agg struct {
		sales ProductSales
		value decimal.Decimal
	}
	byItem := make(map[string]*agg)

	for _, order := range orders {
		for _, line := range order.Items {
			key := line.ItemID.String()
			entry, ok := byItem[key]
			if !ok {
				entry = &agg{sales: ProductSales{ItemID: key}, value: decimal.Zero}
				if line.Item != nil {
					entry.sales.Name = line.Item.Name
					entry.sales.Category = line.Item.Category
				}
				byItem[key] = entry
			}
			entry.sales.TotalQuantity += line.Quantity
			entry.value = entry.value.Add(decimal.NewFromFloat(line.Subtotal))
		}
	}

	results := make([]ProductSales, 0, len(byItem))
	for _, entry := range byItem {
		entry.sales.TotalValue = entry.value.InexactFloat64()
		results = append(results, entry.sales)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].TotalValue != results[j].TotalValue {
			return results[i].TotalValue > results[j].TotalValue
		}
		return results[i].ItemID < results[j].ItemID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetSalesByCategory aggregates line subtotals and quantities per item
// category, ordered by descending total value.
func (s *ReportService) GetSalesByCategory(ctx context.Context, start, end time.Time) ([]CategorySales, error) {
	orders, err := s.rangeOrders(ctx, start, end, true)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	quantities := make(map[string]int)
	for _, order := range orders {
		for _, line := range order.Items {
			if line.Item == nil {
				continue
			}
			category := line.Item.Category
			totals[category] = totals[category].Add(decimal.NewFromFloat(line.Subtotal))
			quantities[category] += line.Quantity
		}
	}

	results := make([]CategorySales, 0, len(totals))
	for category, total := range totals {
		results = append(results, CategorySales{
			Category:      category,
			TotalQuantity: quantities[category],
			TotalValue:    total.InexactFloat64(),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].TotalValue != results[j].TotalValue {
			return results[i].TotalValue > results[j].TotalValue
		}
		return results[i].Category < results[j].Category
	})
	return results, nil
}

func totalsOf(orders []models.Order) PeriodTotals {
	total := decimal.Zero
	for _, order := range orders {
		total = total.Add(decimal.NewFromFloat(order.TotalAmount))
	}

	totals := PeriodTotals{
		TotalSales:  total.InexactFloat64(),
		TotalOrders: len(orders),
	}
	if totals.TotalOrders > 0 {
		totals.AverageTicket = total.Div(decimal.NewFromInt(int64(totals.TotalOrders))).
			Round(2).InexactFloat64()
	}
	return totals
}

// growth is the percentage change against the previous period, defined as
// 0 when the previous period had nothing to compare against.
func growth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return decimal.NewFromFloat(current).
		Sub(decimal.NewFromFloat(previous)).
		Div(decimal.NewFromFloat(previous)).
		Mul(decimal.NewFromInt(100)).
		Round(2).InexactFloat64()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
