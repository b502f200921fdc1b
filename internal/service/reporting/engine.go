// Package reporting derives dashboard summaries from raw station records.
package reporting

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/domain/models"
	"github.com/mamadbah2/station/internal/query"
)

const trendLabelLayout = "Jan 2, 2006"

// Engine computes summaries over in-memory record sets. It holds no state
// between calls; identical inputs produce identical outputs.
type Engine struct {
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewEngine builds an engine bucketing days in loc.
func NewEngine(loc *time.Location, logger *zap.Logger) *Engine {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{loc: loc, now: time.Now, logger: logger}
}

// Location returns the timezone used for day boundaries.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Bounds resolves w against the current time. Named ranges are re-evaluated on every call.
func (e *Engine) Bounds(w Window) Bounds {
	return w.Resolve(e.now(), e.loc)
}

// AggregateSalesByProduct groups sales by exact product name in order of first appearance.
func (e *Engine) AggregateSalesByProduct(sales []models.Sale) []models.ProductSalesSummary {
	out := make([]models.ProductSalesSummary, 0)
	index := make(map[string]int)

	for _, s := range sales {
		i, ok := index[s.Product]
		if !ok {
			i = len(out)
			index[s.Product] = i
			out = append(out, models.ProductSalesSummary{Product: s.Product})
		}
		out[i].Quantity += finite(s.Quantity)
		out[i].Revenue += finite(s.Total)
		out[i].Count++
	}

	for i := range out {
		out[i].AvgPrice = round(safeDiv(out[i].Revenue, out[i].Quantity), 2)
	}
	return out
}

type trendBucket struct {
	day   time.Time
	point models.SalesTrendPoint
}

// AggregateSalesTrend buckets sales by local calendar day, oldest first.
// Sales without a date are skipped.
func (e *Engine) AggregateSalesTrend(sales []models.Sale) []models.SalesTrendPoint {
	buckets := make(map[int64]*trendBucket)

	for _, s := range sales {
		if !s.Date.Valid() {
			e.logger.Debug("skip sale with invalid date", zap.String("id", s.ID.Hex()))
			continue
		}
		day := query.StartOfDay(s.Date.Time, e.loc)
		b, ok := buckets[day.Unix()]
		if !ok {
			b = &trendBucket{day: day}
			buckets[day.Unix()] = b
		}
		b.point.Revenue += finite(s.Total)
		b.point.Quantity += finite(s.Quantity)
		b.point.Transactions++
	}

	ordered := make([]*trendBucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].day.Before(ordered[j].day) })

	out := make([]models.SalesTrendPoint, 0, len(ordered))
	for _, b := range ordered {
		p := b.point
		p.Date = b.day.Format(trendLabelLayout)
		p.Day = b.day.Format(models.DateLayout)
		p.AvgTransactionValue = round(safeDiv(p.Revenue, float64(p.Transactions)), 2)
		out = append(out, p)
	}
	return out
}

// AggregateExpensesByCategory groups expenses by exact category in order of
// first appearance. Percentages are relative to the total of all expenses.
func (e *Engine) AggregateExpensesByCategory(expenses []models.Expense) []models.ExpenseCategorySummary {
	out := make([]models.ExpenseCategorySummary, 0)
	index := make(map[string]int)
	var total float64

	for _, x := range expenses {
		i, ok := index[x.Category]
		if !ok {
			i = len(out)
			index[x.Category] = i
			out = append(out, models.ExpenseCategorySummary{Category: x.Category})
		}
		amount := finite(x.Amount)
		out[i].Amount += amount
		out[i].Count++
		total += amount
	}

	for i := range out {
		out[i].Percentage = percent(out[i].Amount, total, 1)
	}
	return out
}

// ComputeBusinessStats consolidates sales, inventory, expenses and payroll.
func (e *Engine) ComputeBusinessStats(
	sales []models.ProductSalesSummary,
	inventory []models.InventoryItem,
	expenses []models.ExpenseCategorySummary,
	employees []models.Employee,
) models.BusinessStats {
	stats := models.BusinessStats{LowStockItems: make([]string, 0)}

	for _, s := range sales {
		stats.TotalSales += s.Revenue
		stats.TotalQuantitySold += s.Quantity
		stats.TotalTransactions += s.Count
	}
	for _, item := range inventory {
		stats.TotalInventoryUnits += finite(item.CurrentStock)
		if item.IsLow() {
			stats.LowStockCount++
			stats.LowStockItems = append(stats.LowStockItems, item.Name)
		}
	}
	for _, x := range expenses {
		stats.TotalExpenses += x.Amount
	}
	for _, emp := range employees {
		stats.TotalSalaries += finite(emp.Salary)
	}

	stats.ProfitLoss = stats.TotalSales - stats.TotalExpenses - stats.TotalSalaries
	stats.ProfitMargin = percent(stats.ProfitLoss, stats.TotalSales, 1)
	stats.AvgSaleValue = round(safeDiv(stats.TotalSales, float64(stats.TotalTransactions)), 2)
	stats.InventoryTurnover = fixed(safeDiv(stats.TotalQuantitySold, stats.TotalInventoryUnits), 2)
	return stats
}

// Dashboard runs the whole pipeline for one window. Sales and expenses are
// restricted to the window; inventory and employees are current snapshots.
func (e *Engine) Dashboard(w Window, sales []models.Sale, expenses []models.Expense, inventory []models.InventoryItem, employees []models.Employee) models.DashboardReport {
	b := e.Bounds(w)
	sales = FilterByDate(sales, b, SaleDate)
	expenses = FilterByDate(expenses, b, ExpenseDate)

	items := make([]models.InventoryItem, len(inventory))
	for i, item := range inventory {
		item.Status = item.StockStatus()
		items[i] = item
	}

	byProduct := e.AggregateSalesByProduct(sales)
	byCategory := e.AggregateExpensesByCategory(expenses)

	return models.DashboardReport{
		Window:             models.ReportWindow{Range: string(w.Range), Start: b.Start, End: b.End},
		GeneratedAt:        e.now(),
		SalesByProduct:     byProduct,
		SalesTrend:         e.AggregateSalesTrend(sales),
		ExpensesByCategory: byCategory,
		Stats:              e.ComputeBusinessStats(byProduct, items, byCategory, employees),
	}
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return finite(num / den)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(finite(v)).Round(places).InexactFloat64()
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(finite(v)).StringFixed(places)
}

// percent formats 100*part/whole, or zero when whole is zero.
func percent(part, whole float64, places int32) string {
	if whole == 0 {
		return decimal.Zero.StringFixed(places)
	}
	return fixed(100*part/whole, places)
}
