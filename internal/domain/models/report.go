package models

import "time"

// ProductSalesSummary aggregates sales for one product.
type ProductSalesSummary struct {
	Product  string  `json:"product"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
	Count    int     `json:"count"`
	AvgPrice float64 `json:"avgPrice"`
}

// SalesTrendPoint aggregates sales for one calendar day.
type SalesTrendPoint struct {
	Date                string  `json:"date"`
	Day                 string  `json:"day"`
	Revenue             float64 `json:"revenue"`
	Quantity            float64 `json:"quantity"`
	Transactions        int     `json:"transactions"`
	AvgTransactionValue float64 `json:"avgTransactionValue"`
}

// ExpenseCategorySummary aggregates expenses for one category.
type ExpenseCategorySummary struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
	Percentage string  `json:"percentage"`
}

// BusinessStats is the consolidated view over sales, expenses, inventory and payroll.
type BusinessStats struct {
	TotalSales          float64  `json:"totalSales"`
	TotalQuantitySold   float64  `json:"totalQuantitySold"`
	TotalInventoryUnits float64  `json:"totalInventoryUnits"`
	LowStockCount       int      `json:"lowStockCount"`
	LowStockItems       []string `json:"lowStockItems"`
	TotalExpenses       float64  `json:"totalExpenses"`
	TotalSalaries       float64  `json:"totalSalaries"`
	TotalTransactions   int      `json:"totalTransactions"`
	ProfitLoss          float64  `json:"profitLoss"`
	ProfitMargin        string   `json:"profitMargin"`
	AvgSaleValue        float64  `json:"avgSaleValue"`
	InventoryTurnover   string   `json:"inventoryTurnover"`
}

// ReportWindow describes the period a dashboard report covers.
type ReportWindow struct {
	Range string    `json:"range"`
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

// DashboardReport bundles every derived summary for one window.
type DashboardReport struct {
	Window             ReportWindow             `json:"window"`
	GeneratedAt        time.Time                `json:"generatedAt"`
	SalesByProduct     []ProductSalesSummary    `json:"salesByProduct"`
	SalesTrend         []SalesTrendPoint        `json:"salesTrend"`
	ExpensesByCategory []ExpenseCategorySummary `json:"expensesByCategory"`
	Stats              BusinessStats            `json:"stats"`
}

// DailyReport is the persisted end-of-day snapshot of the business statistics.
// Salaries holds the day's share of the monthly payroll.
type DailyReport struct {
	Date          time.Time `bson:"date" json:"date"`
	TotalSales    float64   `bson:"total_sales" json:"total_sales"`
	QuantitySold  float64   `bson:"quantity_sold" json:"quantity_sold"`
	Transactions  int       `bson:"transactions" json:"transactions"`
	Expenses      float64   `bson:"expenses" json:"expenses"`
	Salaries      float64   `bson:"salaries" json:"salaries"`
	Profit        float64   `bson:"profit" json:"profit"`
	ProfitMargin  string    `bson:"profit_margin" json:"profit_margin"`
	LowStockCount int       `bson:"low_stock_count" json:"low_stock_count"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
