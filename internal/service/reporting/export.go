package reporting

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/station/internal/domain/models"
)

const (
	productsSheet = "Products"
	trendSheet    = "Trend"
	expensesSheet = "Expenses"
	statsSheet    = "Summary"
)

// WriteWorkbook renders report as an xlsx workbook with one sheet per summary.
func WriteWorkbook(report models.DashboardReport, w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", statsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	stats := report.Stats
	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Range", report.Window.Range},
		{"Total sales", stats.TotalSales},
		{"Quantity sold", stats.TotalQuantitySold},
		{"Transactions", stats.TotalTransactions},
		{"Average sale", stats.AvgSaleValue},
		{"Total expenses", stats.TotalExpenses},
		{"Total salaries", stats.TotalSalaries},
		{"Profit / loss", stats.ProfitLoss},
		{"Profit margin %", stats.ProfitMargin},
		{"Inventory units", stats.TotalInventoryUnits},
		{"Low stock items", stats.LowStockCount},
		{"Inventory turnover", stats.InventoryTurnover},
	}
	if err := writeRows(f, statsSheet, summary); err != nil {
		return err
	}

	products := [][]interface{}{{"Product", "Quantity", "Revenue", "Transactions", "Average price"}}
	for _, p := range report.SalesByProduct {
		products = append(products, []interface{}{p.Product, p.Quantity, p.Revenue, p.Count, p.AvgPrice})
	}
	if err := writeSheet(f, productsSheet, products); err != nil {
		return err
	}

	trend := [][]interface{}{{"Date", "Revenue", "Quantity", "Transactions", "Average transaction"}}
	for _, p := range report.SalesTrend {
		trend = append(trend, []interface{}{p.Day, p.Revenue, p.Quantity, p.Transactions, p.AvgTransactionValue})
	}
	if err := writeSheet(f, trendSheet, trend); err != nil {
		return err
	}

	expenses := [][]interface{}{{"Category", "Amount", "Entries", "Share %"}}
	for _, c := range report.ExpensesByCategory {
		expenses = append(expenses, []interface{}{c.Category, c.Amount, c.Count, c.Percentage})
	}
	if err := writeSheet(f, expensesSheet, expenses); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell := "A" + strconv.Itoa(i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
