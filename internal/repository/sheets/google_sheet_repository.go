package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/station/internal/config"
	"github.com/mamadbah2/station/internal/domain/models"
)

const dailyReportsRange = "DailyReports!A:I"

// Appender writes rows to a spreadsheet range.
type Appender interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// GoogleSheetRepository mirrors daily report snapshots into a Google spreadsheet.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// AppendDailyReport appends one snapshot row.
func (r *GoogleSheetRepository) AppendDailyReport(ctx context.Context, report models.DailyReport) error {
	return AppendDailyReport(ctx, r, report)
}

// AppendDailyReport writes report as a row through any Appender.
func AppendDailyReport(ctx context.Context, w Appender, report models.DailyReport) error {
	return w.WriteRow(ctx, dailyReportsRange, DailyReportRow(report))
}

// DailyReportRow lays out a snapshot in spreadsheet column order.
func DailyReportRow(report models.DailyReport) []interface{} {
	return []interface{}{
		report.Date.Format(models.DateLayout),
		report.TotalSales,
		report.QuantitySold,
		report.Transactions,
		report.Expenses,
		report.Salaries,
		report.Profit,
		report.ProfitMargin,
		report.LowStockCount,
	}
}
