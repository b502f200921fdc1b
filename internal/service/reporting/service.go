package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/station/internal/domain/models"
	"github.com/mamadbah2/station/internal/query"
)

// Lister reads records of one entity type from the record store.
type Lister[T any] interface {
	Find(ctx context.Context, filter query.Filter) ([]T, error)
}

// Sources bundles the record stores a report is built from.
type Sources struct {
	Sales     Lister[models.Sale]
	Expenses  Lister[models.Expense]
	Inventory Lister[models.InventoryItem]
	Employees Lister[models.Employee]
}

// SnapshotStore persists daily report snapshots.
type SnapshotStore interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// Mirror receives a copy of every snapshot, e.g. a shared spreadsheet.
type Mirror interface {
	AppendDailyReport(ctx context.Context, report models.DailyReport) error
}

// Service builds dashboard reports from the record store.
type Service struct {
	src       Sources
	snapshots SnapshotStore
	mirror    Mirror
	engine    *Engine
	logger    *zap.Logger
}

// NewService wires a new reporting service instance. snapshots and mirror may be nil.
func NewService(src Sources, snapshots SnapshotStore, mirror Mirror, engine *Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = NewEngine(time.Local, logger)
	}
	return &Service{src: src, snapshots: snapshots, mirror: mirror, engine: engine, logger: logger}
}

// Engine exposes the aggregation engine used by the service.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Build fetches all four collections concurrently and aggregates them for w.
// A failure in any fetch abandons the whole report.
func (s *Service) Build(ctx context.Context, w Window) (models.DashboardReport, error) {
	var (
		sales     []models.Sale
		expenses  []models.Expense
		inventory []models.InventoryItem
		employees []models.Employee
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = s.src.Sales.Find(ctx, query.Filter{})
		if err != nil {
			return fmt.Errorf("load sales: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = s.src.Expenses.Find(ctx, query.Filter{})
		if err != nil {
			return fmt.Errorf("load expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		inventory, err = s.src.Inventory.Find(ctx, query.Filter{})
		if err != nil {
			return fmt.Errorf("load inventory: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		employees, err = s.src.Employees.Find(ctx, query.Filter{})
		if err != nil {
			return fmt.Errorf("load employees: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.DashboardReport{}, err
	}

	report := s.engine.Dashboard(w, sales, expenses, inventory, employees)
	s.logger.Debug("dashboard built",
		zap.String("range", string(w.Range)),
		zap.Int("sales", len(sales)),
		zap.Int("expenses", len(expenses)),
		zap.Float64("profit_loss", report.Stats.ProfitLoss))
	return report, nil
}

// Snapshot builds the report for the calendar day containing day and persists it.
// Salaries are monthly, so the snapshot charges one day's share of the payroll.
// Mirror failures are logged and do not fail the snapshot.
func (s *Service) Snapshot(ctx context.Context, day time.Time) (models.DailyReport, error) {
	loc := s.engine.Location()
	w := CustomWindow(query.StartOfDay(day, loc), query.EndOfDay(day, loc))

	report, err := s.Build(ctx, w)
	if err != nil {
		return models.DailyReport{}, err
	}

	stats := report.Stats
	salaries := dailyShare(stats.TotalSalaries, w.Start)
	profit := stats.TotalSales - stats.TotalExpenses - salaries
	snapshot := models.DailyReport{
		Date:          w.Start,
		TotalSales:    stats.TotalSales,
		QuantitySold:  stats.TotalQuantitySold,
		Transactions:  stats.TotalTransactions,
		Expenses:      stats.TotalExpenses,
		Salaries:      round(salaries, 2),
		Profit:        round(profit, 2),
		ProfitMargin:  percent(profit, stats.TotalSales, 1),
		LowStockCount: stats.LowStockCount,
		CreatedAt:     time.Now().UTC(),
	}

	if s.snapshots != nil {
		if err := s.snapshots.SaveDailyReport(ctx, snapshot); err != nil {
			return models.DailyReport{}, err
		}
	}
	if s.mirror != nil {
		if err := s.mirror.AppendDailyReport(ctx, snapshot); err != nil {
			s.logger.Warn("failed to mirror daily report", zap.Error(err))
		}
	}
	return snapshot, nil
}

// dailyShare spreads a monthly amount evenly over the days of day's month.
func dailyShare(monthly float64, day time.Time) float64 {
	days := time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, day.Location()).Day()
	return safeDiv(monthly, float64(days))
}
