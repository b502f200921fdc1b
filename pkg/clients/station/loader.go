package station

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/station/internal/domain/models"
	"github.com/mamadbah2/station/internal/service/reporting"
)

// ErrSuperseded is returned by Refresh when a newer refresh started before it finished.
var ErrSuperseded = errors.New("refresh superseded by a newer one")

// Source lists the four record collections.
type Source interface {
	ListSales(ctx context.Context, params map[string]string) ([]models.Sale, error)
	ListInventory(ctx context.Context, params map[string]string) ([]models.InventoryItem, error)
	ListEmployees(ctx context.Context, params map[string]string) ([]models.Employee, error)
	ListExpenses(ctx context.Context, params map[string]string) ([]models.Expense, error)
}

// Snapshot is the last successfully loaded dashboard.
type Snapshot struct {
	Generation uint64
	Window     reporting.Window
	Report     models.DashboardReport
}

// Loader refreshes the dashboard from a Source. Each refresh cancels the one in
// flight, and a result that is no longer the latest is dropped. A failed
// refresh keeps the previous snapshot.
type Loader struct {
	src    Source
	engine *reporting.Engine
	logger *zap.Logger

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	current  Snapshot
	loaded   bool
	onUpdate func(Snapshot)
	onError  func(error)
}

// NewLoader builds a loader aggregating with engine.
func NewLoader(src Source, engine *reporting.Engine, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = reporting.NewEngine(nil, logger)
	}
	return &Loader{src: src, engine: engine, logger: logger}
}

// OnUpdate registers the callback receiving every new snapshot.
func (l *Loader) OnUpdate(fn func(Snapshot)) {
	l.mu.Lock()
	l.onUpdate = fn
	l.mu.Unlock()
}

// OnError registers the callback receiving refresh failures.
func (l *Loader) OnError(fn func(error)) {
	l.mu.Lock()
	l.onError = fn
	l.mu.Unlock()
}

// Current returns the last snapshot and whether one was loaded.
func (l *Loader) Current() (Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current, l.loaded
}

// Refresh loads every collection for w and publishes the aggregated dashboard.
func (l *Loader) Refresh(ctx context.Context, w reporting.Window) (Snapshot, error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()
	defer cancel()

	report, err := l.load(ctx, w)

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		l.logger.Debug("dropping superseded refresh", zap.Uint64("generation", gen))
		return Snapshot{}, ErrSuperseded
	}
	l.cancel = nil
	if err != nil {
		onError := l.onError
		l.mu.Unlock()
		l.logger.Warn("dashboard refresh failed", zap.Uint64("generation", gen), zap.Error(err))
		if onError != nil {
			onError(err)
		}
		return Snapshot{}, err
	}

	snap := Snapshot{Generation: gen, Window: w, Report: report}
	l.current, l.loaded = snap, true
	onUpdate := l.onUpdate
	l.mu.Unlock()

	if onUpdate != nil {
		onUpdate(snap)
	}
	return snap, nil
}

func (l *Loader) load(ctx context.Context, w reporting.Window) (models.DashboardReport, error) {
	var (
		sales     []models.Sale
		inventory []models.InventoryItem
		employees []models.Employee
		expenses  []models.Expense
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = l.src.ListSales(ctx, nil)
		return wrap("sales", err)
	})
	g.Go(func() (err error) {
		inventory, err = l.src.ListInventory(ctx, nil)
		return wrap("inventory", err)
	})
	g.Go(func() (err error) {
		employees, err = l.src.ListEmployees(ctx, nil)
		return wrap("employees", err)
	})
	g.Go(func() (err error) {
		expenses, err = l.src.ListExpenses(ctx, nil)
		return wrap("expenses", err)
	})
	if err := g.Wait(); err != nil {
		return models.DashboardReport{}, err
	}

	return l.engine.Dashboard(w, sales, expenses, inventory, employees), nil
}

func wrap(resource string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load %s: %w", resource, err)
}
