package records

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/domain/models"
)

// CategoryRegistrar records expense categories as they are used.
type CategoryRegistrar interface {
	Add(ctx context.Context, name string) (bool, error)
}

// NewSales manages sales. Total is always derived from quantity and price on write.
func NewSales(store Store[models.Sale], loc *time.Location, logger *zap.Logger) *Service[models.Sale] {
	return newService(models.ResourceSales, store, hooks[models.Sale]{
		dates: func(s *models.Sale) []*models.Date { return []*models.Date{&s.Date} },
		normalize: func(_ *models.Sale, s *models.Sale) {
			s.Product = strings.TrimSpace(s.Product)
			s.RecomputeTotal()
		},
		validate: validateSale,
		setID:    func(s *models.Sale, id primitive.ObjectID) { s.ID = id },
	}, loc, logger)
}

// NewInventory manages inventory items and reports their stock status on read.
func NewInventory(store Store[models.InventoryItem], loc *time.Location, logger *zap.Logger) *Service[models.InventoryItem] {
	return newService(models.ResourceInventory, store, hooks[models.InventoryItem]{
		dates: func(i *models.InventoryItem) []*models.Date { return []*models.Date{&i.Date} },
		normalize: func(_ *models.InventoryItem, i *models.InventoryItem) {
			i.Name = strings.TrimSpace(i.Name)
		},
		validate: validateInventory,
		decorate: func(i *models.InventoryItem) { i.Status = i.StockStatus() },
		setID:    func(i *models.InventoryItem, id primitive.ObjectID) { i.ID = id },
	}, loc, logger)
}

// NewEmployees manages payroll entries. DateAdded is stamped on create and kept on update.
func NewEmployees(store Store[models.Employee], loc *time.Location, logger *zap.Logger) *Service[models.Employee] {
	if loc == nil {
		loc = time.Local
	}
	return newService(models.ResourceEmployees, store, hooks[models.Employee]{
		dates: func(e *models.Employee) []*models.Date { return []*models.Date{&e.DateAdded} },
		normalize: func(existing *models.Employee, e *models.Employee) {
			e.Name = strings.TrimSpace(e.Name)
			e.Position = strings.TrimSpace(e.Position)
			switch {
			case existing != nil:
				e.DateAdded = existing.DateAdded
			case !e.DateAdded.Valid():
				e.DateAdded = models.NewDate(time.Now().In(loc))
			}
		},
		validate: validateEmployee,
		setID:    func(e *models.Employee, id primitive.ObjectID) { e.ID = id },
	}, loc, logger)
}

// NewExpenses manages expenses and registers previously unseen categories.
func NewExpenses(store Store[models.Expense], registry CategoryRegistrar, loc *time.Location, logger *zap.Logger) *Service[models.Expense] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return newService(models.ResourceExpenses, store, hooks[models.Expense]{
		dates: func(x *models.Expense) []*models.Date { return []*models.Date{&x.Date} },
		normalize: func(_ *models.Expense, x *models.Expense) {
			x.Category = strings.TrimSpace(x.Category)
			x.Description = strings.TrimSpace(x.Description)
		},
		validate: validateExpense,
		prepare: func(ctx context.Context, x *models.Expense) error {
			if registry == nil {
				return nil
			}
			added, err := registry.Add(ctx, x.Category)
			if err != nil {
				return fmt.Errorf("register category: %w", err)
			}
			if added {
				logger.Info("expense category registered", zap.String("category", x.Category))
			}
			return nil
		},
		setID: func(x *models.Expense, id primitive.ObjectID) { x.ID = id },
	}, loc, logger)
}

func validateSale(s models.Sale) error {
	if s.Product == "" {
		return errors.New("product is required")
	}
	if err := nonNegative("quantity", s.Quantity); err != nil {
		return err
	}
	if err := nonNegative("price", s.Price); err != nil {
		return err
	}
	if !s.Date.Valid() {
		return errors.New("date is required")
	}
	return nil
}

func validateInventory(i models.InventoryItem) error {
	if i.Name == "" {
		return errors.New("name is required")
	}
	if err := nonNegative("currentStock", i.CurrentStock); err != nil {
		return err
	}
	if err := nonNegative("reorderLevel", i.ReorderLevel); err != nil {
		return err
	}
	if !i.Date.Valid() {
		return errors.New("date is required")
	}
	return nil
}

func validateEmployee(e models.Employee) error {
	if e.Name == "" {
		return errors.New("name is required")
	}
	if e.Position == "" {
		return errors.New("position is required")
	}
	return nonNegative("salary", e.Salary)
}

func validateExpense(x models.Expense) error {
	if x.Category == "" {
		return errors.New("category is required")
	}
	if err := nonNegative("amount", x.Amount); err != nil {
		return err
	}
	if !x.Date.Valid() {
		return errors.New("date is required")
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number", field)
	}
	if v < 0 {
		return fmt.Errorf("%s must not be negative", field)
	}
	return nil
}
