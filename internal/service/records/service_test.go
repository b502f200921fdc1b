package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/station/internal/domain/models"
	"github.com/mamadbah2/station/internal/query"
)

type memoryStore[T any] struct {
	docs       map[primitive.ObjectID]T
	order      []primitive.ObjectID
	setID      func(*T, primitive.ObjectID)
	lastFilter query.Filter
	inserts    int
}

func newMemoryStore[T any](setID func(*T, primitive.ObjectID)) *memoryStore[T] {
	return &memoryStore[T]{docs: map[primitive.ObjectID]T{}, setID: setID}
}

func (m *memoryStore[T]) Find(ctx context.Context, filter query.Filter) ([]T, error) {
	m.lastFilter = filter
	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		if doc, ok := m.docs[id]; ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *memoryStore[T]) Get(ctx context.Context, id primitive.ObjectID) (T, error) {
	doc, ok := m.docs[id]
	if !ok {
		var zero T
		return zero, models.ErrNotFound
	}
	return doc, nil
}

func (m *memoryStore[T]) Insert(ctx context.Context, doc T) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	m.setID(&doc, id)
	m.docs[id] = doc
	m.order = append(m.order, id)
	m.inserts++
	return id, nil
}

func (m *memoryStore[T]) Replace(ctx context.Context, id primitive.ObjectID, doc T) (T, error) {
	if _, ok := m.docs[id]; !ok {
		var zero T
		return zero, models.ErrNotFound
	}
	m.docs[id] = doc
	return doc, nil
}

func (m *memoryStore[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := m.docs[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

type recordingRegistry struct {
	names []string
	err   error
}

func (r *recordingRegistry) Add(ctx context.Context, name string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for _, n := range r.names {
		if n == name {
			return false, nil
		}
	}
	r.names = append(r.names, name)
	return true, nil
}

func date(y int, m time.Month, d int) models.Date {
	return models.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestSalesCreateRecomputesTotal(t *testing.T) {
	store := newMemoryStore(func(s *models.Sale, id primitive.ObjectID) { s.ID = id })
	svc := NewSales(store, time.UTC, nil)

	sale, err := svc.Create(context.Background(), models.Sale{Product: " Petrol ", Quantity: 12, Price: 95.5, Total: 1, Date: date(2024, 3, 1)})
	require.NoError(t, err)
	assert.False(t, sale.ID.IsZero())
	assert.Equal(t, "Petrol", sale.Product)
	assert.InDelta(t, 1146.0, sale.Total, 1e-9)
}

func TestSalesUpdateRecomputesTotal(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(func(s *models.Sale, id primitive.ObjectID) { s.ID = id })
	svc := NewSales(store, time.UTC, nil)

	sale, err := svc.Create(ctx, models.Sale{Product: "Diesel", Quantity: 5, Price: 90, Date: date(2024, 3, 1)})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, sale.ID.Hex(), models.Sale{Product: "Diesel", Quantity: 10, Price: 90, Total: 450, Date: date(2024, 3, 1)})
	require.NoError(t, err)
	assert.Equal(t, sale.ID, updated.ID)
	assert.Equal(t, 900.0, updated.Total)
}

func TestSalesValidation(t *testing.T) {
	store := newMemoryStore(func(s *models.Sale, id primitive.ObjectID) { s.ID = id })
	svc := NewSales(store, time.UTC, nil)
	ctx := context.Background()

	cases := map[string]models.Sale{
		"missing product":   {Quantity: 1, Price: 1, Date: date(2024, 1, 1)},
		"negative quantity": {Product: "Petrol", Quantity: -1, Price: 1, Date: date(2024, 1, 1)},
		"negative price":    {Product: "Petrol", Quantity: 1, Price: -3, Date: date(2024, 1, 1)},
		"missing date":      {Product: "Petrol", Quantity: 1, Price: 1},
	}
	for name, sale := range cases {
		_, err := svc.Create(ctx, sale)
		require.ErrorIs(t, err, models.ErrValidation, name)
	}
	assert.Zero(t, store.inserts)
}

func TestListBuildsFilterAndRejectsBadParams(t *testing.T) {
	store := newMemoryStore(func(s *models.Sale, id primitive.ObjectID) { s.ID = id })
	svc := NewSales(store, time.UTC, nil)

	_, err := svc.List(context.Background(), map[string]string{"product": "pet", "totalMin": "100"})
	require.NoError(t, err)
	assert.Len(t, store.lastFilter.Conditions(), 2)

	_, err = svc.List(context.Background(), map[string]string{"totalMin": "lots"})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestInventoryListDecoratesStatus(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(func(i *models.InventoryItem, id primitive.ObjectID) { i.ID = id })
	svc := NewInventory(store, time.UTC, nil)

	created, err := svc.Create(ctx, models.InventoryItem{Name: "Petrol tank", CurrentStock: 12, ReorderLevel: 10, Date: date(2024, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, models.StockWarning, created.Status)

	items, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.StockWarning, items[0].Status)
}

func TestEmployeesKeepDateAdded(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(func(e *models.Employee, id primitive.ObjectID) { e.ID = id })
	svc := NewEmployees(store, time.UTC, nil)

	emp, err := svc.Create(ctx, models.Employee{Name: "Awa", Position: "Cashier", Salary: 800})
	require.NoError(t, err)
	require.True(t, emp.DateAdded.Valid())

	updated, err := svc.Update(ctx, emp.ID.Hex(), models.Employee{Name: "Awa", Position: "Supervisor", Salary: 950, DateAdded: date(1999, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, "Supervisor", updated.Position)
	assert.Equal(t, emp.DateAdded, updated.DateAdded)
}

func TestExpensesRegisterCategoryOnlyWhenValid(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(func(x *models.Expense, id primitive.ObjectID) { x.ID = id })
	registry := &recordingRegistry{}
	svc := NewExpenses(store, registry, time.UTC, nil)

	_, err := svc.Create(ctx, models.Expense{Category: "Generator fuel", Amount: -5, Date: date(2024, 1, 1)})
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, registry.names)

	_, err = svc.Create(ctx, models.Expense{Category: " Generator fuel ", Amount: 50, Date: date(2024, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Generator fuel"}, registry.names)
}

func TestExpensesRegistryFailureAbortsWrite(t *testing.T) {
	store := newMemoryStore(func(x *models.Expense, id primitive.ObjectID) { x.ID = id })
	svc := NewExpenses(store, &recordingRegistry{err: errors.New("db down")}, time.UTC, nil)

	_, err := svc.Create(context.Background(), models.Expense{Category: "Rent", Amount: 50, Date: date(2024, 1, 1)})
	require.Error(t, err)
	assert.Zero(t, store.inserts)
}

func TestUpdateAndDeleteErrors(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(func(s *models.Sale, id primitive.ObjectID) { s.ID = id })
	svc := NewSales(store, time.UTC, nil)

	_, err := svc.Update(ctx, "not-an-id", models.Sale{})
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Update(ctx, primitive.NewObjectID().Hex(), models.Sale{Product: "Petrol", Date: date(2024, 1, 1)})
	require.ErrorIs(t, err, models.ErrNotFound)

	require.ErrorIs(t, svc.Delete(ctx, "zzz"), models.ErrValidation)
	require.ErrorIs(t, svc.Delete(ctx, primitive.NewObjectID().Hex()), models.ErrNotFound)

	sale, err := svc.Create(ctx, models.Sale{Product: "Petrol", Quantity: 1, Price: 1, Date: date(2024, 1, 1)})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, sale.ID.Hex()))
}
