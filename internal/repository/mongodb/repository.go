package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/station/internal/domain/models"
)

const (
	salesCollection        = "sales"
	inventoryCollection    = "inventory"
	employeesCollection    = "employees"
	expensesCollection     = "expenses"
	categoriesCollection   = "categories"
	dailyReportsCollection = "daily_reports"
)

// MongoDBRepository owns the MongoDB connection and hands out per-entity stores.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database

	sales     *Store[models.Sale]
	inventory *Store[models.InventoryItem]
	employees *Store[models.Employee]
	expenses  *Store[models.Expense]
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	return &MongoDBRepository{
		client:    client,
		db:        db,
		sales:     NewStore[models.Sale](db.Collection(salesCollection)),
		inventory: NewStore[models.InventoryItem](db.Collection(inventoryCollection)),
		employees: NewStore[models.Employee](db.Collection(employeesCollection)),
		expenses:  NewStore[models.Expense](db.Collection(expensesCollection)),
	}, nil
}

// Sales returns the sales collection store.
func (r *MongoDBRepository) Sales() *Store[models.Sale] { return r.sales }

// Inventory returns the inventory collection store.
func (r *MongoDBRepository) Inventory() *Store[models.InventoryItem] { return r.inventory }

// Employees returns the employees collection store.
func (r *MongoDBRepository) Employees() *Store[models.Employee] { return r.employees }

// Expenses returns the expenses collection store.
func (r *MongoDBRepository) Expenses() *Store[models.Expense] { return r.expenses }

// SaveDailyReport upserts the snapshot for the report's day.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	collection := r.db.Collection(dailyReportsCollection)
	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.D{{Key: "date", Value: report.Date}}, report, opts); err != nil {
		return fmt.Errorf("failed to save daily report: %w", err)
	}
	return nil
}

type categoryDocument struct {
	Name      string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
}

// ListCategories returns persisted expense categories in creation order,
// followed by any category only referenced by existing expenses.
func (r *MongoDBRepository) ListCategories(ctx context.Context) ([]string, error) {
	cursor, err := r.db.Collection(categoriesCollection).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Name)
	}

	used, err := r.db.Collection(expensesCollection).Distinct(ctx, "category", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list expense categories: %w", err)
	}
	for _, v := range used {
		if name, ok := v.(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// SaveCategory persists a category name. Saving an existing name is a no-op.
func (r *MongoDBRepository) SaveCategory(ctx context.Context, name string) error {
	_, err := r.db.Collection(categoriesCollection).InsertOne(ctx, categoryDocument{Name: name, CreatedAt: time.Now().UTC()})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to save category %q: %w", name, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return err
}
