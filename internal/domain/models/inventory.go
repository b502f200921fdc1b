package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// StockStatus classifies an inventory item against its reorder level.
type StockStatus string

const (
	StockLow        StockStatus = "low"
	StockWarning    StockStatus = "warning"
	StockSufficient StockStatus = "sufficient"
)

// InventoryItem is a stocked product such as a fuel tank or lubricant line.
type InventoryItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	CurrentStock float64            `bson:"currentStock" json:"currentStock"`
	ReorderLevel float64            `bson:"reorderLevel" json:"reorderLevel"`
	Date         Date               `bson:"date" json:"date"`
	Status       StockStatus        `bson:"-" json:"status,omitempty"`
}

// StockStatus derives the restocking status. Low at or below the reorder level,
// warning up to 1.5 times the reorder level.
func (i InventoryItem) StockStatus() StockStatus {
	switch {
	case i.CurrentStock <= i.ReorderLevel:
		return StockLow
	case i.CurrentStock <= 1.5*i.ReorderLevel:
		return StockWarning
	default:
		return StockSufficient
	}
}

// IsLow reports whether restocking is due.
func (i InventoryItem) IsLow() bool {
	return i.CurrentStock <= i.ReorderLevel
}
