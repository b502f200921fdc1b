package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Well-known fuel products. Any other product name is accepted.
const (
	ProductPetrol = "Petrol"
	ProductDiesel = "Diesel"
)

// Sale is a single fuel sale transaction.
type Sale struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Product  string             `bson:"product" json:"product"`
	Quantity float64            `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
	Total    float64            `bson:"total" json:"total"` // stored fact, recomputed on write
	Date     Date               `bson:"date" json:"date"`
}

// RecomputeTotal derives Total from Quantity and Price.
func (s *Sale) RecomputeTotal() {
	s.Total = s.Quantity * s.Price
}
