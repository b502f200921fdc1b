package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Expense is an operating expense booked against a free-form category.
type Expense struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Amount      float64            `bson:"amount" json:"amount"`
	Date        Date               `bson:"date" json:"date"`
}
