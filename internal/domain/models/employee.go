package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Employee is a payroll entry.
type Employee struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Position  string             `bson:"position" json:"position"`
	Salary    float64            `bson:"salary" json:"salary"`
	DateAdded Date               `bson:"dateAdded" json:"dateAdded"`
}
