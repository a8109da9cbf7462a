package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalogue entry. Images hold storage paths served from
// the uploads disk (or S3 URLs when that disk is active).
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Colors      []string           `bson:"colors,omitempty" json:"colors,omitempty"`
	Sizes       []string           `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
