package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Submission is a spiritual request (prayer, testimony, counselling)
// sent from the storefront.
type Submission struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Type      string             `bson:"type,omitempty" json:"type,omitempty"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
