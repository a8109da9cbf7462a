package models

import "time"

// Settings is the single shop configuration document edited from the
// back office.
type Settings struct {
	ShopName        string    `bson:"shopName,omitempty" json:"shopName,omitempty"`
	ContactEmail    string    `bson:"contactEmail,omitempty" json:"contactEmail,omitempty"`
	ContactPhone    string    `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	Address         string    `bson:"address,omitempty" json:"address,omitempty"`
	Currency        string    `bson:"currency,omitempty" json:"currency,omitempty"`
	DeliveryMessage string    `bson:"deliveryMessage,omitempty" json:"deliveryMessage,omitempty"`
	Announcement    string    `bson:"announcement,omitempty" json:"announcement,omitempty"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}
