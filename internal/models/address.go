package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is reachable only through its parent contact.
type Address struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ContactID  primitive.ObjectID `bson:"contactId" json:"-"`
	PostalCode string             `bson:"postalCode,omitempty" json:"postal_code,omitempty"`
	Street     string             `bson:"street,omitempty" json:"street,omitempty"`
	City       string             `bson:"city,omitempty" json:"city,omitempty"`
	Province   string             `bson:"province,omitempty" json:"province,omitempty"`
	Country    string             `bson:"country" json:"country"`
	CreatedAt  time.Time          `bson:"createdAt" json:"-"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"-"`
}
