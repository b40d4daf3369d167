package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact belongs to exactly one user; UserID never changes after creation.
type Contact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"-"`
	FirstName string             `bson:"firstName" json:"first_name"`
	LastName  string             `bson:"lastName,omitempty" json:"last_name,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"-"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"-"`
}
