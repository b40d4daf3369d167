package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that owns contacts. Token holds the active session
// token and is unset while the user is logged out.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Token        string             `bson:"token,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"-"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"-"`
}
