package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureUserIndexes creates the unique username index. Concurrent duplicate
// registrations lose the race at this index and surface as a conflict.
func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	usernameIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
		Options: options.Index().
			SetName("username_unique").
			SetUnique(true),
	}

	tokenIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "token", Value: 1}},
		Options: options.Index().
			SetName("token_index").
			SetPartialFilterExpression(bson.M{
				"token": bson.M{
					"$exists": true,
				},
			}),
	}

	log.Println("EnsureUserIndexes: creating username_unique and token indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{usernameIndex, tokenIndex})
	if err != nil {
		log.Println("EnsureUserIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureContactIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("contacts").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	}

	log.Println("EnsureContactIndexes: creating userId_index index")
	_, err := indexes.CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureContactIndexes: userId index error:", err)
		return err
	}
	return nil
}

func EnsureAddressIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("addresses").Indexes()

	contactIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "contactId", Value: 1}},
		Options: options.Index().SetName("contactId_index"),
	}

	log.Println("EnsureAddressIndexes: creating contactId_index index")
	_, err := indexes.CreateOne(ctx, contactIDIndex)
	if err != nil {
		log.Println("EnsureAddressIndexes: contactId index error:", err)
		return err
	}
	return nil
}
