package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"contacts/internal/models"
)

// AddressRepository persists contact addresses, always scoped to the parent
// contact id. The contact itself must already have been resolved under the
// acting user.
type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	FindInContact(ctx context.Context, contactID, addressID primitive.ObjectID) (*models.Address, error)
	Update(ctx context.Context, address *models.Address) error
	DeleteInContact(ctx context.Context, contactID, addressID primitive.ObjectID) error
	ListByContact(ctx context.Context, contactID primitive.ObjectID) ([]models.Address, error)
}

type mongoAddressRepository struct {
	col *mongo.Collection
}

func NewAddressRepository(db *mongo.Database) AddressRepository {
	return &mongoAddressRepository{col: db.Collection("addresses")}
}

func (r *mongoAddressRepository) Create(ctx context.Context, address *models.Address) error {
	now := time.Now()
	address.CreatedAt = now
	address.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, address)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		address.ID = id
	}
	return nil
}

func (r *mongoAddressRepository) FindInContact(ctx context.Context, contactID, addressID primitive.ObjectID) (*models.Address, error) {
	var address models.Address
	err := r.col.FindOne(ctx, bson.M{"_id": addressID, "contactId": contactID}).Decode(&address)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}

func (r *mongoAddressRepository) Update(ctx context.Context, address *models.Address) error {
	address.UpdatedAt = time.Now()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": address.ID, "contactId": address.ContactID},
		bson.M{"$set": bson.M{
			"postalCode": address.PostalCode,
			"street":     address.Street,
			"city":       address.City,
			"province":   address.Province,
			"country":    address.Country,
			"updatedAt":  address.UpdatedAt,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAddressRepository) DeleteInContact(ctx context.Context, contactID, addressID primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": addressID, "contactId": contactID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAddressRepository) ListByContact(ctx context.Context, contactID primitive.ObjectID) ([]models.Address, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"contactId": contactID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	addresses := make([]models.Address, 0)
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}
