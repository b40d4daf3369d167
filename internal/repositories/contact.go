package repositories

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"contacts/internal/models"
)

// ContactFilter holds the optional search terms. Empty fields are omitted
// from the query rather than matched as empty substrings.
type ContactFilter struct {
	Name  string
	Email string
	Phone string
}

// ContactRepository persists contacts. Every read and write except Create is
// scoped to the owning user, so a wrong-owner lookup behaves exactly like a
// missing id.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	FindOwned(ctx context.Context, userID, contactID primitive.ObjectID) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	DeleteOwned(ctx context.Context, userID, contactID primitive.ObjectID) error
	Search(ctx context.Context, userID primitive.ObjectID, filter ContactFilter, page, size int64) ([]models.Contact, int64, error)
}

type mongoContactRepository struct {
	col *mongo.Collection
}

func NewContactRepository(db *mongo.Database) ContactRepository {
	return &mongoContactRepository{col: db.Collection("contacts")}
}

func (r *mongoContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, contact)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		contact.ID = id
	}
	return nil
}

func (r *mongoContactRepository) FindOwned(ctx context.Context, userID, contactID primitive.ObjectID) (*models.Contact, error) {
	var contact models.Contact
	err := r.col.FindOne(ctx, bson.M{"_id": contactID, "userId": userID}).Decode(&contact)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (r *mongoContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	contact.UpdatedAt = time.Now()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": contact.ID, "userId": contact.UserID},
		bson.M{"$set": bson.M{
			"firstName": contact.FirstName,
			"lastName":  contact.LastName,
			"email":     contact.Email,
			"phone":     contact.Phone,
			"updatedAt": contact.UpdatedAt,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoContactRepository) DeleteOwned(ctx context.Context, userID, contactID primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": contactID, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoContactRepository) Search(ctx context.Context, userID primitive.ObjectID, filter ContactFilter, page, size int64) ([]models.Contact, int64, error) {
	query := searchFilter(userID, filter)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	// Primary-key ascending keeps ordering stable across pages.
	findOptions := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip((page - 1) * size).
		SetLimit(size)

	cursor, err := r.col.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	contacts := make([]models.Contact, 0, size)
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// searchFilter builds the owner-scoped query. Supplied terms are ANDed
// together; the name term matches either name field.
func searchFilter(userID primitive.ObjectID, filter ContactFilter) bson.M {
	query := bson.M{"userId": userID}

	if filter.Name != "" {
		pattern := substringPattern(filter.Name)
		query["$or"] = bson.A{
			bson.M{"firstName": pattern},
			bson.M{"lastName": pattern},
		}
	}
	if filter.Email != "" {
		query["email"] = substringPattern(filter.Email)
	}
	if filter.Phone != "" {
		query["phone"] = substringPattern(filter.Phone)
	}
	return query
}

func substringPattern(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}
