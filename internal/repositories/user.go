package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"contacts/internal/models"
)

// UserRepository persists accounts and their session tokens.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetToken(ctx context.Context, id primitive.ObjectID, token string) error
	ClearToken(ctx context.Context, id primitive.ObjectID) error
}

type mongoUserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{col: db.Collection("users")}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUsernameTaken
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (r *mongoUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoUserRepository) FindByToken(ctx context.Context, token string) (*models.User, error) {
	// Token is unset on logged-out users, so an empty string must never match.
	if token == "" {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"token": token})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *mongoUserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	res, err := r.col.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"name":         user.Name,
		"passwordHash": user.PasswordHash,
		"updatedAt":    user.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) SetToken(ctx context.Context, id primitive.ObjectID, token string) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"token":     token,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) ClearToken(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{"token": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
