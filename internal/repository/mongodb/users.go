package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/washify/internal/domain/models"
)

// CreateUser inserts u. Emails are stored lower-cased; a taken email reports
// models.ErrDuplicate.
func (r *MongoDBRepository) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	doc := newUserDocument(u)
	doc.ID = primitive.NewObjectID()
	doc.Email = normalizeEmail(doc.Email)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.collection(usersCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, fmt.Errorf("email %s: %w", doc.Email, models.ErrDuplicate)
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return doc.model(), nil
}

// FindUserByEmail looks a user up by email, case-insensitively.
func (r *MongoDBRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, bson.M{"email": normalizeEmail(email)})
}

// FindUserByID looks a user up by hex id.
func (r *MongoDBRepository) FindUserByID(ctx context.Context, id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, models.ErrNotFound
	}
	return r.findUser(ctx, bson.M{"_id": oid})
}

func (r *MongoDBRepository) findUser(ctx context.Context, q bson.M) (models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc userDocument
	if err := r.collection(usersCollection).FindOne(ctx, q).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.model(), nil
}

// UpdateProfile applies u to the user's shop profile.
func (r *MongoDBRepository) UpdateProfile(ctx context.Context, id string, u models.ProfileUpdate, at time.Time) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, models.ErrNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	err = r.collection(usersCollection).FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": profileUpdateSet(u, at)}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return doc.model(), nil
}

// ListUsers returns every shop account.
func (r *MongoDBRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection(usersCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.model())
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
