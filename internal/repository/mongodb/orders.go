package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/washify/internal/domain/models"
)

// CreateOrder inserts o and returns it with its generated id.
func (r *MongoDBRepository) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	doc, err := newOrderDocument(o)
	if err != nil {
		return models.Order{}, err
	}
	doc.ID = primitive.NewObjectID()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.collection(ordersCollection).InsertOne(ctx, doc); err != nil {
		return models.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}
	return doc.model()
}

// ListOrders returns the user's orders inside rng, newest first.
func (r *MongoDBRepository) ListOrders(ctx context.Context, userID string, rng models.DateRange) ([]models.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection(ordersCollection).Find(ctx, ownedQuery(userID, rng), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		m, err := d.model()
		if err != nil {
			return nil, err
		}
		orders = append(orders, m)
	}
	return orders, nil
}

// GetOrder loads one of the user's orders.
func (r *MongoDBRepository) GetOrder(ctx context.Context, userID, id string) (models.Order, error) {
	q, err := byIDQuery(userID, id)
	if err != nil {
		return models.Order{}, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc orderDocument
	if err := r.collection(ordersCollection).FindOne(ctx, q).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Order{}, models.ErrNotFound
		}
		return models.Order{}, fmt.Errorf("failed to find order: %w", err)
	}
	return doc.model()
}

// UpdateOrder applies u to one of the user's orders and returns the result.
func (r *MongoDBRepository) UpdateOrder(ctx context.Context, userID, id string, u models.OrderUpdate, at time.Time) (models.Order, error) {
	q, err := byIDQuery(userID, id)
	if err != nil {
		return models.Order{}, err
	}
	set, err := orderUpdateSet(u, at)
	if err != nil {
		return models.Order{}, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc orderDocument
	err = r.collection(ordersCollection).FindOneAndUpdate(ctx, q, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Order{}, models.ErrNotFound
		}
		return models.Order{}, fmt.Errorf("failed to update order: %w", err)
	}
	return doc.model()
}

// DeleteOrder removes one of the user's orders.
func (r *MongoDBRepository) DeleteOrder(ctx context.Context, userID, id string) error {
	q, err := byIDQuery(userID, id)
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.collection(ordersCollection).DeleteOne(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
