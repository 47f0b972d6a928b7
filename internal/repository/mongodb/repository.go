package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	ordersCollection       = "orders"
	expensesCollection     = "expenses"
	usersCollection        = "users"
	dailyReportsCollection = "daily_reports"

	defaultTimeout = 10 * time.Second
)

// MongoDBRepository stores orders, expenses, users and daily reports.
type MongoDBRepository struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
	logger  *zap.Logger
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("mongodb connection established", zap.String("database", dbName))

	return &MongoDBRepository{
		client:  client,
		db:      client.Database(dbName),
		timeout: defaultTimeout,
		logger:  logger,
	}, nil
}

// EnsureIndexes creates the indexes queries rely on. It is idempotent.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		ordersCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
		},
		expensesCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		dailyReportsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, idx := range indexes {
		callCtx, cancel := r.withTimeout(ctx)
		_, err := r.db.Collection(name).Indexes().CreateMany(callCtx, idx)
		cancel()
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Ping checks that the server is reachable.
func (r *MongoDBRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.client.Ping(ctx, nil)
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.db.Collection(name)
}
