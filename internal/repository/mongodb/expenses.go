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

// CreateExpense inserts e and returns it with its generated id.
func (r *MongoDBRepository) CreateExpense(ctx context.Context, e models.Expense) (models.Expense, error) {
	doc, err := newExpenseDocument(e)
	if err != nil {
		return models.Expense{}, err
	}
	doc.ID = primitive.NewObjectID()

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.collection(expensesCollection).InsertOne(ctx, doc); err != nil {
		return models.Expense{}, fmt.Errorf("failed to insert expense: %w", err)
	}
	return doc.model()
}

// ListExpenses returns the user's expenses inside rng, newest first.
func (r *MongoDBRepository) ListExpenses(ctx context.Context, userID string, rng models.DateRange) ([]models.Expense, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection(expensesCollection).Find(ctx, ownedQuery(userID, rng), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []expenseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode expenses: %w", err)
	}

	expenses := make([]models.Expense, 0, len(docs))
	for _, d := range docs {
		m, err := d.model()
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, m)
	}
	return expenses, nil
}

// GetExpense loads one of the user's expenses.
func (r *MongoDBRepository) GetExpense(ctx context.Context, userID, id string) (models.Expense, error) {
	q, err := byIDQuery(userID, id)
	if err != nil {
		return models.Expense{}, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc expenseDocument
	if err := r.collection(expensesCollection).FindOne(ctx, q).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Expense{}, models.ErrNotFound
		}
		return models.Expense{}, fmt.Errorf("failed to find expense: %w", err)
	}
	return doc.model()
}

// UpdateExpense applies u to one of the user's expenses and returns the result.
func (r *MongoDBRepository) UpdateExpense(ctx context.Context, userID, id string, u models.ExpenseUpdate, at time.Time) (models.Expense, error) {
	q, err := byIDQuery(userID, id)
	if err != nil {
		return models.Expense{}, err
	}
	set, err := expenseUpdateSet(u, at)
	if err != nil {
		return models.Expense{}, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc expenseDocument
	err = r.collection(expensesCollection).FindOneAndUpdate(ctx, q, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Expense{}, models.ErrNotFound
		}
		return models.Expense{}, fmt.Errorf("failed to update expense: %w", err)
	}
	return doc.model()
}

// DeleteExpense removes one of the user's expenses.
func (r *MongoDBRepository) DeleteExpense(ctx context.Context, userID, id string) error {
	q, err := byIDQuery(userID, id)
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.collection(expensesCollection).DeleteOne(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
