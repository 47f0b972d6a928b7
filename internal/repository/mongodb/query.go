package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/washify/internal/domain/models"
)

// ownedQuery selects a user's records, narrowed to r when it is bounded.
func ownedQuery(userID string, r models.DateRange) bson.M {
	q := bson.M{"user_id": userID}
	if r.Bounded() {
		q["date"] = bson.M{"$gte": r.From.UTC(), "$lt": r.To.UTC()}
	}
	return q
}

// byIDQuery selects one record by hex id, only if userID owns it. Malformed
// ids cannot match anything and report models.ErrNotFound.
func byIDQuery(userID, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("id %q: %w", id, models.ErrNotFound)
	}
	return bson.M{"_id": oid, "user_id": userID}, nil
}

func orderUpdateSet(u models.OrderUpdate, at time.Time) (bson.M, error) {
	set := bson.M{"updated_at": at.UTC()}
	if u.Price != nil {
		price, err := toDecimal128(*u.Price)
		if err != nil {
			return nil, err
		}
		set["price"] = price
	}
	if u.PaymentStatus != nil {
		set["payment_status"] = string(*u.PaymentStatus)
	}
	return set, nil
}

func expenseUpdateSet(u models.ExpenseUpdate, at time.Time) (bson.M, error) {
	set := bson.M{"updated_at": at.UTC()}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Amount != nil {
		amount, err := toDecimal128(*u.Amount)
		if err != nil {
			return nil, err
		}
		set["amount"] = amount
	}
	if u.Date != nil {
		set["date"] = u.Date.UTC()
	}
	return set, nil
}

func profileUpdateSet(u models.ProfileUpdate, at time.Time) bson.M {
	set := bson.M{"updated_at": at.UTC()}
	fields := map[string]*string{
		"full_name": u.FullName,
		"shop_name": u.ShopName,
		"logo":      u.Logo,
		"address":   u.Address,
		"phone":     u.Phone,
	}
	for key, value := range fields {
		if value != nil {
			set[key] = *value
		}
	}
	return set
}
