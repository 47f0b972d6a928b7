package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/washify/internal/domain/models"
)

type orderDocument struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	UserID        string               `bson:"user_id"`
	Customer      string               `bson:"customer"`
	Service       string               `bson:"service"`
	Price         primitive.Decimal128 `bson:"price"`
	PaymentStatus string               `bson:"payment_status"`
	Date          time.Time            `bson:"date"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

type expenseDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	UserID    string               `bson:"user_id"`
	Category  string               `bson:"category"`
	Amount    primitive.Decimal128 `bson:"amount"`
	Date      time.Time            `bson:"date"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	FullName     string             `bson:"full_name"`
	ShopName     string             `bson:"shop_name"`
	Logo         string             `bson:"logo,omitempty"`
	Address      string             `bson:"address,omitempty"`
	Phone        string             `bson:"phone,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

type dailyReportDocument struct {
	UserID        string               `bson:"user_id"`
	Date          string               `bson:"date"`
	TotalOrders   int                  `bson:"total_orders"`
	TotalIncome   primitive.Decimal128 `bson:"total_income"`
	TotalExpenses primitive.Decimal128 `bson:"total_expenses"`
	NetProfit     primitive.Decimal128 `bson:"net_profit"`
	TotalPaid     primitive.Decimal128 `bson:"total_paid"`
	TotalBalance  primitive.Decimal128 `bson:"total_balance"`
	TotalPending  primitive.Decimal128 `bson:"total_pending"`
	CreatedAt     time.Time            `bson:"created_at"`
}

// toDecimal128 keeps the coefficient and exponent of d, so 45.50 is stored
// as 45.50 and not 45.5.
func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, ok := primitive.ParseDecimal128FromBigInt(d.Coefficient(), int(d.Exponent()))
	if !ok {
		return primitive.Decimal128{}, fmt.Errorf("convert %s to decimal128: out of range", d.String())
	}
	return v, nil
}

// fromDecimal128 rejects NaN and infinities instead of reading them as zero.
func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	coefficient, exp, err := v.BigInt()
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("convert decimal128 %s: %w", v.String(), err)
	}
	return decimal.NewFromBigInt(coefficient, int32(exp)), nil
}

func newOrderDocument(o models.Order) (orderDocument, error) {
	price, err := toDecimal128(o.Price)
	if err != nil {
		return orderDocument{}, err
	}
	doc := orderDocument{
		UserID:        o.UserID,
		Customer:      o.Customer,
		Service:       string(o.Service),
		Price:         price,
		PaymentStatus: string(o.PaymentStatus),
		Date:          o.Date.UTC(),
		CreatedAt:     o.CreatedAt.UTC(),
		UpdatedAt:     o.UpdatedAt.UTC(),
	}
	if o.ID != "" {
		if doc.ID, err = primitive.ObjectIDFromHex(o.ID); err != nil {
			return orderDocument{}, fmt.Errorf("order id: %w", err)
		}
	}
	return doc, nil
}

func (d orderDocument) model() (models.Order, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s price: %w", d.ID.Hex(), err)
	}
	return models.Order{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		Customer:      d.Customer,
		Service:       models.ServiceType(d.Service),
		Price:         price,
		PaymentStatus: models.PaymentStatus(d.PaymentStatus),
		Date:          d.Date,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

func newExpenseDocument(e models.Expense) (expenseDocument, error) {
	amount, err := toDecimal128(e.Amount)
	if err != nil {
		return expenseDocument{}, err
	}
	doc := expenseDocument{
		UserID:    e.UserID,
		Category:  e.Category,
		Amount:    amount,
		Date:      e.Date.UTC(),
		CreatedAt: e.CreatedAt.UTC(),
		UpdatedAt: e.UpdatedAt.UTC(),
	}
	if e.ID != "" {
		if doc.ID, err = primitive.ObjectIDFromHex(e.ID); err != nil {
			return expenseDocument{}, fmt.Errorf("expense id: %w", err)
		}
	}
	return doc, nil
}

func (d expenseDocument) model() (models.Expense, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return models.Expense{}, fmt.Errorf("expense %s amount: %w", d.ID.Hex(), err)
	}
	return models.Expense{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Category:  d.Category,
		Amount:    amount,
		Date:      d.Date,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func newUserDocument(u models.User) userDocument {
	return userDocument{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		ShopName:     u.ShopName,
		Logo:         u.Logo,
		Address:      u.Address,
		Phone:        u.Phone,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (d userDocument) model() models.User {
	return models.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FullName:     d.FullName,
		ShopName:     d.ShopName,
		Logo:         d.Logo,
		Address:      d.Address,
		Phone:        d.Phone,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func newDailyReportDocument(r models.DailyReport) (dailyReportDocument, error) {
	doc := dailyReportDocument{
		UserID:      r.UserID,
		Date:        r.Date,
		TotalOrders: r.TotalOrders,
		CreatedAt:   r.CreatedAt.UTC(),
	}
	fields := []struct {
		dst *primitive.Decimal128
		src decimal.Decimal
	}{
		{&doc.TotalIncome, r.TotalIncome},
		{&doc.TotalExpenses, r.TotalExpenses},
		{&doc.NetProfit, r.NetProfit},
		{&doc.TotalPaid, r.TotalPaid},
		{&doc.TotalBalance, r.TotalBalance},
		{&doc.TotalPending, r.TotalPending},
	}
	for _, f := range fields {
		v, err := toDecimal128(f.src)
		if err != nil {
			return dailyReportDocument{}, err
		}
		*f.dst = v
	}
	return doc, nil
}

func (d dailyReportDocument) model() (models.DailyReport, error) {
	r := models.DailyReport{
		UserID:      d.UserID,
		Date:        d.Date,
		TotalOrders: d.TotalOrders,
		CreatedAt:   d.CreatedAt,
	}
	fields := []struct {
		dst *decimal.Decimal
		src primitive.Decimal128
	}{
		{&r.TotalIncome, d.TotalIncome},
		{&r.TotalExpenses, d.TotalExpenses},
		{&r.NetProfit, d.NetProfit},
		{&r.TotalPaid, d.TotalPaid},
		{&r.TotalBalance, d.TotalBalance},
		{&r.TotalPending, d.TotalPending},
	}
	for _, f := range fields {
		v, err := fromDecimal128(f.src)
		if err != nil {
			return models.DailyReport{}, fmt.Errorf("daily report %s: %w", d.Date, err)
		}
		*f.dst = v
	}
	return r, nil
}
