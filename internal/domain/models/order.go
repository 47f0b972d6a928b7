package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceType enumerates the laundry services a shop sells.
type ServiceType string

const (
	ServiceWashing     ServiceType = "Washing"
	ServiceIroning     ServiceType = "Ironing"
	ServiceDryCleaning ServiceType = "Dry Cleaning"
)

// Services lists every supported ServiceType in display order.
var Services = []ServiceType{ServiceWashing, ServiceIroning, ServiceDryCleaning}

// Valid reports whether s is one of the supported services.
func (s ServiceType) Valid() bool {
	for _, known := range Services {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentStatus tells whether the customer has settled an order.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPending PaymentStatus = "Pending"
)

// Valid reports whether p is Paid or Pending.
func (p PaymentStatus) Valid() bool {
	return p == PaymentPaid || p == PaymentPending
}

// Order is a billable laundry job owned by a single shop account.
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Customer      string          `json:"customer"`
	Service       ServiceType     `json:"service"`
	Price         decimal.Decimal `json:"price"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// IsPaid reports whether the order counts towards the available balance.
func (o Order) IsPaid() bool {
	return o.PaymentStatus == PaymentPaid
}

// OrderUpdate carries the only fields an order may change after creation.
// Nil fields are left untouched.
type OrderUpdate struct {
	Price         *decimal.Decimal
	PaymentStatus *PaymentStatus
}

// Empty reports whether the update would change nothing.
func (u OrderUpdate) Empty() bool {
	return u.Price == nil && u.PaymentStatus == nil
}
