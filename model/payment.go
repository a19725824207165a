package model

import (
	"time"
)

// PaymentStatus is the lifecycle state of a payment attempt.
// A row starts PENDING and moves exactly once to SUCCESS or FAILED.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Payment represents one attempted gateway transaction.
// Amount is stored in major currency units; the conversion to the gateway's
// minor unit happens only at the gateway boundary.
type Payment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	OrderID   string        `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_id"`
	PaymentID string        `gorm:"type:varchar(100)" json:"payment_id"`
	Signature string        `gorm:"type:varchar(255)" json:"-"`
	Amount    int64         `gorm:"not null" json:"amount"`
	Currency  string        `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	UserID    string        `gorm:"type:uuid;index;not null" json:"user_id"`
	Status    PaymentStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
}
