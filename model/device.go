package model

import (
	"time"
)

// Device is a push-notification token registered by a client. Delivery is
// handled elsewhere; this service only keeps the registry.
type Device struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	Type      string    `gorm:"type:varchar(20)" json:"type"` // ios, android, web
	UserID    *string   `gorm:"type:uuid;index" json:"user_id"`
}
