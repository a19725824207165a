package model

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookEvent is an audit row for every identity-provider webhook delivery
// that passed signature verification. SvixID dedupes redelivered events.
type WebhookEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	SvixID    string         `gorm:"uniqueIndex;not null" json:"svix_id"`
	EventType string         `gorm:"index;not null" json:"event_type"`
	Payload   datatypes.JSON `json:"payload"`
}
