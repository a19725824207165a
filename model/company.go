package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company represents an employer whose jobs and posts are aggregated.
type Company struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	Logo        string    `json:"logo"`
	Category    string    `gorm:"index" json:"category"`

	Jobs []Job `gorm:"foreignKey:CompanyID" json:"-"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
