package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job is an aggregated job listing, optionally linked to a known Company.
type Job struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `gorm:"not null" json:"title"`
	Company   string    `json:"company"`
	Segment   string    `gorm:"index" json:"segment"`
	Location  string    `json:"location"`
	ApplyURL  string    `json:"apply_url"`

	CompanyID  *string  `gorm:"type:uuid;index" json:"company_id"`
	CompanyRel *Company `gorm:"foreignKey:CompanyID" json:"company_rel,omitempty"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	return nil
}
