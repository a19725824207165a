package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a platform user synced from the external identity provider.
// Identity (signup, sessions, profile images) lives with the provider; this row
// carries the local subscription state and relations.
type User struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	ClerkID   string         `gorm:"uniqueIndex;not null" json:"clerk_id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Name      string         `gorm:"not null;default:'User'" json:"name"`
	ImgURL    string         `json:"img_url"`

	// Subscription state. IsPaid stays true after expiry; authorization checks
	// must compare PlanExpiry against the current time.
	IsPaid     bool       `gorm:"default:false" json:"is_paid"`
	PlanExpiry *time.Time `json:"plan_expiry"`

	// Relationships
	Devices           []Device  `gorm:"foreignKey:UserID" json:"devices,omitempty"`
	FollowedCompanies []Company `gorm:"many2many:user_followed_companies;" json:"followed_companies,omitempty"`
	Payments          []Payment `gorm:"foreignKey:UserID" json:"-"`
	Comments          []Comment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// HasActivePlan reports whether the user's subscription grants access right now.
func (u *User) HasActivePlan(now time.Time) bool {
	if !u.IsPaid {
		return false
	}
	return u.PlanExpiry == nil || now.Before(*u.PlanExpiry)
}
