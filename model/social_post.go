package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SocialPost is an aggregated post pulled from an external source feed.
type SocialPost struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `gorm:"index" json:"source"`
	Company   string    `gorm:"index" json:"company"`
	Segment   string    `gorm:"index" json:"segment"`
	Author    string    `json:"author"`
	Content   string    `gorm:"type:text" json:"content"`
	URL       string    `json:"url"`

	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

func (p *SocialPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// Comment is a user comment on a social post.
type Comment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	PostID    string    `gorm:"type:uuid;index;not null" json:"post_id"`
	UserID    string    `gorm:"type:uuid;index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
