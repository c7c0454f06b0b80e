package domain

import (
	"time"

	"github.com/google/uuid"
)

type Topic struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name         string    `gorm:"not null;column:name" json:"name"`
	Description  string    `gorm:"type:text;column:description" json:"description"`
	ThumbnailURL string    `gorm:"column:thumbnail_url" json:"thumbnail_url,omitempty"`
	Order        int       `gorm:"not null;default:0;column:sort_order" json:"order"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Topic) TableName() string { return "topics" }
