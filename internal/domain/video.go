package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Attachment is a stored file reference attached to videos, posts and
// challenge submissions. Kept as a jsonb list on the owning record.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

type Video struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TopicID     uuid.UUID `gorm:"type:uuid;not null;index;column:topic_id" json:"topic_id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	YoutubeURL  string    `gorm:"not null;column:youtube_url" json:"youtube_url"`
	// 11-character code extracted from YoutubeURL at the service boundary.
	VideoCode string                          `gorm:"not null;column:video_code" json:"video_id"`
	Order     int                             `gorm:"not null;default:0;column:sort_order" json:"order"`
	Files     datatypes.JSONSlice[Attachment] `gorm:"type:jsonb;column:files" json:"files"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Video) TableName() string { return "videos" }
