package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	Color       string    `gorm:"column:color" json:"color"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

// Post starts out pending (Approved=false) and becomes visible to students
// only after an admin approves it.
type Post struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index;column:category_id" json:"category_id"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
	Title      string    `gorm:"not null;column:title" json:"title"`
	Content    string    `gorm:"type:text;not null;column:content" json:"content"`
	ImageURL   string    `gorm:"column:image_url" json:"image_url,omitempty"`

	Files    datatypes.JSONSlice[Attachment] `gorm:"type:jsonb;column:files" json:"files"`
	Approved bool                            `gorm:"not null;default:false;index;column:approved" json:"approved"`
	Pinned   bool                            `gorm:"not null;default:false;column:pinned" json:"pinned"`

	// LikesCount is always derived as len(Likes); it is never incremented on
	// its own, so the two cannot drift.
	Likes         datatypes.JSONSlice[string] `gorm:"type:jsonb;column:likes" json:"likes"`
	LikesCount    int                         `gorm:"not null;default:0;column:likes_count" json:"likes_count"`
	CommentsCount int                         `gorm:"not null;default:0;column:comments_count" json:"comments_count"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

type PostComment struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PostID   uuid.UUID `gorm:"type:uuid;not null;index;column:post_id" json:"post_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;column:author_id" json:"author_id"`
	Content  string    `gorm:"type:text;not null;column:content" json:"content"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PostComment) TableName() string { return "post_comments" }
