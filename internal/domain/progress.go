package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserProgress tracks per-(user,video) completion and quiz state. Rows are
// created on first interaction and never deleted by users.
type UserProgress struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_progress_user_video,unique;column:user_id" json:"user_id"`
	VideoID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_progress_user_video,unique;column:video_id" json:"video_id"`
	Watched      bool       `gorm:"not null;default:false;column:watched" json:"watched"`
	Summary      string     `gorm:"type:text;column:summary" json:"summary"`
	WorkLink     string     `gorm:"column:work_link" json:"work_link"`
	QuizScore    *int       `gorm:"column:quiz_score" json:"quiz_score,omitempty"`
	QuizPassed   bool       `gorm:"not null;default:false;column:quiz_passed" json:"quiz_passed"`
	QuizAttempts int        `gorm:"not null;default:0;column:quiz_attempts" json:"quiz_attempts"`
	SubmittedAt  *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }

type UserProfile struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:user_id" json:"user_id"`
	DisplayName     string    `gorm:"not null;column:display_name" json:"display_name"`
	AvatarURL       string    `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	AvatarBucketKey string    `gorm:"column:avatar_bucket_key" json:"-"`
	Bio             string    `gorm:"type:text;column:bio" json:"bio,omitempty"`
	Points          int       `gorm:"not null;default:0;column:points" json:"points"`
	CompletedVideos int       `gorm:"not null;default:0;column:completed_videos" json:"completed_videos"`

	JoinedAt  time.Time `gorm:"not null;default:now();column:joined_at" json:"joined_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profiles" }
