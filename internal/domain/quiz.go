package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Question lives embedded in Quiz.Questions (jsonb), not in its own table.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

type Quiz struct {
	ID           uuid.UUID                     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VideoID      uuid.UUID                     `gorm:"type:uuid;not null;uniqueIndex;column:video_id" json:"video_id"`
	Questions    datatypes.JSONSlice[Question] `gorm:"type:jsonb;column:questions" json:"questions"`
	PassingScore int                           `gorm:"not null;default:70;column:passing_score" json:"passing_score"`
	Points       int                           `gorm:"not null;default:10;column:points" json:"points"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Quiz) TableName() string { return "quizzes" }
