package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeLive       EventType = "live"
	EventTypeAssignment EventType = "assignment"
	EventTypeExam       EventType = "exam"
	EventTypeOther      EventType = "other"
)

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	Date        time.Time `gorm:"not null;index;column:date" json:"date"`
	Time        string    `gorm:"column:time" json:"time"`
	LiveLink    string    `gorm:"column:live_link" json:"live_link,omitempty"`
	Type        EventType `gorm:"not null;default:'other';column:type" json:"type"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Event) TableName() string { return "events" }
