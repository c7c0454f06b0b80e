package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChallengeType string

const (
	ChallengeType7Day  ChallengeType = "7day"
	ChallengeType30Day ChallengeType = "30day"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// Challenge is a timed competition. At most one challenge per type may be
// active; activating a new one deactivates prior ones of the same type.
type Challenge struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Type          ChallengeType `gorm:"not null;index;column:type" json:"type"`
	Title         string        `gorm:"not null;column:title" json:"title"`
	Description   string        `gorm:"type:text;column:description" json:"description"`
	StartDate     time.Time     `gorm:"not null;column:start_date" json:"start_date"`
	EndDate       time.Time     `gorm:"not null;column:end_date" json:"end_date"`
	Price         int           `gorm:"not null;default:0;column:price" json:"price"`
	PaymentNumber string        `gorm:"column:payment_number" json:"payment_number,omitempty"`
	IsActive      bool          `gorm:"not null;default:false;index;column:is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Challenge) TableName() string { return "challenges" }

type ChallengeSubmission struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChallengeID   uuid.UUID     `gorm:"type:uuid;not null;index;column:challenge_id" json:"challenge_id"`
	ChallengeType ChallengeType `gorm:"not null;column:challenge_type" json:"challenge_type"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Title         string        `gorm:"not null;column:title" json:"title"`
	Description   string        `gorm:"type:text;column:description" json:"description"`
	YoutubeURL    string        `gorm:"column:youtube_url" json:"youtube_url"`
	VideoCode     string        `gorm:"column:video_code" json:"video_id"`

	Files    datatypes.JSONSlice[Attachment] `gorm:"type:jsonb;column:files" json:"files"`
	Approved bool                            `gorm:"not null;default:false;index;column:approved" json:"approved"`

	Likes         datatypes.JSONSlice[string] `gorm:"type:jsonb;column:likes" json:"likes"`
	LikesCount    int                         `gorm:"not null;default:0;column:likes_count" json:"likes_count"`
	CommentsCount int                         `gorm:"not null;default:0;column:comments_count" json:"comments_count"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ChallengeSubmission) TableName() string { return "challenge_submissions" }

// ChallengePayment gates participation in priced 30-day challenges; only an
// approved payment satisfies the gate.
type ChallengePayment struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChallengeID   uuid.UUID     `gorm:"type:uuid;not null;index;column:challenge_id" json:"challenge_id"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	PaymentNumber string        `gorm:"not null;column:payment_number" json:"payment_number"`
	TransactionID string        `gorm:"not null;column:transaction_id" json:"transaction_id"`
	Amount        int           `gorm:"not null;column:amount" json:"amount"`
	Status        PaymentStatus `gorm:"not null;default:'pending';index;column:status" json:"status"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ChallengePayment) TableName() string { return "challenge_payments" }

type ChallengeComment struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;index;column:submission_id" json:"submission_id"`
	AuthorID     uuid.UUID `gorm:"type:uuid;not null;column:author_id" json:"author_id"`
	Content      string    `gorm:"type:text;not null;column:content" json:"content"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ChallengeComment) TableName() string { return "challenge_comments" }
