package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/data/repos"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/requestdata"
	"github.com/shikhonhub/shikhon-backend/internal/utils"
	"github.com/shikhonhub/shikhon-backend/internal/views"
)

var (
	ErrNotEligible = errors.New("an approved payment is required to join this challenge")
)

type ChallengeInput struct {
	Type          types.ChallengeType `json:"type"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	StartDate     time.Time           `json:"start_date"`
	EndDate       time.Time           `json:"end_date"`
	Price         int                 `json:"price"`
	PaymentNumber string              `json:"payment_number"`
}

type SubmissionInput struct {
	ChallengeID uuid.UUID          `json:"challenge_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	YoutubeURL  string             `json:"youtube_url"`
	Files       []types.Attachment `json:"files"`
}

type PaymentInput struct {
	ChallengeID   uuid.UUID `json:"challenge_id"`
	PaymentNumber string    `json:"payment_number"`
	TransactionID string    `json:"transaction_id"`
	Amount        int       `json:"amount"`
}

type ResetResult struct {
	DeletedSubmissions int64 `json:"deleted_submissions"`
}

type ChallengeService interface {
	List(ctx context.Context) ([]types.Challenge, error)
	ActiveByType(ctx context.Context, challengeType types.ChallengeType) (*types.Challenge, error)
	Create(ctx context.Context, in ChallengeInput) (*types.Challenge, error)
	Update(ctx context.Context, id uuid.UUID, patch map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	Reset(ctx context.Context, id uuid.UUID) (*ResetResult, error)

	CanParticipate(ctx context.Context, challengeID uuid.UUID) (bool, error)
	SubmitEntry(ctx context.Context, in SubmissionInput) (*types.ChallengeSubmission, error)
	ListSubmissions(ctx context.Context, challengeID uuid.UUID) (approved, pending []types.ChallengeSubmission, err error)
	ApproveSubmission(ctx context.Context, submissionID uuid.UUID) error
	RejectSubmission(ctx context.Context, submissionID uuid.UUID) error
	ToggleSubmissionLike(ctx context.Context, submissionID uuid.UUID) (*types.ChallengeSubmission, error)
	AddComment(ctx context.Context, submissionID uuid.UUID, in CommentInput) (*types.ChallengeComment, error)
	ListComments(ctx context.Context, submissionID uuid.UUID) ([]*types.ChallengeComment, error)

	SubmitPayment(ctx context.Context, in PaymentInput) (*types.ChallengePayment, error)
	ListPayments(ctx context.Context, challengeID uuid.UUID) ([]types.ChallengePayment, error)
	SetPaymentStatus(ctx context.Context, paymentID uuid.UUID, status types.PaymentStatus) error

	WatchSubmissions(ctx context.Context) (<-chan binding.State[types.ChallengeSubmission], func())
}

type challengeService struct {
	db            *gorm.DB
	log           *logger.Logger
	challenges    *binding.Collection[types.Challenge]
	submissions   *binding.Collection[types.ChallengeSubmission]
	payments      *binding.Collection[types.ChallengePayment]
	challengeRepo repos.ChallengeRepo
}

func NewChallengeService(db *gorm.DB, bus binding.ChangeBus, log *logger.Logger, challengeRepo repos.ChallengeRepo) ChallengeService {
	serviceLog := log.With("service", "ChallengeService")
	return &challengeService{
		db:            db,
		log:           serviceLog,
		challenges:    binding.Bind[types.Challenge](db, bus, log, "challenges", binding.WithOrder("created_at", false)),
		submissions:   binding.Bind[types.ChallengeSubmission](db, bus, log, "challenge_submissions", binding.WithOrder("created_at", false)),
		payments:      binding.Bind[types.ChallengePayment](db, bus, log, "challenge_payments", binding.WithOrder("created_at", false)),
		challengeRepo: challengeRepo,
	}
}

func (cs *challengeService) List(ctx context.Context) ([]types.Challenge, error) {
	return cs.challenges.List(ctx)
}

func (cs *challengeService) ActiveByType(ctx context.Context, challengeType types.ChallengeType) (*types.Challenge, error) {
	return cs.challengeRepo.GetActiveByType(ctx, nil, challengeType)
}

func validChallengeType(t types.ChallengeType) bool {
	return t == types.ChallengeType7Day || t == types.ChallengeType30Day
}

// Create inserts the new challenge and deactivates every other active
// challenge of the same type in a single transaction, so a crash can never
// leave two active or none.
func (cs *challengeService) Create(ctx context.Context, in ChallengeInput) (*types.Challenge, error) {
	if !validChallengeType(in.Type) {
		return nil, fmt.Errorf("%w: unknown challenge type %q", ErrValidation, in.Type)
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: challenge title is required", ErrValidation)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() || in.EndDate.Before(in.StartDate) {
		return nil, fmt.Errorf("%w: challenge needs a valid date range", ErrValidation)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	challenge := types.Challenge{
		Type:          in.Type,
		Title:         in.Title,
		Description:   in.Description,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Price:         in.Price,
		PaymentNumber: in.PaymentNumber,
		IsActive:      true,
	}
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.challenges.Add(ctx, tx, &challenge); err != nil {
			return err
		}
		if err := cs.challengeRepo.DeactivateByType(ctx, tx, in.Type, challenge.ID); err != nil {
			return fmt.Errorf("deactivating previous challenges: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (cs *challengeService) Update(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	return cs.challenges.Update(ctx, nil, id, patch)
}

func (cs *challengeService) Delete(ctx context.Context, id uuid.UUID) error {
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.challengeRepo.DeleteSubmissionsByChallenge(ctx, tx, id); err != nil {
			return fmt.Errorf("deleting submissions: %w", err)
		}
		return cs.challenges.Remove(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	cs.submissions.Notify(ctx)
	return nil
}

// Reset wipes a challenge's submissions and deactivates it atomically. Any
// failure rolls the whole thing back and is returned to the caller.
func (cs *challengeService) Reset(ctx context.Context, id uuid.UUID) (*ResetResult, error) {
	var result ResetResult
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := cs.challengeRepo.DeleteSubmissionsByChallenge(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("deleting submissions: %w", err)
		}
		if err := cs.challengeRepo.SetActive(ctx, tx, id, false); err != nil {
			return fmt.Errorf("deactivating challenge: %w", err)
		}
		result.DeletedSubmissions = deleted
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("challenge reset failed: %w", err)
	}

	cs.submissions.Notify(ctx)
	cs.challenges.Notify(ctx)
	cs.log.Info("challenge reset", "challenge_id", id, "deleted_submissions", result.DeletedSubmissions)
	return &result, nil
}

func (cs *challengeService) CanParticipate(ctx context.Context, challengeID uuid.UUID) (bool, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return false, ErrInvalidToken
	}

	challenge, err := cs.challengeRepo.GetByID(ctx, nil, challengeID)
	if err != nil {
		return false, err
	}

	hasApproved, err := cs.challengeRepo.HasApprovedPayment(ctx, nil, challengeID, rd.UserID)
	if err != nil {
		return false, err
	}
	return views.CanParticipate(*challenge, hasApproved), nil
}

func (cs *challengeService) SubmitEntry(ctx context.Context, in SubmissionInput) (*types.ChallengeSubmission, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: submission title is required", ErrValidation)
	}

	ok, err := cs.CanParticipate(ctx, in.ChallengeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotEligible
	}

	challenge, err := cs.challengeRepo.GetByID(ctx, nil, in.ChallengeID)
	if err != nil {
		return nil, err
	}

	videoCode := ""
	if in.YoutubeURL != "" {
		videoCode = utils.ExtractVideoID(in.YoutubeURL)
		if videoCode == "" {
			return nil, fmt.Errorf("%w: could not extract a video id from %q", ErrValidation, in.YoutubeURL)
		}
	}

	submission := types.ChallengeSubmission{
		ChallengeID:   in.ChallengeID,
		ChallengeType: challenge.Type,
		UserID:        rd.UserID,
		Title:         in.Title,
		Description:   in.Description,
		YoutubeURL:    in.YoutubeURL,
		VideoCode:     videoCode,
		Files:         datatypes.NewJSONSlice(in.Files),
		Likes:         datatypes.NewJSONSlice([]string{}),
	}
	if _, err := cs.submissions.Add(ctx, nil, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

func (cs *challengeService) ListSubmissions(ctx context.Context, challengeID uuid.UUID) ([]types.ChallengeSubmission, []types.ChallengeSubmission, error) {
	all, err := cs.submissions.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	mine := make([]types.ChallengeSubmission, 0, len(all))
	for _, s := range all {
		if s.ChallengeID == challengeID {
			mine = append(mine, s)
		}
	}
	approved, pending := views.Partition(mine, func(s types.ChallengeSubmission) bool { return s.Approved })
	return approved, pending, nil
}

func (cs *challengeService) ApproveSubmission(ctx context.Context, submissionID uuid.UUID) error {
	return cs.submissions.Update(ctx, nil, submissionID, map[string]any{"approved": true})
}

func (cs *challengeService) RejectSubmission(ctx context.Context, submissionID uuid.UUID) error {
	return cs.submissions.Remove(ctx, nil, submissionID)
}

func (cs *challengeService) ToggleSubmissionLike(ctx context.Context, submissionID uuid.UUID) (*types.ChallengeSubmission, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	submission, err := cs.challengeRepo.GetSubmission(ctx, nil, submissionID)
	if err != nil {
		return nil, err
	}

	likes := views.ToggleLike(submission.Likes, rd.UserID.String())
	if err := cs.challengeRepo.SetSubmissionLikes(ctx, nil, submissionID, likes); err != nil {
		return nil, err
	}

	submission.Likes = datatypes.NewJSONSlice(likes)
	submission.LikesCount = len(likes)
	cs.submissions.Notify(ctx)
	return submission, nil
}

func (cs *challengeService) AddComment(ctx context.Context, submissionID uuid.UUID, in CommentInput) (*types.ChallengeComment, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	if in.Content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrValidation)
	}

	comment, err := cs.challengeRepo.AddComment(ctx, nil, &types.ChallengeComment{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		AuthorID:     rd.UserID,
		Content:      in.Content,
	})
	if err != nil {
		return nil, err
	}
	cs.submissions.Notify(ctx)
	return comment, nil
}

func (cs *challengeService) ListComments(ctx context.Context, submissionID uuid.UUID) ([]*types.ChallengeComment, error) {
	return cs.challengeRepo.ListComments(ctx, nil, submissionID)
}

func (cs *challengeService) SubmitPayment(ctx context.Context, in PaymentInput) (*types.ChallengePayment, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	if in.TransactionID == "" || in.PaymentNumber == "" {
		return nil, fmt.Errorf("%w: payment number and transaction id are required", ErrValidation)
	}

	payment := types.ChallengePayment{
		ChallengeID:   in.ChallengeID,
		UserID:        rd.UserID,
		PaymentNumber: in.PaymentNumber,
		TransactionID: in.TransactionID,
		Amount:        in.Amount,
		Status:        types.PaymentStatusPending,
	}
	if _, err := cs.payments.Add(ctx, nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (cs *challengeService) ListPayments(ctx context.Context, challengeID uuid.UUID) ([]types.ChallengePayment, error) {
	all, err := cs.payments.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.ChallengePayment, 0, len(all))
	for _, p := range all {
		if p.ChallengeID == challengeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (cs *challengeService) SetPaymentStatus(ctx context.Context, paymentID uuid.UUID, status types.PaymentStatus) error {
	switch status {
	case types.PaymentStatusApproved, types.PaymentStatusRejected:
	default:
		return fmt.Errorf("%w: payment status can only move to approved or rejected", ErrValidation)
	}
	if err := cs.challengeRepo.SetPaymentStatus(ctx, nil, paymentID, status); err != nil {
		return err
	}
	cs.payments.Notify(ctx)
	return nil
}

func (cs *challengeService) WatchSubmissions(ctx context.Context) (<-chan binding.State[types.ChallengeSubmission], func()) {
	return cs.submissions.Watch(ctx)
}
