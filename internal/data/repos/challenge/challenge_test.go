package challenge

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shikhonhub/shikhon-backend/internal/data/testutil"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
)

func TestDeactivateByTypeLeavesOtherTypeAlone(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewChallengeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	now := time.Now().UTC()
	seven := &types.Challenge{ID: uuid.New(), Type: types.ChallengeType7Day, Title: "old 7day", StartDate: now, EndDate: now.AddDate(0, 0, 7), IsActive: true}
	thirty := &types.Challenge{ID: uuid.New(), Type: types.ChallengeType30Day, Title: "30day", StartDate: now, EndDate: now.AddDate(0, 1, 0), IsActive: true}
	replacement := &types.Challenge{ID: uuid.New(), Type: types.ChallengeType7Day, Title: "new 7day", StartDate: now, EndDate: now.AddDate(0, 0, 7), IsActive: true}
	for _, ch := range []*types.Challenge{seven, thirty, replacement} {
		if err := tx.Create(ch).Error; err != nil {
			t.Fatalf("seed challenge: %v", err)
		}
	}

	if err := repo.DeactivateByType(ctx, tx, types.ChallengeType7Day, replacement.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	got, err := repo.GetActiveByType(ctx, tx, types.ChallengeType7Day)
	if err != nil {
		t.Fatalf("get active 7day: %v", err)
	}
	if got == nil || got.ID != replacement.ID {
		t.Fatalf("want only %s active for 7day, got %+v", replacement.ID, got)
	}

	still, err := repo.GetActiveByType(ctx, tx, types.ChallengeType30Day)
	if err != nil {
		t.Fatalf("get active 30day: %v", err)
	}
	if still == nil || still.ID != thirty.ID {
		t.Fatalf("30day challenge should be untouched, got %+v", still)
	}
}

func TestHasApprovedPaymentIgnoresPendingAndRejected(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewChallengeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	challengeID := uuid.New()
	userID := uuid.New()

	for _, status := range []types.PaymentStatus{types.PaymentStatusPending, types.PaymentStatusRejected} {
		payment := &types.ChallengePayment{
			ID:            uuid.New(),
			ChallengeID:   challengeID,
			UserID:        userID,
			PaymentNumber: "017xxxxxxxx",
			TransactionID: "TX" + uuid.NewString()[:8],
			Amount:        500,
			Status:        status,
		}
		if err := tx.Create(payment).Error; err != nil {
			t.Fatalf("seed payment: %v", err)
		}
	}

	ok, err := repo.HasApprovedPayment(ctx, tx, challengeID, userID)
	if err != nil {
		t.Fatalf("has approved payment: %v", err)
	}
	if ok {
		t.Fatalf("pending/rejected payments must not satisfy the gate")
	}

	approved := &types.ChallengePayment{
		ID:            uuid.New(),
		ChallengeID:   challengeID,
		UserID:        userID,
		PaymentNumber: "017xxxxxxxx",
		TransactionID: "TXAPPROVED",
		Amount:        500,
		Status:        types.PaymentStatusApproved,
	}
	if err := tx.Create(approved).Error; err != nil {
		t.Fatalf("seed approved payment: %v", err)
	}

	ok, err = repo.HasApprovedPayment(ctx, tx, challengeID, userID)
	if err != nil {
		t.Fatalf("has approved payment: %v", err)
	}
	if !ok {
		t.Fatalf("approved payment should satisfy the gate")
	}
}

func TestDeleteSubmissionsByChallenge(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewChallengeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	target := uuid.New()
	other := uuid.New()
	for i, chID := range []uuid.UUID{target, target, other} {
		sub := &types.ChallengeSubmission{
			ID:            uuid.New(),
			ChallengeID:   chID,
			ChallengeType: types.ChallengeType7Day,
			UserID:        uuid.New(),
			Title:         "day work",
		}
		if err := tx.Create(sub).Error; err != nil {
			t.Fatalf("seed submission %d: %v", i, err)
		}
	}

	deleted, err := repo.DeleteSubmissionsByChallenge(ctx, tx, target)
	if err != nil {
		t.Fatalf("delete submissions: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("want 2 deleted, got %d", deleted)
	}
}

func TestAddCommentBumpsCount(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewChallengeRepo(db, testutil.Logger(t))
	ctx := context.Background()

	sub := &types.ChallengeSubmission{
		ID:            uuid.New(),
		ChallengeID:   uuid.New(),
		ChallengeType: types.ChallengeType30Day,
		UserID:        uuid.New(),
		Title:         "final recap",
	}
	if err := tx.Create(sub).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	if _, err := repo.AddComment(ctx, tx, &types.ChallengeComment{
		SubmissionID: sub.ID,
		AuthorID:     uuid.New(),
		Content:      "darun hoyeche!",
	}); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	got, err := repo.GetSubmission(ctx, tx, sub.ID)
	if err != nil {
		t.Fatalf("get submission: %v", err)
	}
	if got.CommentsCount != 1 {
		t.Fatalf("want comments_count 1, got %d", got.CommentsCount)
	}
}
