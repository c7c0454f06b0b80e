package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/shikhonhub/shikhon-backend/internal/data/testutil"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
)

func profileFor(userID uuid.UUID, name string) *types.UserProfile {
	return &types.UserProfile{ID: uuid.New(), UserID: userID, DisplayName: name}
}

func TestGetOrCreateReturnsSameRow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewProgressRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	videoID := uuid.New()

	first, err := repo.GetOrCreate(ctx, tx, userID, videoID)
	if err != nil {
		t.Fatalf("first get-or-create: %v", err)
	}
	second, err := repo.GetOrCreate(ctx, tx, userID, videoID)
	if err != nil {
		t.Fatalf("second get-or-create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("want the same progress row, got %s then %s", first.ID, second.ID)
	}
}

func TestAwardAccumulates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewProfileRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	if _, err := repo.Upsert(ctx, tx, profileFor(userID, "Rahim")); err != nil {
		t.Fatalf("upsert profile: %v", err)
	}

	if err := repo.Award(ctx, tx, userID, 10, 1); err != nil {
		t.Fatalf("first award: %v", err)
	}
	if err := repo.Award(ctx, tx, userID, 5, 1); err != nil {
		t.Fatalf("second award: %v", err)
	}

	got, err := repo.GetByUserID(ctx, tx, userID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.Points != 15 || got.CompletedVideos != 2 {
		t.Fatalf("want 15 points / 2 videos, got %d / %d", got.Points, got.CompletedVideos)
	}
}

func TestUpsertKeepsPointsOnProfileEdit(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewProfileRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	if _, err := repo.Upsert(ctx, tx, profileFor(userID, "Rahim")); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if err := repo.Award(ctx, tx, userID, 25, 3); err != nil {
		t.Fatalf("award: %v", err)
	}

	edited := profileFor(userID, "Rahim Uddin")
	edited.Bio = "Learning freelancing"
	got, err := repo.Upsert(ctx, tx, edited)
	if err != nil {
		t.Fatalf("edit profile: %v", err)
	}

	if got.DisplayName != "Rahim Uddin" || got.Bio != "Learning freelancing" {
		t.Fatalf("edit did not apply: %+v", got)
	}
	if got.Points != 25 || got.CompletedVideos != 3 {
		t.Fatalf("edit clobbered awards: %+v", got)
	}
}
