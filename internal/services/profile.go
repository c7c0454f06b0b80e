package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/data/repos"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/apierr"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/requestdata"
)

type ProfileInput struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
}

type ProfileService interface {
	GetMine(ctx context.Context) (*types.UserProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	UpsertMine(ctx context.Context, in ProfileInput) (*types.UserProfile, error)
	SetMyAvatar(ctx context.Context, raw []byte) (string, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	profiles    *binding.Collection[types.UserProfile]
	profileRepo repos.ProfileRepo
	avatar      AvatarService
	now         func() time.Time
}

func NewProfileService(db *gorm.DB, bus binding.ChangeBus, log *logger.Logger, profileRepo repos.ProfileRepo, avatar AvatarService) ProfileService {
	serviceLog := log.With("service", "ProfileService")
	return &profileService{
		db:          db,
		log:         serviceLog,
		profiles:    binding.Bind[types.UserProfile](db, bus, log, "user_profiles"),
		profileRepo: profileRepo,
		avatar:      avatar,
		now:         time.Now,
	}
}

func (ps *profileService) GetMine(ctx context.Context) (*types.UserProfile, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return ps.profileRepo.GetByUserID(ctx, nil, rd.UserID)
}

func (ps *profileService) GetByUserID(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	return ps.profileRepo.GetByUserID(ctx, nil, userID)
}

func (ps *profileService) UpsertMine(ctx context.Context, in ProfileInput) (*types.UserProfile, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	if in.DisplayName == "" {
		return nil, fmt.Errorf("%w: display name is required", ErrValidation)
	}

	profile, err := ps.profileRepo.Upsert(ctx, nil, &types.UserProfile{
		ID:          uuid.New(),
		UserID:      rd.UserID,
		DisplayName: in.DisplayName,
		Bio:         in.Bio,
		JoinedAt:    ps.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	ps.profiles.Notify(ctx)
	return profile, nil
}

func (ps *profileService) SetMyAvatar(ctx context.Context, raw []byte) (string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return "", ErrInvalidToken
	}

	if ps.avatar == nil {
		return "", apierr.New(http.StatusServiceUnavailable, "avatar_unavailable", fmt.Errorf("avatar service not configured"))
	}
	url, err := ps.avatar.SetAvatarFromImage(ctx, rd.UserID, raw)
	if err != nil {
		return "", err
	}
	ps.profiles.Notify(ctx)
	return url, nil
}
