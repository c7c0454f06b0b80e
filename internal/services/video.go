package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/data/repos"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
	"github.com/shikhonhub/shikhon-backend/internal/utils"
)

type VideoInput struct {
	TopicID     uuid.UUID          `json:"topic_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	YoutubeURL  string             `json:"youtube_url"`
	Order       int                `json:"order"`
	Files       []types.Attachment `json:"files"`
}

type VideoService interface {
	List(ctx context.Context) ([]types.Video, error)
	ListByTopic(ctx context.Context, topicID uuid.UUID) ([]types.Video, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Video, error)
	Create(ctx context.Context, in VideoInput) (*types.Video, error)
	Update(ctx context.Context, id uuid.UUID, patch map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	Watch(ctx context.Context) (<-chan binding.State[types.Video], func())
}

type videoService struct {
	db           *gorm.DB
	log          *logger.Logger
	videos       *binding.Collection[types.Video]
	progressRepo repos.ProgressRepo
}

func NewVideoService(db *gorm.DB, bus binding.ChangeBus, log *logger.Logger, progressRepo repos.ProgressRepo) VideoService {
	serviceLog := log.With("service", "VideoService")
	return &videoService{
		db:           db,
		log:          serviceLog,
		videos:       binding.Bind[types.Video](db, bus, log, "videos", binding.WithOrder("sort_order", true)),
		progressRepo: progressRepo,
	}
}

func (vs *videoService) List(ctx context.Context) ([]types.Video, error) {
	return vs.videos.List(ctx)
}

func (vs *videoService) ListByTopic(ctx context.Context, topicID uuid.UUID) ([]types.Video, error) {
	all, err := vs.videos.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.Video, 0, len(all))
	for _, v := range all {
		if v.TopicID == topicID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (vs *videoService) Get(ctx context.Context, id uuid.UUID) (*types.Video, error) {
	return vs.videos.Get(ctx, id)
}

func (vs *videoService) Create(ctx context.Context, in VideoInput) (*types.Video, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: video title is required", ErrValidation)
	}
	if in.TopicID == uuid.Nil {
		return nil, fmt.Errorf("%w: topic is required", ErrValidation)
	}
	code := utils.ExtractVideoID(in.YoutubeURL)
	if code == "" {
		return nil, fmt.Errorf("%w: could not extract a video id from %q", ErrValidation, in.YoutubeURL)
	}

	video := types.Video{
		TopicID:     in.TopicID,
		Title:       in.Title,
		Description: in.Description,
		YoutubeURL:  in.YoutubeURL,
		VideoCode:   code,
		Order:       in.Order,
		Files:       datatypes.NewJSONSlice(in.Files),
	}
	if _, err := vs.videos.Add(ctx, nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (vs *videoService) Update(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	// A changed URL re-derives the embedded code so the two never disagree.
	if rawURL, ok := patch["youtube_url"].(string); ok {
		code := utils.ExtractVideoID(rawURL)
		if code == "" {
			return fmt.Errorf("%w: could not extract a video id from %q", ErrValidation, rawURL)
		}
		patch["video_code"] = code
	}
	return vs.videos.Update(ctx, nil, id, patch)
}

// Delete removes the video together with its progress rows, so students do
// not keep phantom completion credit for a removed lesson.
func (vs *videoService) Delete(ctx context.Context, id uuid.UUID) error {
	err := vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := vs.progressRepo.DeleteByVideoID(ctx, tx, id); err != nil {
			return fmt.Errorf("deleting progress rows: %w", err)
		}
		return vs.videos.Remove(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	return nil
}

func (vs *videoService) Watch(ctx context.Context) (<-chan binding.State[types.Video], func()) {
	return vs.videos.Watch(ctx)
}
