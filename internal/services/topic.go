package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

var ErrValidation = errors.New("validation failed")

type TopicInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	Order        int    `json:"order"`
}

type TopicService interface {
	List(ctx context.Context) ([]types.Topic, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Topic, error)
	Create(ctx context.Context, in TopicInput) (*types.Topic, error)
	Update(ctx context.Context, id uuid.UUID, patch map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	Watch(ctx context.Context) (<-chan binding.State[types.Topic], func())
}

type topicService struct {
	log    *logger.Logger
	topics *binding.Collection[types.Topic]
}

func NewTopicService(db *gorm.DB, bus binding.ChangeBus, log *logger.Logger) TopicService {
	serviceLog := log.With("service", "TopicService")
	return &topicService{
		log:    serviceLog,
		topics: binding.Bind[types.Topic](db, bus, log, "topics", binding.WithOrder("sort_order", true)),
	}
}

func (ts *topicService) List(ctx context.Context) ([]types.Topic, error) {
	return ts.topics.List(ctx)
}

func (ts *topicService) Get(ctx context.Context, id uuid.UUID) (*types.Topic, error) {
	return ts.topics.Get(ctx, id)
}

func (ts *topicService) Create(ctx context.Context, in TopicInput) (*types.Topic, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: topic name is required", ErrValidation)
	}

	topic := types.Topic{
		Name:         in.Name,
		Description:  in.Description,
		ThumbnailURL: in.ThumbnailURL,
		Order:        in.Order,
	}
	if _, err := ts.topics.Add(ctx, nil, &topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

func (ts *topicService) Update(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	if name, ok := patch["name"].(string); ok && name == "" {
		return fmt.Errorf("%w: topic name cannot be empty", ErrValidation)
	}
	return ts.topics.Update(ctx, nil, id, patch)
}

func (ts *topicService) Delete(ctx context.Context, id uuid.UUID) error {
	return ts.topics.Remove(ctx, nil, id)
}

func (ts *topicService) Watch(ctx context.Context) (<-chan binding.State[types.Topic], func()) {
	return ts.topics.Watch(ctx)
}
