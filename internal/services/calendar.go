package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	types "github.com/shikhonhub/shikhon-backend/internal/domain"
	"github.com/shikhonhub/shikhon-backend/internal/pkg/logger"
)

var validEventTypes = map[types.EventType]struct{}{
	types.EventTypeLive:       {},
	types.EventTypeAssignment: {},
	types.EventTypeExam:       {},
	types.EventTypeOther:      {},
}

type EventInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Time        string          `json:"time"`
	LiveLink    string          `json:"live_link"`
	Type        types.EventType `json:"type"`
}

type CalendarService interface {
	List(ctx context.Context) ([]types.Event, error)
	ListRange(ctx context.Context, from, to time.Time) ([]types.Event, error)
	Create(ctx context.Context, in EventInput) (*types.Event, error)
	Update(ctx context.Context, id uuid.UUID, patch map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	Watch(ctx context.Context) (<-chan binding.State[types.Event], func())
}

type calendarService struct {
	log    *logger.Logger
	events *binding.Collection[types.Event]
}

func NewCalendarService(db *gorm.DB, bus binding.ChangeBus, log *logger.Logger) CalendarService {
	serviceLog := log.With("service", "CalendarService")
	return &calendarService{
		log:    serviceLog,
		events: binding.Bind[types.Event](db, bus, log, "events", binding.WithOrder("date", true)),
	}
}

func (cs *calendarService) List(ctx context.Context) ([]types.Event, error) {
	return cs.events.List(ctx)
}

func (cs *calendarService) ListRange(ctx context.Context, from, to time.Time) ([]types.Event, error) {
	all, err := cs.events.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.Event, 0, len(all))
	for _, ev := range all {
		if ev.Date.Before(from) || ev.Date.After(to) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (cs *calendarService) Create(ctx context.Context, in EventInput) (*types.Event, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: event title is required", ErrValidation)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: event date is required", ErrValidation)
	}
	if in.Type == "" {
		in.Type = types.EventTypeOther
	}
	if _, ok := validEventTypes[in.Type]; !ok {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrValidation, in.Type)
	}

	event := types.Event{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Time:        in.Time,
		LiveLink:    in.LiveLink,
		Type:        in.Type,
	}
	if _, err := cs.events.Add(ctx, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (cs *calendarService) Update(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	if raw, ok := patch["type"].(string); ok {
		if _, valid := validEventTypes[types.EventType(raw)]; !valid {
			return fmt.Errorf("%w: unknown event type %q", ErrValidation, raw)
		}
	}
	return cs.events.Update(ctx, nil, id, patch)
}

func (cs *calendarService) Delete(ctx context.Context, id uuid.UUID) error {
	return cs.events.Remove(ctx, nil, id)
}

func (cs *calendarService) Watch(ctx context.Context) (<-chan binding.State[types.Event], func()) {
	return cs.events.Watch(ctx)
}
