package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"event_calendar/internal/common"
	"event_calendar/internal/domain/model"
	"event_calendar/internal/domain/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	maxTitleLen    = 255
	maxLocationLen = 300
)

type EventService struct {
	eventRepo repository.EventRepository
	validate  *validator.Validate
	logger    zerolog.Logger
}

func NewEventService(eventRepo repository.EventRepository, logger zerolog.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		validate:  validator.New(),
		logger:    logger.With().Str("component", "events").Logger(),
	}
}

type ListEventsRequest struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalEvents int  `json:"totalEvents"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type EventListResponse struct {
	Events     []model.Event `json:"events"`
	Pagination Pagination    `json:"pagination"`
}

// List returns a filtered, paginated page of events ordered by start
// time descending. A page past the end yields an empty list with
// HasNextPage false.
func (s *EventService) List(ctx context.Context, req ListEventsRequest) (*EventListResponse, error) {
	if req.Page < 1 {
		return nil, fmt.Errorf("page must be a positive integer: %w", common.ErrValidation)
	}
	if req.Limit < 1 {
		return nil, fmt.Errorf("limit must be a positive integer: %w", common.ErrValidation)
	}

	filter := repository.EventFilter{Category: req.Category, Search: req.Search}
	offset := (req.Page - 1) * req.Limit

	events, total, err := s.eventRepo.List(ctx, filter, req.Limit, offset)
	if err != nil {
		return nil, err
	}

	totalPages := (total + req.Limit - 1) / req.Limit
	return &EventListResponse{
		Events: events,
		Pagination: Pagination{
			CurrentPage: req.Page,
			TotalPages:  totalPages,
			TotalEvents: total,
			HasNextPage: req.Page < totalPages,
			HasPrevPage: req.Page > 1,
		},
	}, nil
}

func (s *EventService) Get(ctx context.Context, id int) (*model.Event, error) {
	return s.eventRepo.FindByID(ctx, id)
}

type CreateEventRequest struct {
	Title         string    `json:"title" validate:"required,max=255"`
	Description   *string   `json:"description"`
	StartDatetime time.Time `json:"start_datetime" validate:"required"`
	EndDatetime   time.Time `json:"end_datetime" validate:"required"`
	Location      *string   `json:"location" validate:"omitempty,max=300"`
	Category      *string   `json:"category" validate:"omitempty,max=50"`
	IsAllDay      *bool     `json:"is_all_day"`
}

func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*model.Event, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("title must not be empty: %w", common.ErrValidation)
	}
	if !req.EndDatetime.After(req.StartDatetime) {
		return nil, fmt.Errorf("end_datetime must be after start_datetime: %w", common.ErrValidation)
	}

	event := &model.Event{
		Title:         req.Title,
		Description:   req.Description,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		Location:      req.Location,
		Category:      model.DefaultCategory,
	}
	if req.Category != nil && *req.Category != "" {
		event.Category = *req.Category
	}
	if req.IsAllDay != nil {
		event.IsAllDay = *req.IsAllDay
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info().Int("event_id", event.ID).Str("title", event.Title).Msg("event created")
	return event, nil
}

// Update applies a partial patch. The end > start invariant is
// re-checked only when the patch carries both boundaries; patching a
// single boundary is not validated against the stored sibling value.
func (s *EventService) Update(ctx context.Context, id int, patch model.EventPatch) (*model.Event, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("no fields to update: %w", common.ErrValidation)
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fmt.Errorf("title must not be empty: %w", common.ErrValidation)
		}
		if len(*patch.Title) > maxTitleLen {
			return nil, fmt.Errorf("title exceeds %d characters: %w", maxTitleLen, common.ErrValidation)
		}
	}
	if patch.Location != nil && len(*patch.Location) > maxLocationLen {
		return nil, fmt.Errorf("location exceeds %d characters: %w", maxLocationLen, common.ErrValidation)
	}
	if patch.StartDatetime != nil && patch.EndDatetime != nil {
		if !patch.EndDatetime.After(*patch.StartDatetime) {
			return nil, fmt.Errorf("end_datetime must be after start_datetime: %w", common.ErrValidation)
		}
	}

	event, err := s.eventRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("event_id", event.ID).Msg("event updated")
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id int) (*model.Event, error) {
	event, err := s.eventRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("event_id", event.ID).Msg("event deleted")
	return event, nil
}

func (s *EventService) Stats(ctx context.Context) (*model.EventStats, error) {
	return s.eventRepo.Stats(ctx)
}
