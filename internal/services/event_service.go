package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/dtos"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/repositories"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

// EventService is plain record storage for events.
type EventService interface {
	Create(ctx context.Context, req dtos.CreateEventRequest) (string, error)
	List(ctx context.Context) ([]*models.Event, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type eventService struct {
	repo repositories.EventRepository
}

func NewEventService(repo repositories.EventRepository) EventService {
	return &eventService{repo: repo}
}

func (s *eventService) Create(ctx context.Context, req dtos.CreateEventRequest) (string, error) {
	if req.Date == nil {
		return "", utils.NewValidationError("date is required", nil)
	}

	eventType := models.EventTypeClub
	if req.Type != nil && *req.Type != "" {
		eventType = models.EventType(strings.ToLower(*req.Type))
		if !eventType.Valid() {
			return "", utils.NewValidationError("type must be one of club, after, special, private", nil)
		}
	}
	price := models.DefaultTicketPrice
	if req.TicketPrice != nil {
		if *req.TicketPrice < 0 {
			return "", utils.NewValidationError("ticket_price must not be negative", nil)
		}
		price = *req.TicketPrice
	}

	event := &models.Event{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Date:        req.Date.UTC(),
		Type:        eventType,
		FlyerURL:    req.FlyerURL,
		GateCode:    req.GateCode,
		TicketPrice: price,
		Status:      models.EventStatusScheduled,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return "", err
	}

	utils.Logger.WithField("event_id", event.ID).Info("Event created")
	return event.ID.String(), nil
}

func (s *eventService) List(ctx context.Context) ([]*models.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.Event{}
	}
	return events, nil
}

func (s *eventService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return e != nil, nil
}
