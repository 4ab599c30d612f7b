package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/dtos"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/repositories"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

const (
	MsgInvalidIDs        = "Invalid IDs"
	MsgInvalidRsvpStatus = "status must be one of yes, not_this_time, no_response"
	MsgEventNotFound     = "Event not found"
)

// RsvpService keeps at most one RSVP per (contact_id, event_id).
type RsvpService interface {
	Upsert(ctx context.Context, contactID, eventID, status string) (*dtos.UpsertRsvpResponse, error)
}

type rsvpService struct {
	rsvpRepo     repositories.RsvpRepository
	contactRepo  repositories.ContactRepository
	eventService EventService
}

func NewRsvpService(
	rsvpRepo repositories.RsvpRepository,
	contactRepo repositories.ContactRepository,
	eventService EventService,
) RsvpService {
	return &rsvpService{
		rsvpRepo:     rsvpRepo,
		contactRepo:  contactRepo,
		eventService: eventService,
	}
}

func (s *rsvpService) Upsert(
	ctx context.Context,
	contactID, eventID, status string,
) (*dtos.UpsertRsvpResponse, error) {
	cID, err := uuid.Parse(contactID)
	if err != nil {
		return nil, utils.NewValidationError(MsgInvalidIDs, utils.ErrInvalidID)
	}
	eID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, utils.NewValidationError(MsgInvalidIDs, utils.ErrInvalidID)
	}

	rsvpStatus := models.RsvpStatusNoResponse
	if status != "" {
		rsvpStatus = models.RsvpStatus(status)
	}
	if !rsvpStatus.Valid() {
		return nil, utils.NewValidationError(MsgInvalidRsvpStatus, nil)
	}

	contact, err := s.contactRepo.GetByID(ctx, cID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, utils.NewNotFoundError(MsgContactNotFound, utils.ErrContactNotFound)
	}
	exists, err := s.eventService.Exists(ctx, eID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, utils.NewNotFoundError(MsgEventNotFound, utils.ErrEventNotFound)
	}

	logger := utils.Logger.WithFields(logrus.Fields{
		"contact_id": contactID,
		"event_id":   eventID,
		"status":     rsvpStatus,
	})

	existing, err := s.rsvpRepo.GetByPair(ctx, contactID, eventID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		rec := &models.Rsvp{
			ID:        uuid.New(),
			ContactID: contactID,
			EventID:   eventID,
			Status:    rsvpStatus,
		}
		err = s.rsvpRepo.Create(ctx, rec)
		if err == nil {
			rsvpUpsertsTotal.WithLabelValues("created").Inc()
			logger.Info("RSVP created")
			return &dtos.UpsertRsvpResponse{ID: rec.ID.String(), Status: string(rsvpStatus)}, nil
		}
		if !errors.Is(err, utils.ErrRsvpExists) {
			return nil, err
		}
		// Lost the insert race; update the winner instead.
		existing, err = s.rsvpRepo.GetByPair(ctx, contactID, eventID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, errors.New("rsvp vanished after conflicting insert")
		}
	}

	if err := s.rsvpRepo.UpdateStatus(ctx, existing.ID, rsvpStatus); err != nil {
		return nil, err
	}
	rsvpUpsertsTotal.WithLabelValues("updated").Inc()
	logger.WithField("rsvp_id", existing.ID).Info("RSVP updated")
	return &dtos.UpsertRsvpResponse{ID: existing.ID.String(), Status: string(rsvpStatus)}, nil
}
