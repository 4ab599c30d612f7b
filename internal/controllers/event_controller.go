package controllers

import (
	"net/http"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/dtos"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/services"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

type EventController struct {
	eventService services.EventService
}

func NewEventController(eventService services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateEventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id, err := c.eventService.Create(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.CreateEventResponse{ID: id})
}

func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.eventService.List(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, events)
}
