package controllers

import (
	"net/http"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/dtos"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/services"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

type RsvpController struct {
	rsvpService services.RsvpService
}

func NewRsvpController(rsvpService services.RsvpService) *RsvpController {
	return &RsvpController{rsvpService: rsvpService}
}

// UpsertRsvp handles POST /rsvps.
func (c *RsvpController) UpsertRsvp(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpsertRsvpRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := c.rsvpService.Upsert(r.Context(), req.ContactID, req.EventID, req.Status)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
