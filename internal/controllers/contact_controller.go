package controllers

import (
	"net/http"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/dtos"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/services"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

type ContactController struct {
	contactService services.ContactService
}

func NewContactController(contactService services.ContactService) *ContactController {
	return &ContactController{contactService: contactService}
}

// RegisterContact handles POST /contacts/register.
func (c *ContactController) RegisterContact(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterContactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := c.contactService.Register(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// SendVerification handles POST /contacts/verify/send.
func (c *ContactController) SendVerification(w http.ResponseWriter, r *http.Request) {
	var req dtos.SendVerificationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := c.contactService.SendVerification(r.Context(), req.Phone); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: services.MsgVerificationSent})
}

// ConfirmVerification handles POST /contacts/verify/confirm.
func (c *ContactController) ConfirmVerification(w http.ResponseWriter, r *http.Request) {
	var req dtos.ConfirmVerificationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contactID, err := c.contactService.ConfirmVerification(r.Context(), req.Phone, req.Code)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmVerificationResponse{
		Message:   services.MsgPhoneVerified,
		ContactID: contactID,
	})
}

// ListContacts handles GET /contacts?status=&brand=.
func (c *ContactController) ListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ContactFilter{
		Status:     utils.NilIfBlank(q.Get("status")),
		BrandQueue: utils.NilIfBlank(q.Get("brand")),
	}

	contacts, err := c.contactService.List(r.Context(), filter)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contacts)
}
