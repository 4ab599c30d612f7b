package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/dtos"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/services"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

// SignatureValidator checks a provider callback signature.
// twilio-go's client.RequestValidator satisfies it.
type SignatureValidator interface {
	Validate(url string, params map[string]string, expectedSignature string) bool
}

type SMSWebhookController struct {
	statusService services.SMSStatusService
	validator     SignatureValidator
	webhookURL    string
}

// NewSMSWebhookController builds the callback handler. A nil validator skips
// signature checks; webhookURL is the public URL the provider signs, falling
// back to the request's own URL when empty.
func NewSMSWebhookController(
	statusService services.SMSStatusService,
	validator SignatureValidator,
	webhookURL string,
) *SMSWebhookController {
	return &SMSWebhookController{
		statusService: statusService,
		validator:     validator,
		webhookURL:    webhookURL,
	}
}

// StatusCallback handles POST /sms/webhook. It always acknowledges with
// {"ok": true} so the provider never retries.
func (c *SMSWebhookController) StatusCallback(w http.ResponseWriter, r *http.Request) {
	ack := dtos.WebhookAckResponse{OK: true}

	if err := r.ParseForm(); err != nil {
		utils.Logger.WithError(err).Warn("Unparseable SMS status callback")
		utils.RespondWithJSON(w, http.StatusOK, ack)
		return
	}

	cb := dtos.SMSStatusCallback{
		MessageSid:    r.PostForm.Get("MessageSid"),
		MessageStatus: r.PostForm.Get("MessageStatus"),
		To:            r.PostForm.Get("To"),
		ErrorCode:     r.PostForm.Get("ErrorCode"),
	}
	logger := utils.Logger.WithFields(logrus.Fields{
		"sid":    cb.MessageSid,
		"status": cb.MessageStatus,
	})

	if c.validator != nil && !c.signatureValid(r) {
		logger.Warn("Rejected SMS status callback with invalid signature")
		utils.RespondWithJSON(w, http.StatusOK, ack)
		return
	}

	if err := c.statusService.Reconcile(r.Context(), cb); err != nil {
		logger.WithError(err).Error("Failed to apply SMS status callback")
	}
	utils.RespondWithJSON(w, http.StatusOK, ack)
}

func (c *SMSWebhookController) signatureValid(r *http.Request) bool {
	sig := r.Header.Get(utils.TwilioSignatureHeader)
	if sig == "" {
		return false
	}

	url := c.webhookURL
	if url == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
			scheme = p
		}
		url = scheme + "://" + r.Host + r.URL.RequestURI()
	}

	params := make(map[string]string, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return c.validator.Validate(url, params, sig)
}
