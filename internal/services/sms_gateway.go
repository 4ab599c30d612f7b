package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	twilioClient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/repositories"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

// SMSGateway sends a text and records exactly one sms_messages row per call.
// Send never fails outward: the provider sid is returned on success and nil
// otherwise.
type SMSGateway interface {
	Send(ctx context.Context, to, body string, purpose models.SMSPurpose) *string
}

// MessageCreator is the slice of the Twilio REST client the gateway needs.
// *twilioApi.ApiService satisfies it.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// DispatchResult is what a Dispatcher reports for one message.
type DispatchResult struct {
	Status    models.SMSStatus
	SID       *string
	ErrorCode *string
	Err       error
}

// Dispatcher is a send strategy, chosen once at start-up.
type Dispatcher interface {
	Dispatch(ctx context.Context, to, body string) DispatchResult
	Name() string
}

type twilioDispatcher struct {
	api            MessageCreator
	from           string
	statusCallback string
}

// NewTwilioDispatcher sends through Twilio. statusCallback may be empty.
func NewTwilioDispatcher(api MessageCreator, from, statusCallback string) Dispatcher {
	return &twilioDispatcher{api: api, from: from, statusCallback: statusCallback}
}

func (d *twilioDispatcher) Name() string { return "twilio" }

func (d *twilioDispatcher) Dispatch(_ context.Context, to, body string) DispatchResult {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(d.from)
	params.SetBody(body)
	if d.statusCallback != "" {
		params.SetStatusCallback(d.statusCallback)
	}

	msg, err := d.api.CreateMessage(params)
	if err != nil {
		res := DispatchResult{Status: models.SMSStatusFailed, Err: err}
		var restErr *twilioClient.TwilioRestError
		if errors.As(err, &restErr) && restErr.Code != 0 {
			res.ErrorCode = utils.Ptr(strconv.Itoa(restErr.Code))
		}
		return res
	}
	if msg == nil || msg.Sid == nil || *msg.Sid == "" {
		return DispatchResult{Status: models.SMSStatusFailed, Err: errors.New("twilio returned no message sid")}
	}
	return DispatchResult{Status: models.SMSStatusSent, SID: msg.Sid}
}

type recordOnlyDispatcher struct{}

// NewRecordOnlyDispatcher records messages as queued without sending them.
func NewRecordOnlyDispatcher() Dispatcher {
	return recordOnlyDispatcher{}
}

func (recordOnlyDispatcher) Name() string { return "record_only" }

func (recordOnlyDispatcher) Dispatch(context.Context, string, string) DispatchResult {
	return DispatchResult{Status: models.SMSStatusQueued}
}

type smsGateway struct {
	repo       repositories.SMSMessageRepository
	dispatcher Dispatcher
	limiter    RateLimiterService
}

// NewSMSGateway builds the gateway. limiter may be nil to disable rate limiting.
func NewSMSGateway(
	repo repositories.SMSMessageRepository,
	dispatcher Dispatcher,
	limiter RateLimiterService,
) SMSGateway {
	return &smsGateway{repo: repo, dispatcher: dispatcher, limiter: limiter}
}

func (g *smsGateway) Send(ctx context.Context, to, body string, purpose models.SMSPurpose) *string {
	to = utils.NormalizePhone(to)
	logger := utils.Logger.WithFields(logrus.Fields{
		"to":         to,
		"purpose":    purpose,
		"dispatcher": g.dispatcher.Name(),
	})
	if !utils.IsE164(to) {
		logger.Warn("Sending SMS to a number that does not look dialable")
	}

	res, limited := g.checkRateLimit(ctx, to, logger)
	if !limited {
		res = g.dispatcher.Dispatch(ctx, to, body)
	}

	msg := &models.SMSMessage{
		ID:                 uuid.New(),
		To:                 &to,
		Body:               &body,
		Purpose:            &purpose,
		Status:             &res.Status,
		ProviderMessageSID: res.SID,
		ErrorCode:          res.ErrorCode,
	}
	if res.Err != nil {
		msg.ErrorMessage = utils.Ptr(res.Err.Error())
		logger.WithError(res.Err).Error("SMS send failed")
	} else {
		logger.WithField("status", res.Status).Info("SMS recorded")
	}

	if err := g.repo.Create(ctx, msg); err != nil {
		logger.WithError(err).Error("Failed to write sms_messages row")
	}
	smsSendsTotal.WithLabelValues(string(purpose), string(res.Status)).Inc()

	return res.SID
}

// checkRateLimit reports limited=true with a failed result when the send
// must not go out. Counter store errors let the send through.
func (g *smsGateway) checkRateLimit(ctx context.Context, to string, logger *logrus.Entry) (DispatchResult, bool) {
	if g.limiter == nil {
		return DispatchResult{}, false
	}
	err := g.limiter.CheckSMSRateLimits(ctx, to)
	switch {
	case err == nil:
		return DispatchResult{}, false
	case errors.Is(err, utils.ErrRateLimitExceeded):
		return DispatchResult{Status: models.SMSStatusFailed, Err: utils.ErrRateLimitExceeded}, true
	default:
		logger.WithError(err).Warn("SMS rate limit check failed; sending anyway")
		return DispatchResult{}, false
	}
}
