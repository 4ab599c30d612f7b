package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/dtos"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/repositories"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

// SMSStatusService applies provider delivery-status callbacks to the SMS log.
type SMSStatusService interface {
	// Reconcile is a no-op for callbacks without a MessageSid. Otherwise the
	// row with that sid gets the new status and one more log entry; a row is
	// created when none exists yet.
	Reconcile(ctx context.Context, cb dtos.SMSStatusCallback) error
}

type smsStatusService struct {
	repo repositories.SMSMessageRepository
	now  func() time.Time
}

func NewSMSStatusService(repo repositories.SMSMessageRepository) SMSStatusService {
	return &smsStatusService{repo: repo, now: time.Now}
}

func (s *smsStatusService) Reconcile(ctx context.Context, cb dtos.SMSStatusCallback) error {
	if cb.MessageSid == "" {
		utils.Logger.Debug("Ignoring SMS status callback without MessageSid")
		smsStatusCallbacksTotal.WithLabelValues("ignored").Inc()
		return nil
	}

	entry := models.SMSStatusLogEntry{
		Status:    utils.NilIfBlank(cb.MessageStatus),
		At:        s.now().UTC(),
		To:        utils.NilIfBlank(cb.To),
		ErrorCode: utils.NilIfBlank(cb.ErrorCode),
	}

	if err := s.repo.UpsertStatusBySID(ctx, cb.MessageSid, entry.Status, entry); err != nil {
		smsStatusCallbacksTotal.WithLabelValues("error").Inc()
		return err
	}

	utils.Logger.WithFields(logrus.Fields{
		"sid":        cb.MessageSid,
		"status":     cb.MessageStatus,
		"error_code": cb.ErrorCode,
	}).Info("SMS status callback applied")
	smsStatusCallbacksTotal.WithLabelValues("applied").Inc()
	return nil
}
