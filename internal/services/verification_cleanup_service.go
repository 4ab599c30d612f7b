package services

import (
	"context"
	"time"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/repositories"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

// VerificationCleanupService clears outstanding contact codes older than a TTL.
// Clearing a code only makes confirmation fail; the contact stays pending and
// can ask for a new one.
type VerificationCleanupService interface {
	CleanupExpired(ctx context.Context) error
}

type verificationCleanupService struct {
	contactRepo repositories.ContactRepository
	ttl         time.Duration
	now         func() time.Time
}

func NewVerificationCleanupService(contactRepo repositories.ContactRepository, ttl time.Duration) VerificationCleanupService {
	return &verificationCleanupService{contactRepo: contactRepo, ttl: ttl, now: time.Now}
}

func (s *verificationCleanupService) CleanupExpired(ctx context.Context) error {
	logger := utils.Logger

	if s.ttl <= 0 {
		return nil
	}

	cleared, err := s.contactRepo.ClearVerificationCodesSentBefore(ctx, s.now().Add(-s.ttl))
	if err != nil {
		logger.WithError(err).Error("Failed to clear expired contact verification codes")
		return err
	}

	if cleared > 0 {
		logger.WithField("cleared", cleared).Info("Expired contact verification codes cleared")
	}
	return nil
}
