package services

import (
	"context"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/repositories"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

// RateLimitCleanupService removes expired SMS rate limit counters.
type RateLimitCleanupService interface {
	CleanupDaily(ctx context.Context) error
}

type rateLimitCleanupService struct {
	repo repositories.RateLimitRepository
}

func NewRateLimitCleanupService(repo repositories.RateLimitRepository) RateLimitCleanupService {
	return &rateLimitCleanupService{repo: repo}
}

func (s *rateLimitCleanupService) CleanupDaily(ctx context.Context) error {
	logger := utils.Logger

	if err := s.repo.CleanupExpired(ctx); err != nil {
		logger.WithError(err).Error("Failed to cleanup expired sms_rate_limits")
		return err
	}

	logger.Info("Daily rate limit counter cleanup completed successfully.")
	return nil
}
