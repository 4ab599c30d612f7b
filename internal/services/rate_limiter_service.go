package services

import (
	"context"
	"fmt"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/config"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/repositories"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

// RateLimiterService provides a high-level interface for checking SMS rate limits.
type RateLimiterService interface {
	CheckSMSRateLimits(ctx context.Context, phoneNumber string) error
}

type rateLimiterService struct {
	repo repositories.RateLimitRepository
	cfg  *config.Config
}

func NewRateLimiterService(repo repositories.RateLimitRepository, cfg *config.Config) RateLimiterService {
	return &rateLimiterService{repo: repo, cfg: cfg}
}

// CheckSMSRateLimits checks the global and per-phone-number limits. A limit
// of zero is not enforced.
func (s *rateLimiterService) CheckSMSRateLimits(ctx context.Context, phoneNumber string) error {
	// 1. Global limit
	if s.cfg.GlobalSMSLimitPerHour > 0 {
		globalKey := "sms:global"
		allowed, err := s.repo.IncrementAndCheck(ctx, globalKey, s.cfg.GlobalSMSLimitPerHour, s.cfg.RateLimitWindow)
		if err != nil {
			return err
		}
		if !allowed {
			utils.Logger.Warnf("Global SMS rate limit exceeded (key: %s)", globalKey)
			return utils.ErrRateLimitExceeded
		}
	}

	// 2. Per-destination limit
	if s.cfg.SMSLimitPerNumberPerHour > 0 {
		phoneKey := fmt.Sprintf("sms:phone:%s", phoneNumber)
		allowed, err := s.repo.IncrementAndCheck(ctx, phoneKey, s.cfg.SMSLimitPerNumberPerHour, s.cfg.RateLimitWindow)
		if err != nil {
			return err
		}
		if !allowed {
			utils.Logger.Warnf("Per-phone SMS rate limit exceeded (key: %s)", phoneKey)
			return utils.ErrRateLimitExceeded
		}
	}

	return nil
}
