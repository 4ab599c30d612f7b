package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/testhelpers"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

func putContactWithCode(repo *testhelpers.ContactRepo, phone, code string, sentAt time.Time) uuid.UUID {
	id := uuid.New()
	repo.Put(&models.Contact{
		ID:                     id,
		Name:                   "x",
		Phone:                  phone,
		Segment:                utils.SegmentOutOfState,
		BrandQueue:             models.BrandQueueAnomaly,
		Status:                 models.ContactStatusPending,
		VerificationCode:       &code,
		VerificationCodeSentAt: &sentAt,
	})
	return id
}

func TestVerificationCleanup_ClearsOnlyExpired(t *testing.T) {
	repo := testhelpers.NewContactRepo()
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	oldID := putContactWithCode(repo, "+15550000001", "111111", now.Add(-20*time.Minute))
	freshID := putContactWithCode(repo, "+15550000002", "222222", now.Add(-5*time.Minute))

	svc := NewVerificationCleanupService(repo, 10*time.Minute).(*verificationCleanupService)
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.CleanupExpired(context.Background()))

	old, _ := repo.GetByID(context.Background(), oldID)
	fresh, _ := repo.GetByID(context.Background(), freshID)
	assert.Nil(t, old.VerificationCode)
	require.NotNil(t, fresh.VerificationCode)
	assert.Equal(t, "222222", *fresh.VerificationCode)
}

func TestVerificationCleanup_DisabledWithZeroTTL(t *testing.T) {
	repo := testhelpers.NewContactRepo()
	id := putContactWithCode(repo, "+15550000001", "111111", time.Now().Add(-365*24*time.Hour))

	require.NoError(t, NewVerificationCleanupService(repo, 0).CleanupExpired(context.Background()))

	c, _ := repo.GetByID(context.Background(), id)
	assert.NotNil(t, c.VerificationCode)
}

func TestVerificationCleanup_ExpiredCodeCannotConfirm(t *testing.T) {
	f := newFixture(t)
	f.fixedCodes("123456")
	ctx := context.Background()

	_, err := f.contact.Register(ctx, dtosRegister("5550001111"))
	require.NoError(t, err)

	svc := NewVerificationCleanupService(f.contacts, time.Minute).(*verificationCleanupService)
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	require.NoError(t, svc.CleanupExpired(ctx))

	_, err = f.contact.ConfirmVerification(ctx, "5550001111", "123456")
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrInvalidCode)

	// A fresh code restores the flow.
	require.NoError(t, f.contact.SendVerification(ctx, "5550001111"))
	_, err = f.contact.ConfirmVerification(ctx, "5550001111", "123456")
	require.NoError(t, err)
}

func TestRateLimitCleanup(t *testing.T) {
	repo := testhelpers.NewRateLimitRepo()
	svc := NewRateLimitCleanupService(repo)

	require.NoError(t, svc.CleanupDaily(context.Background()))
	assert.Equal(t, 1, repo.Cleanups)

	repo.Err = errors.New("db down")
	assert.Error(t, svc.CleanupDaily(context.Background()))
}
