package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioClient "github.com/twilio/twilio-go/client"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/testhelpers"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

func TestSMSGateway_TwilioSuccess(t *testing.T) {
	ctx := context.Background()
	repo := testhelpers.NewSMSMessageRepo()
	creator := &testhelpers.MessageCreator{SID: "SM123"}
	gw := NewSMSGateway(repo, NewTwilioDispatcher(creator, "+15550009999", "https://hooks.example.com/sms/webhook"), nil)

	sid := gw.Send(ctx, "(555) 123-4567", "hello", models.SMSPurposeInvite)

	require.NotNil(t, sid)
	assert.Equal(t, "SM123", *sid)

	require.Len(t, creator.Sent, 1)
	params := creator.Sent[0]
	assert.Equal(t, "+15551234567", *params.To)
	assert.Equal(t, "+15550009999", *params.From)
	assert.Equal(t, "hello", *params.Body)
	require.NotNil(t, params.StatusCallback)
	assert.Equal(t, "https://hooks.example.com/sms/webhook", *params.StatusCallback)

	rows := repo.All()
	require.Len(t, rows, 1)
	assert.Equal(t, models.SMSStatusSent, *rows[0].Status)
	assert.Equal(t, "SM123", *rows[0].ProviderMessageSID)
	assert.Equal(t, "+15551234567", *rows[0].To)
	assert.Equal(t, models.SMSPurposeInvite, *rows[0].Purpose)
	assert.Nil(t, rows[0].ErrorMessage)
}

func TestSMSGateway_NoStatusCallbackWhenUnset(t *testing.T) {
	creator := &testhelpers.MessageCreator{}
	gw := NewSMSGateway(testhelpers.NewSMSMessageRepo(), NewTwilioDispatcher(creator, "+15550009999", ""), nil)

	gw.Send(context.Background(), "5551234567", "hi", models.SMSPurposeVerify)

	require.Len(t, creator.Sent, 1)
	assert.Nil(t, creator.Sent[0].StatusCallback)
}

func TestSMSGateway_TwilioFailureIsRecordedAndAbsorbed(t *testing.T) {
	repo := testhelpers.NewSMSMessageRepo()
	creator := &testhelpers.MessageCreator{
		Err: &twilioClient.TwilioRestError{Code: 21211, Message: "Invalid 'To' Phone Number", Status: 400},
	}
	gw := NewSMSGateway(repo, NewTwilioDispatcher(creator, "+15550009999", ""), nil)

	sid := gw.Send(context.Background(), "123", "hello", models.SMSPurposeVerify)

	assert.Nil(t, sid)
	rows := repo.All()
	require.Len(t, rows, 1)
	assert.Equal(t, models.SMSStatusFailed, *rows[0].Status)
	assert.Nil(t, rows[0].ProviderMessageSID)
	require.NotNil(t, rows[0].ErrorMessage)
	assert.NotEmpty(t, *rows[0].ErrorMessage)
	require.NotNil(t, rows[0].ErrorCode)
	assert.Equal(t, "21211", *rows[0].ErrorCode)
}

func TestSMSGateway_PlainErrorHasNoErrorCode(t *testing.T) {
	repo := testhelpers.NewSMSMessageRepo()
	creator := &testhelpers.MessageCreator{Err: errors.New("dial tcp: timeout")}
	gw := NewSMSGateway(repo, NewTwilioDispatcher(creator, "+15550009999", ""), nil)

	assert.Nil(t, gw.Send(context.Background(), "5551234567", "hello", models.SMSPurposeVerify))

	rows := repo.All()
	require.Len(t, rows, 1)
	assert.Equal(t, "dial tcp: timeout", *rows[0].ErrorMessage)
	assert.Nil(t, rows[0].ErrorCode)
}

func TestSMSGateway_RecordOnly(t *testing.T) {
	repo := testhelpers.NewSMSMessageRepo()
	gw := NewSMSGateway(repo, NewRecordOnlyDispatcher(), nil)

	sid := gw.Send(context.Background(), "5551234567", "hello", models.SMSPurposeReminder)

	assert.Nil(t, sid)
	rows := repo.All()
	require.Len(t, rows, 1)
	assert.Equal(t, models.SMSStatusQueued, *rows[0].Status)
	assert.Equal(t, "+15551234567", *rows[0].To)
	assert.Nil(t, rows[0].ErrorMessage)
}

func TestSMSGateway_OneRowPerCall(t *testing.T) {
	repo := testhelpers.NewSMSMessageRepo()
	gw := NewSMSGateway(repo, NewTwilioDispatcher(&testhelpers.MessageCreator{}, "+15550009999", ""), nil)

	for i := 0; i < 3; i++ {
		gw.Send(context.Background(), "5551234567", "hello", models.SMSPurposeVerify)
	}

	rows := repo.All()
	require.Len(t, rows, 3)
	seen := map[string]bool{}
	for _, r := range rows {
		seen[*r.ProviderMessageSID] = true
	}
	assert.Len(t, seen, 3)
}

func TestSMSGateway_LogWriteFailureIsAbsorbed(t *testing.T) {
	repo := testhelpers.NewSMSMessageRepo()
	repo.Err = errors.New("db down")
	creator := &testhelpers.MessageCreator{SID: "SM1"}
	gw := NewSMSGateway(repo, NewTwilioDispatcher(creator, "+15550009999", ""), nil)

	sid := gw.Send(context.Background(), "5551234567", "hello", models.SMSPurposeVerify)

	require.NotNil(t, sid)
	assert.Equal(t, "SM1", *sid)
}

func TestSMSGateway_RateLimited(t *testing.T) {
	repo := testhelpers.NewSMSMessageRepo()
	creator := &testhelpers.MessageCreator{}
	cfg := testConfig()
	cfg.SMSLimitPerNumberPerHour = 1
	limiter := NewRateLimiterService(testhelpers.NewRateLimitRepo(), cfg)
	gw := NewSMSGateway(repo, NewTwilioDispatcher(creator, "+15550009999", ""), limiter)

	first := gw.Send(context.Background(), "5551234567", "one", models.SMSPurposeVerify)
	second := gw.Send(context.Background(), "5551234567", "two", models.SMSPurposeVerify)

	assert.NotNil(t, first)
	assert.Nil(t, second)
	assert.Equal(t, 1, creator.Calls())

	rows := repo.All()
	require.Len(t, rows, 2)
	assert.Equal(t, models.SMSStatusFailed, *rows[1].Status)
	assert.Equal(t, utils.ErrRateLimitExceeded.Error(), *rows[1].ErrorMessage)
}

func TestSMSGateway_LimiterStoreErrorStillSends(t *testing.T) {
	limitRepo := testhelpers.NewRateLimitRepo()
	limitRepo.Err = errors.New("db down")
	creator := &testhelpers.MessageCreator{}
	gw := NewSMSGateway(
		testhelpers.NewSMSMessageRepo(),
		NewTwilioDispatcher(creator, "+15550009999", ""),
		NewRateLimiterService(limitRepo, testConfig()),
	)

	assert.NotNil(t, gw.Send(context.Background(), "5551234567", "hi", models.SMSPurposeVerify))
	assert.Equal(t, 1, creator.Calls())
}
