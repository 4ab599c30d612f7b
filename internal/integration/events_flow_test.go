//go:build dev && integration

package integration

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/dtos"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/services"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/testhelpers"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

// uniquePhone returns a 10-digit US number unlikely to collide across runs.
func uniquePhone() string {
	return fmt.Sprintf("555%07d", rand.Intn(10_000_000))
}

func TestRegisterConfirmReRegister(t *testing.T) {
	ctx := context.Background()
	phone := uniquePhone()
	canonical := utils.NormalizePhone(phone)

	reg, err := contactSvc.Register(ctx, dtos.RegisterContactRequest{Name: "Ana", Phone: phone, State: utils.Ptr("TX")})
	require.NoError(t, err)

	msgs, err := smsRepo.ListByRecipient(ctx, canonical)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, models.SMSStatusQueued, *msgs[0].Status)

	c, err := contactRepo.GetByPhone(ctx, canonical)
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Equal(t, utils.SegmentLocal, c.Segment)
	require.NotNil(t, c.VerificationCode)
	require.NotNil(t, c.VerificationCodeSentAt)

	id, err := contactSvc.ConfirmVerification(ctx, phone, *c.VerificationCode)
	require.NoError(t, err)
	require.Equal(t, reg.ID, id)

	c, err = contactRepo.GetByPhone(ctx, canonical)
	require.NoError(t, err)
	require.True(t, c.PhoneVerified)
	require.Nil(t, c.VerificationCode)
	require.Nil(t, c.VerificationCodeSentAt)

	again, err := contactSvc.Register(ctx, dtos.RegisterContactRequest{Name: "Ana", Phone: phone})
	require.NoError(t, err)
	require.Equal(t, reg.ID, again.ID)

	c, err = contactRepo.GetByPhone(ctx, canonical)
	require.NoError(t, err)
	require.NotNil(t, c.VerificationCode)
}

func TestConcurrentRegistrationsYieldOneContact(t *testing.T) {
	ctx := context.Background()
	phone := uniquePhone()

	const n = 8
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := contactSvc.Register(ctx, dtos.RegisterContactRequest{Name: "Racer", Phone: phone})
			errs[i] = err
			if resp != nil {
				ids[i] = resp.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, ids[0], ids[i])
	}

	var count int
	err := db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts WHERE phone=$1`, utils.NormalizePhone(phone)).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestConcurrentRsvpUpsertsYieldOneRecord(t *testing.T) {
	ctx := context.Background()

	reg, err := contactSvc.Register(ctx, dtos.RegisterContactRequest{Name: "Ana", Phone: uniquePhone()})
	require.NoError(t, err)
	eventID, err := eventSvc.Create(ctx, dtos.CreateEventRequest{Name: "Warehouse", Date: utils.Ptr(time.Now().Add(48 * time.Hour))})
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = rsvpSvc.Upsert(ctx, reg.ID, eventID, "yes")
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	var count int
	err = db.QueryRow(ctx, `SELECT COUNT(*) FROM rsvps WHERE contact_id=$1 AND event_id=$2`, reg.ID, eventID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	resp, err := rsvpSvc.Upsert(ctx, reg.ID, eventID, "not_this_time")
	require.NoError(t, err)
	rec, err := rsvpRepo.GetByPair(ctx, reg.ID, eventID)
	require.NoError(t, err)
	require.Equal(t, resp.ID, rec.ID.String())
	require.Equal(t, models.RsvpStatusNotThisTime, rec.Status)
}

func TestRsvpUnknownContactCreatesNothing(t *testing.T) {
	ctx := context.Background()
	eventID, err := eventSvc.Create(ctx, dtos.CreateEventRequest{Name: "Afters", Date: utils.Ptr(time.Now())})
	require.NoError(t, err)

	unknown := uuid.NewString()
	_, err = rsvpSvc.Upsert(ctx, unknown, eventID, "yes")
	require.ErrorIs(t, err, utils.ErrContactNotFound)

	rec, err := rsvpRepo.GetByPair(ctx, unknown, eventID)
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestStatusCallbacksAppendToLog(t *testing.T) {
	ctx := context.Background()
	sid := "SM" + uuid.NewString()

	// Callback before the send row exists creates it.
	require.NoError(t, statusSvc.Reconcile(ctx, dtos.SMSStatusCallback{MessageSid: sid, MessageStatus: "sent", To: "+15550001111"}))
	require.NoError(t, statusSvc.Reconcile(ctx, dtos.SMSStatusCallback{MessageSid: sid, MessageStatus: "undelivered", ErrorCode: "30003"}))
	require.NoError(t, statusSvc.Reconcile(ctx, dtos.SMSStatusCallback{MessageStatus: "delivered"}))

	msg, err := smsRepo.GetByProviderSID(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.Equal(t, "undelivered", string(*msg.Status))
	require.Equal(t, "30003", *msg.ErrorCode)
	require.Len(t, msg.Logs, 2)
	require.Equal(t, "sent", *msg.Logs[0].Status)
	require.Equal(t, "+15550001111", *msg.Logs[0].To)
	require.Equal(t, "undelivered", *msg.Logs[1].Status)
}

func TestCallbackBeforeSendRecordKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	sid := "SM" + uuid.NewString()
	phone := utils.NormalizePhone(uniquePhone())
	creator := &testhelpers.MessageCreator{SID: sid}
	twilioGateway := services.NewSMSGateway(smsRepo, services.NewTwilioDispatcher(creator, "+15550009999", ""), nil)

	require.NoError(t, statusSvc.Reconcile(ctx, dtos.SMSStatusCallback{MessageSid: sid, MessageStatus: "delivered", To: phone}))
	got := twilioGateway.Send(ctx, phone, "your code", models.SMSPurposeVerify)
	require.NotNil(t, got)
	require.Equal(t, sid, *got)

	var count int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM sms_messages WHERE provider_message_sid=$1`, sid).Scan(&count))
	require.Equal(t, 1, count)

	msg, err := smsRepo.GetByProviderSID(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.Equal(t, phone, *msg.To)
	require.Equal(t, "your code", *msg.Body)
	require.Equal(t, models.SMSPurposeVerify, *msg.Purpose)
	require.Equal(t, models.SMSStatusDelivered, *msg.Status)
	require.Len(t, msg.Logs, 1)
}

func TestVerificationCodeExpiry(t *testing.T) {
	ctx := context.Background()
	phone := uniquePhone()

	_, err := contactSvc.Register(ctx, dtos.RegisterContactRequest{Name: "Ana", Phone: phone})
	require.NoError(t, err)

	_, err = db.Exec(ctx, `UPDATE contacts SET verification_code_sent_at = NOW() - INTERVAL '2 hours' WHERE phone=$1`, utils.NormalizePhone(phone))
	require.NoError(t, err)

	cleared, err := contactRepo.ClearVerificationCodesSentBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.GreaterOrEqual(t, cleared, int64(1))

	c, err := contactRepo.GetByPhone(ctx, utils.NormalizePhone(phone))
	require.NoError(t, err)
	require.Nil(t, c.VerificationCode)
}

func TestRateLimitCounters(t *testing.T) {
	ctx := context.Background()
	key := "sms:phone:test-" + uuid.NewString()

	for i := 0; i < 2; i++ {
		ok, err := rateLimitRepo.IncrementAndCheck(ctx, key, 2, time.Hour)
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := rateLimitRepo.IncrementAndCheck(ctx, key, 2, time.Hour)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, rateLimitRepo.CleanupExpired(ctx))
}
