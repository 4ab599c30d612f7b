package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	smsSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_sends_total",
			Help: "SMS send attempts partitioned by purpose and recorded status",
		},
		[]string{"purpose", "status"},
	)

	smsStatusCallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_status_callbacks_total",
			Help: "Provider delivery-status callbacks partitioned by outcome",
		},
		[]string{"outcome"},
	)

	verificationAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_verification_attempts_total",
			Help: "Verification confirmations partitioned by result",
		},
		[]string{"result"},
	)

	rsvpUpsertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsvp_upserts_total",
			Help: "RSVP upserts partitioned by whether a row was created or updated",
		},
		[]string{"action"},
	)
)
