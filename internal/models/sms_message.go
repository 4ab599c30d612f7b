package models

import (
	"time"

	"github.com/google/uuid"
)

type SMSPurpose string

const (
	SMSPurposeVerify   SMSPurpose = "verify"
	SMSPurposeInvite   SMSPurpose = "invite"
	SMSPurposeReminder SMSPurpose = "reminder"
	SMSPurposeGateCode SMSPurpose = "gate_code"
)

type SMSStatus string

const (
	SMSStatusQueued    SMSStatus = "queued"
	SMSStatusSent      SMSStatus = "sent"
	SMSStatusDelivered SMSStatus = "delivered"
	SMSStatusFailed    SMSStatus = "failed"
)

// SMSMessage is one row of the append-only send log. Rows created by a
// status callback that raced ahead of the send carry only the callback
// fields, so everything but the id is optional.
type SMSMessage struct {
	ID                 uuid.UUID           `json:"id"`
	To                 *string             `json:"to"`
	Body               *string             `json:"body"`
	Purpose            *SMSPurpose         `json:"purpose"`
	Status             *SMSStatus          `json:"status"`
	ProviderMessageSID *string             `json:"provider_message_sid"`
	ErrorCode          *string             `json:"error_code"`
	ErrorMessage       *string             `json:"error_message"`
	Logs               []SMSStatusLogEntry `json:"logs"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// SMSStatusLogEntry is one provider status transition.
type SMSStatusLogEntry struct {
	Status    *string   `json:"status"`
	At        time.Time `json:"at"`
	To        *string   `json:"to"`
	ErrorCode *string   `json:"error_code"`
}
