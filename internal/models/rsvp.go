package models

import (
	"time"

	"github.com/google/uuid"
)

type RsvpStatus string

const (
	RsvpStatusYes         RsvpStatus = "yes"
	RsvpStatusNotThisTime RsvpStatus = "not_this_time"
	RsvpStatusNoResponse  RsvpStatus = "no_response"
)

func (s RsvpStatus) Valid() bool {
	switch s {
	case RsvpStatusYes, RsvpStatusNotThisTime, RsvpStatusNoResponse:
		return true
	}
	return false
}

// Rsvp is keyed logically by (ContactID, EventID). The ids are kept exactly
// as the caller supplied them.
type Rsvp struct {
	ID           uuid.UUID  `json:"id"`
	ContactID    string     `json:"contact_id"`
	EventID      string     `json:"event_id"`
	Status       RsvpStatus `json:"status"`
	QRCodeToken  *string    `json:"qr_code_token"`
	SentGateCode bool       `json:"sent_gate_code"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
