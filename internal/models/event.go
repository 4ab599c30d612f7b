package models

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeClub    EventType = "club"
	EventTypeAfter   EventType = "after"
	EventTypeSpecial EventType = "special"
	EventTypePrivate EventType = "private"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeClub, EventTypeAfter, EventTypeSpecial, EventTypePrivate:
		return true
	}
	return false
}

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

const DefaultTicketPrice = 30.0

type Event struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Date        time.Time   `json:"date"`
	Type        EventType   `json:"type"`
	FlyerURL    *string     `json:"flyer_url"`
	GateCode    *string     `json:"gate_code"`
	TicketPrice float64     `json:"ticket_price"`
	Status      EventStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
