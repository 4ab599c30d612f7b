package dtos

import "time"

// CreateEventRequest is the body for POST /events. Type and TicketPrice
// fall back to club and 30.0.
type CreateEventRequest struct {
	Name        string     `json:"name" validate:"required"`
	Date        *time.Time `json:"date" validate:"required"`
	Type        *string    `json:"type,omitempty"`
	FlyerURL    *string    `json:"flyer_url,omitempty" validate:"omitempty,url"`
	GateCode    *string    `json:"gate_code,omitempty"`
	TicketPrice *float64   `json:"ticket_price,omitempty" validate:"omitempty,gte=0"`
}

type CreateEventResponse struct {
	ID string `json:"id"`
}
