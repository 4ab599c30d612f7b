package dtos

// UpsertRsvpRequest is the body for POST /rsvps. Id and status checks
// happen in the service so they surface as validation errors with a
// specific message.
type UpsertRsvpRequest struct {
	ContactID string `json:"contact_id" validate:"required"`
	EventID   string `json:"event_id" validate:"required"`
	Status    string `json:"status"`
}

type UpsertRsvpResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
