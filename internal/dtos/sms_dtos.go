package dtos

// SMSStatusCallback is the subset of the provider's form-encoded
// status callback that gets reconciled.
type SMSStatusCallback struct {
	MessageSid    string
	MessageStatus string
	To            string
	ErrorCode     string
}

type WebhookAckResponse struct {
	OK bool `json:"ok"`
}
