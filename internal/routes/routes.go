package routes

const (
	Root    = "/"
	Health  = "/health"
	Metrics = "/metrics"

	ContactsBase       = "/contacts"
	ContactsRegister   = "/contacts/register"
	ContactsVerifySend = "/contacts/verify/send"
	ContactsVerifyConf = "/contacts/verify/confirm"

	EventsBase = "/events"
	RsvpsBase  = "/rsvps"

	SMSWebhook = "/sms/webhook"
)
