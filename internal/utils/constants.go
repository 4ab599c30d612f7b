package utils

const (
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"

	// Header Twilio signs status callbacks with.
	TwilioSignatureHeader = "X-Twilio-Signature"
)
