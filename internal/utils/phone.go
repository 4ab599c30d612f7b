package utils

import (
	"regexp"
	"strings"
)

// DefaultCountryCode is assumed for bare 10-digit numbers.
const DefaultCountryCode = "1"

var e164Regex = regexp.MustCompile(`^\+[1-9]\d{7,14}$`) // ITU-T E.164

// IsE164 reports basic E.164 compliance.
func IsE164(number string) bool { return e164Regex.MatchString(number) }

// NormalizePhone canonicalizes a user-supplied phone number into a dialable
// "+<digits>" string. Every input yields a result; garbage in, garbage out.
//
//	"+44 20 7946 0958" -> "+442079460958"
//	"(555) 123-4567"   -> "+15551234567"
//	"15551234567"      -> "+15551234567"
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		return "+" + digits
	}
	if len(digits) == 10 {
		return "+" + DefaultCountryCode + digits
	}
	return "+" + digits
}
