package utils

import (
	"strings"
)

// Canonical two-letter USPS codes treated as the home market.
const (
	StateCA = "CA"
	StateFL = "FL"
	StateNV = "NV"
	StateNY = "NY"
	StateOR = "OR"
	StateTX = "TX"
	StateWA = "WA"
)

const (
	SegmentLocal      = "local"
	SegmentOutOfState = "out_of_state"
)

var localJurisdictions = map[string]struct{}{
	StateCA: {},
	StateNY: {},
	StateNV: {},
	StateWA: {},
	StateOR: {},
	StateTX: {},
	StateFL: {},
}

// IsLocalJurisdiction matches the trimmed, upper-cased code against the
// local set. Full state names are not recognised.
func IsLocalJurisdiction(state string) bool {
	_, ok := localJurisdictions[strings.ToUpper(strings.TrimSpace(state))]
	return ok
}

// SegmentForState derives the notification segment once, at registration.
func SegmentForState(state *string) string {
	if state != nil && IsLocalJurisdiction(*state) {
		return SegmentLocal
	}
	return SegmentOutOfState
}
