package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactStatus string

const (
	ContactStatusPending  ContactStatus = "pending"
	ContactStatusApproved ContactStatus = "approved"
	ContactStatusRejected ContactStatus = "rejected"
)

type BrandQueue string

const (
	BrandQueueAnomaly BrandQueue = "anomaly"
	BrandQueueArcane  BrandQueue = "arcane"
)

// Contact for contacts table. One row per canonical phone number.
type Contact struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Phone       string        `json:"phone"`
	Email       *string       `json:"email"`
	HeadshotURL *string       `json:"headshot_url"`
	City        *string       `json:"city"`
	State       *string       `json:"state"`
	Segment     string        `json:"segment"`
	BrandQueue  BrandQueue    `json:"brand_queue"`
	Status      ContactStatus `json:"status"`

	PhoneVerified bool    `json:"phone_verified"`
	ReferralCode  *string `json:"referral_code"`
	ReferredBy    *string `json:"referred_by"`

	// Outstanding one-time code; nil once confirmed. Never serialized.
	VerificationCode       *string    `json:"-"`
	VerificationCodeSentAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactFilter narrows List queries; nil fields are ignored.
type ContactFilter struct {
	Status     *string
	BrandQueue *string
}
