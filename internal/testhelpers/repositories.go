// Package testhelpers holds in-memory stand-ins for the pgx repositories and
// the Twilio client so services and controllers can be tested without a
// database or network.
package testhelpers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

// ContactRepo is an in-memory repositories.ContactRepository.
type ContactRepo struct {
	mu       sync.Mutex
	contacts map[uuid.UUID]*models.Contact

	// HidePhoneLookups makes the next N GetByPhone calls miss, which
	// reproduces a registration racing another one.
	HidePhoneLookups int
	Err              error
}

func NewContactRepo() *ContactRepo {
	return &ContactRepo{contacts: map[uuid.UUID]*models.Contact{}}
}

func (r *ContactRepo) Create(_ context.Context, c *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, existing := range r.contacts {
		if existing.Phone == c.Phone {
			return utils.ErrPhoneExists
		}
	}
	cp := *c
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.contacts[c.ID] = &cp
	return nil
}

func (r *ContactRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.contacts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *ContactRepo) GetByPhone(_ context.Context, phone string) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if r.HidePhoneLookups > 0 {
		r.HidePhoneLookups--
		return nil, nil
	}
	for _, c := range r.contacts {
		if c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ContactRepo) List(_ context.Context, filter models.ContactFilter) ([]*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*models.Contact
	for _, c := range r.contacts {
		if filter.Status != nil && string(c.Status) != *filter.Status {
			continue
		}
		if filter.BrandQueue != nil && string(c.BrandQueue) != *filter.BrandQueue {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ContactRepo) SetVerificationCode(_ context.Context, id uuid.UUID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok {
		return utils.ErrContactNotFound
	}
	now := time.Now().UTC()
	c.VerificationCode = &code
	c.VerificationCodeSentAt = &now
	c.UpdatedAt = now
	return nil
}

func (r *ContactRepo) MarkPhoneVerified(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok {
		return utils.ErrContactNotFound
	}
	c.PhoneVerified = true
	c.VerificationCode = nil
	c.VerificationCodeSentAt = nil
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ContactRepo) ClearVerificationCodesSentBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for _, c := range r.contacts {
		if c.VerificationCode != nil && c.VerificationCodeSentAt != nil && c.VerificationCodeSentAt.Before(cutoff) {
			c.VerificationCode = nil
			c.VerificationCodeSentAt = nil
			n++
		}
	}
	return n, nil
}

// Count returns the number of stored contacts.
func (r *ContactRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contacts)
}

// Put stores c as-is, bypassing the phone check.
func (r *ContactRepo) Put(c *models.Contact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.contacts[c.ID] = &cp
}

// EventRepo is an in-memory repositories.EventRepository.
type EventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*models.Event
	Err    error
}

func NewEventRepo() *EventRepo {
	return &EventRepo{events: map[uuid.UUID]*models.Event{}}
}

func (r *EventRepo) Create(_ context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cp := *e
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.events[e.ID] = &cp
	return nil
}

func (r *EventRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *EventRepo) List(_ context.Context) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*models.Event
	for _, e := range r.events {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// RsvpRepo is an in-memory repositories.RsvpRepository keyed like the
// unique (contact_id, event_id) index.
type RsvpRepo struct {
	mu    sync.Mutex
	rsvps map[uuid.UUID]*models.Rsvp

	// HidePairLookups makes the next N GetByPair calls miss.
	HidePairLookups int
}

func NewRsvpRepo() *RsvpRepo {
	return &RsvpRepo{rsvps: map[uuid.UUID]*models.Rsvp{}}
}

func (r *RsvpRepo) Create(_ context.Context, rec *models.Rsvp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rsvps {
		if existing.ContactID == rec.ContactID && existing.EventID == rec.EventID {
			return utils.ErrRsvpExists
		}
	}
	cp := *rec
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.rsvps[rec.ID] = &cp
	return nil
}

func (r *RsvpRepo) GetByPair(_ context.Context, contactID, eventID string) (*models.Rsvp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.HidePairLookups > 0 {
		r.HidePairLookups--
		return nil, nil
	}
	for _, rec := range r.rsvps {
		if rec.ContactID == contactID && rec.EventID == eventID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *RsvpRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.RsvpStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.rsvps[id]; ok {
		rec.Status = status
		rec.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// All returns a snapshot of every stored RSVP.
func (r *RsvpRepo) All() []models.Rsvp {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Rsvp, 0, len(r.rsvps))
	for _, rec := range r.rsvps {
		out = append(out, *rec)
	}
	return out
}

// SMSMessageRepo is an in-memory repositories.SMSMessageRepository.
type SMSMessageRepo struct {
	mu       sync.Mutex
	messages []*models.SMSMessage
	Err      error
}

func NewSMSMessageRepo() *SMSMessageRepo {
	return &SMSMessageRepo{}
}

func (r *SMSMessageRepo) Create(_ context.Context, m *models.SMSMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	now := time.Now().UTC()
	if m.ProviderMessageSID != nil {
		for _, existing := range r.messages {
			if existing.ProviderMessageSID == nil || *existing.ProviderMessageSID != *m.ProviderMessageSID {
				continue
			}
			// Same merge as the sid conflict clause in Postgres.
			existing.To, existing.Body, existing.Purpose = m.To, m.Body, m.Purpose
			if m.ErrorMessage != nil {
				existing.ErrorMessage = m.ErrorMessage
			}
			if existing.Status == nil {
				existing.Status = m.Status
			}
			if existing.ErrorCode == nil {
				existing.ErrorCode = m.ErrorCode
			}
			existing.Logs = append(existing.Logs, m.Logs...)
			existing.UpdatedAt = now
			m.ID = existing.ID
			return nil
		}
	}
	cp := *m
	cp.CreatedAt = now
	cp.UpdatedAt = cp.CreatedAt
	if cp.Logs == nil {
		cp.Logs = []models.SMSStatusLogEntry{}
	}
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *SMSMessageRepo) UpsertStatusBySID(
	_ context.Context,
	sid string,
	status *string,
	entry models.SMSStatusLogEntry,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	now := time.Now().UTC()
	for _, m := range r.messages {
		if m.ProviderMessageSID != nil && *m.ProviderMessageSID == sid {
			if status != nil {
				s := models.SMSStatus(*status)
				m.Status = &s
			}
			if entry.ErrorCode != nil {
				m.ErrorCode = entry.ErrorCode
			}
			m.Logs = append(m.Logs, entry)
			m.UpdatedAt = now
			return nil
		}
	}
	m := &models.SMSMessage{
		ID:                 uuid.New(),
		ProviderMessageSID: &sid,
		ErrorCode:          entry.ErrorCode,
		Logs:               []models.SMSStatusLogEntry{entry},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if status != nil {
		s := models.SMSStatus(*status)
		m.Status = &s
	}
	r.messages = append(r.messages, m)
	return nil
}

func (r *SMSMessageRepo) GetByProviderSID(_ context.Context, sid string) (*models.SMSMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ProviderMessageSID != nil && *m.ProviderMessageSID == sid {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *SMSMessageRepo) ListByRecipient(_ context.Context, to string) ([]*models.SMSMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.SMSMessage
	for _, m := range r.messages {
		if m.To != nil && *m.To == to {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

// All returns a snapshot of every row in insertion order.
func (r *SMSMessageRepo) All() []models.SMSMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.SMSMessage, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, *m)
	}
	return out
}

// RateLimitRepo counts keys without expiry.
type RateLimitRepo struct {
	mu       sync.Mutex
	counts   map[string]int
	Err      error
	Cleanups int
}

func NewRateLimitRepo() *RateLimitRepo {
	return &RateLimitRepo{counts: map[string]int{}}
}

func (r *RateLimitRepo) IncrementAndCheck(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	r.counts[key]++
	return r.counts[key] <= limit, nil
}

func (r *RateLimitRepo) CleanupExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Cleanups++
	return nil
}

// Count returns the current counter for key.
func (r *RateLimitRepo) Count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[key]
}
