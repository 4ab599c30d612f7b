package testhelpers

import (
	"fmt"
	"sync"

	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator records CreateMessage calls instead of hitting Twilio.
// Successful calls return SID when set, else a fresh SM-prefixed id.
type MessageCreator struct {
	mu    sync.Mutex
	Sent  []*twilioApi.CreateMessageParams
	SID   string
	Err   error
	calls int
}

func (m *MessageCreator) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.Sent = append(m.Sent, params)
	if m.Err != nil {
		return nil, m.Err
	}
	sid := m.SID
	if sid == "" {
		sid = fmt.Sprintf("SM%032d", m.calls)
	}
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

// Calls returns how many messages were attempted.
func (m *MessageCreator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
