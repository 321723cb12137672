package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

type Delivery struct {
	UserID  uuid.UUID
	Event   string
	Payload any
}

// MockNotifier records deliveries for tests.
type MockNotifier struct {
	mu         sync.Mutex
	Deliveries []Delivery
	Err        error
}

func (m *MockNotifier) Deliver(ctx context.Context, userID uuid.UUID, event string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deliveries = append(m.Deliveries, Delivery{UserID: userID, Event: event, Payload: payload})
	return m.Err
}

// Events returns the names of delivered events, in order.
func (m *MockNotifier) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Deliveries))
	for _, d := range m.Deliveries {
		out = append(out, d.Event)
	}
	return out
}

// MockTokenValidator maps raw tokens to user ids.
type MockTokenValidator struct {
	Users map[string]uuid.UUID
	Err   error
}

func (m *MockTokenValidator) ValidateToken(raw string) (uuid.UUID, error) {
	if id, ok := m.Users[raw]; ok {
		return id, nil
	}
	if m.Err != nil {
		return uuid.Nil, m.Err
	}
	return uuid.Nil, errors.New("invalid token")
}
