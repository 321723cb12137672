package port

import (
	"context"

	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// Notifier delivers a best-effort event to every live session of a user.
// Having no live session is not an error.
type Notifier interface {
	Deliver(ctx context.Context, userID uuid.UUID, event string, payload any) error
}

// TokenValidator resolves a bearer credential to the user it was issued to.
type TokenValidator interface {
	ValidateToken(raw string) (uuid.UUID, error)
}
