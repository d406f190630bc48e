package port

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidToken covers every rejection reason: missing, malformed, expired,
// bad signature. Callers must not leak which one it was.
var ErrInvalidToken = errors.New("auth: invalid token")

// Principal is the authenticated identity resolved from a credential.
type Principal struct {
	UserID uuid.UUID
}

// TokenVerifier resolves a bearer credential to a principal.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}
