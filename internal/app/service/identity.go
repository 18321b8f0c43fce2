package service

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnauthorized   = errors.New("authentication required")
	ErrStorageFailure = errors.New("storage failure")
)

// Identity is who a cart operation acts for. An authenticated identity
// carries a user id; an anonymous one carries the session token, possibly empty.
type Identity struct {
	UserID       uint
	SessionToken string
}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != 0
}

// SessionProvider issues and validates opaque anonymous session tokens.
type SessionProvider interface {
	Create(ctx context.Context) (string, error)
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}

func storageFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}
