// Package common defines shared sentinel errors used across feedline
// components. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrDuplicateUser covers both duplicate kinds below; errors.Is against
	// it matches either one, so callers can branch on the kind only when
	// they need the specific message.
	ErrDuplicateUser = errors.New("duplicate user")
	ErrUsernameTaken = fmt.Errorf("%w: username taken", ErrDuplicateUser)
	ErrEmailTaken    = fmt.Errorf("%w: email taken", ErrDuplicateUser)

	// Follower graph errors.
	ErrUnknownUser             = errors.New("unknown user")
	ErrDuplicateFollower       = errors.New("already following")
	ErrUnknownFollowerRelation = errors.New("follower relation does not exist")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
