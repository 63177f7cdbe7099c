package store

import (
	"errors"

	"github.com/router-for-me/calculator-api/internal/settings"
)

// Errors returned by the stores. Storage driver errors never cross this boundary unwrapped.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrUsernameTaken indicates the username unique constraint was violated.
	ErrUsernameTaken = errors.New("store: username already exists")
	// ErrEmailTaken indicates the email unique constraint was violated.
	ErrEmailTaken = errors.New("store: email already exists")
	// ErrConflict indicates an unattributed unique constraint violation.
	ErrConflict = errors.New("store: conflicting record")
)

// Page bounds a list query.
type Page struct {
	Skip  int
	Limit int
}

// normalize clamps negative values and caps Limit at settings.MaxPageLimit.
func (p Page) normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit < 0 {
		p.Limit = 0
	}
	if p.Limit > settings.MaxPageLimit {
		p.Limit = settings.MaxPageLimit
	}
	return p
}
