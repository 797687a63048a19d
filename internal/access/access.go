// Package access decides which principal may view or change which record.
// Ownership is the only rule: a user owns itself and its feedback, nobody
// else gets access, and there is no admin override.
package access

import "errors"

var (
	// ErrUnauthenticated is returned when the request carries no identity.
	ErrUnauthenticated = errors.New("login required")
	// ErrForbidden is returned when the identity does not own the target.
	ErrForbidden = errors.New("permission denied")
)

// State is the authentication state of a request.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Principal is the identity attached to a single request.
// The zero value is the anonymous principal.
type Principal struct {
	Username string
}

// Anon returns the anonymous principal.
func Anon() Principal {
	return Principal{}
}

// As returns a principal authenticated as username.
func As(username string) Principal {
	return Principal{Username: username}
}

func (p Principal) State() State {
	if p.Username == "" {
		return Anonymous
	}
	return Authenticated
}

// IsAuthenticated reports whether the principal carries a username.
func (p Principal) IsAuthenticated() bool {
	return p.State() == Authenticated
}

// RequireAuthenticated denies anonymous principals.
func RequireAuthenticated(p Principal) error {
	if !p.IsAuthenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// CanAccessUser allows a principal to view or change only its own account.
func CanAccessUser(p Principal, username string) error {
	return owns(p, username)
}

// CanMutateFeedback allows only the owner of a feedback entry to change it.
func CanMutateFeedback(p Principal, owner string) error {
	return owns(p, owner)
}

func owns(p Principal, owner string) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if owner == "" || p.Username != owner {
		return ErrForbidden
	}
	return nil
}
