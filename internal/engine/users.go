package engine

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/feedbox/internal/access"
	"github.com/jon4hz/feedbox/internal/auth"
	"github.com/jon4hz/feedbox/internal/cache"
	"github.com/jon4hz/feedbox/internal/database"
	"github.com/jon4hz/feedbox/internal/notify/email"
)

// UserPage is what the owner sees on their own page.
type UserPage struct {
	Profile  cache.Profile
	Feedback []database.Feedback
}

// Register creates a new account. A taken username yields database.ErrDuplicateUsername.
func (e *Engine) Register(ctx context.Context, in auth.RegisterInput) (*database.User, error) {
	user, err := e.auth.Register(ctx, in)
	if err != nil {
		return nil, err
	}

	e.profiles.Put(ctx, cache.ProfileFromUser(user))

	if err := e.email.SendWelcome(email.Welcome{
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
	}); err != nil {
		log.Warn("failed to send welcome email", "username", user.Username, "error", err)
	}
	return user, nil
}

// Login verifies the credentials. Unknown users and wrong passwords both yield auth.ErrInvalidCredentials.
func (e *Engine) Login(ctx context.Context, username, password string) (*database.User, error) {
	return e.auth.Authenticate(ctx, username, password)
}

// ShowUser returns the page of username if p owns it.
// Ownership is checked before the lookup, so a foreign username is denied whether it exists or not.
func (e *Engine) ShowUser(ctx context.Context, p access.Principal, username string) (*UserPage, error) {
	if err := access.CanAccessUser(p, username); err != nil {
		return nil, err
	}

	profile, err := e.profile(ctx, username)
	if err != nil {
		return nil, err
	}

	feedback, err := e.db.ListFeedbackByOwner(ctx, username)
	if err != nil {
		return nil, err
	}

	return &UserPage{
		Profile:  *profile,
		Feedback: feedback,
	}, nil
}

// DeleteUser removes the account of p together with all of its feedback.
func (e *Engine) DeleteUser(ctx context.Context, p access.Principal, username string) error {
	if err := access.CanAccessUser(p, username); err != nil {
		return err
	}

	if err := e.db.DeleteUser(ctx, username); err != nil {
		return err
	}
	e.profiles.Evict(ctx, username)

	log.Info("deleted user", "username", username)
	return nil
}
