package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/feedbox/internal/database"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown user as well as for a wrong password.
var ErrInvalidCredentials = errors.New("invalid username/password")

// UserStore is the part of the credential store the authenticator needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *database.User) error
	GetUserByUsername(ctx context.Context, username string) (*database.User, error)
}

// RegisterInput holds everything needed to create an account.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// Authenticator registers users and verifies their passwords.
type Authenticator struct {
	store UserStore
	cost  int
	// dummyHash is compared against when the user does not exist,
	// so both failure paths spend the same time in bcrypt.
	dummyHash []byte
}

// New creates an authenticator hashing passwords with the given bcrypt cost.
func New(store UserStore, cost int) (*Authenticator, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("feedbox-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	return &Authenticator{
		store:     store,
		cost:      cost,
		dummyHash: dummy,
	}, nil
}

// Register hashes the password and stores the new user.
// It returns database.ErrDuplicateUsername if the name is taken.
func (a *Authenticator) Register(ctx context.Context, in RegisterInput) (*database.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &database.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	log.Info("registered new user", "username", user.Username)
	return user, nil
}

// Authenticate returns the user if the password matches its stored hash.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*database.User, error) {
	user, err := a.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Debug("password mismatch", "username", username)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
