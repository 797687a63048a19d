package database

import "context"

// DB defines the credential store used by the rest of the application.
type DB interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	DeleteUser(ctx context.Context, username string) error

	// Feedback
	CreateFeedback(ctx context.Context, feedback *Feedback) error
	GetFeedbackByID(ctx context.Context, id uint) (*Feedback, error)
	ListFeedbackByOwner(ctx context.Context, username string) ([]Feedback, error)
	UpdateFeedback(ctx context.Context, id uint, title, content string) (*Feedback, error)
	DeleteFeedback(ctx context.Context, id uint) error

	// Utility
	GetStats(ctx context.Context) (*Stats, error)
	Ping(ctx context.Context) error
	Close() error
}

// Stats holds row counts for the db-stats command.
type Stats struct {
	TotalUsers    int64
	TotalFeedback int64
	// TopAuthors lists usernames with the most feedback, busiest first.
	TopAuthors []AuthorCount
}

// AuthorCount is the number of feedback entries owned by a user.
type AuthorCount struct {
	Username string
	Count    int64
}
