package models

import "time"

// UserView is the owner's profile as shown on the user page.
type UserView struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string // empty if gravatar is disabled
	Joined    string
}

// FeedbackView is a feedback entry prepared for display.
type FeedbackView struct {
	ID      uint
	Title   string
	Content string
	Posted  string
	Edited  string // empty if never edited
}

// JobView is a background job as reported by the health endpoint.
type JobView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	LastRun    *time.Time `json:"last_run,omitempty"`
	RunCount   int        `json:"run_count"`
	ErrorCount int        `json:"error_count"`
	LastError  string     `json:"last_error,omitempty"`
}

// HealthView is the body of the health endpoint.
type HealthView struct {
	Status string    `json:"status"`
	Jobs   []JobView `json:"jobs"`
}
