package engine

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/feedbox/internal/access"
	"github.com/jon4hz/feedbox/internal/cache"
	"github.com/jon4hz/feedbox/internal/database"
)

// FeedbackInput is the editable part of a feedback entry.
type FeedbackInput struct {
	Title   string
	Content string
}

// GetUserForFeedback resolves the user p wants to add feedback for.
// The user must exist and be p itself.
func (e *Engine) GetUserForFeedback(ctx context.Context, p access.Principal, username string) (*cache.Profile, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	profile, err := e.profile(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := access.CanAccessUser(p, profile.Username); err != nil {
		return nil, err
	}
	return profile, nil
}

// AddFeedback creates a feedback entry owned by username.
func (e *Engine) AddFeedback(ctx context.Context, p access.Principal, username string, in FeedbackInput) (*database.Feedback, error) {
	if _, err := e.GetUserForFeedback(ctx, p, username); err != nil {
		return nil, err
	}

	feedback := &database.Feedback{
		Title:    in.Title,
		Content:  in.Content,
		Username: username,
	}
	if err := e.db.CreateFeedback(ctx, feedback); err != nil {
		return nil, err
	}

	log.Debug("added feedback", "id", feedback.ID, "username", username)
	return feedback, nil
}

// GetFeedbackForUpdate returns the feedback entry if p owns it.
func (e *Engine) GetFeedbackForUpdate(ctx context.Context, p access.Principal, id uint) (*database.Feedback, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return nil, err
	}

	feedback, err := e.db.GetFeedbackByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.CanMutateFeedback(p, feedback.Username); err != nil {
		return nil, err
	}
	return feedback, nil
}

// UpdateFeedback replaces title and content of a feedback entry owned by p.
func (e *Engine) UpdateFeedback(ctx context.Context, p access.Principal, id uint, in FeedbackInput) (*database.Feedback, error) {
	if _, err := e.GetFeedbackForUpdate(ctx, p, id); err != nil {
		return nil, err
	}

	feedback, err := e.db.UpdateFeedback(ctx, id, in.Title, in.Content)
	if err != nil {
		return nil, err
	}

	log.Debug("updated feedback", "id", id, "username", feedback.Username)
	return feedback, nil
}

// DeleteFeedback removes a feedback entry owned by p and returns what was deleted.
func (e *Engine) DeleteFeedback(ctx context.Context, p access.Principal, id uint) (*database.Feedback, error) {
	feedback, err := e.GetFeedbackForUpdate(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if err := e.db.DeleteFeedback(ctx, id); err != nil {
		return nil, err
	}

	log.Debug("deleted feedback", "id", id, "username", feedback.Username)
	return feedback, nil
}
