package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Feedback is a title/content entry owned by exactly one user.
type Feedback struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"size:100;not null"`
	Content   string `gorm:"size:300;not null"`
	Username  string `gorm:"size:20;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateFeedback inserts feedback for an existing user.
// It returns ErrNotFound if the owner does not exist.
func (c *Client) CreateFeedback(ctx context.Context, feedback *Feedback) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owners int64
		if err := tx.Model(&User{}).Where("username = ?", feedback.Username).Count(&owners).Error; err != nil {
			log.Error("failed to look up feedback owner", "error", err)
			return err
		}
		if owners == 0 {
			return ErrNotFound
		}
		if err := tx.Create(feedback).Error; err != nil {
			if isForeignKeyViolation(err) {
				return ErrNotFound
			}
			log.Error("failed to create feedback", "error", err)
			return err
		}
		return nil
	})
}

func (c *Client) GetFeedbackByID(ctx context.Context, id uint) (*Feedback, error) {
	var feedback Feedback
	if err := c.db.WithContext(ctx).First(&feedback, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error("failed to get feedback by ID", "error", err)
		return nil, err
	}
	return &feedback, nil
}

// ListFeedbackByOwner returns the user's feedback in insertion order.
func (c *Client) ListFeedbackByOwner(ctx context.Context, username string) ([]Feedback, error) {
	var feedback []Feedback
	if err := c.db.WithContext(ctx).Where("username = ?", username).Order("id").Find(&feedback).Error; err != nil {
		log.Error("failed to list feedback", "username", username, "error", err)
		return nil, err
	}
	return feedback, nil
}

// UpdateFeedback changes title and content in place. Owner and ID are left untouched.
func (c *Client) UpdateFeedback(ctx context.Context, id uint, title, content string) (*Feedback, error) {
	result := c.db.WithContext(ctx).Model(&Feedback{ID: id}).Updates(map[string]any{
		"title":   title,
		"content": content,
	})
	if result.Error != nil {
		log.Error("failed to update feedback", "id", id, "error", result.Error)
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return c.GetFeedbackByID(ctx, id)
}

func (c *Client) DeleteFeedback(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&Feedback{}, id)
	if result.Error != nil {
		log.Error("failed to delete feedback", "id", id, "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
