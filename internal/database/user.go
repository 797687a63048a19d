package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// User represents a registered account.
// The username is the primary key and never changes once created.
type User struct {
	Username     string     `gorm:"primaryKey;size:20"`
	PasswordHash string     `gorm:"not null"`
	Email        string     `gorm:"size:50;not null"`
	FirstName    string     `gorm:"size:30;not null"`
	LastName     string     `gorm:"size:30;not null"`
	Feedback     []Feedback `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE;"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a new user. Uniqueness is left to the primary key so two
// concurrent registrations of the same name cannot both succeed.
func (c *Client) CreateUser(ctx context.Context, user *User) error {
	if err := c.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateUsername
		}
		log.Error("failed to create user", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error("failed to get user by username", "error", err)
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user together with all feedback it owns.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&Feedback{}).Error; err != nil {
			log.Error("failed to delete feedback of user", "username", username, "error", err)
			return err
		}
		result := tx.Where("username = ?", username).Delete(&User{})
		if result.Error != nil {
			log.Error("failed to delete user", "username", username, "error", result.Error)
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
