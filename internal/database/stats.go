package database

import (
	"context"

	"github.com/charmbracelet/log"
)

// GetStats counts users and feedback and returns the five most active authors.
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	db := c.db.WithContext(ctx)

	if err := db.Model(&User{}).Count(&stats.TotalUsers).Error; err != nil {
		log.Error("failed to count users", "error", err)
		return nil, err
	}
	if err := db.Model(&Feedback{}).Count(&stats.TotalFeedback).Error; err != nil {
		log.Error("failed to count feedback", "error", err)
		return nil, err
	}
	if err := db.Model(&Feedback{}).
		Select("username, count(*) as count").
		Group("username").
		Order("count desc, username").
		Limit(5).
		Scan(&stats.TopAuthors).Error; err != nil {
		log.Error("failed to count feedback per user", "error", err)
		return nil, err
	}
	return &stats, nil
}
