package models

import (
	"time"

	"github.com/jon4hz/feedbox/internal/cache"
	"github.com/jon4hz/feedbox/internal/config"
	"github.com/jon4hz/feedbox/internal/database"
	"github.com/jon4hz/feedbox/internal/gravatar"
	"github.com/jon4hz/feedbox/internal/scheduler"
	"github.com/jon4hz/feedbox/web"
	"github.com/samber/lo"
)

// editGrace hides the "edited" marker for writes that happened together with the insert.
const editGrace = time.Second

// ToUserView converts a cached profile to a UserView.
func ToUserView(p cache.Profile, cfg *config.GravatarConfig) UserView {
	return UserView{
		Username:  p.Username,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		AvatarURL: gravatar.URL(p.Email, cfg),
		Joined:    p.CreatedAt.Format("January 2, 2006"),
	}
}

// ToFeedbackView converts a database.Feedback to a FeedbackView.
func ToFeedbackView(f database.Feedback) FeedbackView {
	view := FeedbackView{
		ID:      f.ID,
		Title:   f.Title,
		Content: f.Content,
		Posted:  web.FormatRelativeTime(f.CreatedAt),
	}
	if f.UpdatedAt.Sub(f.CreatedAt) > editGrace {
		view.Edited = web.FormatRelativeTime(f.UpdatedAt)
	}
	return view
}

// ToFeedbackViews converts a slice of database.Feedback, keeping the order.
func ToFeedbackViews(items []database.Feedback) []FeedbackView {
	return lo.Map(items, func(f database.Feedback, _ int) FeedbackView {
		return ToFeedbackView(f)
	})
}

// ToJobViews converts scheduler job snapshots. Jobs that never ran have no LastRun.
func ToJobViews(jobs []scheduler.JobInfo) []JobView {
	return lo.Map(jobs, func(j scheduler.JobInfo, _ int) JobView {
		view := JobView{
			ID:         j.ID,
			Name:       j.Name,
			Status:     string(j.Status),
			RunCount:   j.RunCount,
			ErrorCount: j.ErrorCount,
			LastError:  j.LastError,
		}
		if !j.LastRun.IsZero() {
			view.LastRun = &j.LastRun
		}
		return view
	})
}
