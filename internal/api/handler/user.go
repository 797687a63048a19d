package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/feedbox/internal/api/models"
	"github.com/jon4hz/feedbox/internal/session"
)

// ShowUser renders the owner's profile and feedback.
func (h *Handler) ShowUser(c *gin.Context) {
	p := session.PrincipalFrom(c)

	page, err := h.engine.ShowUser(c.Request.Context(), p, c.Param("username"))
	if err != nil {
		h.handleError(c, err, "/", msgNoAccountAccess)
		return
	}

	h.render(c, http.StatusOK, "user.html", gin.H{
		"Title":    page.Profile.Username,
		"User":     models.ToUserView(page.Profile, h.config.Gravatar),
		"Feedback": models.ToFeedbackViews(page.Feedback),
	})
}

// DeleteUser removes the account and logs the owner out.
func (h *Handler) DeleteUser(c *gin.Context) {
	p := session.PrincipalFrom(c)

	if err := h.engine.DeleteUser(c.Request.Context(), p, c.Param("username")); err != nil {
		h.handleError(c, err, "/", msgNoAccountAccess)
		return
	}

	if err := session.From(c).Clear(); err != nil {
		h.serverError(c, err)
		return
	}
	h.flash(c, session.CategoryInfo, msgAccountDeleted)
	h.redirect(c, "/")
}
