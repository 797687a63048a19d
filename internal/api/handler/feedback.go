package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/feedbox/internal/access"
	"github.com/jon4hz/feedbox/internal/engine"
	"github.com/jon4hz/feedbox/internal/session"
)

func (h *Handler) AddFeedbackForm(c *gin.Context) {
	p := session.PrincipalFrom(c)

	profile, err := h.engine.GetUserForFeedback(c.Request.Context(), p, c.Param("username"))
	if err != nil {
		h.handleError(c, err, "/login", msgNoPermission)
		return
	}
	h.renderAddFeedback(c, profile.Username, feedbackForm{}, nil)
}

func (h *Handler) AddFeedback(c *gin.Context) {
	p := session.PrincipalFrom(c)
	ctx := c.Request.Context()

	// access is decided before the form is looked at
	profile, err := h.engine.GetUserForFeedback(ctx, p, c.Param("username"))
	if err != nil {
		h.handleError(c, err, "/login", msgNoPermission)
		return
	}

	var form feedbackForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderAddFeedback(c, profile.Username, form, fieldErrors(err))
		return
	}

	feedback, err := h.engine.AddFeedback(ctx, p, profile.Username, engine.FeedbackInput{
		Title:   form.Title,
		Content: form.Content,
	})
	if err != nil {
		h.handleError(c, err, "/login", msgNoPermission)
		return
	}

	h.flash(c, session.CategorySuccess, msgFeedbackAdded)
	h.redirect(c, userURL(feedback.Username))
}

func (h *Handler) renderAddFeedback(c *gin.Context, username string, form feedbackForm, errs map[string]string) {
	data := gin.H{
		"Title":   "Add Feedback",
		"Heading": "Add Feedback",
		"Action":  userURL(username) + "/feedback/add",
		"Submit":  "Add",
		"Form":    form,
	}
	if errs != nil {
		data["Errors"] = errs
	}
	h.render(c, http.StatusOK, "feedback.html", data)
}

func (h *Handler) UpdateFeedbackForm(c *gin.Context) {
	id, ok := h.feedbackID(c)
	if !ok {
		return
	}

	feedback, err := h.engine.GetFeedbackForUpdate(c.Request.Context(), session.PrincipalFrom(c), id)
	if err != nil {
		h.handleError(c, err, "/login", msgNoPermission)
		return
	}
	h.renderUpdateFeedback(c, id, feedbackForm{Title: feedback.Title, Content: feedback.Content}, nil)
}

func (h *Handler) UpdateFeedback(c *gin.Context) {
	id, ok := h.feedbackID(c)
	if !ok {
		return
	}
	p := session.PrincipalFrom(c)
	ctx := c.Request.Context()

	if _, err := h.engine.GetFeedbackForUpdate(ctx, p, id); err != nil {
		h.handleError(c, err, "/login", msgNoPermission)
		return
	}

	var form feedbackForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderUpdateFeedback(c, id, form, fieldErrors(err))
		return
	}

	feedback, err := h.engine.UpdateFeedback(ctx, p, id, engine.FeedbackInput{
		Title:   form.Title,
		Content: form.Content,
	})
	if err != nil {
		h.handleError(c, err, "/login", msgNoPermission)
		return
	}

	h.flash(c, session.CategorySuccess, msgFeedbackUpdated)
	h.redirect(c, userURL(feedback.Username))
}

func (h *Handler) renderUpdateFeedback(c *gin.Context, id uint, form feedbackForm, errs map[string]string) {
	data := gin.H{
		"Title":   "Edit Feedback",
		"Heading": "Edit Feedback",
		"Action":  feedbackURL(id) + "/update",
		"Submit":  "Update",
		"Form":    form,
	}
	if errs != nil {
		data["Errors"] = errs
	}
	h.render(c, http.StatusOK, "feedback.html", data)
}

func (h *Handler) DeleteFeedback(c *gin.Context) {
	id, ok := h.feedbackID(c)
	if !ok {
		return
	}

	feedback, err := h.engine.DeleteFeedback(c.Request.Context(), session.PrincipalFrom(c), id)
	if err != nil {
		h.handleError(c, err, "/login", msgNoPermission)
		return
	}

	h.flash(c, session.CategoryInfo, msgFeedbackDeleted)
	h.redirect(c, userURL(feedback.Username))
}

// feedbackID parses the :id parameter. A malformed id is an unknown feedback entry,
// but anonymous requests are still sent to the login page first.
func (h *Handler) feedbackID(c *gin.Context) (uint, bool) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		if authErr := access.RequireAuthenticated(session.PrincipalFrom(c)); authErr != nil {
			h.handleError(c, authErr, "/login", msgNoPermission)
		} else {
			h.notFound(c)
		}
		return 0, false
	}
	return id, true
}
