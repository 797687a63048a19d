package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/feedbox/internal/access"
	"github.com/jon4hz/feedbox/internal/engine"
	"github.com/jon4hz/feedbox/internal/session"
)

const (
	msgRegistered       = "Welcome! Your Account has been created!"
	msgWelcomeBack      = "Welcome Back, %s!"
	msgGoodbye          = "Goodbye!"
	msgLoginFirst       = "Please login first!"
	msgNoAccountAccess  = "You don't have permission to see this account!"
	msgNoPermission     = "You don't have permission to do that!"
	msgAccountDeleted   = "Your account has been deleted."
	msgFeedbackAdded    = "Feedback added!"
	msgFeedbackUpdated  = "Feedback updated!"
	msgFeedbackDeleted  = "Feedback deleted!"
	msgUsernameTaken    = "Sorry, but this username is taken. Please pick another"
	msgInvalidLogin     = "Invalid username/password."
	healthStatusOK      = "ok"
	healthStatusFailing = "unavailable"
)

// render executes a page with the data every page needs: principal, flashes and field errors.
func (h *Handler) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}

	flashes, err := session.From(c).Flashes()
	if err != nil {
		log.Error("Failed to read flash messages", "error", err)
	}
	data["Flashes"] = flashes
	data["Principal"] = session.PrincipalFrom(c)

	c.HTML(status, page, data)
}

// flash queues a message for the next rendered page. Failures only cost the message.
func (h *Handler) flash(c *gin.Context, category session.Category, message string) {
	if err := session.From(c).Flash(category, message); err != nil {
		log.Error("Failed to save flash message", "error", err)
	}
}

func (h *Handler) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "not_found.html", gin.H{"Title": "Not Found"})
}

func (h *Handler) serverError(c *gin.Context, err error) {
	log.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	h.render(c, http.StatusInternalServerError, "error.html", gin.H{"Title": "Error"})
}

// handleError maps engine errors to responses. Anonymous requests are sent to loginURL,
// foreign ones home with forbiddenMsg.
func (h *Handler) handleError(c *gin.Context, err error, loginURL, forbiddenMsg string) {
	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		h.flash(c, session.CategoryDanger, msgLoginFirst)
		h.redirect(c, loginURL)
	case errors.Is(err, access.ErrForbidden):
		h.flash(c, session.CategoryDanger, forbiddenMsg)
		h.redirect(c, "/")
	case errors.Is(err, engine.ErrNotFound):
		h.notFound(c)
	default:
		h.serverError(c, err)
	}
}

func userURL(username string) string {
	return "/users/" + url.PathEscape(username)
}

func parseUintParam(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.ToUint(id)
}

func feedbackURL(id uint) string {
	return "/feedback/" + strconv.FormatUint(uint64(id), 10)
}
