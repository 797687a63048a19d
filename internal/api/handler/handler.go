package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/feedbox/internal/api/models"
	"github.com/jon4hz/feedbox/internal/auth"
	"github.com/jon4hz/feedbox/internal/config"
	"github.com/jon4hz/feedbox/internal/database"
	"github.com/jon4hz/feedbox/internal/engine"
	"github.com/jon4hz/feedbox/internal/session"
	"golang.org/x/crypto/bcrypt"
)

// Handler serves the feedbox pages.
type Handler struct {
	engine *engine.Engine
	config *config.Config
}

// New creates a new Handler.
func New(eng *engine.Engine, cfg *config.Config) *Handler {
	return &Handler{
		engine: eng,
		config: cfg,
	}
}

// Home sends visitors to the registration page.
func (h *Handler) Home(c *gin.Context) {
	h.redirect(c, "/register")
}

// RegisterForm shows an empty registration form.
func (h *Handler) RegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{
		"Title": "Register",
		"Form":  registerForm{},
	})
}

// Register creates the account and logs the new user in.
func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderRegister(c, form, fieldErrors(err))
		return
	}

	user, err := h.engine.Register(c.Request.Context(), auth.RegisterInput{
		Username:  form.Username,
		Password:  form.Password,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicateUsername):
			h.renderRegister(c, form, map[string]string{"Username": msgUsernameTaken})
			return
		case errors.Is(err, bcrypt.ErrPasswordTooLong):
			h.renderRegister(c, form, map[string]string{"Password": msgPasswordTooLong})
			return
		}
		h.serverError(c, err)
		return
	}

	if err := session.From(c).Establish(user.Username); err != nil {
		h.serverError(c, err)
		return
	}
	h.flash(c, session.CategorySuccess, msgRegistered)
	h.redirect(c, userURL(user.Username))
}

func (h *Handler) renderRegister(c *gin.Context, form registerForm, errs map[string]string) {
	form.Password = ""
	h.render(c, http.StatusOK, "register.html", gin.H{
		"Title":  "Register",
		"Form":   form,
		"Errors": errs,
	})
}

// LoginForm shows an empty login form.
func (h *Handler) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Login",
		"Form":  loginForm{},
	})
}

// Login checks the credentials and starts a session.
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, form, fieldErrors(err))
		return
	}

	user, err := h.engine.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.renderLogin(c, form, map[string]string{"Username": msgInvalidLogin})
			return
		}
		h.serverError(c, err)
		return
	}

	if err := session.From(c).Establish(user.Username); err != nil {
		h.serverError(c, err)
		return
	}
	h.flash(c, session.CategoryPrimary, fmt.Sprintf(msgWelcomeBack, user.Username))
	h.redirect(c, userURL(user.Username))
}

func (h *Handler) renderLogin(c *gin.Context, form loginForm, errs map[string]string) {
	form.Password = ""
	h.render(c, http.StatusOK, "login.html", gin.H{
		"Title":  "Login",
		"Form":   form,
		"Errors": errs,
	})
}

// Logout always succeeds, with or without a session.
func (h *Handler) Logout(c *gin.Context) {
	if err := session.From(c).Clear(); err != nil {
		h.serverError(c, err)
		return
	}
	h.flash(c, session.CategoryInfo, msgGoodbye)
	h.redirect(c, "/")
}

// Health reports whether the database is reachable, along with the background jobs.
func (h *Handler) Health(c *gin.Context) {
	body := models.HealthView{
		Status: healthStatusOK,
		Jobs:   models.ToJobViews(h.engine.Jobs()),
	}
	status := http.StatusOK
	if err := h.engine.Ping(c.Request.Context()); err != nil {
		log.Warn("Health check failed", "error", err)
		body.Status = healthStatusFailing
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, body)
}

// NotFound renders the 404 page for unknown routes.
func (h *Handler) NotFound(c *gin.Context) {
	h.notFound(c)
}
