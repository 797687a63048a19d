package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/feedbox/internal/api/models"
	"github.com/jon4hz/feedbox/internal/config"
	"github.com/jon4hz/feedbox/internal/database"
	"github.com/jon4hz/feedbox/internal/engine"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type APITestSuite struct {
	suite.Suite
	db     *database.Client
	server *httptest.Server
}

func (s *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *APITestSuite) SetupTest() {
	path := filepath.Join(s.T().TempDir(), "api.db")
	cfg := &config.Config{
		Listen:        "127.0.0.1:0",
		SessionKey:    "test-secret",
		SessionMaxAge: 3600,
		BcryptCost:    bcrypt.MinCost,
		Database:      &config.DatabaseConfig{Path: path},
		Cache: &config.CacheConfig{
			Type:          config.CacheTypeMemory,
			PurgeInterval: time.Hour,
		},
		Email:    &config.EmailConfig{},
		Gravatar: &config.GravatarConfig{},
	}

	db, err := database.New(path)
	s.Require().NoError(err)
	s.db = db

	e, err := engine.New(cfg, db)
	s.Require().NoError(err)

	srv, err := New(cfg, e)
	s.Require().NoError(err)
	s.server = httptest.NewServer(srv.Handler())
}

func (s *APITestSuite) TearDownTest() {
	s.server.Close()
	_ = s.db.Close()
}

// client returns a browser-like client with its own cookie jar that does not follow redirects.
func (s *APITestSuite) client() *http.Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *APITestSuite) do(c *http.Client, req *http.Request) (*http.Response, string) {
	resp, err := c.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, string(body)
}

func (s *APITestSuite) get(c *http.Client, path string) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodGet, s.server.URL+path, nil)
	s.Require().NoError(err)
	return s.do(c, req)
}

func (s *APITestSuite) post(c *http.Client, path string, form url.Values) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, strings.NewReader(form.Encode()))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(c, req)
}

func (s *APITestSuite) assertRedirect(resp *http.Response, location string) {
	s.Require().Equal(http.StatusFound, resp.StatusCode)
	s.Equal(location, resp.Header.Get("Location"))
}

func registerValues(username string) url.Values {
	return url.Values{
		"username":   {username},
		"password":   {"pw-" + username},
		"email":      {username + "@x.com"},
		"first_name": {"First"},
		"last_name":  {"Last"},
	}
}

// register creates username and returns a client logged in as it.
func (s *APITestSuite) register(username string) *http.Client {
	c := s.client()
	resp, _ := s.post(c, "/register", registerValues(username))
	s.assertRedirect(resp, "/users/"+username)
	return c
}

func (s *APITestSuite) addFeedback(c *http.Client, username, title string) uint {
	resp, _ := s.post(c, "/users/"+username+"/feedback/add", url.Values{
		"title":   {title},
		"content": {title + " content"},
	})
	s.assertRedirect(resp, "/users/"+username)

	list, err := s.db.ListFeedbackByOwner(context.Background(), username)
	s.Require().NoError(err)
	s.Require().NotEmpty(list)
	return list[len(list)-1].ID
}

func (s *APITestSuite) TestHome_RedirectsToRegister() {
	resp, _ := s.get(s.client(), "/")
	s.assertRedirect(resp, "/register")
}

func (s *APITestSuite) TestRegister_ShowsUserPage() {
	c := s.register("alice")

	resp, body := s.get(c, "/users/alice")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Welcome! Your Account has been created!")
	s.Contains(body, "alice@x.com")
	s.Contains(body, "No feedback yet.")

	// flashes are shown once
	_, body = s.get(c, "/users/alice")
	s.NotContains(body, "Welcome! Your Account has been created!")
}

func (s *APITestSuite) TestRegister_Validation() {
	c := s.client()

	values := registerValues("alice")
	values.Del("email")
	resp, body := s.post(c, "/register", values)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "This field is required.")

	values = registerValues(strings.Repeat("a", 21))
	resp, body = s.post(c, "/register", values)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Field cannot be longer than 20 characters.")

	values = registerValues("alice")
	values.Set("email", "not-an-email")
	_, body = s.post(c, "/register", values)
	s.Contains(body, "Invalid email address.")

	stats, err := s.db.GetStats(context.Background())
	s.Require().NoError(err)
	s.Zero(stats.TotalUsers)
}

func (s *APITestSuite) TestRegister_MultiBytePassword() {
	values := registerValues("alice")
	values.Set("password", strings.Repeat("é", 72))
	resp, body := s.post(s.client(), "/register", values)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Field cannot be longer than 72 bytes.")

	stats, err := s.db.GetStats(context.Background())
	s.Require().NoError(err)
	s.Zero(stats.TotalUsers)

	// 36 two-byte runes fill the limit exactly
	c := s.client()
	values.Set("password", strings.Repeat("é", 36))
	resp, _ = s.post(c, "/register", values)
	s.assertRedirect(resp, "/users/alice")

	resp, _ = s.post(s.client(), "/login", url.Values{"username": {"alice"}, "password": {strings.Repeat("é", 36)}})
	s.assertRedirect(resp, "/users/alice")
}

func (s *APITestSuite) TestRegister_UsernameMustBePathSafe() {
	for _, name := range []string{"a/b", "a?b", "a#b", "a%2Fb"} {
		resp, body := s.post(s.client(), "/register", registerValues(name))
		s.Equal(http.StatusOK, resp.StatusCode, name)
		s.Contains(body, "Username may only contain letters, digits, dashes and underscores.", name)
	}

	stats, err := s.db.GetStats(context.Background())
	s.Require().NoError(err)
	s.Zero(stats.TotalUsers)

	c := s.register("bob_the-2nd")
	resp, _ := s.get(c, "/users/bob_the-2nd")
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *APITestSuite) TestRegister_Duplicate() {
	s.register("alice")

	resp, body := s.post(s.client(), "/register", registerValues("alice"))
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Sorry, but this username is taken. Please pick another")
}

func (s *APITestSuite) TestLogin() {
	s.register("alice")
	c := s.client()

	resp, body := s.post(c, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Invalid username/password.")

	resp, body = s.post(c, "/login", url.Values{"username": {"nobody"}, "password": {"pw-alice"}})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Invalid username/password.")

	resp, _ = s.post(c, "/login", url.Values{"username": {"alice"}, "password": {"pw-alice"}})
	s.assertRedirect(resp, "/users/alice")

	resp, body = s.get(c, "/users/alice")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Welcome Back, alice!")
}

func (s *APITestSuite) TestLogout() {
	c := s.register("alice")

	resp, _ := s.get(c, "/logout")
	s.assertRedirect(resp, "/")

	resp, _ = s.get(c, "/users/alice")
	s.assertRedirect(resp, "/")

	_, body := s.get(c, "/register")
	s.Contains(body, "Goodbye!")
	s.Contains(body, "Please login first!")
}

func (s *APITestSuite) TestLogout_WithoutSession() {
	resp, _ := s.get(s.client(), "/logout")
	s.assertRedirect(resp, "/")
}

func (s *APITestSuite) TestShowUser_Forbidden() {
	alice := s.register("alice")
	s.register("bob")

	resp, _ := s.get(alice, "/users/bob")
	s.assertRedirect(resp, "/")
	_, body := s.get(alice, "/register")
	s.Contains(body, "permission to see this account")

	// same answer for a user that does not exist
	resp, _ = s.get(alice, "/users/nobody")
	s.assertRedirect(resp, "/")
}

func (s *APITestSuite) TestShowUser_Anonymous() {
	s.register("alice")

	resp, _ := s.get(s.client(), "/users/alice")
	s.assertRedirect(resp, "/")
}

func (s *APITestSuite) TestAddFeedback() {
	alice := s.register("alice")
	bob := s.register("bob")

	resp, _ := s.get(s.client(), "/users/alice/feedback/add")
	s.assertRedirect(resp, "/login")

	resp, _ = s.get(bob, "/users/alice/feedback/add")
	s.assertRedirect(resp, "/")

	resp, _ = s.get(alice, "/users/nobody/feedback/add")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, body := s.get(alice, "/users/alice/feedback/add")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, `action="/users/alice/feedback/add"`)

	resp, _ = s.post(bob, "/users/alice/feedback/add", url.Values{"title": {"t"}, "content": {"c"}})
	s.assertRedirect(resp, "/")

	s.addFeedback(alice, "alice", "first")

	resp, body = s.get(alice, "/users/alice")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Feedback added!")
	s.Contains(body, "first content")

	_, body = s.get(bob, "/users/bob")
	s.NotContains(body, "first content")
}

func (s *APITestSuite) TestAddFeedback_Validation() {
	alice := s.register("alice")

	resp, body := s.post(alice, "/users/alice/feedback/add", url.Values{
		"title":   {strings.Repeat("t", 101)},
		"content": {"c"},
	})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Field cannot be longer than 100 characters.")

	resp, body = s.post(alice, "/users/alice/feedback/add", url.Values{"title": {"t"}})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "This field is required.")

	list, err := s.db.ListFeedbackByOwner(context.Background(), "alice")
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *APITestSuite) TestUpdateFeedback() {
	alice := s.register("alice")
	bob := s.register("bob")
	id := s.addFeedback(alice, "alice", "old")
	path := "/feedback/" + strconv.FormatUint(uint64(id), 10) + "/update"
	update := url.Values{"title": {"new"}, "content": {"new content"}}

	resp, _ := s.post(s.client(), path, update)
	s.assertRedirect(resp, "/login")

	resp, _ = s.post(bob, path, update)
	s.assertRedirect(resp, "/")

	resp, body := s.get(alice, path)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "old content")

	resp, _ = s.post(alice, path, update)
	s.assertRedirect(resp, "/users/alice")

	fb, err := s.db.GetFeedbackByID(context.Background(), id)
	s.Require().NoError(err)
	s.Equal("new", fb.Title)
	s.Equal("new content", fb.Content)
	s.Equal("alice", fb.Username)
}

func (s *APITestSuite) TestUpdateFeedback_UnknownID() {
	alice := s.register("alice")

	resp, _ := s.get(alice, "/feedback/999/update")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, _ = s.get(alice, "/feedback/abc/update")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, _ = s.get(s.client(), "/feedback/abc/update")
	s.assertRedirect(resp, "/login")
}

func (s *APITestSuite) TestDeleteFeedback() {
	alice := s.register("alice")
	bob := s.register("bob")
	id := s.addFeedback(alice, "alice", "doomed")
	path := "/feedback/" + strconv.FormatUint(uint64(id), 10) + "/delete"

	resp, _ := s.post(s.client(), path, nil)
	s.assertRedirect(resp, "/login")

	resp, _ = s.post(bob, path, nil)
	s.assertRedirect(resp, "/")

	_, err := s.db.GetFeedbackByID(context.Background(), id)
	s.Require().NoError(err)

	resp, _ = s.post(alice, path, nil)
	s.assertRedirect(resp, "/users/alice")

	_, err = s.db.GetFeedbackByID(context.Background(), id)
	s.ErrorIs(err, database.ErrNotFound)

	resp, _ = s.post(alice, path, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *APITestSuite) TestDeleteUser() {
	alice := s.register("alice")
	bob := s.register("bob")
	id := s.addFeedback(alice, "alice", "mine")

	resp, _ := s.post(bob, "/users/alice/delete", nil)
	s.assertRedirect(resp, "/")

	_, err := s.db.GetUserByUsername(context.Background(), "alice")
	s.Require().NoError(err)

	resp, _ = s.post(alice, "/users/alice/delete", nil)
	s.assertRedirect(resp, "/")

	_, err = s.db.GetUserByUsername(context.Background(), "alice")
	s.ErrorIs(err, database.ErrNotFound)
	_, err = s.db.GetFeedbackByID(context.Background(), id)
	s.ErrorIs(err, database.ErrNotFound)

	// the session was cleared with the account
	resp, _ = s.get(alice, "/users/alice")
	s.assertRedirect(resp, "/")

	resp, body := s.post(s.client(), "/login", url.Values{"username": {"alice"}, "password": {"pw-alice"}})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "Invalid username/password.")
}

func (s *APITestSuite) health() (int, models.HealthView) {
	resp, body := s.get(s.client(), "/healthz")
	var health models.HealthView
	s.Require().NoError(json.Unmarshal([]byte(body), &health))
	return resp.StatusCode, health
}

func (s *APITestSuite) TestHealth() {
	status, health := s.health()
	s.Equal(http.StatusOK, status)
	s.Equal("ok", health.Status)
	s.Require().Len(health.Jobs, 1)
	s.Equal("purge_profile_cache", health.Jobs[0].ID)
	s.Equal("scheduled", health.Jobs[0].Status)
	s.Nil(health.Jobs[0].LastRun)

	s.Require().NoError(s.db.Close())
	status, health = s.health()
	s.Equal(http.StatusServiceUnavailable, status)
	s.Equal("unavailable", health.Status)
	s.Len(health.Jobs, 1)
}

func (s *APITestSuite) TestRequestID() {
	resp, _ := s.get(s.client(), "/healthz")
	s.NotEmpty(resp.Header.Get(requestIDHeader))

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/healthz", nil)
	s.Require().NoError(err)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, _ = s.do(s.client(), req)
	s.Equal("abc-123", resp.Header.Get(requestIDHeader))
}

func (s *APITestSuite) TestStaticAndNotFound() {
	resp, body := s.get(s.client(), "/static/style.css")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, ".alert-danger")

	resp, body = s.get(s.client(), "/does/not/exist")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Contains(body, "Not Found")
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
