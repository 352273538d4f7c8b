package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"postboard/backend/app/dto"
	"postboard/backend/app/models"
	"postboard/backend/config"
	"postboard/backend/initialize"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type board struct {
	t      *testing.T
	app    *initialize.App
	srv    *httptest.Server
	client *http.Client
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Secret:  "test-secret",
		DB:      config.DB{Driver: "sqlite", Path: ":memory:"},
		Session: config.Session{Store: "memory", CookieName: "postboard.sid", TTL: time.Hour},
		Upload:  config.Upload{Dir: t.TempDir(), URLPrefix: "/images", MaxBytes: 1 << 20},
	}
}

func newBoard(t *testing.T) *board {
	t.Helper()
	return newBoardWith(t, testConfig(t))
}

func newBoardWith(t *testing.T, cfg *config.Config) *board {
	t.Helper()
	app, err := initialize.BuildWith(cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})
	return &board{t: t, app: app, srv: srv, client: newClient(t)}
}

func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (b *board) do(c *http.Client, req *http.Request) (*http.Response, string) {
	b.t.Helper()
	resp, err := c.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

func (b *board) get(c *http.Client, path string, accept string) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodGet, b.srv.URL+path, nil)
	require.NoError(b.t, err)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return b.do(c, req)
}

func (b *board) postForm(c *http.Client, path string, form url.Values) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodPost, b.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(c, req)
}

func (b *board) postMultipart(c *http.Client, path string, fields map[string]string, fileName string, file []byte) (*http.Response, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(b.t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("image", fileName)
		require.NoError(b.t, err)
		_, err = fw.Write(file)
		require.NoError(b.t, err)
	}
	require.NoError(b.t, mw.Close())
	req, err := http.NewRequest(http.MethodPost, b.srv.URL+path, &buf)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(c, req)
}

func (b *board) signup(username string, admin bool) {
	b.t.Helper()
	form := url.Values{
		"username":  {username},
		"email":     {username + "@example.com"},
		"password":  {"secret1"},
		"vpassword": {"secret1"},
	}
	if admin {
		form.Set("Admin", "on")
	}
	resp, _ := b.postForm(newClient(b.t), "/signup", form)
	require.Equal(b.t, http.StatusFound, resp.StatusCode)
}

func (b *board) login(c *http.Client, username string) {
	b.t.Helper()
	resp, _ := b.postForm(c, "/login", url.Values{"username": {username}, "password": {"secret1"}})
	require.Equal(b.t, http.StatusFound, resp.StatusCode)
	require.Equal(b.t, "/", resp.Header.Get("Location"))
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	b := newBoard(t)
	for _, path := range []string{"/", "/create"} {
		resp, _ := b.get(b.client, path, "")
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
	resp, _ := b.postForm(b.client, "/create", url.Values{"title": {"t"}, "description": {"d"}})
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestPublicPagesRender(t *testing.T) {
	b := newBoard(t)
	for _, path := range []string{"/signup", "/login"} {
		resp, body := b.get(b.client, path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, body, "<form", path)
	}
}

func TestSignupRedirectsHomeWithoutSession(t *testing.T) {
	b := newBoard(t)
	b.signup("alice", false)

	resp, _ := b.get(b.client, "/", "")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSignupValidationRerendersForm(t *testing.T) {
	b := newBoard(t)
	resp, body := b.postForm(b.client, "/signup", url.Values{
		"username":  {"carol"},
		"email":     {"carol@example.com"},
		"password":  {"abc"},
		"vpassword": {"abd"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Passwords do not match")
	assert.Contains(t, body, "Password must be at least 6 characters")
	assert.Contains(t, body, `value="carol"`)
	assert.NotContains(t, body, "abd")
}

func TestSignupDuplicateShowsGenericError(t *testing.T) {
	b := newBoard(t)
	b.signup("alice", false)

	resp, body := b.postForm(b.client, "/signup", url.Values{
		"username":  {"alice"},
		"email":     {"other@example.com"},
		"password":  {"secret1"},
		"vpassword": {"secret1"},
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Error creating user. Please try again.")
}

func TestLoginFailures(t *testing.T) {
	b := newBoard(t)
	b.signup("alice", false)

	resp, body := b.postForm(b.client, "/login", url.Values{"username": {"alice"}, "password": {"wrong-pw"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid username or password")
	assert.Empty(t, resp.Cookies())

	resp, body = b.postForm(b.client, "/login", url.Values{"username": {""}, "password": {""}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Please enter all fields")
}

func TestUserSeesBoardButCannotCreate(t *testing.T) {
	b := newBoard(t)
	b.signup("alice", false)
	b.login(b.client, "alice")

	resp, body := b.get(b.client, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No posts yet.")
	assert.NotContains(t, body, `href="/create"`)

	resp, _ = b.get(b.client, "/create", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = b.postForm(b.client, "/create", url.Values{"title": {"t"}, "description": {"d"}})
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var n int64
	require.NoError(t, b.app.DB.Model(&models.Post{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAdminCreatesPostWithImage(t *testing.T) {
	b := newBoard(t)
	b.signup("root", true)
	b.login(b.client, "root")

	resp, body := b.get(b.client, "/create", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="title"`)

	png := []byte("\x89PNG fake image")
	resp, _ = b.postMultipart(b.client, "/create", map[string]string{"title": "Hello", "description": "World"}, "Pic.PNG", png)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, body = b.get(b.client, "/", "application/json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.BoardResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.True(t, got.CanCreate)
	require.Len(t, got.Posts, 1)
	assert.Equal(t, "Hello", got.Posts[0].Title)
	assert.Equal(t, "root", got.Posts[0].Author)
	assert.Regexp(t, regexp.MustCompile(`^/images/\d+\.png$`), got.Posts[0].Image)

	resp, body = b.get(newClient(t), got.Posts[0].Image, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(png), body)

	resp, body = b.get(b.client, "/", "")
	assert.Contains(t, body, `href="/create"`)
	assert.Contains(t, body, "by root")
}

func TestCreateValidationKeepsInputAndDropsUpload(t *testing.T) {
	b := newBoard(t)
	b.signup("root", true)
	b.login(b.client, "root")

	resp, body := b.postMultipart(b.client, "/create", map[string]string{"title": "Only title"}, "x.png", []byte("img"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Please enter all fields")
	assert.Contains(t, body, `value="Only title"`)

	entries, err := os.ReadDir(b.app.Cfg.Upload.Dir)
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	b := newBoard(t)
	b.signup("alice", false)
	b.login(b.client, "alice")

	resp, _ := b.get(b.client, "/logout", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = b.get(b.client, "/", "")
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	// logging out again, or without ever logging in, is harmless
	resp, _ = b.get(newClient(t), "/logout", "")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLogoutWithSessionStoreDownGoesHome(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.Session.Store = "redis"
	cfg.Redis.Addr = mr.Addr()
	b := newBoardWith(t, cfg)
	b.signup("alice", false)
	b.login(b.client, "alice")

	mr.Close()

	resp, _ := b.get(b.client, "/logout", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == "postboard.sid" {
			cleared = c.MaxAge < 0 && c.Value == ""
		}
	}
	assert.True(t, cleared, "session cookie not cleared")
}

func TestOversizedUploadIsRejected(t *testing.T) {
	b := newBoard(t)
	b.signup("root", true)
	b.login(b.client, "root")

	big := bytes.Repeat([]byte{0xAB}, int(b.app.Cfg.Upload.MaxBytes)+512<<10)
	resp, body := b.postMultipart(b.client, "/create", map[string]string{"title": "Big", "description": "Too big"}, "big.png", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Contains(t, body, "Upload is too large")

	entries, err := os.ReadDir(b.app.Cfg.Upload.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	var n int64
	require.NoError(t, b.app.DB.Model(&models.Post{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestStolenCookieIsUselessAfterLogout(t *testing.T) {
	b := newBoard(t)
	b.signup("alice", false)
	b.login(b.client, "alice")

	u, err := url.Parse(b.srv.URL)
	require.NoError(t, err)
	stolen := b.client.Jar.Cookies(u)
	require.NotEmpty(t, stolen)

	b.get(b.client, "/logout", "")

	thief := newClient(t)
	thief.Jar.SetCookies(u, stolen)
	resp, _ := b.get(thief, "/", "")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestDeletedUserSessionIsDropped(t *testing.T) {
	b := newBoard(t)
	b.signup("alice", false)
	b.login(b.client, "alice")

	require.NoError(t, b.app.DB.Where("username = ?", "alice").Delete(&models.User{}).Error)

	resp, _ := b.get(b.client, "/", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestHealthz(t *testing.T) {
	b := newBoard(t)
	resp, body := b.get(b.client, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"db":"ok","sessions":"ok"}`, body)
}

func TestUploadsDirIsServedReadOnly(t *testing.T) {
	b := newBoard(t)
	require.NoError(t, os.WriteFile(filepath.Join(b.app.Cfg.Upload.Dir, "1.png"), []byte("x"), 0o644))

	resp, body := b.get(b.client, "/images/1.png", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "x", body)

	resp, _ = b.postForm(b.client, "/images/1.png", url.Values{})
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
