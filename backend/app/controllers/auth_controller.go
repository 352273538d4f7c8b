package controllers

import (
	"errors"
	"net/http"
	"postboard/backend/app/dto"
	"postboard/backend/app/middleware"
	"postboard/backend/app/services"
	"postboard/backend/app/session"
	"postboard/backend/app/view"
	"postboard/backend/global"
)

var errBadForm = errors.New("Invalid form submission")

type AuthController struct {
	Users          *services.UserService
	Cookies        *session.Cookies
	View           *view.Renderer
	MaxUploadBytes int64
}

func NewAuthController(users *services.UserService, cookies *session.Cookies, v *view.Renderer, maxUploadBytes int64) *AuthController {
	return &AuthController{Users: users, Cookies: cookies, View: v, MaxUploadBytes: maxUploadBytes}
}

func (c *AuthController) SignupForm(w http.ResponseWriter, r *http.Request) {
	render(c.View, w, http.StatusOK, "signup", dto.SignupPage{})
}

// Signup accepts an optional "image" part for form compatibility; it is not stored.
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, c.MaxUploadBytes); err != nil {
		status, msgs := formError(err)
		render(c.View, w, status, "signup", dto.SignupPage{Errors: msgs})
		return
	}
	defer cleanupForm(r)

	page := dto.SignupPage{Username: r.FormValue("username"), Email: r.FormValue("email")}
	_, err := c.Users.Signup(r.Context(), services.SignupParams{
		Username:        page.Username,
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("vpassword"),
		Email:           page.Email,
		Admin:           r.FormValue("Admin") != "",
	})
	if err != nil {
		if errors.Is(err, services.ErrStorage) {
			global.Logger.Error().Err(err).Str("username", page.Username).Msg("signup failed")
		}
		page.Errors = services.UserMessages(err)
		render(c.View, w, statusFor(err), "signup", page)
		return
	}
	http.Redirect(w, r, middleware.HomePath, http.StatusFound)
}

func (c *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	render(c.View, w, http.StatusOK, "login", dto.LoginPage{})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, c.MaxUploadBytes); err != nil {
		status, msgs := formError(err)
		render(c.View, w, status, "login", dto.LoginPage{Errors: msgs})
		return
	}
	defer cleanupForm(r)

	page := dto.LoginPage{Username: r.FormValue("username")}
	sess, err := c.Users.Login(r.Context(), page.Username, r.FormValue("password"))
	if err == nil {
		if err = c.Cookies.Set(w, sess); err != nil {
			_ = c.Users.Logout(r.Context(), sess.ID)
			err = errors.Join(services.ErrStorage, services.ErrLogin, err)
		}
	}
	if err != nil {
		if errors.Is(err, services.ErrStorage) {
			global.Logger.Error().Err(err).Str("username", page.Username).Msg("login failed")
		}
		page.Errors = services.UserMessages(err)
		render(c.View, w, statusFor(err), "login", page)
		return
	}
	global.Logger.Info().Uint("user", sess.UserID).Str("role", string(sess.Role)).Msg("logged in")
	http.Redirect(w, r, middleware.HomePath, http.StatusFound)
}

// Logout never fails from the browser's point of view; a store error only
// changes where the user lands.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	err := c.Users.Logout(r.Context(), c.Cookies.ID(r))
	c.Cookies.Clear(w)
	if err != nil {
		global.Logger.Error().Err(err).Msg("error destroying session")
		http.Redirect(w, r, middleware.HomePath, http.StatusFound)
		return
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}
