package router

import (
	"net/http"
	"postboard/backend/app/controllers"
	"postboard/backend/app/middleware"
)

type Controllers struct {
	Auth   *controllers.AuthController
	Posts  *controllers.PostController
	Health *controllers.HealthController
}

// NewRouter mounts the board routes. imagesDir is served read-only under imagesPrefix.
func NewRouter(c Controllers, mw *middleware.Auth, imagesPrefix, imagesDir string) http.Handler {
	mux := http.NewServeMux()

	// public
	mux.HandleFunc("GET /signup", c.Auth.SignupForm)
	mux.HandleFunc("POST /signup", c.Auth.Signup)
	mux.HandleFunc("GET /login", c.Auth.LoginForm)
	mux.HandleFunc("POST /login", c.Auth.Login)
	mux.HandleFunc("GET /logout", c.Auth.Logout)
	mux.HandleFunc("GET /healthz", c.Health.Healthz)
	mux.Handle("GET "+imagesPrefix+"/", http.StripPrefix(imagesPrefix, http.FileServer(http.Dir(imagesDir))))

	// session required
	mux.Handle("GET /{$}", mw.RequireSession(http.HandlerFunc(c.Posts.Index)))

	// admin only
	mux.Handle("GET /create", mw.RequireAdmin(http.HandlerFunc(c.Posts.CreateForm)))
	mux.Handle("POST /create", mw.RequireAdmin(http.HandlerFunc(c.Posts.Create)))

	return middleware.Recover(middleware.Logging(mux))
}
