package middleware

import (
	"context"
	"errors"
	"net/http"
	"postboard/backend/app/services"
	"postboard/backend/app/session"
	"postboard/backend/global"
)

type ctxKey int

const SessionKey ctxKey = 1

const (
	LoginPath = "/login"
	HomePath  = "/"
)

type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*session.Session, error)
}

type Auth struct {
	Sessions SessionResolver
	Cookies  *session.Cookies
}

// RequireSession lets the request through only with a live session; anything
// else, including a session store failure, ends in a redirect to the login page.
func (a *Auth) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := a.Sessions.Resolve(r.Context(), a.Cookies.ID(r))
		if err != nil || !sess.Authenticated() {
			if err != nil && !errors.Is(err, services.ErrUnauthorized) {
				global.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("session lookup failed")
			}
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), SessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin additionally requires the ADMIN role; other sessions go back home.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return a.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetSession(r.Context()).IsAdmin() {
			http.Redirect(w, r, HomePath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
