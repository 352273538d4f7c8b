package session

import (
	"net/http"
	jwtutil "postboard/backend/app/jwt"
	"time"
)

// Cookies carries the session id to the browser in a signed cookie.
type Cookies struct {
	Name   string
	Secure bool
	TTL    time.Duration
	Signer *jwtutil.Signer
}

func (c *Cookies) Set(w http.ResponseWriter, s *Session) error {
	value, err := c.Signer.Sign(s.ID)
	if err != nil {
		return err
	}
	cookie := &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if c.TTL > 0 {
		cookie.Expires = time.Now().Add(c.TTL)
		cookie.MaxAge = int(c.TTL / time.Second)
	}
	http.SetCookie(w, cookie)
	return nil
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

// ID returns the session id from a verified cookie, or "" when the cookie
// is missing or fails verification.
func (c *Cookies) ID(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil || cookie.Value == "" {
		return ""
	}
	claims, err := c.Signer.Parse(cookie.Value)
	if err != nil {
		return ""
	}
	return claims.SessionID
}
