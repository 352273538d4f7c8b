package session

import (
	"net/http"
	"net/http/httptest"
	jwtutil "postboard/backend/app/jwt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCookies(secret string) *Cookies {
	return &Cookies{
		Name:   "postboard.sid",
		TTL:    time.Hour,
		Signer: &jwtutil.Signer{Secret: []byte(secret), Issuer: "postboard", TTL: time.Hour},
	}
}

func TestCookieRoundTrip(t *testing.T) {
	c := testCookies("k")
	rec := httptest.NewRecorder()
	require.NoError(t, c.Set(rec, &Session{ID: "sid-1", UserID: 1}))

	resp := rec.Result()
	require.Len(t, resp.Cookies(), 1)
	set := resp.Cookies()[0]
	assert.True(t, set.HttpOnly)
	assert.Equal(t, "/", set.Path)
	assert.NotEqual(t, "sid-1", set.Value, "cookie value is signed")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(set)
	assert.Equal(t, "sid-1", c.ID(req))
}

func TestCookieForgedOrMissing(t *testing.T) {
	c := testCookies("k")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, c.ID(req))

	rec := httptest.NewRecorder()
	require.NoError(t, testCookies("other").Set(rec, &Session{ID: "sid-1"}))
	req.AddCookie(rec.Result().Cookies()[0])
	assert.Empty(t, c.ID(req))

	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	plain.AddCookie(&http.Cookie{Name: "postboard.sid", Value: "sid-1"})
	assert.Empty(t, c.ID(plain))
}

func TestCookieClear(t *testing.T) {
	rec := httptest.NewRecorder()
	testCookies("k").Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "postboard.sid", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
