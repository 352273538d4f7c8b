package middleware

import (
	"context"
	"postboard/backend/app/session"
)

func GetSession(ctx context.Context) *session.Session {
	if v := ctx.Value(SessionKey); v != nil {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}
