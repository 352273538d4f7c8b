package controllers

import (
	"context"
	"net/http"
	"postboard/backend/global"
	"time"

	"gorm.io/gorm"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	DB       *gorm.DB
	Sessions Pinger
}

func NewHealthController(db *gorm.DB, sessions Pinger) *HealthController {
	return &HealthController{DB: db, Sessions: sessions}
}

func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"db": "ok", "sessions": "ok"}
	code := http.StatusOK
	if sqlDB, err := c.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status["db"] = "down"
		code = http.StatusServiceUnavailable
	}
	if c.Sessions != nil {
		if err := c.Sessions.Ping(ctx); err != nil {
			global.Logger.Warn().Err(err).Msg("session store ping failed")
			status["sessions"] = "down"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, status)
}
