package initialize

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"postboard/backend/app/controllers"
	"postboard/backend/app/db"
	jwtutil "postboard/backend/app/jwt"
	"postboard/backend/app/middleware"
	"postboard/backend/app/repo"
	"postboard/backend/app/services"
	"postboard/backend/app/session"
	"postboard/backend/app/upload"
	"postboard/backend/app/view"
	"postboard/backend/config"
	"postboard/backend/global"
	"postboard/backend/router"
	"postboard/backend/views"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type SessionStore interface {
	session.Store
	controllers.Pinger
}

type App struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Sessions SessionStore
	Users    *services.UserService
	Posts    *services.PostService
	View     *view.Renderer
	Router   http.Handler
}

func Build(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	global.Config = *cfg
	InitLogger(cfg.Log)
	return BuildWith(cfg)
}

// BuildWith wires the app from an already loaded config.
func BuildWith(cfg *config.Config) (*App, error) {
	gdb, err := db.Connect(db.Config{
		Driver:   cfg.DB.Driver,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Pass,
		DBName:   cfg.DB.Name,
		Path:     cfg.DB.Path,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	global.Mdb = gdb
	if err := db.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	renderer, err := newRenderer(cfg.Views)
	if err != nil {
		return nil, fmt.Errorf("load views: %w", err)
	}

	users := services.NewUserService(repo.NewUserRepository(gdb), store)
	posts := services.NewPostService(repo.NewPostRepository(gdb), users)

	signer := &jwtutil.Signer{Secret: []byte(cfg.Secret), Issuer: "postboard", TTL: cfg.Session.TTL}
	cookies := &session.Cookies{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure, TTL: cfg.Session.TTL, Signer: signer}
	uploads := upload.NewStore(cfg.Upload.Dir, cfg.Upload.URLPrefix)
	mw := &middleware.Auth{Sessions: users, Cookies: cookies}

	h := router.NewRouter(router.Controllers{
		Auth:   controllers.NewAuthController(users, cookies, renderer, cfg.Upload.MaxBytes),
		Posts:  controllers.NewPostController(posts, users, cookies, uploads, renderer, cfg.Upload.MaxBytes),
		Health: controllers.NewHealthController(gdb, store),
	}, mw, cfg.Upload.URLPrefix, cfg.Upload.Dir)

	return &App{Cfg: cfg, DB: gdb, Sessions: store, Users: users, Posts: posts, View: renderer, Router: h}, nil
}

// WatchViews reloads templates from disk while ctx is alive, when configured to.
func (a *App) WatchViews(ctx context.Context) error {
	if a.Cfg.Views.Dir == "" || !a.Cfg.Views.Reload {
		return nil
	}
	return a.View.Watch(ctx, a.Cfg.Views.Dir)
}

func (a *App) Close() {
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if global.Rdb != nil {
		_ = global.Rdb.Close()
	}
}

func newSessionStore(cfg *config.Config) (SessionStore, error) {
	switch cfg.Session.Store {
	case "memory":
		return session.NewMemoryStore(cfg.Session.TTL), nil
	case "redis", "":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		store := session.NewRedisStore(rdb, cfg.Session.TTL)
		if err := store.Ping(context.Background()); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		global.Rdb = rdb
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

func newRenderer(cfg config.Views) (*view.Renderer, error) {
	var fsys fs.FS = views.FS
	if cfg.Dir != "" {
		fsys = os.DirFS(cfg.Dir)
	}
	return view.New(fsys)
}
