package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingSecret = errors.New("SECRET_KEY is not set")

type HTTP struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DB struct {
	Driver string
	Host   string
	Port   int
	User   string
	Pass   string
	Name   string
	// Path is the sqlite database file, ":memory:" allowed.
	Path string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Session struct {
	// Store is "redis" or "memory".
	Store      string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

type Upload struct {
	Dir       string
	URLPrefix string
	MaxBytes  int64
}

type Views struct {
	Dir    string
	Reload bool
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	Env     string
	Secret  string
	HTTP    HTTP
	DB      DB
	Redis   Redis
	Session Session
	Upload  Upload
	Views   Views
	Log     Log
}

func (c Config) Production() bool { return c.Env == "production" }

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port) }

func Load(path string) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env != "production" {
		// .env is optional outside production
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetEnvPrefix("postboard")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "root")
	v.SetDefault("db.pass", "")
	v.SetDefault("db.name", "postboard")
	v.SetDefault("db.path", "postboard.db")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("session.store", "redis")
	v.SetDefault("session.cookie_name", "postboard.sid")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.secure", false)
	v.SetDefault("upload.dir", "public/images")
	v.SetDefault("upload.url_prefix", "/images")
	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("views.dir", "")
	v.SetDefault("views.reload", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Env:    v.GetString("app.env"),
		Secret: os.Getenv("SECRET_KEY"),
		HTTP: HTTP{
			Host:         v.GetString("http.host"),
			Port:         v.GetInt("http.port"),
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
		},
		DB: DB{
			Driver: v.GetString("db.driver"),
			Host:   v.GetString("db.host"),
			Port:   v.GetInt("db.port"),
			User:   v.GetString("db.user"),
			Pass:   v.GetString("db.pass"),
			Name:   v.GetString("db.name"),
			Path:   v.GetString("db.path"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Session: Session{
			Store:      v.GetString("session.store"),
			CookieName: v.GetString("session.cookie_name"),
			TTL:        v.GetDuration("session.ttl"),
			Secure:     v.GetBool("session.secure"),
		},
		Upload: Upload{
			Dir:       v.GetString("upload.dir"),
			URLPrefix: strings.TrimRight(v.GetString("upload.url_prefix"), "/"),
			MaxBytes:  v.GetInt64("upload.max_bytes"),
		},
		Views: Views{
			Dir:    v.GetString("views.dir"),
			Reload: v.GetBool("views.reload"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	if env != "" {
		cfg.Env = env
	}
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "postboard.sid"
	}
	if cfg.Upload.URLPrefix == "" {
		cfg.Upload.URLPrefix = "/images"
	}
	return cfg, nil
}
