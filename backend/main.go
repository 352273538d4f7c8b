package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"postboard/backend/config"
	"postboard/backend/global"
	"postboard/backend/initialize"
	"postboard/backend/server"
	"syscall"
	"time"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	initialize.InitLogger(config.Log{Level: "info"})
	app, err := initialize.Build(*configPath)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("startup failed")
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.WatchViews(ctx); err != nil {
		global.Logger.Warn().Err(err).Msg("template watch disabled")
	}

	srv := server.NewHTTPServer(app.Cfg.Addr(), app.Router, app.Cfg.HTTP.ReadTimeout, app.Cfg.HTTP.WriteTimeout)
	if err := server.Run(ctx, srv, 10*time.Second); err != nil {
		global.Logger.Error().Err(err).Msg("http server stopped")
		os.Exit(1)
	}
}
