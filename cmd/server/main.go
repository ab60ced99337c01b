package main

import (
	"context"

	"github.com/campusmatch/campusmatch/internal/app"
	"github.com/campusmatch/campusmatch/internal/cache"
	"github.com/campusmatch/campusmatch/internal/config"
	"github.com/campusmatch/campusmatch/internal/db"
	"github.com/campusmatch/campusmatch/internal/logger"
	"github.com/campusmatch/campusmatch/internal/server"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	srv := server.New(appCtx, cfg)

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.Start(cfg, srv.Routes()); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
