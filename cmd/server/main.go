package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	httpapi "block-battle/internal/api/http"
	"block-battle/internal/api/ws"
	"block-battle/internal/config"
	"block-battle/internal/logger"
	"block-battle/internal/room"
	"block-battle/internal/session"
	"block-battle/internal/store"

	_ "block-battle/docs"
)

// @title Block Battle Server API
// @version 1.0
// @description Authoritative server for two-player falling-block battles. Gameplay runs over the /ws websocket; HTTP carries health, stats and docs.
// @contact.name Block Battle Maintainers
// @BasePath /
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	reg := session.NewRegistry()
	rooms := store.NewMemoryStore()
	manager := room.NewManager(rooms, reg, rng, log)
	hub := ws.NewHub(manager, reg, rng, cfg, log)
	go hub.Run(ctx)

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.StatsCron, hub.Heartbeat); err != nil {
		log.Fatal("invalid stats schedule", zap.String("spec", cfg.StatsCron), zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	router := httpapi.NewRouter(hub, cfg, log)
	log.Info("listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("env", cfg.Env))
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
