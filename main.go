package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fiskryeziu/hotdrop/configs"
	"github.com/fiskryeziu/hotdrop/middlewares"
	"github.com/fiskryeziu/hotdrop/pkg/logger"
	"github.com/fiskryeziu/hotdrop/routes"
	"github.com/fiskryeziu/hotdrop/ws"
)

func main() {
	cfg := configs.LoadConfig()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zlog.Sync()

	// DB
	db, err := configs.ConnectDB(cfg.DBSource)
	if err != nil {
		zlog.Fatal("connect database failed", zap.Error(err))
	}
	if err := configs.SetupDatabase(db); err != nil {
		zlog.Fatal("migrate failed", zap.Error(err))
	}
	if err := configs.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		zlog.Fatal("seed admin failed", zap.Error(err))
	}
	if err := configs.SeedCatalog(db); err != nil {
		zlog.Fatal("seed catalog failed", zap.Error(err))
	}

	// Realtime core: registry, presence cache, router. Built once here
	// and handed down by reference; they hold no durable state and come
	// back empty on restart.
	hub := ws.NewHub(zlog)
	presence := ws.NewLocationCache()
	router := ws.NewRouter(hub, presence, ws.DefaultNotifyPolicy(), zlog)

	// HTTP
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())
	routes.RegisterRoutes(r, db, cfg, hub, router, zlog)

	addr := ":" + cfg.Port
	zlog.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
