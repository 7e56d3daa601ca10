package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mistressbot/internal/bot"
	"mistressbot/internal/config"
	"mistressbot/internal/gateway"
	"mistressbot/internal/handler"
	"mistressbot/internal/logger"
	"mistressbot/internal/middleware"
	"mistressbot/internal/scheduler"
	"mistressbot/internal/service"
	"mistressbot/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db open failed", "err", err)
		os.Exit(1)
	}
	st := store.New(db)
	if err := st.Migrate(); err != nil {
		slog.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	aiSvc := service.NewAIService(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	profileSvc := service.NewProfileService(st)
	taskSvc := service.NewTaskService(st)
	personaSvc := service.NewPersonaService(profileSvc, st, aiSvc)
	authSvc := service.NewAuthService(st)

	b := bot.New(profileSvc, taskSvc, personaSvc, st)

	discord, err := gateway.NewDiscord(cfg.Discord.Token, b)
	if err != nil {
		slog.Error("gateway init failed", "err", err)
		os.Exit(1)
	}
	if err := discord.Open(); err != nil {
		slog.Error("gateway connect failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	broadcaster := scheduler.NewBroadcaster(taskSvc, discord, cfg.Discord.ChannelID, cfg.Discord.PostHour)
	go broadcaster.Run(ctx)

	authH := handler.NewAuthHandler(authSvc)
	dashH := handler.NewDashHandler(st)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.POST("/api/login", authH.Login)
	api := r.Group("/api", middleware.JWTAuth())
	api.GET("/dash/:section", dashH.Section)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		slog.Info("admin api starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("admin api failed", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("admin api shutdown failed", "err", err)
	}
	if err := discord.Close(); err != nil {
		slog.Warn("gateway close failed", "err", err)
	}
}
