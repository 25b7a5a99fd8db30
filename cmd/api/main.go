package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oyilmaz/ratehub/internal/api"
	"github.com/oyilmaz/ratehub/internal/auth"
	"github.com/oyilmaz/ratehub/internal/config"
	"github.com/oyilmaz/ratehub/internal/db"
	"github.com/oyilmaz/ratehub/internal/logger"
	"github.com/oyilmaz/ratehub/internal/mail"
	"github.com/oyilmaz/ratehub/internal/metrics"
	"github.com/oyilmaz/ratehub/internal/repository/postgres"
	"github.com/oyilmaz/ratehub/internal/services"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	var mailer mail.Mailer
	if cfg.SMTPAddr != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)
	} else {
		mailer = &mail.LogMailer{Log: log}
	}

	authSvc := services.NewAuthService(repos.Users, mailer, tm, cfg, log)
	userSvc := services.NewUserService(repos.Users, cfg)
	catalogSvc := services.NewCatalogService(repos.Categories, repos.Genres, repos.Titles, repos.Reviews)
	reviewSvc := services.NewReviewService(repos.Reviews, repos.Titles, log)
	commentSvc := services.NewCommentService(repos.Comments, repos.Reviews, repos.Titles, log)

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:        cfg,
		TM:         tm,
		AuthSvc:    authSvc,
		UserSvc:    userSvc,
		CatalogSvc: catalogSvc,
		ReviewSvc:  reviewSvc,
		CommentSvc: commentSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
