package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Freeeeeet/course_app/internal/app"
	"github.com/Freeeeeet/course_app/internal/auth"
	"github.com/Freeeeeet/course_app/internal/config"
	"github.com/Freeeeeet/course_app/internal/controller/httpapi"
	"github.com/Freeeeeet/course_app/internal/controller/telegram"
	"github.com/Freeeeeet/course_app/internal/delivery"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, "server")
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting course app",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.Storage),
		zap.String("email_provider", cfg.EmailProvider),
	)

	storage, err := app.OpenStorage(ctx, cfg, logger.Named("storage"))
	if err != nil {
		return err
	}
	defer storage.Close()

	if cfg.MigrationsAuto {
		if err := storage.Migrate(ctx); err != nil {
			return err
		}
	}

	delivery.SetBaseURL(cfg.AppBaseURL)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	channels := []delivery.Channel{app.NewEmailChannel(cfg, logger)}

	var tgBot *bot.Bot
	if cfg.TelegramToken != "" {
		tgBot, err = bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}
		channels = append(channels, delivery.NewTelegramChannel(tgBot))
	}

	outbox := app.NewOutbox(channels, cfg.OutboxWorkers, cfg.OutboxBuffer, logger.Named("outbox"))
	services := app.NewServices(storage.Repos, outbox, cfg, logger)

	botName := ""
	if tgBot != nil {
		controller := telegram.NewBotController(tgBot, services.Users, tokens, logger)
		if err := controller.RegisterHandlers(ctx, tgBot); err != nil {
			logger.Warn("Telegram commands not registered", zap.Error(err))
		}
		if me, err := tgBot.GetMe(ctx); err == nil {
			botName = me.Username
		}
	}

	server := httpapi.NewServer(&httpapi.Options{
		Address:       cfg.HTTPAddr,
		Production:    cfg.IsProduction(),
		CORSOrigins:   cfg.CORSOrigins,
		SessionSecret: cfg.SessionSecret,
		TelegramBot:   botName,
		Tokens:        tokens,
		Services:      services,
		Logger:        logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	outbox.Start(gctx)
	g.Go(server.Start)
	if tgBot != nil {
		g.Go(func() error {
			logger.Info("Starting telegram bot")
			tgBot.Start(gctx)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := server.Stop(shutdownCtx)
		outbox.Stop()
		return err
	})

	return g.Wait()
}
