package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditimpl "github.com/foxseedlab/chanpost/external/audit"
	configloader "github.com/foxseedlab/chanpost/external/config"
	repositoryimpl "github.com/foxseedlab/chanpost/external/repository"
	telegramimpl "github.com/foxseedlab/chanpost/external/telegram"
	"github.com/foxseedlab/chanpost/internal/bot"
	"github.com/foxseedlab/chanpost/internal/config"
	"github.com/foxseedlab/chanpost/internal/publish"
	"github.com/foxseedlab/chanpost/internal/roster"
	"github.com/foxseedlab/chanpost/internal/session"
	"github.com/foxseedlab/chanpost/internal/telegram"
	"github.com/samber/do/v2"
)

const telegramConnectTimeout = 20 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "premium_footer", cfg.PremiumFooterEnabled())

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching telegram bot")
	runBot(injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	telegramimpl.RegisterDI(injector)
	auditimpl.RegisterDI(injector)
	session.RegisterDI(injector)
	roster.RegisterDI(injector)
	publish.RegisterDI(injector)
	bot.RegisterDI(injector)

	return injector
}

func runBot(injector do.Injector) {
	tg, err := do.Invoke[telegram.Client](injector)
	if err != nil {
		slog.Error("failed to resolve telegram client", "error", err)
		os.Exit(1)
	}
	manager, err := do.Invoke[*bot.Manager](injector)
	if err != nil {
		slog.Error("failed to resolve bot manager", "error", err)
		os.Exit(1)
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), telegramConnectTimeout)
	defer cancelConnect()

	slog.Info("startup: connecting to telegram bot api")
	if err := tg.Connect(connectCtx); err != nil {
		slog.Error("telegram connect failed", "error", err)
		os.Exit(1)
	}
	slog.Info("startup: telegram connected")

	if err := tg.RegisterCommands(connectCtx, bot.CommandDefinitions()); err != nil {
		slog.Error("failed to register bot commands", "error", err)
		os.Exit(1)
	}

	manager.Register()
	slog.Info("telegram handlers registered", "commands", []string{"start", "info"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		slog.Info("startup: entering telegram polling loop")
		if err := tg.Run(ctx); err != nil {
			slog.Error("telegram run failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
		cancel()
		<-done
	case <-done:
	}
}
