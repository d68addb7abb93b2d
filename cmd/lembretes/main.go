// Command lembretes is the interactive client for the reminders and saved
// items service.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Fernando9200/sistema-lembretes/internal/app"
	"github.com/Fernando9200/sistema-lembretes/internal/cli"
	"github.com/Fernando9200/sistema-lembretes/internal/config"
	"github.com/Fernando9200/sistema-lembretes/internal/identity"
	"github.com/Fernando9200/sistema-lembretes/internal/limiter"
	"github.com/Fernando9200/sistema-lembretes/internal/migrate"
	"github.com/Fernando9200/sistema-lembretes/internal/repository/postgres"
	"github.com/Fernando9200/sistema-lembretes/internal/session"
	"github.com/Fernando9200/sistema-lembretes/internal/upload"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations and starts the REPL.
func main() {
	cfgPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	logger := buildLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.Postgres.DSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("connecting to postgres", zap.Error(err))
	}
	defer db.Close()

	users := postgres.NewUserRepo(db)
	tokens := postgres.NewTokenRepo(db)
	docs := postgres.NewDocumentRepo(db)
	lim := limiter.NewPG(db.Pool, 15*time.Minute, 10, 15*time.Minute)

	src, _ := os.Hostname()
	provider := identity.NewAuthProvider(users, tokens, lim, src,
		[]byte(cfg.Identity.JWTKey), cfg.Identity.AccessTTL, cfg.Identity.RefreshTTL)
	gate := session.New(provider, logger.Named("session"))

	var uploader upload.Uploader = upload.Disabled{}
	if cfg.S3.Bucket != "" {
		uploader, err = upload.NewS3(ctx, upload.S3Config{
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			logger.Fatal("configuring file storage", zap.Error(err))
		}
	}

	core := app.New(gate, docs, uploader, cfg.Autosave.QuietPeriod, logger.Named("app"))
	core.Start(ctx)

	cli.New(core, provider, os.Stdin, os.Stdout, logger.Named("cli")).Run(ctx)

	// The REPL is done; push out anything still pending before the
	// schedulers die with ctx.
	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	core.Flush(flushCtx)
	stop()
}

func buildLogger(level string) *zap.Logger {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
