package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"

	"github.com/Spok95/vip-drama-bot/internal/bot"
	"github.com/Spok95/vip-drama-bot/internal/config"
	"github.com/Spok95/vip-drama-bot/internal/dialog"
	"github.com/Spok95/vip-drama-bot/internal/domain/access"
	"github.com/Spok95/vip-drama-bot/internal/domain/billing"
	"github.com/Spok95/vip-drama-bot/internal/domain/catalog"
	"github.com/Spok95/vip-drama-bot/internal/domain/members"
	"github.com/Spok95/vip-drama-bot/internal/domain/quota"
	"github.com/Spok95/vip-drama-bot/internal/domain/subscriptions"
	"github.com/Spok95/vip-drama-bot/internal/infra/db"
	"github.com/Spok95/vip-drama-bot/internal/infra/dedup"
	httpx "github.com/Spok95/vip-drama-bot/internal/infra/http"
	"github.com/Spok95/vip-drama-bot/internal/infra/logger"
	"github.com/Spok95/vip-drama-bot/internal/infra/payments"
	"github.com/Spok95/vip-drama-bot/internal/infra/records"
	"github.com/Spok95/vip-drama-bot/internal/infra/records/postgres"
	"github.com/Spok95/vip-drama-bot/internal/infra/records/workbook"
)

func openBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (records.Backend, io.Closer, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		if cfg.Postgres.Migrate {
			if err := db.Migrate(cfg.Postgres.DSN); err != nil {
				return nil, nil, fmt.Errorf("migrations: %w", err)
			}
			log.Info("migrations applied")
		}
		b, err := postgres.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		return b, closerFunc(func() error { b.Close(); return nil }), nil
	case config.BackendWorkbook:
		b, err := workbook.Open(cfg.Store.WorkbookPath)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil
	default:
		log.Warn("in-memory store: data is lost on restart")
		return records.NewMemory(), closerFunc(func() error { return nil }), nil
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func openDeduper(ctx context.Context, cfg config.Config, log *slog.Logger) (billing.Deduper, func()) {
	if cfg.Redis.Addr == "" {
		log.Warn("redis not configured, payment dedup is per-process")
		return dedup.NewMemory(cfg.Redis.DedupTTL), func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("redis ping failed", "addr", cfg.Redis.Addr, "err", err)
	}
	return dedup.NewRedis(rdb, "", cfg.Redis.DedupTTL), func() { _ = rdb.Close() }
}

func packagesFrom(cfg config.Config) billing.Packages {
	if len(cfg.Payments.Packages) == 0 {
		return billing.DefaultPackages()
	}
	out := make(billing.Packages, len(cfg.Payments.Packages))
	for id, p := range cfg.Payments.Packages {
		out[id] = billing.Package{ID: id, Title: p.Title, Days: p.Days, Price: p.Price, URL: p.URL}
	}
	return out
}

func main() {
	path := flag.String("config", os.Getenv("APP_CONFIG"), "path to YAML config")
	flag.Parse()
	if *path == "" {
		*path = "config/example.yaml"
	}

	cfg, err := config.Load(*path)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)
	loc, err := cfg.Location()
	if err != nil {
		log.Error("bad timezone", "err", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, closer, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Error("store open failed", "backend", cfg.Store.Backend, "err", err)
		return
	}
	defer func() { _ = closer.Close() }()
	log.Info("store ready", "backend", cfg.Store.Backend)

	store := records.New(backend, records.Options{
		Attempts:       cfg.Store.Attempts,
		Backoff:        cfg.Store.Backoff,
		AttemptTimeout: cfg.Store.AttemptTimeout,
	}, log)

	clock := members.Clock{Loc: loc, Now: time.Now}
	membersRepo := members.NewRepo(store, clock, cfg.Quota.DailyCap)
	subs := subscriptions.NewEngine(membersRepo)
	packages := packagesFrom(cfg)
	ctl := access.NewController(membersRepo, quota.NewEngine(membersRepo), subs,
		catalog.NewResolver(store), packages, cfg.Payments.IdentityDomain, log)

	deduper, closeDedup := openDeduper(ctx, cfg, log)
	defer closeDedup()
	reconciler := billing.NewReconciler(subs, packages, cfg.Payments.IdentityDomain, deduper, log)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		return
	}
	log.Info("telegram authorized", "bot", api.Self.UserName)

	b := bot.New(api, log, ctl, subs, dialog.NewRepo(store), cfg.Telegram.AdminChatID)
	reconciler.SetNotifier(b)

	webhook := payments.NewHandler(log, payments.NewVerifier(cfg.Payments.WebhookSecret), reconciler)
	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, webhook)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	if err := b.Run(ctx, cfg.Telegram.PollTimeout); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
