package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/acplabs/merchant-core/internal/catalog"
	"github.com/acplabs/merchant-core/internal/events"
	"github.com/acplabs/merchant-core/internal/gateway"
	"github.com/acplabs/merchant-core/internal/ledger"
	"github.com/acplabs/merchant-core/internal/session"
	"github.com/acplabs/merchant-core/internal/tools"
	"github.com/acplabs/merchant-core/pkg/config"
	"github.com/acplabs/merchant-core/pkg/logger"
	"github.com/acplabs/merchant-core/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "merchantd",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cat := catalog.Load(cfg.CatalogPath, log)
	led := ledger.Open(cfg.LedgerPath, log)

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub := events.NewKafka(cfg.KafkaBrokers...)
		defer kafkaPub.Close()
		pub = kafkaPub
	}

	sessions, err := session.New(session.Config{
		Backend:   cfg.SessionBackend,
		RedisAddr: cfg.RedisAddr,
		TTL:       cfg.SessionTTL,
	})
	if err != nil {
		log.Error("session store init failed", "backend", cfg.SessionBackend, "err", err)
		os.Exit(1)
	}
	defer sessions.Close()

	registry := tools.NewRegistry(cat, led, sessions, pub, log)
	h := gateway.New(cat, led, registry, pub, log)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Mount("/", h.Routes())

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "merchant-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("merchant API starting",
			"port", cfg.HTTPPort,
			"catalog_products", cat.Len(),
			"tools", len(registry.Names()),
			"ledger_path", led.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelShutdown()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
	log.Info("server exited")
}
