// Command api runs the lost/found listings HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lostpaws_backend/internal/events"
	apphttp "lostpaws_backend/internal/http"
	"lostpaws_backend/internal/http/router"
	"lostpaws_backend/internal/listings"
	listingrepo "lostpaws_backend/internal/listings/repository"
	"lostpaws_backend/internal/profiles"
	"lostpaws_backend/platform/config"
	"lostpaws_backend/platform/db"
	"lostpaws_backend/platform/logger"
	"lostpaws_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger depends on config, so this one failure goes to stderr raw.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := withRetry(ctx, log, "run migrations", func() error {
		return db.RunMigrations(ctx, cfg, migrationsDir)
	}); err != nil {
		return err
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("database pool ready")

	bus := events.NewInMemoryBus(log)
	subscribeAuditLog(bus, log)

	val := validator.New()

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: bus,
		Modules: []apphttp.Module{
			listings.NewModule(listingrepo.NewPostgresListingRepository(pool), val, bus, log),
			profiles.NewModule(pool),
		},
	}

	engine := router.New(app)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// withRetry retries a startup step a few times so the API survives the
// database coming up slightly later, as happens under compose.
func withRetry(ctx context.Context, log *logger.Logger, name string, fn func() error) error {
	const attempts = 5

	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		log.Warn("startup step failed", "step", name, "attempt", i, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i) * time.Second):
		}
	}
	return err
}

// subscribeAuditLog writes an audit line for every listing lifecycle event.
func subscribeAuditLog(bus events.Bus, log *logger.Logger) {
	audit := events.HandlerFunc(func(_ context.Context, event events.Event) error {
		log.Info("audit",
			"event", event.EventName(),
			"occurredAt", event.OccurredAt().UTC().Format(time.RFC3339),
		)
		return nil
	})

	bus.Subscribe(events.ListingCreated{}.EventName(), audit)
	bus.Subscribe(events.ListingResolved{}.EventName(), audit)
	bus.Subscribe(events.ListingDeleted{}.EventName(), audit)
}
