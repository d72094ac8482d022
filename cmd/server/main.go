package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soaringjerry/Mindtrack/internal/api"
	"github.com/soaringjerry/Mindtrack/internal/config"
	"github.com/soaringjerry/Mindtrack/internal/db"
	"github.com/soaringjerry/Mindtrack/internal/logging"
	"github.com/soaringjerry/Mindtrack/internal/services"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "apply database migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *migrateOnly {
		if err := migrate(ctx, cfg, logger); err != nil {
			logger.Fatalf("migrate: %v", err)
		}
		return
	}
	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalf("server: %v", err)
	}
}

func storeOptions(cfg *config.Config) db.Options {
	return db.Options{
		Backend:       cfg.Backend,
		SQLitePath:    cfg.SQLitePath,
		PostgresDSN:   cfg.PostgresDSN,
		MigrationsDir: cfg.MigrationsDir,
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logging.ZapLogger) error {
	store, err := db.Open(ctx, storeOptions(cfg), logger.Named("store"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warnf("close store: %v", cerr)
		}
	}()

	catalog := services.DefaultCatalog()
	scale, err := services.NewMoodScale(cfg.MoodPoints)
	if err != nil {
		return err
	}
	reminderLog := logger.Named("reminders")
	reminders := services.NewReminderService(store, services.NewLogNotifier(reminderLog, cfg.Locale), reminderLog, cfg.Location)

	router := api.NewRouter(api.Deps{
		Assessments:   services.NewAssessmentService(store, catalog),
		Moods:         services.NewMoodService(store, scale),
		Activities:    services.NewActivityService(store),
		Schedules:     services.NewScheduleService(store, catalog, cfg.Location),
		Reminders:     reminders,
		Location:      cfg.Location,
		Log:           logger.Named("http"),
		CORSOrigins:   cfg.CORSOrigins,
		DefaultLocale: cfg.Locale,
		Commit:        cfg.Commit,
		BuildTime:     cfg.BuildTime,
	})

	sweeper, err := startSweeper(cfg.SweepSpec, cfg.Location, reminders, logger.Named("sweeper"))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Mindtrack server listening on %s (store=%s, tz=%s)", cfg.Addr, cfg.Backend, cfg.Location)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Infof("shutting down")
	case err := <-errCh:
		<-sweeper.Stop().Done()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	<-sweeper.Stop().Done()
	return srv.Shutdown(shutdownCtx)
}
