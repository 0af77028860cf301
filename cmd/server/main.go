package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tavolo/internal/api"
	"tavolo/internal/availability"
	"tavolo/internal/booking"
	"tavolo/internal/catalog"
	"tavolo/internal/config"
	"tavolo/internal/database"
	"tavolo/internal/events"
	"tavolo/internal/export"
	"tavolo/internal/metrics"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("TAVOLO_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed the catalog tables from the fixtures file, then load the
	// in-memory snapshot the engine serves from.
	if restCfg, err := config.LoadRestaurantsConfig(cfg.RestaurantsConfigPath); err != nil {
		logger.Error().Err(err).Msg("failed to load restaurants config")
	} else {
		restaurants, tables := restCfg.Models(cfg.Booking.SlotMinutes, cfg.Booking.StepMinutes)
		for i := range restaurants {
			if err := db.UpsertRestaurant(ctx, &restaurants[i]); err != nil {
				logger.Error().Err(err).Int64("restaurant_id", restaurants[i].ID).Msg("failed to sync restaurant")
			}
		}
		for i := range tables {
			if err := db.UpsertTable(ctx, &tables[i]); err != nil {
				logger.Error().Err(err).Int64("table_id", tables[i].ID).Msg("failed to sync table")
			}
		}
	}

	cat := catalog.New(&logger)
	if err := cat.Reload(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to load catalog")
	}

	bus := events.NewEventBus()
	for _, eventType := range []string{booking.EventCreated, booking.EventStatusChanged, booking.EventDeleted} {
		et := eventType
		bus.Subscribe(et, func(e events.Event) error {
			logger.Debug().Str("event", et).RawJSON("payload", e.Payload).Msg("reservation event")
			return nil
		})
	}

	assigner := catalog.SmallestFit{Catalog: cat}
	bookings := booking.NewService(db, cat, assigner, bus, &logger)
	composer := availability.NewComposer(cat, db, assigner, &logger)
	daybook := export.NewDaybook(cat, db)

	if cfg.Backup.Enabled {
		go db.RunBackups(ctx, database.BackupOptions{
			Dir:           cfg.Backup.Dir,
			Interval:      time.Duration(cfg.Backup.IntervalHours) * time.Hour,
			RetentionDays: cfg.Backup.RetentionDays,
		})
	}

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	server := api.NewHTTPServer(cfg.Server.Address, bookings, composer, daybook, &logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	logger.Info().Str("address", cfg.Server.Address).Msg("reservation engine started")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("server stopped")
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Int("port", port).Msg("metrics server started")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
