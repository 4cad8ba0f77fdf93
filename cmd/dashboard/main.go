package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/roadpulse/fleetsim/internal/adapters/fixtures"
	"github.com/roadpulse/fleetsim/internal/adapters/http"
	"github.com/roadpulse/fleetsim/internal/core/usecases"
	"github.com/roadpulse/fleetsim/internal/pkg/config"
	"github.com/roadpulse/fleetsim/internal/pkg/logging"
	"github.com/roadpulse/fleetsim/internal/pkg/metrics"
	"github.com/roadpulse/fleetsim/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("fleetsim-dashboard")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					slog.Error("tracer shutdown", "error", err)
				}
			}()
		}
	}

	// Fixture fleet
	loader := fixtures.NewLoader(cfg.Data.Dir, cfg.Data.Datasets, logger)
	fleet, err := loader.LoadFleet(ctx)
	if err != nil {
		slog.Warn("some datasets failed to load", "error", err)
	}
	configured := len(cfg.Data.Datasets)
	if configured == 0 {
		configured = len(fixtures.DefaultDatasets)
	}
	metrics.DatasetsLoaded.WithLabelValues("ok").Add(float64(len(fleet.Trips)))
	metrics.DatasetsLoaded.WithLabelValues("failed").Add(float64(configured - len(fleet.Trips)))
	if len(fleet.Trips) == 0 {
		log.Fatalf("no trips loaded from %s", cfg.Data.Dir)
	}
	slog.Info("fleet loaded", "trips", len(fleet.Trips))

	// Simulation engine, publishing into the WebSocket hub
	hub := http.NewHub()
	engine := usecases.NewSimulationEngine(fleet, hub).
		WithTickInterval(cfg.Simulation.TickInterval).
		WithSpeeds(cfg.Simulation.Speeds)
	if err := engine.SetSpeed(cfg.Simulation.DefaultSpeed); err != nil {
		log.Fatalf("default speed: %v", err)
	}
	go engine.Run(ctx)

	deps := &http.Dependencies{
		Engine:    engine,
		Assistant: usecases.NewAssistant(),
		Hub:       hub,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "FleetSim Dashboard",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("dashboard server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())
	cancel() // stop the tick loop

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
