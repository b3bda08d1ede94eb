// @title           HoloFrame Studio API
// @version         1.0.0
// @description     Backend API for turning photos into looping hologram videos. It removes backgrounds, generates videos with Replicate or Vertex AI Veo, stores every asset in Supabase Storage and charges per-user credit.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"holoframe-backend/docs"
	"holoframe-backend/internal/app"
	"holoframe-backend/internal/config"
	"holoframe-backend/internal/logger"
	"holoframe-backend/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	if config.IsProduction(cfg.Environment) {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		if baseURL, err := url.Parse(cfg.BaseURL); err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelCfg := telemetry.ConfigFromEnv(cfg.Environment)
	shutdownTracing, err := telemetry.Init(ctx, otelCfg, logg)
	if err != nil {
		logg.Fatal("failed to initialize tracing", "error", err)
	}

	a, err := app.New(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("failed to initialize application", "error", err)
	}
	defer a.Close()

	applied, err := a.Migrate(ctx)
	if err != nil {
		logg.Fatal("migration failed", "error", err)
	}
	logg.Info("migrations completed", "applied", applied)

	if cfg.WorkerEnabled {
		go func() {
			if err := a.Poller().Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error("job worker stopped", "error", err)
			}
		}()
	} else {
		logg.Info("job worker disabled")
	}

	serviceName := ""
	if otelCfg.Enabled {
		serviceName = otelCfg.ServiceName
	}
	router := app.NewRouter(a.Handlers(), app.RouterConfig{
		ServiceName:   serviceName,
		AdminPassword: cfg.AdminPassword,
		Verifier:      a.Verifier,
		Log:           logg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logg.Error("tracing shutdown failed", "error", err)
	}
}
