package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Kariqs/tiendeo-api/config"
	"github.com/Kariqs/tiendeo-api/controllers"
	"github.com/Kariqs/tiendeo-api/events"
	"github.com/Kariqs/tiendeo-api/initializers"
	"github.com/Kariqs/tiendeo-api/metrics"
	"github.com/Kariqs/tiendeo-api/middlewares"
	"github.com/Kariqs/tiendeo-api/routes"
	"github.com/Kariqs/tiendeo-api/services"
	"github.com/Kariqs/tiendeo-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const sessionName = "tiendeo_session"

func main() {
	initializers.LoadEnv()
	cfg := config.MustLoad()
	setupLogger(cfg.Log)

	if err := initializers.ConnectToDB(cfg.Database); err != nil {
		log.Fatalf("database: %v", err)
	}
	defer initializers.CloseDB()

	if err := prepareSchema(cfg.Database); err != nil {
		log.Fatalf("schema: %v", err)
	}
	if cfg.Database.Seed {
		if err := initializers.SeedDatabase(initializers.DB, cfg.SuperadminPass); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	dispatcher, closeSinks := newDispatcher(cfg)
	defer closeSinks()

	controllers.Setup(controllers.Dependencies{
		Orders:    services.NewOrderService(initializers.DB, dispatcher, metrics.NewOrderMetrics(registry)),
		Stores:    services.NewStoreService(initializers.DB),
		Catalog:   services.NewCatalogService(initializers.DB),
		Accounts:  services.NewAccountService(initializers.DB),
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
	})

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	server.Use(sessions.Sessions(sessionName, store))
	server.Use(middlewares.Metrics(metrics.NewServerMetrics(registry)))
	routes.Register(server, cfg.JWTSecret, metrics.Handler(registry))

	srv := &http.Server{
		Addr:    cfg.HTTPServer.Address(),
		Handler: server,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server started", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err.Error())
	}
	dispatcher.Wait()
}

func setupLogger(cfg config.Log) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// prepareSchema applies SQL migrations on postgres, or lets GORM build the
// schema when auto migration is enabled.
func prepareSchema(cfg config.Database) error {
	if cfg.AutoMigrate {
		return initializers.SyncDatabase(initializers.DB)
	}
	if cfg.Driver == "postgres" || cfg.Driver == "" {
		return initializers.RunMigrations(initializers.DB, cfg.MigrationsPath)
	}
	slog.Warn("no schema preparation for driver, enable DB_AUTO_MIGRATE", "driver", cfg.Driver)
	return nil
}

func newDispatcher(cfg *config.Config) (*events.Dispatcher, func()) {
	var sinks []events.Sink
	var closers []func() error

	if len(cfg.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
		sinks = append(sinks, kafkaPublisher)
		closers = append(closers, kafkaPublisher.Close)
	}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, events.NewWebhookNotifier(cfg.WebhookURL))
	}
	if mailer := newMailer(cfg.Notifications); mailer != nil {
		sinks = append(sinks, events.NewMailNotifier(initializers.DB, mailer, cfg.TemplatePath, cfg.FrontendURL))
	}

	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	slog.Info("order event sinks configured", "sinks", names)

	return events.NewDispatcher(10*time.Second, sinks...), func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				slog.Error("failed to close event sink", "error", err.Error())
			}
		}
	}
}

// newMailer prefers SES when a region is configured and falls back to SMTP.
func newMailer(cfg config.Notifications) events.Mailer {
	switch {
	case cfg.SESRegion != "":
		mailer, err := events.NewSESMailer(context.Background(), events.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.AWSKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
			FromEmail:       cfg.FromEmail,
		})
		if err != nil {
			slog.Error("ses mailer disabled", "error", err.Error())
			return nil
		}
		return mailer
	case cfg.SMTPAddress != "" && cfg.FromEmail != "":
		return events.NewSMTPMailer(utils.SMTPConfig{
			Address:      cfg.SMTPAddress,
			Host:         cfg.SMTPHost,
			FromEmail:    cfg.FromEmail,
			FromPassword: cfg.FromPassword,
		})
	}
	return nil
}
