package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/cache"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/config"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/handler"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/repository"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/repository/postgres"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/usecase"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/auth"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/logger"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/mailer"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/metrics"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/provider"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/registry"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/utilities"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap := logger.New(logger.Config{}, "footprint-service")
		bootstrap.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.Log, cfg.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.Audience, cfg.Token.ExpiresIn)

	var google usecase.GoogleTokenValidator
	if cfg.Google.ClientID != "" {
		google = provider.NewGoogleOAuthProvider(cfg.Google.ClientID, &http.Client{Timeout: 10 * time.Second})
		log.Info().Msg("google sign-in enabled")
	}

	var sender usecase.EmailSender
	if cfg.SMTP.Enabled() {
		m, err := mailer.NewMailer(cfg.SMTP)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create mailer")
		}
		sender = m
		log.Info().Str("host", cfg.SMTP.Host).Msg("email notifications enabled")
	}

	authUsecase := usecase.NewAuthUsecase(store.Users, store.Identities, jwtAuth, google, sender, log)
	activityUsecase := usecase.NewActivityUsecase(store.Activities, usecase.QueryLimits{
		DefaultPageLimit: cfg.Query.DefaultPageLimit,
		MaxPageLimit:     cfg.Query.MaxPageLimit,
		FetchLimit:       cfg.Query.FetchLimit,
	})

	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("address", cfg.Redis.Address).Msg("failed to connect to redis")
		}
		activityUsecase = cache.NewCachedActivityUsecase(activityUsecase, redisClient, cfg.Redis.StatsTTL, log)
		log.Info().Dur("ttl", cfg.Redis.StatsTTL).Msg("stats cache enabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	validator := validation.New()
	router := handler.NewRouter(handler.RouterConfig{
		Logger:         log,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Verifier:       jwtAuth,
		Metrics:        metrics.NewHTTPMetrics("carbon_tracker", reg),
		Gatherer:       reg,
		Auth:           handler.NewAuthHandler(authUsecase, validator),
		Activities:     handler.NewActivityHandler(activityUsecase, validator),
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info().Str("address", cfg.HTTP.Address).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	var healthServer *utilities.HealthServer
	if cfg.GRPCHealth.Address != "" {
		lis, err := net.Listen("tcp", cfg.GRPCHealth.Address)
		if err != nil {
			log.Fatal().Err(err).Str("address", cfg.GRPCHealth.Address).Msg("failed to listen for grpc health")
		}
		healthServer = utilities.NewHealthServer(log)
		go func() {
			if err := healthServer.Serve(lis); err != nil {
				log.Error().Err(err).Msg("grpc health server stopped")
			}
		}()
	}

	var consul *registry.ConsulRegistry
	if cfg.Consul.Enabled() {
		consul, err = registry.NewConsulRegistry(cfg.Consul)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create consul registry")
		}
		if err := consul.Register(cfg.HTTP.Address); err != nil {
			log.Error().Err(err).Msg("failed to register with consul")
			consul = nil
		} else {
			log.Info().Str("consul", cfg.Consul.Address).Msg("registered with consul")
		}
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if consul != nil {
		if err := consul.Deregister(); err != nil {
			log.Warn().Err(err).Msg("failed to deregister from consul")
		}
	}
	if healthServer != nil {
		healthServer.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("failed to close store")
	}

	log.Info().Msg("server stopped")
}

func openStore(ctx context.Context, cfg *config.Config, log *zerolog.Logger) (*repository.Store, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		return postgres.NewStore(ctx, log, cfg.Postgres.URL)
	default:
		return repository.NewMongoStore(ctx, log, cfg.Mongo.URI, cfg.Mongo.Database)
	}
}
