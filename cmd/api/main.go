package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ministudio/internal/adapter/repo"
	"ministudio/internal/http/handlers"
	"ministudio/internal/http/httpapi"
	"ministudio/internal/infra"
	"ministudio/internal/infra/geoip"
	"ministudio/internal/middleware"
	"ministudio/internal/providers/video"
	"ministudio/internal/providers/wan"
	"ministudio/internal/storage"
	"ministudio/internal/studio"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewFileStore(cfg.OutputDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	generator := buildGenerator(ctx, cfg, logger)

	var history *repo.GenerationRepositoryPG
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		history = repo.NewGenerationRepository(infra.NewSQLRunner(pool, logger))
		if err := history.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare history schema")
		}
	}

	svc, err := studio.NewService(studio.Options{
		Generator:   generator,
		Store:       store,
		History:     historyOrNil(history),
		Logger:      &logger,
		BaseURL:     cfg.StorageBaseURL,
		MaxAttempts: cfg.GenerateMaxAttempts,
		Timeout:     cfg.GenerateTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure studio")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	app := handlers.NewApp(logger, svc, store, historyListerOrNil(history))
	router := httpapi.NewRouter(app, logger, cfg.DefaultLocale, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("studio listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// buildGenerator connects to the first reachable WAN Space target, falling
// back to the synthetic generator so the studio stays usable offline.
func buildGenerator(ctx context.Context, cfg *infra.Config, logger infra.Logger) video.Generator {
	client, err := wan.Connect(ctx, wan.Options{
		Targets: cfg.SpaceTargets,
		Token:   cfg.HFToken,
		Logger:  &logger,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("wan space unreachable, using synthetic generator")
		return video.NewSyntheticGenerator()
	}
	if cfg.HFToken == "" {
		logger.Info().Msg("no HF token in environment; fine for public spaces")
	}
	return video.NewWANGenerator(client)
}

func historyOrNil(h *repo.GenerationRepositoryPG) studio.History {
	if h == nil {
		return nil
	}
	return h
}

func historyListerOrNil(h *repo.GenerationRepositoryPG) handlers.HistoryLister {
	if h == nil {
		return nil
	}
	return h
}
