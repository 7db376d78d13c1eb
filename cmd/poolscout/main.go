package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/poolscout/poolscout/internal/advisor"
	"github.com/poolscout/poolscout/internal/config"
	"github.com/poolscout/poolscout/internal/datafetcher"
	"github.com/poolscout/poolscout/internal/llm"
	"github.com/poolscout/poolscout/internal/logger"
	"github.com/poolscout/poolscout/internal/pipeline"
	"github.com/poolscout/poolscout/internal/socket"
	"github.com/poolscout/poolscout/internal/state"
	"github.com/poolscout/poolscout/internal/web"
)

// main is the entry point for the pool recommendation service.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("Pool recommendation service starting...")

	// Initialize Database Connection
	dbCfg := state.DBConfig{
		Host: os.Getenv("DB_HOST"), Port: mustAtoi(os.Getenv("DB_PORT"), 5432),
		User: os.Getenv("DB_USER"), Password: os.Getenv("DB_PASSWORD"),
		Name: os.Getenv("DB_NAME"), SSLMode: os.Getenv("DB_SSLMODE"),
	}
	store, err := state.Open(dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer store.Close()
	if err := store.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- 2. Wire Components ---
	hub := socket.NewHub()
	go hub.Run(ctx)

	limiter := datafetcher.NewLimiter(2, 4)
	limiter.SetRate(datafetcher.UpstreamCompletion, 1, 1)

	gateway := datafetcher.NewGateway(datafetcher.GatewayConfig{
		Limiter:        limiter,
		SubgraphURL:    config.SubgraphURL,
		SubgraphAPIKey: config.SubgraphAPIKey,
		OneInchAPIKey:  config.OneInchAPIKey,
		RegistryURL:    config.StablecoinRegistryURL,
		ChainID:        config.ChainID,
	})

	completer := llm.NewClient(config.LLMBaseURL, config.LLMAPIKey, config.LLMModel)
	recommender := advisor.New(store, completer, limiter)
	metricsPipeline := pipeline.New(gateway, store, config.MaxPoolsPerCycle)

	// --- 3. Schedule Metric Refresh ---
	scheduler := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := scheduler.AddFunc(config.MetricsCronSpec, func() {
		if _, err := metricsPipeline.RefreshCycle(ctx); err != nil {
			log.Error().Err(err).Msg("Metric refresh cycle failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("spec", config.MetricsCronSpec).Msg("Invalid metrics cron spec")
	}
	scheduler.Start()
	defer scheduler.Stop()
	log.Info().Str("spec", config.MetricsCronSpec).Msg("Scheduled metric refresh")

	// Run one refresh immediately so recommendations have data on a
	// fresh deployment.
	go func() {
		if _, err := metricsPipeline.RefreshCycle(ctx); err != nil {
			log.Error().Err(err).Msg("Initial metric refresh failed")
		}
	}()

	// --- 4. Start Web Server ---
	webPort := os.Getenv("WEB_PORT")
	webServer := web.NewWebServer(webPort, store, store, store, store, recommender, hub)
	go func() {
		if err := webServer.Start(); err != nil {
			log.Error().Err(err).Msg("Web server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
}

// Helper to convert string to int with a default value
func mustAtoi(s string, defaultValue int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}
