package config

import (
	"errors"
	"strconv"

	"os"

	"github.com/rs/zerolog/log"
)

// Application configuration loaded from environment variables. These are
// populated at startup by LoadConfig.
var (
	// ChainID identifies the network queried against the price and token
	// metadata APIs (1 = Ethereum mainnet).
	ChainID int

	// SubgraphURL is the Uniswap V3 subgraph GraphQL endpoint.
	SubgraphURL string
	// SubgraphAPIKey is the bearer token for the subgraph gateway.
	SubgraphAPIKey string

	// OneInchAPIKey is the bearer token for the 1inch token APIs.
	OneInchAPIKey string

	// StablecoinRegistryURL is the pegged-asset listing endpoint.
	StablecoinRegistryURL string

	// LLMAPIKey authenticates against the completion endpoint.
	LLMAPIKey string
	// LLMBaseURL is the root of an OpenAI-compatible API.
	LLMBaseURL string
	// LLMModel is the completion model name.
	LLMModel string

	// MaxPoolsPerCycle bounds how many pools a refresh cycle processes.
	MaxPoolsPerCycle int
	// MetricsCronSpec schedules the refresh cycle (robfig/cron syntax).
	MetricsCronSpec string
)

// Defaults for the optional variables.
const (
	defaultStablecoinRegistryURL = "https://stablecoins.llama.fi/stablecoins"
	defaultLLMBaseURL            = "https://api.openai.com/v1"
	defaultLLMModel              = "gpt-4"
	defaultMaxPoolsPerCycle      = 100
	defaultMetricsCronSpec       = "0 */6 * * *"
)

// LoadConfig loads configuration from environment variables and sets the
// global config vars. API keys and the subgraph endpoint are required;
// everything else has a usable default.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	ChainID, err = getEnvAsInt("CHAIN_ID")
	if err != nil {
		return err
	}

	SubgraphURL, err = getEnv("SUBGRAPH_URL")
	if err != nil {
		return err
	}

	SubgraphAPIKey, err = getEnv("SUBGRAPH_API_KEY")
	if err != nil {
		return err
	}

	OneInchAPIKey, err = getEnv("ONEINCH_API_KEY")
	if err != nil {
		return err
	}

	LLMAPIKey, err = getEnv("LLM_API_KEY")
	if err != nil {
		return err
	}

	StablecoinRegistryURL = getEnvOr("STABLECOIN_REGISTRY_URL", defaultStablecoinRegistryURL)
	LLMBaseURL = getEnvOr("LLM_BASE_URL", defaultLLMBaseURL)
	LLMModel = getEnvOr("LLM_MODEL", defaultLLMModel)
	MetricsCronSpec = getEnvOr("METRICS_CRON", defaultMetricsCronSpec)

	MaxPoolsPerCycle = defaultMaxPoolsPerCycle
	if raw, exists := os.LookupEnv("MAX_POOLS_PER_CYCLE"); exists {
		MaxPoolsPerCycle, err = strconv.Atoi(raw)
		if err != nil {
			return errors.New("environment variable MAX_POOLS_PER_CYCLE must be a valid int, got: " + raw)
		}
	}

	log.Debug().
		Int("ChainID", ChainID).
		Str("SubgraphURL", SubgraphURL).
		Str("LLMModel", LLMModel).
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvOr retrieves a string environment variable with a fallback.
func getEnvOr(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an int. Returns error if
// not set or invalid.
func getEnvAsInt(key string) (int, error) {
	valueStr, err := getEnv(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid int, got: " + valueStr)
	}
	return value, nil
}
