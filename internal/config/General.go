package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Batch configuration loaded from environment variables. These are
// populated at startup by LoadConfig.
var (
	// NumRuns is the number of independent Monte-Carlo runs in one batch.
	NumRuns int
	// NumWorkers bounds how many runs execute concurrently.
	NumWorkers int
	// BaseSeed seeds the batch; run i uses BaseSeed + i so that a batch is
	// reproducible end to end.
	BaseSeed int64
)

// LoadConfig loads configuration from environment variables and sets the
// global config vars. All listed environment variables are required.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	NumRuns, err = getEnvAsInt("SIM_NUM_RUNS")
	if err != nil {
		return err
	}

	NumWorkers, err = getEnvAsInt("SIM_NUM_WORKERS")
	if err != nil {
		return err
	}

	BaseSeed, err = getEnvAsInt64("SIM_BASE_SEED")
	if err != nil {
		return err
	}

	if NumRuns <= 0 {
		return errors.New("SIM_NUM_RUNS must be positive")
	}
	if NumWorkers <= 0 {
		return errors.New("SIM_NUM_WORKERS must be positive")
	}

	log.Debug().
		Int("NumRuns", NumRuns).
		Int("NumWorkers", NumWorkers).
		Int64("BaseSeed", BaseSeed).
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

// getEnvAsInt retrieves an environment variable as an int. Returns error if not set or invalid.
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

// getEnvAsInt64 retrieves an environment variable as an int64. Returns error if not set or invalid.
func getEnvAsInt64(key string) (int64, error) {
	valueStr, err := getEnv(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid int64, got: " + valueStr)
	}
	return value, nil
}
