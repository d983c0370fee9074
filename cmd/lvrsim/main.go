package main

import (
	"os"
	"strconv"
	"time"

	"github.com/diamond-amm/lvrsim/internal/config"
	"github.com/diamond-amm/lvrsim/internal/logger"
	"github.com/diamond-amm/lvrsim/internal/protocol"
	"github.com/diamond-amm/lvrsim/internal/simulator"
	"github.com/diamond-amm/lvrsim/internal/state"
	"github.com/diamond-amm/lvrsim/internal/types"
	"github.com/diamond-amm/lvrsim/internal/web"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// main is the entry point for the LVR simulator batch driver.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("LVR Simulator Starting...")

	// Load configuration from environment variables
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize Database Connection
	dbCfg := state.DBConfig{
		Host: os.Getenv("DB_HOST"), Port: mustAtoi(os.Getenv("DB_PORT"), 5432),
		User: os.Getenv("DB_USER"), Password: os.Getenv("DB_PASSWORD"),
		DBName: os.Getenv("DB_NAME"), SSLMode: os.Getenv("DB_SSLMODE"),
	}
	if err := state.InitDB(dbCfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer state.CloseDB()
	if err := state.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	// Load Simulation Parameters
	simParams, err := state.LoadActiveSimulationParameters(config.DefaultConfigName)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load active simulation parameters, using defaults and saving.")
		defaultParams := config.DefaultSimulationParameters
		if _, err := state.SaveSimulationParameters(defaultParams, config.DefaultConfigName, config.DefaultConfigVersion, true); err != nil {
			log.Fatal().Err(err).Msg("Failed to save initial default simulation parameters.")
		}
		simParams = &defaultParams
	}
	log.Info().Msg("Simulation parameters loaded successfully.")

	paramsID, err := state.GetActiveSimulationParametersID(config.DefaultConfigName)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to resolve active parameter set ID")
	}

	// --- Start Web Server ---
	webPort := os.Getenv("WEB_PORT")
	if webPort == "" {
		webPort = "8080"
	}

	webServer := web.NewWebServer(webPort)
	go func() {
		log.Info().Str("port", webPort).Str("url", "http://localhost:"+webPort).Msg("Starting results API")
		if err := webServer.Start(); err != nil {
			log.Error().Err(err).Msg("Web server failed to start")
		}
	}()

	// --- 2. Monte-Carlo Batch ---
	log.Info().
		Int("runs", config.NumRuns).
		Int("workers", config.NumWorkers).
		Int64("baseSeed", config.BaseSeed).
		Msg("Starting Monte-Carlo batch")

	var g errgroup.Group
	g.SetLimit(config.NumWorkers)

	for i := 0; i < config.NumRuns; i++ {
		seed := config.BaseSeed + int64(i)
		g.Go(func() error {
			return executeRun(*simParams, seed, paramsID)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Monte-Carlo batch failed")
	}

	summary, err := state.GetBatchSummary()
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute batch summary")
	} else {
		log.Info().
			Int("totalRuns", summary.TotalRuns).
			Float64("avgFinalPrice", summary.AvgFinalPrice).
			Float64("avgBestPoolRatio", summary.AvgBestPoolRatio).
			Msg("Monte-Carlo batch complete")
	}

	// Keep serving results until interrupted.
	select {}
}

// executeRun runs one full simulation and persists its result.
func executeRun(params types.SimulationParameters, seed int64, paramsID *int64) error {
	startedAt := time.Now()

	sim, err := createSimulation(params, seed)
	if err != nil {
		return err
	}

	if err := sim.Run(false); err != nil {
		return err
	}

	result := sim.Result(seed)
	result.StartedAt = startedAt
	result.DurationMS = time.Since(startedAt).Milliseconds()

	runNumber, err := state.IncrementRunNumber()
	if err != nil {
		return err
	}
	result.RunNumber = runNumber

	if _, err := state.SaveRunResult(result, paramsID); err != nil {
		return err
	}

	log.Info().
		Int64("seed", seed).
		Int("runNumber", runNumber).
		Int("bestPool", result.BestPool).
		Float64("bestPoolRatio", result.BestPoolRatio).
		Msg("Run complete")
	return nil
}

// createSimulation wires the three-pool comparison: a plain constant-product
// pool, a static-beta diamond pool and a dynamic-beta diamond pool, all
// seeded 50/50 from the configured initial value locked.
func createSimulation(params types.SimulationParameters, seed int64) (*simulator.Simulator, error) {
	sim := simulator.New(params, seed)

	reserveY := params.InitialValueLocked / 2
	reserveX := reserveY / params.InitialPrice

	afterSwap := protocol.StandardAfterSwap(params.TxFeePerETH, params.VaultConversionPeriod)

	sim.CreateLiquidityPool(types.TokenETH, types.TokenUSDC, reserveX, reserveY, params.SwapFee, false)
	sim.CreateDiamondPool(types.TokenETH, types.TokenUSDC, reserveX, reserveY, params.SwapFee, false,
		params.StaticBeta, false, nil, afterSwap)
	sim.CreateDiamondPool(types.TokenETH, types.TokenUSDC, reserveX, reserveY, params.SwapFee, false,
		params.DynamicBetaStart, true, nil, afterSwap)

	if err := sim.CreateOracle(params.InitialPrice, params.SigmaPerDay); err != nil {
		return nil, err
	}
	return sim, nil
}

// Helper to convert string to int with a default value
func mustAtoi(s string, defaultValue int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}
