// ./internal/state/parameters_store.go
package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/diamond-amm/lvrsim/internal/types"
	"github.com/rs/zerolog/log"
)

// SaveSimulationParameters saves a new version of simulation parameters.
// Parameters are stored as a single JSONB document so that adding a field
// never requires a schema migration.
func SaveSimulationParameters(params types.SimulationParameters, configName string, version int, makeActive bool) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal simulation parameters: %w", err)
	}

	tx, err := DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p) // Re-panic after rollback
		} else if err != nil {
			tx.Rollback() // Rollback if error occurred
		}
	}()

	if makeActive {
		stmtDeactivate := `UPDATE simulation_parameters SET is_active = FALSE WHERE config_name = $1 AND is_active = TRUE;`
		_, err = tx.Exec(stmtDeactivate, configName)
		if err != nil {
			return 0, fmt.Errorf("failed to deactivate existing active parameters for %s: %w", configName, err)
		}
	}

	stmt := `
        INSERT INTO simulation_parameters (version, config_name, is_active, activated_at, created_at, params)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING params_id;`

	var paramsID int64
	currentTime := time.Now()
	err = tx.QueryRow(stmt, version, configName, makeActive, currentTime, currentTime, paramsJSON).Scan(&paramsID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert simulation parameters: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().
		Int("version", version).
		Str("config", configName).
		Int64("params_id", paramsID).
		Bool("active", makeActive).
		Msg("Saved simulation parameters")
	return paramsID, nil
}

// LoadActiveSimulationParameters loads the currently active simulation parameters.
func LoadActiveSimulationParameters(configName string) (*types.SimulationParameters, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
        SELECT params
        FROM simulation_parameters
        WHERE config_name = $1 AND is_active = TRUE
        ORDER BY activated_at DESC
        LIMIT 1;`

	var paramsJSON []byte
	row := DB.QueryRow(query, configName)
	err := row.Scan(&paramsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no active simulation parameters found for config '%s'", configName)
		}
		return nil, fmt.Errorf("failed to scan active simulation parameters for config '%s': %w", configName, err)
	}

	p := &types.SimulationParameters{}
	if err := json.Unmarshal(paramsJSON, p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal simulation parameters for config '%s': %w", configName, err)
	}
	log.Info().Str("config", configName).Msg("Loaded active simulation parameters")
	return p, nil
}

// GetActiveSimulationParametersID returns the params_id of the currently active parameter set
func GetActiveSimulationParametersID(configName string) (*int64, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
        SELECT params_id
        FROM simulation_parameters
        WHERE config_name = $1 AND is_active = TRUE
        ORDER BY activated_at DESC
        LIMIT 1;`

	var paramsID int64
	row := DB.QueryRow(query, configName)
	err := row.Scan(&paramsID)
	if err != nil {
		if err == sql.ErrNoRows {
			// No active parameters found - this is valid, return nil
			log.Debug().Str("config", configName).Msg("No active simulation parameters found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active simulation parameters ID for config '%s': %w", configName, err)
	}

	return &paramsID, nil
}
