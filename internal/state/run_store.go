// ./internal/state/run_store.go
package state

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/diamond-amm/lvrsim/internal/types"
	"github.com/rs/zerolog/log"
)

// SaveRunResult persists the terminal state of one Monte-Carlo run. The
// per-pool snapshots are stored as a JSONB document; the headline metrics
// are broken out into columns so the batch summary can aggregate in SQL.
func SaveRunResult(result types.RunResult, paramsID *int64) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	poolsJSON, err := json.Marshal(result.Pools)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal pool snapshots: %w", err)
	}

	stmt := `
        INSERT INTO run_results (
            run_number, params_id, seed, final_price,
            best_pool, best_pool_ratio, pools,
            started_at, duration_ms
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING result_id;`

	var resultID int64
	err = DB.QueryRow(
		stmt,
		result.RunNumber, paramsID, result.Seed, result.FinalPrice,
		result.BestPool, result.BestPoolRatio, poolsJSON,
		result.StartedAt, result.DurationMS,
	).Scan(&resultID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run result: %w", err)
	}

	log.Info().
		Int("run_number", result.RunNumber).
		Int64("result_id", resultID).
		Int64("seed", result.Seed).
		Int("best_pool", result.BestPool).
		Msg("Saved run result")
	return resultID, nil
}

// GetRecentRuns returns the most recent run results, newest first.
func GetRecentRuns(limit int) ([]types.RunResult, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
        SELECT run_number, seed, final_price, best_pool, best_pool_ratio, pools, started_at, duration_ms
        FROM run_results
        ORDER BY created_at DESC
        LIMIT $1;`

	rows, err := DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer rows.Close()

	var results []types.RunResult
	for rows.Next() {
		result, err := scanRunResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run results: %w", err)
	}
	return results, nil
}

// GetLatestRun returns the most recently completed run.
func GetLatestRun() (*types.RunResult, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
        SELECT run_number, seed, final_price, best_pool, best_pool_ratio, pools, started_at, duration_ms
        FROM run_results
        ORDER BY created_at DESC
        LIMIT 1;`

	result, err := scanRunResult(DB.QueryRow(query))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no run results found")
		}
		return nil, err
	}
	return &result, nil
}

// GetRunByNumber returns the run with the given run number.
func GetRunByNumber(runNumber int) (*types.RunResult, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
        SELECT run_number, seed, final_price, best_pool, best_pool_ratio, pools, started_at, duration_ms
        FROM run_results
        WHERE run_number = $1
        ORDER BY created_at DESC
        LIMIT 1;`

	result, err := scanRunResult(DB.QueryRow(query, runNumber))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no run result found for run number %d", runNumber)
		}
		return nil, err
	}
	return &result, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRunResult(row rowScanner) (types.RunResult, error) {
	var result types.RunResult
	var poolsJSON []byte

	err := row.Scan(
		&result.RunNumber, &result.Seed, &result.FinalPrice,
		&result.BestPool, &result.BestPoolRatio, &poolsJSON,
		&result.StartedAt, &result.DurationMS,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return result, err
		}
		return result, fmt.Errorf("failed to scan run result: %w", err)
	}

	if err := json.Unmarshal(poolsJSON, &result.Pools); err != nil {
		return result, fmt.Errorf("failed to unmarshal pool snapshots: %w", err)
	}
	return result, nil
}
