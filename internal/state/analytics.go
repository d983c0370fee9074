package state

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// PoolAggregate averages one pool position's terminal metrics across runs.
type PoolAggregate struct {
	PoolIndex        int     `json:"pool_index"`
	AvgLVR           float64 `json:"avg_lvr"`
	AvgCollectedFees float64 `json:"avg_collected_fees"`
	AvgTVL           float64 `json:"avg_tvl"`
}

// BatchSummary aggregates the headline metrics across all stored runs.
type BatchSummary struct {
	TotalRuns        int     `json:"total_runs"`
	AvgFinalPrice    float64 `json:"avg_final_price"`
	MinFinalPrice    float64 `json:"min_final_price"`
	MaxFinalPrice    float64 `json:"max_final_price"`
	AvgBestPoolRatio float64 `json:"avg_best_pool_ratio"`
	MinBestPoolRatio float64 `json:"min_best_pool_ratio"`
	MaxBestPoolRatio float64 `json:"max_best_pool_ratio"`
	AvgDurationMS    float64 `json:"avg_duration_ms"`

	// BestPoolDistribution maps pool index to how many runs it won.
	BestPoolDistribution map[int]int `json:"best_pool_distribution"`

	// Pools holds per-position averages extracted from the stored snapshots.
	Pools []PoolAggregate `json:"pools"`
}

// GetBatchSummary computes the aggregate view over all stored run results.
func GetBatchSummary() (*BatchSummary, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	summary := &BatchSummary{
		BestPoolDistribution: make(map[int]int),
	}

	aggregateQuery := `
		SELECT
			COUNT(*),
			COALESCE(AVG(final_price), 0),
			COALESCE(MIN(final_price), 0),
			COALESCE(MAX(final_price), 0),
			COALESCE(AVG(best_pool_ratio), 0),
			COALESCE(MIN(best_pool_ratio), 0),
			COALESCE(MAX(best_pool_ratio), 0),
			COALESCE(AVG(duration_ms), 0)
		FROM run_results;`

	row := DB.QueryRow(aggregateQuery)
	err := row.Scan(
		&summary.TotalRuns,
		&summary.AvgFinalPrice, &summary.MinFinalPrice, &summary.MaxFinalPrice,
		&summary.AvgBestPoolRatio, &summary.MinBestPoolRatio, &summary.MaxBestPoolRatio,
		&summary.AvgDurationMS,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate run results: %w", err)
	}

	distributionQuery := `
		SELECT best_pool, COUNT(*)
		FROM run_results
		GROUP BY best_pool
		ORDER BY best_pool;`

	rows, err := DB.Query(distributionQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query best pool distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var poolIndex, count int
		if err := rows.Scan(&poolIndex, &count); err != nil {
			return nil, fmt.Errorf("failed to scan best pool distribution row: %w", err)
		}
		summary.BestPoolDistribution[poolIndex] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating best pool distribution: %w", err)
	}

	// Per-pool averages come straight out of the JSONB snapshots, keyed by
	// the pool's position in the array.
	poolQuery := `
		SELECT t.idx - 1 AS pool_index,
			AVG((t.snap->>'lvr')::DOUBLE PRECISION),
			AVG((t.snap->>'collected_fees')::DOUBLE PRECISION),
			AVG((t.snap->>'tvl')::DOUBLE PRECISION)
		FROM run_results,
			jsonb_array_elements(pools) WITH ORDINALITY AS t(snap, idx)
		GROUP BY t.idx
		ORDER BY t.idx;`

	poolRows, err := DB.Query(poolQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query per-pool aggregates: %w", err)
	}
	defer poolRows.Close()

	for poolRows.Next() {
		var agg PoolAggregate
		if err := poolRows.Scan(&agg.PoolIndex, &agg.AvgLVR, &agg.AvgCollectedFees, &agg.AvgTVL); err != nil {
			return nil, fmt.Errorf("failed to scan per-pool aggregate row: %w", err)
		}
		summary.Pools = append(summary.Pools, agg)
	}
	if err := poolRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating per-pool aggregates: %w", err)
	}

	log.Debug().Int("totalRuns", summary.TotalRuns).Msg("Computed batch summary")
	return summary, nil
}
