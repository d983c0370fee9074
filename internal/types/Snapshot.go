package types

import "time"

// Pool kinds reported in snapshots.
const (
	PoolKindLiquidity = "liquidity"
	PoolKindDiamond   = "diamond"
)

// PoolSnapshot is a point-in-time view of a single pool, shaped for the
// read API and the result store.
type PoolSnapshot struct {
	Kind          string  `json:"kind"`
	TokenXReserve float64 `json:"token_x_reserve"`
	TokenYReserve float64 `json:"token_y_reserve"`
	PoolPrice     float64 `json:"pool_price"`
	OraclePrice   float64 `json:"oracle_price"`
	TVL           float64 `json:"tvl"`
	LVR           float64 `json:"lvr"`

	CollectedFeesRetail    float64 `json:"collected_fees_retail"`
	CollectedFeesArbitrage float64 `json:"collected_fees_arbitrage"`
	CollectedFees          float64 `json:"collected_fees"`
	VolumeRetail           float64 `json:"volume_retail"`
	VolumeArbitrage        float64 `json:"volume_arbitrage"`
	Volume                 float64 `json:"volume"`

	// Vault reserves are reported for diamond pools only.
	VaultXReserve float64 `json:"vault_x_reserve,omitempty"`
	VaultYReserve float64 `json:"vault_y_reserve,omitempty"`
}

// RunResult captures the terminal state of one Monte-Carlo run. BestPool is
// the index of the pool with the highest final TVL; BestPoolRatio compares
// it against the plain constant-product pool at index 0.
type RunResult struct {
	RunNumber     int            `json:"run_number"`
	Seed          int64          `json:"seed"`
	FinalPrice    float64        `json:"final_price"`
	Pools         []PoolSnapshot `json:"pools"`
	BestPool      int            `json:"best_pool"`
	BestPoolRatio float64        `json:"best_pool_ratio"`
	StartedAt     time.Time      `json:"started_at"`
	DurationMS    int64          `json:"duration_ms"`
}
