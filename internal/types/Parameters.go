/*

SimulationParameters is the full configuration of one simulation run. A
parameter set is saved and versioned by internal/state so that batches are
always attributable to the exact configuration that produced them.

*/

package types

// CurveParameters holds the coefficients of the double-sigmoid curve that
// maps realized volatility to a fee or a beta. The two sigmoid terms cover
// a low- and a high-volatility regime.
type CurveParameters struct {
	Floor  float64 `json:"floor"`
	Alpha1 float64 `json:"alpha1"`
	Beta1  float64 `json:"beta1"`
	Gamma1 float64 `json:"gamma1"`
	Alpha2 float64 `json:"alpha2"`
	Beta2  float64 `json:"beta2"`
	Gamma2 float64 `json:"gamma2"`

	// Scale and Cap apply to the beta curve only: the summed sigmoids are
	// multiplied by Scale and clamped to [0, Cap].
	Scale float64 `json:"scale"`
	Cap   float64 `json:"cap"`
}

// RetailFlowParameters calibrates the synthetic uninformed order flow. The
// per-block transaction count and mean size are drawn from normal
// distributions with these moments, floored at zero.
type RetailFlowParameters struct {
	TxCountMean float64 `json:"tx_count_mean"`
	TxCountStd  float64 `json:"tx_count_std"`
	TxSizeMean  float64 `json:"tx_size_mean"`
	TxSizeStd   float64 `json:"tx_size_std"`
}

// SimulationParameters configures one independent Monte-Carlo run.
type SimulationParameters struct {
	BlocksPerDay       int     `json:"blocks_per_day"`
	NumDays            int     `json:"num_days"`
	TxFeePerETH        float64 `json:"tx_fee_per_eth"`
	NewLiquidity       float64 `json:"new_liquidity"`
	NewLiquidityPeriod int     `json:"new_liquidity_period"`

	InitialPrice       float64 `json:"initial_price"`
	InitialValueLocked float64 `json:"initial_value_locked"`
	SwapFee            float64 `json:"swap_fee"`
	SigmaPerDay        float64 `json:"sigma_per_day"`

	// StaticBeta is the LP/vault split of the fixed-beta diamond pool;
	// DynamicBetaStart seeds the volatility-driven pool before its first
	// curve update.
	StaticBeta       float64 `json:"static_beta"`
	DynamicBetaStart float64 `json:"dynamic_beta_start"`

	// VaultConversionPeriod is the block interval of the vault conversion
	// pass. Zero disables conversion entirely.
	VaultConversionPeriod int `json:"vault_conversion_period"`

	RetailFlow RetailFlowParameters `json:"retail_flow"`
	FeeCurve   CurveParameters      `json:"fee_curve"`
	BetaCurve  CurveParameters      `json:"beta_curve"`
}
