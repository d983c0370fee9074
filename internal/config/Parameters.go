/*

This file contains the default parameters for the LVR simulator.

The scenario mirrors a mainnet ETH/USDC constant-product pool: 12-second
blocks, a $100M pool seeded 50/50 at the initial price, and retail flow
calibrated on the Uniswap V2 ETH/USDT pool between 2023-02 and 2024-02.

*/

package config

import (
	"github.com/diamond-amm/lvrsim/internal/types"
)

const (
	// DefaultConfigName identifies the baseline parameter set in the
	// parameter store.
	DefaultConfigName    = "default_lvr_scenario"
	DefaultConfigVersion = 1
)

// DefaultFeeCurve maps realized volatility to a dynamic swap fee. The two
// sigmoid regimes were fitted so the fee ramps from a few basis points in
// calm markets toward the sum of both alphas under sustained volatility.
var DefaultFeeCurve = types.CurveParameters{
	Floor:  0.01 / 100,
	Alpha1: 3000.0 / 1000000,
	Beta1:  360,
	Gamma1: 1.0 / 59,
	Alpha2: (15000.0 - 3000) / 1000000,
	Beta2:  60000,
	Gamma2: 1.0 / 8500,
}

// DefaultBetaCurve reuses the fee curve shape, scaled up into beta range
// and capped below 1: the vault must never capture the entire arbitrage
// profit.
var DefaultBetaCurve = types.CurveParameters{
	Floor:  0.01 / 100,
	Alpha1: 3000.0 / 1000000,
	Beta1:  360,
	Gamma1: 1.0 / 59,
	Alpha2: (15000.0 - 3000) / 1000000,
	Beta2:  60000,
	Gamma2: 1.0 / 8500,
	Scale:  7000,
	Cap:    0.99,
}

// DefaultSimulationParameters provides the baseline scenario. These values
// are used if no active parameter set is found in the database during
// initialization.
var DefaultSimulationParameters = types.SimulationParameters{
	BlocksPerDay: 86400 / 12, // 12-second blocks, as on mainnet
	NumDays:      10,

	TxFeePerETH: 0.009, // arbitrageur gas cost, denominated in ETH

	// V0 = 1e8 split 50/50 at the initial price.
	InitialPrice:       2300,
	InitialValueLocked: 1e8,

	SwapFee: 0.003,

	// Fresh LP capital: amount injected every period, split across pools
	// by TVL share. Period 0 disables injection.
	NewLiquidity:       1e8 / 1000,
	NewLiquidityPeriod: 0,

	SigmaPerDay: 0.05,

	StaticBeta:       0.9,
	DynamicBetaStart: 0.75,

	VaultConversionPeriod: 10,

	// Uniswap V2 ETH/USDT, 2023-02 through 2024-02: per-block transaction
	// count and mean trade size in USD.
	RetailFlow: types.RetailFlowParameters{
		TxCountMean: 1.2546,
		TxCountStd:  0.5909,
		TxSizeMean:  1743,
		TxSizeStd:   6331,
	},

	FeeCurve:  DefaultFeeCurve,
	BetaCurve: DefaultBetaCurve,
}
