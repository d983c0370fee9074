package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diamond-amm/lvrsim/internal/config"
	"github.com/diamond-amm/lvrsim/internal/protocol"
	"github.com/diamond-amm/lvrsim/internal/types"
)

// testParams shrinks the default scenario to a size that runs in
// milliseconds while keeping every phase of the block loop exercised.
func testParams() types.SimulationParameters {
	params := config.DefaultSimulationParameters
	params.BlocksPerDay = 120
	params.NumDays = 2
	return params
}

func buildSimulator(t *testing.T, params types.SimulationParameters, seed int64) *Simulator {
	t.Helper()

	sim := New(params, seed)

	reserveY := params.InitialValueLocked / 2
	reserveX := reserveY / params.InitialPrice
	after := protocol.StandardAfterSwap(params.TxFeePerETH, params.VaultConversionPeriod)

	sim.CreateLiquidityPool(types.TokenETH, types.TokenUSDC, reserveX, reserveY, params.SwapFee, false)
	sim.CreateDiamondPool(types.TokenETH, types.TokenUSDC, reserveX, reserveY, params.SwapFee, false,
		params.StaticBeta, false, nil, after)
	sim.CreateDiamondPool(types.TokenETH, types.TokenUSDC, reserveX, reserveY, params.SwapFee, false,
		params.DynamicBetaStart, true, nil, after)

	require.NoError(t, sim.CreateOracle(params.InitialPrice, params.SigmaPerDay))
	return sim
}

func TestOracleAndVolatilityAlignment(t *testing.T) {
	params := testParams()
	sim := buildSimulator(t, params, 1)

	// After the warm-up trim, one oracle entry and one volatility entry per
	// block.
	assert.Len(t, sim.Oracle(), sim.NumBlocks())
	assert.Len(t, sim.Volatility(), sim.NumBlocks())
	assert.Equal(t, params.BlocksPerDay*params.NumDays, sim.NumBlocks())
}

func TestOracleNormalization(t *testing.T) {
	params := testParams()
	sim := buildSimulator(t, params, 1)

	// The trimmed path starts at the configured initial price, with token Y
	// pinned at 1.
	first := sim.Oracle()[0]
	assert.InEpsilon(t, params.InitialPrice, first[types.TokenETH], 1e-12)
	assert.Equal(t, 1.0, first[types.TokenUSDC])

	for _, feed := range sim.Oracle() {
		assert.Greater(t, feed[types.TokenETH], 0.0)
	}
}

func TestRunRequiresOracle(t *testing.T) {
	sim := New(testParams(), 1)
	sim.CreateLiquidityPool(types.TokenETH, types.TokenUSDC, 1000, 2_300_000, 0.003, false)

	assert.ErrorIs(t, sim.Run(false), ErrOracleNotSeeded)
}

func TestRunIsDeterministic(t *testing.T) {
	params := testParams()

	a := buildSimulator(t, params, 42)
	b := buildSimulator(t, params, 42)

	require.NoError(t, a.Run(false))
	require.NoError(t, b.Run(false))

	last := a.NumBlocks() - 1
	assert.Equal(t, a.CurrentSnapshot(last), b.CurrentSnapshot(last))
	assert.Equal(t, a.Result(42), b.Result(42))
}

func TestRunDiffersAcrossSeeds(t *testing.T) {
	params := testParams()

	a := buildSimulator(t, params, 1)
	b := buildSimulator(t, params, 2)

	require.NoError(t, a.Run(false))
	require.NoError(t, b.Run(false))

	assert.NotEqual(t, a.Result(1).FinalPrice, b.Result(2).FinalPrice)
}

func TestSnapshotShape(t *testing.T) {
	params := testParams()
	sim := buildSimulator(t, params, 7)
	require.NoError(t, sim.Run(false))

	snapshots := sim.CurrentSnapshot(sim.NumBlocks() - 1)
	require.Len(t, snapshots, 3)

	assert.Equal(t, types.PoolKindLiquidity, snapshots[0].Kind)
	assert.Equal(t, types.PoolKindDiamond, snapshots[1].Kind)
	assert.Equal(t, types.PoolKindDiamond, snapshots[2].Kind)

	for _, snap := range snapshots {
		assert.Greater(t, snap.TokenXReserve, 0.0)
		assert.Greater(t, snap.TokenYReserve, 0.0)
		assert.Greater(t, snap.PoolPrice, 0.0)
		assert.Greater(t, snap.TVL, 0.0)
		assert.InDelta(t, snap.CollectedFees, snap.CollectedFeesRetail+snap.CollectedFeesArbitrage, 1e-9)
		assert.InDelta(t, snap.Volume, snap.VolumeRetail+snap.VolumeArbitrage, 1e-9)
	}

	// Plain pool never reports vault reserves.
	assert.Zero(t, snapshots[0].VaultXReserve)
	assert.Zero(t, snapshots[0].VaultYReserve)
}

func TestResultPicksBestPoolByTVL(t *testing.T) {
	params := testParams()
	sim := buildSimulator(t, params, 7)
	require.NoError(t, sim.Run(false))

	result := sim.Result(7)

	require.Len(t, result.Pools, 3)
	require.GreaterOrEqual(t, result.BestPool, 0)
	require.Less(t, result.BestPool, 3)

	bestTVL := result.Pools[result.BestPool].TVL
	for _, p := range result.Pools {
		assert.LessOrEqual(t, p.TVL, bestTVL)
	}
	assert.InEpsilon(t, bestTVL/result.Pools[0].TVL, result.BestPoolRatio, 1e-12)
	assert.Equal(t, int64(7), result.Seed)
	assert.Greater(t, result.FinalPrice, 0.0)
}

func TestLiquidityInjectionGrowsTVL(t *testing.T) {
	params := testParams()
	params.NewLiquidity = params.InitialValueLocked / 100
	params.NewLiquidityPeriod = 20

	withInjection := buildSimulator(t, params, 13)
	require.NoError(t, withInjection.Run(false))

	base := params
	base.NewLiquidityPeriod = 0
	withoutInjection := buildSimulator(t, base, 13)
	require.NoError(t, withoutInjection.Run(false))

	last := params.BlocksPerDay*params.NumDays - 1
	injected := withInjection.CurrentSnapshot(last)
	plain := withoutInjection.CurrentSnapshot(last)

	var injectedTVL, plainTVL float64
	for i := range injected {
		injectedTVL += injected[i].TVL
		plainTVL += plain[i].TVL
	}
	assert.Greater(t, injectedTVL, plainTVL)
}

func TestDynamicBetaPoolTracksVolatilityCurve(t *testing.T) {
	params := testParams()
	sim := buildSimulator(t, params, 21)

	dynamic := sim.slots[2].diamond
	require.True(t, dynamic.DynamicBeta)
	startBeta := dynamic.Beta

	require.NoError(t, sim.Run(false))

	// The block loop must have refreshed beta from the curve, and the
	// refreshed value must respect the cap.
	assert.NotEqual(t, startBeta, dynamic.Beta)
	assert.GreaterOrEqual(t, dynamic.Beta, 0.0)
	assert.LessOrEqual(t, dynamic.Beta, params.BetaCurve.Cap)
}
