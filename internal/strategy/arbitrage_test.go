package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diamond-amm/lvrsim/internal/pool"
	"github.com/diamond-amm/lvrsim/internal/types"
)

func newTestPool(fee float64) *pool.Pool {
	p := pool.New(types.TokenETH, types.TokenUSDC, fee, false)
	p.AddLiquidity(types.TokenETH, 1000)
	p.AddLiquidity(types.TokenUSDC, 2_300_000)
	return p
}

func TestNoTradeAtParityWithFee(t *testing.T) {
	p := newTestPool(0.003)

	// Pool price equals the true price: the gap sits inside the fee band.
	_, amountIn := ComputeProfitMaximizingTrade(2300, 1, p)
	assert.Zero(t, amountIn)
}

func TestOptimalTradeClosesGapWithoutFee(t *testing.T) {
	p := newTestPool(0)

	// True price above pool price: the arbitrageur buys cheap X with Y.
	xToY, amountIn := ComputeProfitMaximizingTrade(2400, 1, p)
	require.False(t, xToY)
	require.Greater(t, amountIn, 0.0)

	// With no fee the optimum moves the pool exactly onto the true price.
	p.Swap(types.TokenUSDC, amountIn)
	assert.InEpsilon(t, 2400.0, p.Price(), 1e-9)
}

func TestOptimalTradeDirectionFollowsGap(t *testing.T) {
	p := newTestPool(0)

	// True price below pool price: X flows into the pool.
	xToY, amountIn := ComputeProfitMaximizingTrade(2200, 1, p)
	require.True(t, xToY)
	require.Greater(t, amountIn, 0.0)

	p.Swap(types.TokenETH, amountIn)
	assert.InEpsilon(t, 2200.0, p.Price(), 1e-9)
}

func TestOptimalTradeSize(t *testing.T) {
	p := newTestPool(0)

	_, amountIn := ComputeProfitMaximizingTrade(2400, 1, p)

	// Closed form: sqrt(k * pOut / pIn) - reserveIn with zero fee.
	expected := math.Sqrt(1000*2_300_000*2400) - 2_300_000
	assert.InEpsilon(t, expected, amountIn, 1e-12)
}

func TestPerformArbitrageAtParityIsNoOp(t *testing.T) {
	p := newTestPool(0.003)
	feed := types.PriceFeed{types.TokenETH: 2300, types.TokenUSDC: 1}

	PerformArbitrage(p, feed, 0.009)

	assert.Equal(t, 1000.0, p.ReserveX())
	assert.Equal(t, 2_300_000.0, p.ReserveY())
	assert.Zero(t, p.LVR.Count())
}

func TestPerformArbitrageClosesGapAndRecordsLedgers(t *testing.T) {
	p := newTestPool(0.003)
	feed := types.PriceFeed{types.TokenETH: 2400, types.TokenUSDC: 1}

	PerformArbitrage(p, feed, 0.009)

	// The pool price must move strictly toward the true price without
	// overshooting past it.
	assert.Greater(t, p.Price(), 2300.0)
	assert.LessOrEqual(t, p.Price(), 2400.0)

	require.Equal(t, 1, p.LVR.Count())
	assert.Greater(t, p.LVR.Total, 0.0)
	require.Equal(t, 1, p.FeesArbitrage.Count())
	assert.Greater(t, p.FeesArbitrage.Total, 0.0)
	require.Equal(t, 1, p.VolumeArbitrage.Count())
	assert.Greater(t, p.VolumeArbitrage.Total, p.FeesArbitrage.Total)
}

func TestPerformArbitrageRespectsTransactionFee(t *testing.T) {
	p := newTestPool(0.003)
	feed := types.PriceFeed{types.TokenETH: 2300.5, types.TokenUSDC: 1}

	// A tiny price gap cannot clear an enormous transaction fee.
	PerformArbitrage(p, feed, 1000)

	assert.Equal(t, 1000.0, p.ReserveX())
	assert.Zero(t, p.LVR.Count())
}
