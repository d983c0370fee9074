package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diamond-amm/lvrsim/internal/types"
)

func newFundedPool(fee float64) *Pool {
	p := New(types.TokenETH, types.TokenUSDC, fee, false)
	p.AddLiquidity(types.TokenETH, 1000)
	p.AddLiquidity(types.TokenUSDC, 2_300_000)
	return p
}

func TestPoolPriceAndLiquidity(t *testing.T) {
	p := newFundedPool(0.003)

	assert.InDelta(t, 2300.0, p.Price(), 1e-9)
	assert.InDelta(t, 1000.0*2300.0, p.ReserveX()*p.Price(), 1e-3)

	// sqrt(1000 * 2.3e6)
	assert.InDelta(t, 47958.31523, p.Liquidity(), 1e-4)
}

func TestOtherToken(t *testing.T) {
	p := newFundedPool(0)

	assert.Equal(t, types.TokenUSDC, p.OtherToken(types.TokenETH))
	assert.Equal(t, types.TokenETH, p.OtherToken(types.TokenUSDC))
}

func TestQuoteMatchesConstantProductFormula(t *testing.T) {
	p := newFundedPool(0.003)

	amountIn := 10.0
	amountInWithFee := amountIn * (1 - 0.003)
	expected := amountInWithFee * p.ReserveY() / (p.ReserveX() + amountInWithFee)

	assert.InDelta(t, expected, p.Quote(types.TokenETH, amountIn), 1e-9)

	// Quote must not touch reserves.
	assert.Equal(t, 1000.0, p.ReserveX())
	assert.Equal(t, 2_300_000.0, p.ReserveY())
}

func TestSwapPreservesInvariantWithoutFee(t *testing.T) {
	p := newFundedPool(0)
	before := p.ReserveX() * p.ReserveY()

	p.Swap(types.TokenETH, 25)

	after := p.ReserveX() * p.ReserveY()
	assert.InEpsilon(t, before, after, 1e-12)
}

func TestSwapGrowsInvariantWithFee(t *testing.T) {
	p := newFundedPool(0.003)
	before := p.ReserveX() * p.ReserveY()

	p.Swap(types.TokenETH, 25)

	after := p.ReserveX() * p.ReserveY()
	assert.Greater(t, after, before)
	assert.Greater(t, p.ReserveX(), 0.0)
	assert.Greater(t, p.ReserveY(), 0.0)
}

func TestSwapMovesPriceAgainstInput(t *testing.T) {
	p := newFundedPool(0.003)

	// Selling X makes X cheaper; selling Y makes it more expensive.
	p.Swap(types.TokenETH, 25)
	assert.Less(t, p.Price(), 2300.0)

	q := newFundedPool(0.003)
	q.Swap(types.TokenUSDC, 50_000)
	assert.Greater(t, q.Price(), 2300.0)
}

func TestAddRemoveLiquidity(t *testing.T) {
	p := newFundedPool(0.003)

	p.AddLiquidity(types.TokenETH, 10)
	assert.Equal(t, 1010.0, p.ReserveX())

	p.RemoveLiquidity(types.TokenETH, 10)
	assert.Equal(t, 1000.0, p.ReserveX())
}

func TestTotalValueLocked(t *testing.T) {
	p := newFundedPool(0.003)
	feed := types.PriceFeed{types.TokenETH: 2300, types.TokenUSDC: 1}

	assert.InDelta(t, 1000*2300+2_300_000, p.TotalValueLocked(feed), 1e-6)
}

func TestDiamondTotalValueLockedIncludesVault(t *testing.T) {
	d := NewDiamond(types.TokenETH, types.TokenUSDC, 0.003, false, 0.9, false, nil, nil)
	d.AddLiquidity(types.TokenETH, 1000)
	d.AddLiquidity(types.TokenUSDC, 2_300_000)
	d.Vault.Reserve[types.TokenETH] = 2
	d.Vault.Reserve[types.TokenUSDC] = 1000

	feed := types.PriceFeed{types.TokenETH: 2300, types.TokenUSDC: 1}

	require.InDelta(t, (1000+2)*2300+2_300_000+1000, d.TotalValueLocked(feed), 1e-6)
}

func TestLedgerAccounting(t *testing.T) {
	var l types.Ledger
	l.Append(1.5)
	l.Append(2.5)

	assert.Equal(t, 2, l.Count())
	assert.InDelta(t, 4.0, l.Total, 1e-12)
}
