/*

Profit-maximizing arbitrage against a constant-product pool, and the
LVR / fee / volume accounting that goes with it.

*/

package strategy

import (
	"math"

	"github.com/diamond-amm/lvrsim/internal/pool"
	"github.com/diamond-amm/lvrsim/internal/types"
)

// ComputeProfitMaximizingTrade solves in closed form for the optimal
// arbitrage trade against a constant-product pool with a proportional fee
// on the input leg, given the true prices of both tokens.
//
// xToY is true when the arbitrageur sends token X into the pool. amountIn
// is zero when no profitable trade exists inside the fee band, in which
// case the direction flag is meaningless.
//
// This routine is shared by the plain-pool arbitrage path and the diamond
// core protocol: both must agree on arbitrage sizing for results to stay
// comparable across pool types.
func ComputeProfitMaximizingTrade(truePriceX, truePriceY float64, p *pool.Pool) (xToY bool, amountIn float64) {
	reserveX, reserveY := p.ReserveX(), p.ReserveY()
	fee := p.Fee

	xToY = reserveX*truePriceX/reserveY < truePriceY

	invariant := reserveX * reserveY

	priceIn, priceOut := truePriceX, truePriceY
	reserveIn := reserveX
	if !xToY {
		priceIn, priceOut = truePriceY, truePriceX
		reserveIn = reserveY
	}

	left := math.Sqrt(invariant * priceOut / (priceIn * (1 - fee)))
	right := reserveIn / (1 - fee)

	if left < right {
		// The price gap sits inside the fee band: no arbitrage.
		return false, 0
	}
	return xToY, left - right
}

// PerformArbitrage executes the profit-maximizing trade against a plain
// pool when it clears the arbitrageur's costs. This is the beta = 0
// counterpart of the diamond core protocol: the LP absorbs the full loss
// and no vault exists.
func PerformArbitrage(p *pool.Pool, feed types.PriceFeed, txFeePerETH float64) {
	targetPrice := feed.Ratio(p.TokenX, p.TokenY)
	txFee := txFeePerETH * targetPrice

	xToY, amountIn := ComputeProfitMaximizingTrade(feed[p.TokenX], feed[p.TokenY], p)
	if amountIn <= 0 {
		return
	}

	tokenIn := p.TokenX
	if !xToY {
		tokenIn = p.TokenY
	}
	tokenOut := p.OtherToken(tokenIn)

	swapFee := amountIn * feed[tokenIn] * p.Fee
	lpLossVsCEX := p.Quote(tokenIn, amountIn)*feed[tokenOut] - amountIn*feed[tokenIn] + swapFee
	arbitrageurProfit := lpLossVsCEX - swapFee - txFee
	if arbitrageurProfit <= 0 {
		return
	}

	p.Swap(tokenIn, amountIn)
	p.LVR.Append(lpLossVsCEX) // accounted without swap and tx fees
	p.FeesArbitrage.Append(swapFee)
	p.VolumeArbitrage.Append(amountIn * feed[tokenIn])
}
