/*

The diamond pool protocol: beta-split arbitrage capture plus the two vault
maintenance passes that recycle captured value back into the pool.

*/

package protocol

import (
	"github.com/diamond-amm/lvrsim/internal/pool"
	"github.com/diamond-amm/lvrsim/internal/strategy"
	"github.com/diamond-amm/lvrsim/internal/types"
)

// CoreProtocol runs the beta-split arbitrage capture for a diamond pool.
// The trade size comes from the shared profit-maximizing solver so that
// plain and diamond pools always agree on arbitrage sizing.
//
// The arbitrage executes only when the arbitrageur's profit, net of the
// swap fee and the transaction fee, is strictly positive. Otherwise the
// block leaves the pool untouched: this gate is the central economic rule
// of the protocol.
func CoreProtocol(d *pool.DiamondPool, feed types.PriceFeed, txFeePerETH float64) {
	beta := d.Beta
	tokenX, tokenY := d.TokenX, d.TokenY
	targetPrice := feed.Ratio(tokenX, tokenY)
	txFee := txFeePerETH * targetPrice

	xToY, amountIn := strategy.ComputeProfitMaximizingTrade(feed[tokenX], feed[tokenY], &d.Pool)
	if amountIn <= 0 {
		return
	}

	tokenIn, tokenOut := tokenX, tokenY
	if !xToY {
		tokenIn, tokenOut = tokenY, tokenX
	}
	amountOut := d.Quote(tokenIn, amountIn)

	// Reserve deltas of the full trade, seen from the pool.
	deltaIn, deltaOut := amountIn, -amountOut

	swapFee := amountIn * feed[tokenIn] * d.Fee
	lpLossVsCEX := -(1-beta)*(deltaIn*feed[tokenIn]+deltaOut*feed[tokenOut]) + swapFee
	arbitrageurProfit := lpLossVsCEX - swapFee - txFee
	if arbitrageurProfit <= 0 {
		return
	}

	// Beta share of the outflow is parked in the vault, the pool keeps the
	// (1-beta) share of the inflow, and the output reserve is re-pegged to
	// the oracle price with the residual excess routed to the vault. The
	// residual is non-negative: the closed-form optimum leaves the pool
	// above the re-peg target by the fee margin.
	d.Vault.Reserve[tokenOut] += amountOut * beta
	d.Reserve[tokenIn] += amountIn * (1 - beta)

	var repegged float64
	if tokenOut == tokenY {
		repegged = d.Reserve[tokenX] * targetPrice
	} else {
		repegged = d.Reserve[tokenY] / targetPrice
	}
	d.Vault.Reserve[tokenOut] += d.Reserve[tokenOut] - amountOut - repegged
	d.Reserve[tokenOut] = repegged

	d.LVR.Append(lpLossVsCEX) // accounted without swap and tx fees
	d.FeesArbitrage.Append(swapFee)
	d.VolumeArbitrage.Append(amountIn * feed[tokenIn])
}

// VaultRebalancing moves the minimum amounts from the vault into the pool
// needed to bring the pool's reserve ratio toward the oracle price. It runs
// every block; a balanced or empty vault is a no-op. Value only moves
// between vault and pool, so the diamond pool's TVL is unchanged at fixed
// prices.
func VaultRebalancing(d *pool.DiamondPool, feed types.PriceFeed) {
	tokenX, tokenY := d.TokenX, d.TokenY
	targetPrice := feed.Ratio(tokenX, tokenY)

	vaultX := d.Vault.Reserve[tokenX]
	vaultY := d.Vault.Reserve[tokenY]

	switch {
	case vaultY < vaultX*targetPrice:
		// Vault is X-heavy: deploy all of its Y plus the matching X.
		adjustX := vaultY / targetPrice
		d.AddLiquidity(tokenY, vaultY)
		d.AddLiquidity(tokenX, adjustX)
		d.Vault.Reserve[tokenY] -= vaultY
		d.Vault.Reserve[tokenX] -= adjustX
	case vaultX < vaultY/targetPrice:
		// Vault is Y-heavy: deploy all of its X plus the matching Y.
		adjustY := vaultX * targetPrice
		d.AddLiquidity(tokenX, vaultX)
		d.AddLiquidity(tokenY, adjustY)
		d.Vault.Reserve[tokenX] -= vaultX
		d.Vault.Reserve[tokenY] -= adjustY
	}
}

// VaultConversion handles a one-sided vault: half of the single-token
// balance is synthetically converted into the missing token at the oracle
// price and both halves are folded into the pool, zeroing the vault side.
// The pass only fires when exactly one vault reserve is zero.
func VaultConversion(d *pool.DiamondPool, feed types.PriceFeed) {
	tokenX, tokenY := d.TokenX, d.TokenY
	targetPrice := feed.Ratio(tokenX, tokenY)

	vaultX := d.Vault.Reserve[tokenX]
	vaultY := d.Vault.Reserve[tokenY]

	switch {
	case vaultX == 0 && vaultY != 0:
		half := vaultY / 2
		d.AddLiquidity(tokenX, half/targetPrice)
		d.AddLiquidity(tokenY, half)
		d.Vault.Reserve[tokenY] = 0
	case vaultY == 0 && vaultX != 0:
		half := vaultX / 2
		d.AddLiquidity(tokenY, half*targetPrice)
		d.AddLiquidity(tokenX, half)
		d.Vault.Reserve[tokenX] = 0
	}
}

// StandardAfterSwap returns the canonical diamond after-swap hook: capture
// arbitrage, rebalance the vault every block, and convert a one-sided vault
// every conversionPeriod blocks.
func StandardAfterSwap(txFeePerETH float64, conversionPeriod int) pool.Hook {
	return func(d *pool.DiamondPool, feed types.PriceFeed, volatility float64, blockNum int) {
		CoreProtocol(d, feed, txFeePerETH)
		VaultRebalancing(d, feed)
		if conversionPeriod > 0 && blockNum%conversionPeriod == 0 {
			VaultConversion(d, feed)
		}
	}
}
