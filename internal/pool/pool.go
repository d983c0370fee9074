/*

Constant-product AMM pool. Reserve bookkeeping only: share tokens are not
modelled, the pool is treated as having a single LP.

*/

package pool

import (
	"math"

	"github.com/diamond-amm/lvrsim/internal/types"
)

// Pool is a two-token constant-product AMM with a proportional fee charged
// on the input leg of every swap. Cumulative counters record LVR, fees and
// volume separately for retail and arbitrage flow.
type Pool struct {
	TokenX     types.Token
	TokenY     types.Token
	Reserve    map[types.Token]float64
	Fee        float64
	DynamicFee bool

	LVR             types.Ledger
	FeesRetail      types.Ledger
	FeesArbitrage   types.Ledger
	VolumeRetail    types.Ledger
	VolumeArbitrage types.Ledger
}

// New creates an empty pool. Reserves are seeded through AddLiquidity so
// that construction and funding stay separate, as on chain.
func New(tokenX, tokenY types.Token, fee float64, dynamicFee bool) *Pool {
	return &Pool{
		TokenX:     tokenX,
		TokenY:     tokenY,
		Reserve:    map[types.Token]float64{tokenX: 0, tokenY: 0},
		Fee:        fee,
		DynamicFee: dynamicFee,
	}
}

func (p *Pool) ReserveX() float64 { return p.Reserve[p.TokenX] }
func (p *Pool) ReserveY() float64 { return p.Reserve[p.TokenY] }

// Price is the instantaneous pool price of token X denominated in token Y.
func (p *Pool) Price() float64 {
	return p.ReserveY() / p.ReserveX()
}

// Liquidity is sqrt(x*y), the square root of the constant-product
// invariant.
func (p *Pool) Liquidity() float64 {
	return math.Sqrt(p.ReserveX() * p.ReserveY())
}

// OtherToken returns the pool token that is not t.
func (p *Pool) OtherToken(t types.Token) types.Token {
	if t == p.TokenX {
		return p.TokenY
	}
	return p.TokenX
}

// Quote computes the output amount for a swap under the constant-product
// invariant with the fee applied to the input leg. Pure: reserves are not
// touched. Callers are responsible for amountIn > 0 and funded reserves.
func (p *Pool) Quote(tokenIn types.Token, amountIn float64) float64 {
	amountInWithFee := amountIn * (1 - p.Fee)
	reserveIn := p.Reserve[tokenIn]
	reserveOut := p.Reserve[p.OtherToken(tokenIn)]
	return amountInWithFee * reserveOut / (reserveIn + amountInWithFee)
}

// Swap executes a quoted swap, crediting the input reserve and debiting the
// output reserve. The AMM curve asymptote keeps the output reserve strictly
// positive for any legitimately quoted amount.
func (p *Pool) Swap(tokenIn types.Token, amountIn float64) float64 {
	amountOut := p.Quote(tokenIn, amountIn)
	p.Reserve[tokenIn] += amountIn
	p.Reserve[p.OtherToken(tokenIn)] -= amountOut
	return amountOut
}

// AddLiquidity credits the given reserve directly.
func (p *Pool) AddLiquidity(token types.Token, amount float64) {
	p.Reserve[token] += amount
}

// RemoveLiquidity debits the given reserve directly.
func (p *Pool) RemoveLiquidity(token types.Token, amount float64) {
	p.Reserve[token] -= amount
}

// TotalValueLocked values both reserves at the given feed.
func (p *Pool) TotalValueLocked(feed types.PriceFeed) float64 {
	return p.Reserve[p.TokenX]*feed[p.TokenX] + p.Reserve[p.TokenY]*feed[p.TokenY]
}
