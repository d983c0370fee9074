package pool

import "github.com/diamond-amm/lvrsim/internal/types"

// Hook is the sole extension point for protocol variants. Hooks run inside
// the block loop and mutate the pool in place; a nil hook is a no-op.
type Hook func(d *DiamondPool, feed types.PriceFeed, volatility float64, blockNum int)

// DiamondPool extends Pool with a side vault and a beta-weighted split of
// captured arbitrage profit between the LPs and the vault.
type DiamondPool struct {
	Pool

	// Beta is the fraction of arbitrage profit diverted to the vault
	// instead of being realized as pool loss. When DynamicBeta is set, the
	// simulator refreshes it from the volatility curve before every block.
	Beta        float64
	DynamicBeta bool

	Vault      *Vault
	BeforeSwap Hook
	AfterSwap  Hook
}

// NewDiamond creates an unfunded diamond pool with an empty vault.
func NewDiamond(tokenX, tokenY types.Token, fee float64, dynamicFee bool, beta float64, dynamicBeta bool, before, after Hook) *DiamondPool {
	return &DiamondPool{
		Pool:        *New(tokenX, tokenY, fee, dynamicFee),
		Beta:        beta,
		DynamicBeta: dynamicBeta,
		Vault:       NewVault(tokenX, tokenY),
		BeforeSwap:  before,
		AfterSwap:   after,
	}
}

// TotalValueLocked includes the vault: value parked there still belongs to
// the pool's LPs.
func (d *DiamondPool) TotalValueLocked(feed types.PriceFeed) float64 {
	return (d.Reserve[d.TokenX]+d.Vault.Reserve[d.TokenX])*feed[d.TokenX] +
		(d.Reserve[d.TokenY]+d.Vault.Reserve[d.TokenY])*feed[d.TokenY]
}
