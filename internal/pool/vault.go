package pool

import "github.com/diamond-amm/lvrsim/internal/types"

// Vault holds tokens captured from arbitrage profit on behalf of a diamond
// pool's LPs, to be recycled into the pool by the maintenance passes. Its
// reserves never go negative.
type Vault struct {
	Reserve map[types.Token]float64
}

// NewVault creates an empty vault for the given token pair.
func NewVault(tokenX, tokenY types.Token) *Vault {
	return &Vault{Reserve: map[types.Token]float64{tokenX: 0, tokenY: 0}}
}
