/*

Token and price feed primitives shared by every layer of the simulator.

*/

package types

// Token is an enumerated asset identifier. Every scenario uses exactly two
// distinct tokens: token X (the risky asset) and token Y (the numeraire).
type Token string

const (
	TokenETH  Token = "ETH"
	TokenUSDC Token = "USDC"
)

// PriceFeed maps each token to its price in a common unit of account.
// All values are strictly positive by construction of the oracle.
type PriceFeed map[Token]float64

// Ratio returns the price of x denominated in y.
func (f PriceFeed) Ratio(x, y Token) float64 {
	return f[x] / f[y]
}

// Oracle is an ordered sequence of price feeds, one per block. It is
// generated once at simulation setup and never mutated afterwards; index 0
// is the simulation's genesis block after the warm-up has been trimmed.
type Oracle []PriceFeed
