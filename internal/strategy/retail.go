package strategy

import (
	"math"
	"math/rand"

	"github.com/diamond-amm/lvrsim/internal/pool"
	"github.com/diamond-amm/lvrsim/internal/types"
)

// Transaction is one uninformed retail order: a size denominated in token Y
// value and a direction (+1 for X to Y, -1 for Y to X).
type Transaction struct {
	Size      float64
	Direction int
}

// GenerateUninformedTransactions draws n swap sizes from an exponential
// distribution with the given mean and pairs each with an independent
// uniform direction.
func GenerateUninformedTransactions(rng *rand.Rand, n int, scale float64) []Transaction {
	txs := make([]Transaction, 0, n)
	for i := 0; i < n; i++ {
		direction := 1
		if rng.Intn(2) == 0 {
			direction = -1
		}
		txs = append(txs, Transaction{Size: rng.ExpFloat64() * scale, Direction: direction})
	}
	return txs
}

// MultiPoolRandomSwap routes one block of synthetic retail flow across the
// candidate pools. The per-block transaction count and mean size are drawn
// from the calibrated normal distributions, floored at zero. Every order is
// quoted on every pool; the order is split evenly across the set of pools
// tied for the single best output (exact float equality defines a tie), and
// each split executes a real swap with retail fee and volume accounting.
// Identical pools therefore receive identical flow.
func MultiPoolRandomSwap(rng *rand.Rand, pools []*pool.Pool, feed types.PriceFeed, flow types.RetailFlowParameters) {
	if len(pools) == 0 {
		return
	}

	tokenX, tokenY := pools[0].TokenX, pools[0].TokenY
	targetPrice := feed.Ratio(tokenX, tokenY)

	n := int(math.Round(rng.NormFloat64()*flow.TxCountStd + flow.TxCountMean))
	if n < 0 {
		n = 0
	}
	scale := rng.NormFloat64()*flow.TxSizeStd + flow.TxSizeMean
	if scale < 0 {
		scale = 0
	}

	type pendingSwap struct {
		pool      *pool.Pool
		size      float64
		direction int
	}
	var pending []pendingSwap

	for _, tx := range GenerateUninformedTransactions(rng, n, scale) {
		var bestPools []*pool.Pool
		bestAmountOut := 0.0
		for _, p := range pools {
			var amountOut float64
			if tx.Direction == 1 {
				amountOut = p.Quote(tokenX, tx.Size/targetPrice)
			} else {
				amountOut = p.Quote(tokenY, tx.Size)
			}
			switch {
			case amountOut > bestAmountOut:
				bestAmountOut = amountOut
				bestPools = []*pool.Pool{p}
			case amountOut == bestAmountOut:
				bestPools = append(bestPools, p)
			}
		}

		if len(bestPools) == 0 {
			continue
		}
		split := tx.Size / float64(len(bestPools))
		for _, p := range bestPools {
			pending = append(pending, pendingSwap{pool: p, size: split, direction: tx.Direction})
		}
	}

	for _, s := range pending {
		if s.direction == 1 {
			s.pool.Swap(tokenX, s.size/targetPrice)
		} else {
			s.pool.Swap(tokenY, s.size)
		}
		s.pool.FeesRetail.Append(s.size * feed[tokenY] * s.pool.Fee)
		s.pool.VolumeRetail.Append(s.size * feed[tokenY])
	}
}
