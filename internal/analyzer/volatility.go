package analyzer

import (
	"errors"

	"github.com/diamond-amm/lvrsim/internal/types"
)

// ErrInsufficientData indicates that the price series is too short for the
// requested window.
var ErrInsufficientData = errors.New("insufficient data points for the requested window")

// TimeWeightedMovingAverage computes a sliding-window mean over prices. The
// window sum is maintained incrementally: each step adds the price entering
// the window and subtracts the one leaving it, O(1) amortized per step
// after the O(window) seed.
//
// The output holds the seed mean plus len(prices)-window-1 incremental
// entries.
func TimeWeightedMovingAverage(prices []float64, window int) []float64 {
	var seed float64
	for _, p := range prices[:window] {
		seed += p
	}

	twma := make([]float64, 0, len(prices)-window)
	twma = append(twma, seed/float64(window))
	for i := 0; i < len(prices)-window-1; i++ {
		twma = append(twma, twma[i]+(prices[i+window]-prices[i])/float64(window))
	}
	return twma
}

// CalculateVolatility estimates per-block volatility of the x/y price ratio
// as a rolling mean of squared deviations from the TWMA, offset by one
// window so that each price is compared against the average of the window
// preceding it. Both passes are maintained incrementally.
//
// The result is shorter than the oracle by 2*window entries; the simulator
// aligns indices by trimming the oracle's warm-up blocks after calling
// this.
func CalculateVolatility(tokenX, tokenY types.Token, oracle types.Oracle, window int) ([]float64, error) {
	if len(oracle) < 2*window+1 {
		return nil, ErrInsufficientData
	}

	prices := make([]float64, len(oracle))
	for i, feed := range oracle {
		prices[i] = feed.Ratio(tokenX, tokenY)
	}
	twma := TimeWeightedMovingAverage(prices, window)

	var seed float64
	for i := 0; i < window; i++ {
		dev := prices[i+window] - twma[i]
		seed += dev * dev
	}

	volatility := make([]float64, 0, len(prices)-2*window)
	volatility = append(volatility, seed/float64(window))
	for i := 0; i < len(prices)-2*window-1; i++ {
		entering := prices[i+2*window] - twma[i+window]
		leaving := prices[i+window] - twma[i]
		volatility = append(volatility, volatility[i]+(entering*entering-leaving*leaving)/float64(window))
	}
	return volatility, nil
}
