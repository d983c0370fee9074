/*

Block-stepped simulation engine. One Simulator instance is one independent
Monte-Carlo run: it owns its pools, its oracle, its volatility series and
its RNG, and shares no state with any other instance.

*/

package simulator

import (
	"errors"
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/diamond-amm/lvrsim/internal/analyzer"
	"github.com/diamond-amm/lvrsim/internal/logger"
	"github.com/diamond-amm/lvrsim/internal/pool"
	"github.com/diamond-amm/lvrsim/internal/strategy"
	"github.com/diamond-amm/lvrsim/internal/types"
)

// ErrOracleNotSeeded is returned when a run is started before CreateOracle
// has generated the price path.
var ErrOracleNotSeeded = errors.New("oracle has not been seeded")

// poolSlot is the closed pool variant: base always points at the pool's
// constant-product core, and diamond is non-nil only for diamond pools.
// Dispatch in the block loop happens on this tag, never on runtime type
// inspection.
type poolSlot struct {
	base    *pool.Pool
	diamond *pool.DiamondPool
}

// Simulator drives the per-block loop over a set of pools sharing one token
// pair. Fixing the seed makes an entire run reproducible bit for bit.
type Simulator struct {
	params types.SimulationParameters
	rng    *rand.Rand
	log    zerolog.Logger

	slots      []poolSlot
	oracle     types.Oracle
	volatility []float64
}

// New creates a simulator with its own seeded RNG. All mutable state is
// per-instance; independent runs are safe to execute concurrently.
func New(params types.SimulationParameters, seed int64) *Simulator {
	return &Simulator{
		params: params,
		rng:    rand.New(rand.NewSource(seed)),
		log:    logger.GetForComponent("simulator"),
	}
}

// Params returns the run configuration.
func (s *Simulator) Params() types.SimulationParameters {
	return s.params
}

// NumPools returns how many pools have been created.
func (s *Simulator) NumPools() int {
	return len(s.slots)
}

// NumBlocks returns the total block count of a full run.
func (s *Simulator) NumBlocks() int {
	return s.params.BlocksPerDay * s.params.NumDays
}

// Oracle exposes the aligned price path. Callers must not mutate it.
func (s *Simulator) Oracle() types.Oracle {
	return s.oracle
}

// Volatility exposes the aligned volatility series parallel to the oracle.
func (s *Simulator) Volatility() []float64 {
	return s.volatility
}

// CreateLiquidityPool adds a plain constant-product pool seeded with the
// given reserves.
func (s *Simulator) CreateLiquidityPool(tokenX, tokenY types.Token, reserveX, reserveY, fee float64, dynamicFee bool) *pool.Pool {
	p := pool.New(tokenX, tokenY, fee, dynamicFee)
	p.AddLiquidity(tokenX, reserveX)
	p.AddLiquidity(tokenY, reserveY)
	s.slots = append(s.slots, poolSlot{base: p})
	return p
}

// CreateDiamondPool adds a diamond pool seeded with the given reserves and
// wired with the supplied protocol hooks.
func (s *Simulator) CreateDiamondPool(tokenX, tokenY types.Token, reserveX, reserveY, fee float64, dynamicFee bool, beta float64, dynamicBeta bool, before, after pool.Hook) *pool.DiamondPool {
	d := pool.NewDiamond(tokenX, tokenY, fee, dynamicFee, beta, dynamicBeta, before, after)
	d.AddLiquidity(tokenX, reserveX)
	d.AddLiquidity(tokenY, reserveY)
	s.slots = append(s.slots, poolSlot{base: &d.Pool, diamond: d})
	return d
}

// CreateOracle generates a geometric-Brownian-motion price path for token X
// with token Y pinned at 1.0, normalizes the path so that the price at the
// end of the warm-up equals initialPrice, derives the volatility series
// over the full path, and trims the warm-up so that oracle and volatility
// indices coincide with block numbers.
func (s *Simulator) CreateOracle(initialPrice, sigmaPerDay float64) error {
	tokenX, tokenY := s.tokenPair()
	bpd := s.params.BlocksPerDay
	steps := (s.params.NumDays + 2) * bpd
	dt := 1.0 / float64(bpd)
	mu := 0.0

	path := make([]float64, steps)
	path[0] = 1.0
	for i := 1; i < steps; i++ {
		shock := sigmaPerDay * s.rng.NormFloat64() * math.Sqrt(dt)
		path[i] = path[i-1] * math.Exp((mu-sigmaPerDay*sigmaPerDay/2)*dt+shock)
	}

	norm := initialPrice / path[2*bpd]
	oracle := make(types.Oracle, steps)
	for i := range oracle {
		oracle[i] = types.PriceFeed{tokenX: path[i] * norm, tokenY: 1.0}
	}

	volatility, err := analyzer.CalculateVolatility(tokenX, tokenY, oracle, bpd)
	if err != nil {
		return err
	}

	s.volatility = volatility
	s.oracle = oracle[2*bpd:]
	return nil
}

// tokenPair returns the token pair of the run: the first pool's pair, or
// the ETH/USDC default when the oracle is seeded before any pool exists.
func (s *Simulator) tokenPair() (types.Token, types.Token) {
	if len(s.slots) > 0 {
		return s.slots[0].base.TokenX, s.slots[0].base.TokenY
	}
	return types.TokenETH, types.TokenUSDC
}

// BeforeSwap runs the dynamic parameter updates and pool-specific pre-hooks
// for the given block.
func (s *Simulator) BeforeSwap(blockNum int) {
	feed := s.oracle[blockNum]
	volatility := s.volatility[blockNum]

	for _, slot := range s.slots {
		if slot.diamond != nil {
			if slot.diamond.DynamicBeta {
				slot.diamond.Beta = analyzer.DynamicBeta(volatility, s.params.BetaCurve)
			}
			if slot.diamond.BeforeSwap != nil {
				slot.diamond.BeforeSwap(slot.diamond, feed, volatility, blockNum)
			}
		} else if slot.base.DynamicFee {
			slot.base.Fee = analyzer.DynamicFee(volatility, s.params.FeeCurve)
		}
	}
}

// RetailSwap executes the block's uninformed order flow across all pools
// simultaneously.
func (s *Simulator) RetailSwap(blockNum int) {
	bases := make([]*pool.Pool, len(s.slots))
	for i, slot := range s.slots {
		bases[i] = slot.base
	}
	strategy.MultiPoolRandomSwap(s.rng, bases, s.oracle[blockNum], s.params.RetailFlow)
}

// AfterSwap runs the diamond protocol hooks and the plain-pool arbitrage
// for the given block.
func (s *Simulator) AfterSwap(blockNum int) {
	feed := s.oracle[blockNum]
	volatility := s.volatility[blockNum]

	for _, slot := range s.slots {
		if slot.diamond != nil {
			if slot.diamond.AfterSwap != nil {
				slot.diamond.AfterSwap(slot.diamond, feed, volatility, blockNum)
			}
		} else {
			strategy.PerformArbitrage(slot.base, feed, s.params.TxFeePerETH)
		}
	}
}

// RunBlock executes one block in the fixed phase order.
func (s *Simulator) RunBlock(blockNum int) {
	s.BeforeSwap(blockNum)
	s.RetailSwap(blockNum)
	s.AfterSwap(blockNum)
}

// Run executes the full configured block range, injecting fresh liquidity
// every NewLiquidityPeriod blocks when configured. With verbose set, the
// terminal snapshot is logged.
func (s *Simulator) Run(verbose bool) error {
	if len(s.oracle) == 0 {
		return ErrOracleNotSeeded
	}

	total := s.NumBlocks()
	for blockNum := 0; blockNum < total; blockNum++ {
		s.RunBlock(blockNum)

		if s.params.NewLiquidity > 0 && s.params.NewLiquidityPeriod > 0 &&
			(blockNum+1)%s.params.NewLiquidityPeriod == 0 && blockNum != 0 {
			s.injectLiquidity(blockNum)
		}

		if verbose && blockNum == total-1 {
			s.logSnapshot(blockNum)
		}
	}
	return nil
}

// injectLiquidity splits the configured amount across pools proportionally
// to each pool's TVL share, half per side valued at the pool's own spot
// price.
func (s *Simulator) injectLiquidity(blockNum int) {
	feed := s.oracle[blockNum]

	tvls := make([]float64, len(s.slots))
	var totalTVL float64
	for i, slot := range s.slots {
		tvls[i] = s.slotTVL(slot, feed)
		totalTVL += tvls[i]
	}
	if totalTVL <= 0 {
		return
	}

	for i, slot := range s.slots {
		share := s.params.NewLiquidity * tvls[i] / totalTVL
		slot.base.AddLiquidity(slot.base.TokenX, share/2/slot.base.Price())
		slot.base.AddLiquidity(slot.base.TokenY, share/2)
	}
}

func (s *Simulator) slotTVL(slot poolSlot, feed types.PriceFeed) float64 {
	if slot.diamond != nil {
		return slot.diamond.TotalValueLocked(feed)
	}
	return slot.base.TotalValueLocked(feed)
}

// CurrentSnapshot returns the per-pool state at the given block.
func (s *Simulator) CurrentSnapshot(blockNum int) []types.PoolSnapshot {
	feed := s.oracle[blockNum]

	snapshots := make([]types.PoolSnapshot, 0, len(s.slots))
	for _, slot := range s.slots {
		p := slot.base
		snap := types.PoolSnapshot{
			Kind:                   types.PoolKindLiquidity,
			TokenXReserve:          p.ReserveX(),
			TokenYReserve:          p.ReserveY(),
			PoolPrice:              p.Price(),
			OraclePrice:            feed.Ratio(p.TokenX, p.TokenY),
			TVL:                    s.slotTVL(slot, feed),
			LVR:                    p.LVR.Total,
			CollectedFeesRetail:    p.FeesRetail.Total,
			CollectedFeesArbitrage: p.FeesArbitrage.Total,
			CollectedFees:          p.FeesRetail.Total + p.FeesArbitrage.Total,
			VolumeRetail:           p.VolumeRetail.Total,
			VolumeArbitrage:        p.VolumeArbitrage.Total,
			Volume:                 p.VolumeRetail.Total + p.VolumeArbitrage.Total,
		}
		if slot.diamond != nil {
			snap.Kind = types.PoolKindDiamond
			snap.VaultXReserve = slot.diamond.Vault.Reserve[p.TokenX]
			snap.VaultYReserve = slot.diamond.Vault.Reserve[p.TokenY]
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots
}

// Result builds the terminal metrics of a completed run.
func (s *Simulator) Result(seed int64) types.RunResult {
	last := s.NumBlocks() - 1
	pools := s.CurrentSnapshot(last)

	best := 0
	for i, p := range pools {
		if p.TVL > pools[best].TVL {
			best = i
		}
	}
	ratio := 0.0
	if pools[0].TVL > 0 {
		ratio = pools[best].TVL / pools[0].TVL
	}

	tokenX, tokenY := s.tokenPair()
	return types.RunResult{
		Seed:          seed,
		FinalPrice:    s.oracle[last].Ratio(tokenX, tokenY),
		Pools:         pools,
		BestPool:      best,
		BestPoolRatio: ratio,
	}
}

func (s *Simulator) logSnapshot(blockNum int) {
	for i, snap := range s.CurrentSnapshot(blockNum) {
		s.log.Info().
			Int("block", blockNum).
			Int("pool", i).
			Str("kind", snap.Kind).
			Float64("reserveX", snap.TokenXReserve).
			Float64("reserveY", snap.TokenYReserve).
			Float64("poolPrice", snap.PoolPrice).
			Float64("oraclePrice", snap.OraclePrice).
			Float64("tvl", snap.TVL).
			Float64("lvr", snap.LVR).
			Float64("collectedFees", snap.CollectedFees).
			Float64("volume", snap.Volume).
			Msg("Pool snapshot")
	}
}
