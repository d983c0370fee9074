package analyzer

import (
	"math"

	"github.com/diamond-amm/lvrsim/internal/types"
)

// sigmoidSaturation bounds the sigmoid exponent so math.Exp stays inside
// float64 range.
const sigmoidSaturation = 700.0

// Sigmoid evaluates alpha / (1 + exp(gamma*(beta-x))), saturating the
// exponent beyond +/-700.
func Sigmoid(x, alpha, gamma, beta float64) float64 {
	arg := gamma * (beta - x)
	if arg > sigmoidSaturation {
		arg = sigmoidSaturation
	} else if arg < -sigmoidSaturation {
		arg = -sigmoidSaturation
	}
	return alpha / (1 + math.Exp(arg))
}

// DynamicFee maps realized volatility to a swap fee: a floor plus two
// sigmoid regimes, one reacting to low volatility and one to high.
func DynamicFee(volatility float64, p types.CurveParameters) float64 {
	return p.Floor +
		Sigmoid(volatility, p.Alpha1, p.Gamma1, p.Beta1) +
		Sigmoid(volatility, p.Alpha2, p.Gamma2, p.Beta2)
}

// DynamicBeta maps realized volatility to the LP/vault profit split. The
// summed curve is scaled and clamped to [0, Cap]: beta must never reach
// full arbitrage capture nor go negative.
func DynamicBeta(volatility float64, p types.CurveParameters) float64 {
	beta := DynamicFee(volatility, p) * p.Scale
	if beta < 0 {
		return 0
	}
	if beta > p.Cap {
		return p.Cap
	}
	return beta
}
