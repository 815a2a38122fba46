package pricing

import "math"

// ForwardRate is the covered-interest-parity forward S*exp((rd-rf)*t).
func ForwardRate(spot, domesticRate, foreignRate, t float64) float64 {
	return spot * math.Exp((domesticRate-foreignRate)*t)
}
