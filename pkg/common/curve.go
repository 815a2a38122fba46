package common

type CurvePoint struct {
	Spot         float64 `json:"spot"`
	UnhedgedRate float64 `json:"unhedged_rate"`
	HedgedRate   float64 `json:"hedged_rate"`
}

// GreeksPoint is computed upstream and carried through for display only.
type GreeksPoint struct {
	Spot  float64 `json:"spot"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}
