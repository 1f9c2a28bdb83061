package friction

import "math"

type FlowRegime string

const (
	RegimeLaminar         FlowRegime = "laminar"
	RegimeTransitional    FlowRegime = "transitional"
	RegimeTurbulentSmooth FlowRegime = "turbulent_smooth"
	RegimeTurbulentRough  FlowRegime = "turbulent_rough"
	RegimeFullyRough      FlowRegime = "fully_rough"
)

const (
	laminarReynolds   = 2300.0
	turbulentReynolds = 4000.0

	// roughness Reynolds number ε⁺ bounds
	smoothRoughnessReynolds = 5.0
	roughRoughnessReynolds  = 70.0
)

// roughnessReynolds is ε⁺ = Re·(ε/D)·√(f/8).
func roughnessReynolds(re, rr, f float64) float64 {
	return re * rr * math.Sqrt(f/8)
}

// ClassifyRegime classifies the flow from the Reynolds number and, when
// turbulent, the roughness Reynolds number.
func ClassifyRegime(re, rr, f float64) FlowRegime {
	switch {
	case re < laminarReynolds:
		return RegimeLaminar
	case re < turbulentReynolds:
		return RegimeTransitional
	}
	switch eps := roughnessReynolds(re, rr, f); {
	case eps < smoothRoughnessReynolds:
		return RegimeTurbulentSmooth
	case eps <= roughRoughnessReynolds:
		return RegimeTurbulentRough
	}
	return RegimeFullyRough
}

func (r FlowRegime) Turbulent() bool {
	switch r {
	case RegimeTurbulentSmooth, RegimeTurbulentRough, RegimeFullyRough:
		return true
	}
	return false
}
