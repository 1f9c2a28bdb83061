package friction

import "SizeWise/internal/calc/validation"

const (
	smoothRelativeRoughness = 1e-6
	chenRelativeRoughness   = 0.01
	chenReynolds            = 1e5
)

// OptimalMethod chooses a correlation for a Reynolds number and relative
// roughness. Haaland is the fallback.
func OptimalMethod(re, rr float64, accuracy validation.Accuracy) Method {
	switch {
	case accuracy == validation.AccuracyMaximum:
		return MethodColebrookWhite
	case rr < smoothRelativeRoughness && accuracy == validation.AccuracyStandard:
		return MethodSwameeJain
	case rr >= chenRelativeRoughness && re >= chenReynolds:
		return MethodChen
	}
	return MethodHaaland
}
