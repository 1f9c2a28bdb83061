package air

import (
	"fmt"
	"math"

	"SizeWise/internal/calc/validation"
)

const (
	rankineOffset = 459.67
	kelvinOffset  = 273.15

	// standard atmosphere, pressure in inHg and altitude in ft
	lapseCoefficient = 6.8754e-6
	pressureExponent = 5.2559

	// water vapour / dry air molecular weight complement
	vaporDensityFactor = 0.378

	hPaToInHg = 0.0295300

	// Sutherland's law for air
	sutherlandMu0 = 1.716e-5 // Pa·s at sutherlandT0
	sutherlandT0  = 273.15   // K
	sutherlandS   = 110.4    // K
	paSToLbFtS    = 0.671969

	speedOfSoundFactor = 49.0223 // ft/s per sqrt(°R)
)

// Conditions are the ambient conditions of the air in the duct.
type Conditions struct {
	Temperature float64 `json:"temperature_f"`
	Altitude    float64 `json:"altitude_ft"`
	Humidity    float64 `json:"relative_humidity"`
}

func StandardConditions() Conditions {
	return Conditions{Temperature: 70, Altitude: 0, Humidity: 50}
}

// Properties are derived per call and never cached.
type Properties struct {
	Density            float64 `json:"density"`             // lb/ft³
	Viscosity          float64 `json:"dynamic_viscosity"`   // lb/(ft·s)
	KinematicViscosity float64 `json:"kinematic_viscosity"` // ft²/s
	DensityRatio       float64 `json:"density_ratio"`
	Pressure           float64 `json:"pressure_in_hg"`
	VaporPressure      float64 `json:"vapor_pressure_in_hg"`
	SpeedOfSound       float64 `json:"speed_of_sound_fps"`
}

// Standard holds the reference air the engine is calibrated to and the
// supported ranges of the correlations.
type Standard struct {
	Conditions       Conditions
	Density          float64 // lb/ft³ at Conditions
	SeaLevelPressure float64 // inHg
	TemperatureRange validation.Range
	AltitudeRange    validation.Range
	HumidityRange    validation.Range
}

func DefaultStandard() Standard {
	return Standard{
		Conditions:       StandardConditions(),
		Density:          0.075,
		SeaLevelPressure: 29.921,
		TemperatureRange: validation.Range{Min: -40, Max: 200},
		AltitudeRange:    validation.Range{Min: 0, Max: 15000},
		HumidityRange:    validation.Range{Min: 0, Max: 100},
	}
}

// Compute derives air properties using the default standard air.
func Compute(c Conditions) Properties {
	return DefaultStandard().Compute(c)
}

// Compute clamps c into the supported range and derives its properties.
// Use Check to obtain the warnings for clamped fields.
func (s Standard) Compute(c Conditions) Properties {
	c = s.clamp(c)
	ref := s.Conditions

	p := s.pressureAt(c.Altitude)
	pv := vaporPressure(c, p)
	pRef := s.pressureAt(ref.Altitude)
	pvRef := vaporPressure(ref, pRef)

	ratio := ((p - vaporDensityFactor*pv) / (pRef - vaporDensityFactor*pvRef)) *
		((ref.Temperature + rankineOffset) / (c.Temperature + rankineOffset))
	density := s.Density * ratio
	mu := viscosity(c.Temperature)

	return Properties{
		Density:            density,
		Viscosity:          mu,
		KinematicViscosity: mu / density,
		DensityRatio:       ratio,
		Pressure:           p,
		VaporPressure:      pv,
		SpeedOfSound:       speedOfSoundFactor * math.Sqrt(c.Temperature+rankineOffset),
	}
}

// Check reports the fields of c that lie outside the supported range.
func (s Standard) Check(c Conditions) []string {
	var w validation.Warnings
	if !s.TemperatureRange.Contains(c.Temperature) {
		w.Addf("temperature %g°F outside supported range %g to %g°F; clamped",
			c.Temperature, s.TemperatureRange.Min, s.TemperatureRange.Max)
	}
	if !s.AltitudeRange.Contains(c.Altitude) {
		w.Addf("altitude %g ft outside supported range %g to %g ft; clamped",
			c.Altitude, s.AltitudeRange.Min, s.AltitudeRange.Max)
	}
	if !s.HumidityRange.Contains(c.Humidity) {
		w.Addf("relative humidity %g%% outside supported range %g to %g%%; clamped",
			c.Humidity, s.HumidityRange.Min, s.HumidityRange.Max)
	}
	return w
}

// Validate rejects non-finite conditions, which cannot be clamped.
func Validate(c Conditions) error {
	if err := validation.Finite("temperature", c.Temperature); err != nil {
		return err
	}
	if err := validation.Finite("altitude", c.Altitude); err != nil {
		return err
	}
	return validation.Finite("relative humidity", c.Humidity)
}

// IsStandard reports whether c matches the reference conditions.
func (s Standard) IsStandard(c Conditions) bool {
	return c == s.Conditions
}

func (c Conditions) String() string {
	return fmt.Sprintf("%g°F, %g ft, %g%% RH", c.Temperature, c.Altitude, c.Humidity)
}

func (s Standard) clamp(c Conditions) Conditions {
	return Conditions{
		Temperature: s.TemperatureRange.Clamp(c.Temperature),
		Altitude:    s.AltitudeRange.Clamp(c.Altitude),
		Humidity:    s.HumidityRange.Clamp(c.Humidity),
	}
}

func (s Standard) pressureAt(altitude float64) float64 {
	return s.SeaLevelPressure * math.Pow(1-lapseCoefficient*altitude, pressureExponent)
}

// vaporPressure is the partial pressure of water vapour in inHg, never above p.
func vaporPressure(c Conditions, p float64) float64 {
	return math.Min(c.Humidity/100*saturationPressure(c.Temperature), p)
}

// saturationPressure uses the Magnus form over water, result in inHg.
func saturationPressure(tempF float64) float64 {
	tc := (tempF - 32) / 1.8
	return 6.1094 * math.Exp(17.625*tc/(tc+243.04)) * hPaToInHg
}

func viscosity(tempF float64) float64 {
	tk := (tempF-32)/1.8 + kelvinOffset
	mu := sutherlandMu0 * math.Pow(tk/sutherlandT0, 1.5) * (sutherlandT0 + sutherlandS) / (tk + sutherlandS)
	return mu * paSToLbFtS
}
