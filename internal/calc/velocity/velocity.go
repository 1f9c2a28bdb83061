package velocity

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"SizeWise/internal/calc/air"
	"SizeWise/internal/calc/validation"
)

type Method string

const (
	MethodAuto            Method = ""
	MethodFormula         Method = "formula"
	MethodEnhancedFormula Method = "enhanced_formula"
	MethodLookupTable     Method = "lookup_table"
	MethodInterpolated    Method = "interpolated"
	MethodCFDCorrected    Method = "cfd_corrected"
)

// VP = (V / 4005)² for standard air, V in ft/min and VP in in. w.g.
const formulaConstant = 4005.0

type Input struct {
	Velocity   float64             `json:"velocity"`
	Method     Method              `json:"method"`
	Conditions *air.Conditions     `json:"air_conditions,omitempty"`
	Validation validation.Level    `json:"validation_level"`
	Accuracy   validation.Accuracy `json:"accuracy"`
}

type Result struct {
	VelocityPressure float64  `json:"velocity_pressure"`
	Method           Method   `json:"method"`
	Velocity         float64  `json:"velocity"`
	DensityRatio     float64  `json:"density_ratio"`
	AirDensity       float64  `json:"air_density"`
	Accuracy         float64  `json:"accuracy"`
	Warnings         []string `json:"warnings"`
}

type VelocityResult struct {
	Velocity float64 `json:"velocity"`
}

// Limits bound the velocities that are accepted without a warning.
type Limits struct {
	Standard    validation.Range
	Strict      validation.Range
	LowVelocity float64 // below this the tables are not preferred
}

func DefaultLimits() Limits {
	return Limits{
		Standard:    validation.Range{Min: 50, Max: 10000},
		Strict:      validation.Range{Min: 300, Max: 6000},
		LowVelocity: 1500,
	}
}

// CFDCoefficients define the correction factor c0 + x·(c1 + x·c2) with
// x = (V - Center) / Scale, applied inside Band only.
type CFDCoefficients struct {
	Band   validation.Range
	Center float64
	Scale  float64
	C0     float64
	C1     float64
	C2     float64
}

func DefaultCFDCoefficients() CFDCoefficients {
	return CFDCoefficients{
		Band:   validation.Range{Min: 2000, Max: 4000},
		Center: 3000,
		Scale:  1000,
		C0:     0.998,
		C1:     0.0035,
		C2:     -0.0015,
	}
}

func (c CFDCoefficients) factor(velocity float64) float64 {
	x := (velocity - c.Center) / c.Scale
	return c.C0 + x*(c.C1+x*c.C2)
}

// Calculator is immutable after construction and safe for concurrent use.
type Calculator struct {
	air    air.Standard
	limits Limits
	table  *Table
	cfd    CFDCoefficients
}

func NewCalculator(std air.Standard, limits Limits, table *Table, cfd CFDCoefficients) *Calculator {
	if table == nil {
		table = DefaultTable()
	}
	return &Calculator{air: std, limits: limits, table: table, cfd: cfd}
}

func Default() *Calculator {
	return NewCalculator(air.DefaultStandard(), DefaultLimits(), DefaultTable(), DefaultCFDCoefficients())
}

func Calculate(in Input) (Result, error) {
	return Default().Calculate(in)
}

func FromPressure(vp float64) (VelocityResult, error) {
	if err := validation.NonNegative("velocity pressure", vp); err != nil {
		return VelocityResult{}, err
	}
	return VelocityResult{Velocity: formulaConstant * math.Sqrt(vp)}, nil
}

func (c *Calculator) Calculate(in Input) (Result, error) {
	if err := validation.Positive("velocity", in.Velocity); err != nil {
		return Result{}, err
	}
	level, err := validation.ParseLevel(string(in.Validation))
	if err != nil {
		return Result{}, err
	}
	accuracy, err := validation.ParseAccuracy(string(in.Accuracy))
	if err != nil {
		return Result{}, err
	}
	if !in.Method.valid() {
		return Result{}, fmt.Errorf("%w: unknown velocity pressure method %q", validation.ErrInvalidInput, in.Method)
	}

	conditions := c.air.Conditions
	if in.Conditions != nil {
		if err := air.Validate(*in.Conditions); err != nil {
			return Result{}, err
		}
		conditions = *in.Conditions
	}
	props := c.air.Compute(conditions)

	var w validation.Warnings
	if level != validation.LevelNone {
		c.checkVelocity(in.Velocity, level, &w)
		w.Append(c.air.Check(conditions)...)
	}

	method := in.Method
	if method == MethodAuto {
		method = c.optimalMethod(in.Velocity, accuracy, !c.air.IsStandard(conditions))
	}
	vp, used := c.compute(method, in.Velocity, props, &w)

	return Result{
		VelocityPressure: vp,
		Method:           used,
		Velocity:         in.Velocity,
		DensityRatio:     props.DensityRatio,
		AirDensity:       props.Density,
		Accuracy:         accuracyOf(used, props.DensityRatio),
		Warnings:         w.List(),
	}, nil
}

// FromPressure inverts the FORMULA relation.
func (c *Calculator) FromPressure(vp float64) (VelocityResult, error) {
	return FromPressure(vp)
}

func (c *Calculator) compute(method Method, v float64, props air.Properties, w *validation.Warnings) (float64, Method) {
	switch method {
	case MethodFormula:
		return formula(v), MethodFormula
	case MethodLookupTable, MethodInterpolated:
		if r := c.table.Range(); !r.Contains(v) {
			w.Addf("velocity %g ft/min outside lookup table range %g to %g ft/min; using %s",
				v, r.Min, r.Max, MethodEnhancedFormula)
			logFallback(method, v)
			return enhanced(v, props), MethodEnhancedFormula
		}
		if method == MethodLookupTable {
			return c.table.Linear(v) * props.DensityRatio, MethodLookupTable
		}
		return c.table.LogLinear(v) * props.DensityRatio, MethodInterpolated
	case MethodCFDCorrected:
		if !c.cfd.Band.Contains(v) {
			w.Addf("velocity %g ft/min outside CFD-validated band %g to %g ft/min; using %s",
				v, c.cfd.Band.Min, c.cfd.Band.Max, MethodEnhancedFormula)
			logFallback(method, v)
			return enhanced(v, props), MethodEnhancedFormula
		}
		return enhanced(v, props) * c.cfd.factor(v), MethodCFDCorrected
	}
	return enhanced(v, props), MethodEnhancedFormula
}

func (c *Calculator) checkVelocity(v float64, level validation.Level, w *validation.Warnings) {
	r := c.limits.Standard
	if level == validation.LevelStrict {
		r = c.limits.Strict
	}
	if v > r.Max {
		w.Addf("velocity %g ft/min exceeds %s limit of %g ft/min", v, level, r.Max)
	} else if v < r.Min {
		w.Addf("velocity %g ft/min is below %s limit of %g ft/min", v, level, r.Min)
	}
}

func formula(v float64) float64 {
	ratio := v / formulaConstant
	return ratio * ratio
}

// enhanced corrects the formula for air density and adds the first
// compressibility term of the dynamic pressure expansion.
func enhanced(v float64, props air.Properties) float64 {
	mach := v / 60 / props.SpeedOfSound
	return formula(v) * props.DensityRatio * (1 + mach*mach/4)
}

func accuracyOf(m Method, densityRatio float64) float64 {
	switch m {
	case MethodFormula:
		if math.Abs(densityRatio-1) > 0.02 {
			return 0.90
		}
		return 0.95
	case MethodLookupTable:
		return 0.96
	case MethodInterpolated:
		return 0.98
	case MethodCFDCorrected:
		return 0.99
	}
	return 0.97
}

func (m Method) valid() bool {
	switch m {
	case MethodAuto, MethodFormula, MethodEnhancedFormula, MethodLookupTable, MethodInterpolated, MethodCFDCorrected:
		return true
	}
	return false
}

func logFallback(requested Method, v float64) {
	log.WithFields(log.Fields{
		"requested": requested,
		"velocity":  v,
		"used":      MethodEnhancedFormula,
	}).Debug("velocity pressure method out of range")
}
