package friction

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"SizeWise/internal/calc/air"
	"SizeWise/internal/calc/validation"
)

type Method string

const (
	MethodAuto           Method = ""
	MethodColebrookWhite Method = "colebrook_white"
	MethodHaaland        Method = "haaland"
	MethodSwameeJain     Method = "swamee_jain"
	MethodChen           Method = "chen"
	MethodEnhancedDarcy  Method = "enhanced_darcy"

	// MethodLaminar is reported, never requested: it marks results whose
	// friction factor came from 64/Re.
	MethodLaminar Method = "laminar"
)

// Correlations are the methods that differ only in the friction factor.
var Correlations = []Method{MethodColebrookWhite, MethodHaaland, MethodSwameeJain, MethodChen}

const (
	vpConstant = 4005.0
	gc         = 32.174 // lbm·ft/(lbf·s²)
)

type Input struct {
	Velocity          float64             `json:"velocity"`           // ft/min
	HydraulicDiameter float64             `json:"hydraulic_diameter"` // in
	Length            float64             `json:"length"`             // ft
	Material          string              `json:"material"`
	MaterialAge       MaterialAge         `json:"material_age,omitempty"`
	SurfaceCondition  SurfaceCondition    `json:"surface_condition,omitempty"`
	Method            Method              `json:"method"`
	Conditions        *air.Conditions     `json:"air_conditions,omitempty"`
	Accuracy          validation.Accuracy `json:"accuracy,omitempty"`
}

type MaterialProperties struct {
	Material          string  `json:"material"`
	BaseRoughness     float64 `json:"base_roughness"` // ft
	AgingFactor       float64 `json:"aging_factor"`
	SurfaceFactor     float64 `json:"surface_factor"`
	CombinedRoughness float64 `json:"combined_roughness"` // ft
}

type FlowProperties struct {
	ReynoldsNumber     float64 `json:"reynolds_number"`
	Velocity           float64 `json:"velocity"`     // ft/min
	VelocityFPS        float64 `json:"velocity_fps"` // ft/s
	VelocityPressure   float64 `json:"velocity_pressure"`
	RelativeRoughness  float64 `json:"relative_roughness"`
	RoughnessReynolds  float64 `json:"roughness_reynolds"`
	Density            float64 `json:"density"`
	DensityRatio       float64 `json:"density_ratio"`
	KinematicViscosity float64 `json:"kinematic_viscosity"`
}

type Result struct {
	FrictionLoss   float64            `json:"friction_loss"` // in. w.g.
	FrictionRate   float64            `json:"friction_rate"` // in. w.g. per 100 ft
	FrictionFactor float64            `json:"friction_factor"`
	ReynoldsNumber float64            `json:"reynolds_number"`
	FlowRegime     FlowRegime         `json:"flow_regime"`
	Method         Method             `json:"method"`
	BaseMethod     Method             `json:"base_method,omitempty"`
	Accuracy       float64            `json:"accuracy"`
	Material       MaterialProperties `json:"material_properties"`
	Flow           FlowProperties     `json:"flow_properties"`
	Warnings       []string           `json:"warnings"`
}

// Limits are the validated ranges; values outside only produce warnings.
type Limits struct {
	Velocity             validation.Range // ft/min
	Diameter             validation.Range // in
	MaxReynolds          float64
	MaxRelativeRoughness float64
}

func DefaultLimits() Limits {
	return Limits{
		Velocity:             validation.Range{Min: 100, Max: 6000},
		Diameter:             validation.Range{Min: 3, Max: 120},
		MaxReynolds:          1e8,
		MaxRelativeRoughness: 0.05,
	}
}

// Calculator is immutable after construction and safe for concurrent use.
type Calculator struct {
	air    air.Standard
	tables Tables
	limits Limits
	solver Solver
}

func NewCalculator(std air.Standard, tables Tables, limits Limits, solver Solver) (*Calculator, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	if solver.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: solver needs at least one iteration", validation.ErrInvalidInput)
	}
	return &Calculator{air: std, tables: tables.clone(), limits: limits, solver: solver}, nil
}

func Default() *Calculator {
	c, err := NewCalculator(air.DefaultStandard(), DefaultTables(), DefaultLimits(), DefaultSolver())
	if err != nil {
		panic(err)
	}
	return c
}

func Calculate(in Input) (Result, error) {
	return Default().Calculate(in)
}

// Materials lists the known material identifiers in order.
func (c *Calculator) Materials() []string {
	return c.tables.names()
}

// Roughness returns the base roughness of a material in ft.
func (c *Calculator) Roughness(material string) (float64, error) {
	_, r, err := c.tables.roughness(material)
	return r, err
}

func (c *Calculator) Calculate(in Input) (Result, error) {
	if err := validation.Positive("velocity", in.Velocity); err != nil {
		return Result{}, err
	}
	if err := validation.Positive("hydraulic diameter", in.HydraulicDiameter); err != nil {
		return Result{}, err
	}
	if err := validation.Positive("length", in.Length); err != nil {
		return Result{}, err
	}
	accuracy, err := validation.ParseAccuracy(string(in.Accuracy))
	if err != nil {
		return Result{}, err
	}
	if !in.Method.valid() {
		return Result{}, fmt.Errorf("%w: unknown friction method %q", validation.ErrInvalidInput, in.Method)
	}
	mat, err := c.material(in)
	if err != nil {
		return Result{}, err
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
	w.Append(c.air.Check(conditions)...)

	diameterFt := in.HydraulicDiameter / 12
	fps := in.Velocity / 60
	// Density enters in slug/ft³ against viscosity in lb/(ft·s); the
	// regime bands of the duct tables are stated on this number.
	re := props.Density / gc * fps * diameterFt / props.Viscosity

	baseRR := mat.BaseRoughness / diameterFt
	method := in.Method
	if method == MethodAuto {
		method = c.autoMethod(in, re, baseRR, accuracy)
	}
	rr := baseRR
	if method == MethodEnhancedDarcy {
		rr = mat.CombinedRoughness / diameterFt
	}

	f, used, base := c.factor(method, re, baseRR, rr, &w)
	regime := ClassifyRegime(re, rr, f)

	vp := math.Pow(in.Velocity/vpConstant, 2) * props.DensityRatio
	loss := f * (in.Length / diameterFt) * vp

	c.checkRanges(in, re, rr, regime, &w)

	return Result{
		FrictionLoss:   loss,
		FrictionRate:   loss / in.Length * 100,
		FrictionFactor: f,
		ReynoldsNumber: re,
		FlowRegime:     regime,
		Method:         used,
		BaseMethod:     base,
		Accuracy:       accuracyOf(used, regime),
		Material:       mat,
		Flow: FlowProperties{
			ReynoldsNumber:     re,
			Velocity:           in.Velocity,
			VelocityFPS:        fps,
			VelocityPressure:   vp,
			RelativeRoughness:  rr,
			RoughnessReynolds:  roughnessReynolds(re, rr, f),
			Density:            props.Density,
			DensityRatio:       props.DensityRatio,
			KinematicViscosity: props.KinematicViscosity,
		},
		Warnings: w.List(),
	}, nil
}

func (c *Calculator) material(in Input) (MaterialProperties, error) {
	name, base, err := c.tables.roughness(in.Material)
	if err != nil {
		return MaterialProperties{}, err
	}
	aging, err := c.tables.agingFactor(in.MaterialAge)
	if err != nil {
		return MaterialProperties{}, err
	}
	surface, err := c.tables.surfaceFactor(in.SurfaceCondition)
	if err != nil {
		return MaterialProperties{}, err
	}
	return MaterialProperties{
		Material:          name,
		BaseRoughness:     base,
		AgingFactor:       aging,
		SurfaceFactor:     surface,
		CombinedRoughness: base * aging * surface,
	}, nil
}

// autoMethod prefers ENHANCED_DARCY whenever the caller described the
// duct's age or surface, since only it applies those multipliers.
func (c *Calculator) autoMethod(in Input, re, rr float64, accuracy validation.Accuracy) Method {
	if in.MaterialAge != AgeUnspecified || in.SurfaceCondition != SurfaceUnspecified {
		return MethodEnhancedDarcy
	}
	return OptimalMethod(re, rr, accuracy)
}

// factor returns the friction factor, the method that produced it and,
// for ENHANCED_DARCY, the correlation underneath. baseRR is the relative
// roughness before the aging and surface multipliers, rr the one in use.
func (c *Calculator) factor(method Method, re, baseRR, rr float64, w *validation.Warnings) (float64, Method, Method) {
	if re < laminarReynolds {
		w.Addf("laminar flow (Re %.0f): friction factor from 64/Re", re)
		if method == MethodEnhancedDarcy {
			return laminar(re) * c.roughnessCorrection(baseRR, rr), MethodEnhancedDarcy, MethodLaminar
		}
		return laminar(re), MethodLaminar, ""
	}
	switch method {
	case MethodHaaland:
		return haaland(re, rr), MethodHaaland, ""
	case MethodSwameeJain:
		return swameeJain(re, rr), MethodSwameeJain, ""
	case MethodChen:
		return chen(re, rr), MethodChen, ""
	case MethodEnhancedDarcy:
		f, base := c.colebrookOrHaaland(re, rr, w)
		return f, MethodEnhancedDarcy, base
	}
	f, used := c.colebrookOrHaaland(re, rr, w)
	return f, used, ""
}

func (c *Calculator) colebrookOrHaaland(re, rr float64, w *validation.Warnings) (float64, Method) {
	f, n, ok := c.solver.colebrook(re, rr)
	if ok {
		return f, MethodColebrookWhite
	}
	log.WithFields(log.Fields{
		"reynolds":   re,
		"roughness":  rr,
		"iterations": n,
	}).Debug("colebrook-white did not converge")
	w.Addf("colebrook-white did not converge within %d iterations; using %s", c.solver.MaxIterations, MethodHaaland)
	return haaland(re, rr), MethodHaaland
}

// roughnessCorrection carries the aging and surface multipliers into
// laminar flow, where 64/Re alone ignores the wall. It is the ratio of the
// Colebrook-White factors for the combined and base roughness at the onset
// of turbulence, so it is 1 for a new average surface and grows strictly
// with the combined roughness.
func (c *Calculator) roughnessCorrection(baseRR, rr float64) float64 {
	if rr == baseRR {
		return 1
	}
	fBase, _, okBase := c.solver.colebrook(turbulentReynolds, baseRR)
	fComb, _, okComb := c.solver.colebrook(turbulentReynolds, rr)
	if !okBase || !okComb {
		return haaland(turbulentReynolds, rr) / haaland(turbulentReynolds, baseRR)
	}
	return fComb / fBase
}

func (c *Calculator) checkRanges(in Input, re, rr float64, regime FlowRegime, w *validation.Warnings) {
	if regime == RegimeTransitional {
		w.Addf("transitional flow (Re %.0f): friction factor is uncertain", re)
	}
	if !c.limits.Velocity.Contains(in.Velocity) {
		w.Addf("velocity %g ft/min outside validated range %g to %g ft/min",
			in.Velocity, c.limits.Velocity.Min, c.limits.Velocity.Max)
	}
	if !c.limits.Diameter.Contains(in.HydraulicDiameter) {
		w.Addf("hydraulic diameter %g in outside validated range %g to %g in",
			in.HydraulicDiameter, c.limits.Diameter.Min, c.limits.Diameter.Max)
	}
	if re > c.limits.MaxReynolds {
		w.Addf("Reynolds number %.3g above validated maximum %.3g", re, c.limits.MaxReynolds)
	}
	if rr > c.limits.MaxRelativeRoughness {
		w.Addf("relative roughness %.3g above validated maximum %.3g", rr, c.limits.MaxRelativeRoughness)
	}
}

func accuracyOf(m Method, regime FlowRegime) float64 {
	if regime == RegimeLaminar {
		return 0.98
	}
	var acc float64
	switch m {
	case MethodColebrookWhite:
		acc = 0.98
	case MethodEnhancedDarcy:
		acc = 0.97
	case MethodSwameeJain, MethodChen:
		acc = 0.96
	default:
		acc = 0.95
	}
	if regime == RegimeTransitional {
		acc *= 0.8
	}
	return acc
}

func (m Method) valid() bool {
	switch m {
	case MethodAuto, MethodColebrookWhite, MethodHaaland, MethodSwameeJain, MethodChen, MethodEnhancedDarcy:
		return true
	}
	return false
}
