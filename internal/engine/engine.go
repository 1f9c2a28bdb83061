// Package engine bundles the air, velocity pressure and friction
// calculators behind one immutable configuration.
package engine

import (
	"gonum.org/v1/gonum/floats"

	"SizeWise/internal/calc/air"
	"SizeWise/internal/calc/friction"
	"SizeWise/internal/calc/validation"
	"SizeWise/internal/calc/velocity"
	"SizeWise/internal/config"
)

type Engine struct {
	air      air.Standard
	velocity *velocity.Calculator
	friction *friction.Calculator
}

func New(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fc, err := friction.NewCalculator(cfg.Air, cfg.Friction.Tables, cfg.Friction.Limits, cfg.Friction.Solver)
	if err != nil {
		return nil, err
	}
	return &Engine{
		air:      cfg.Air,
		velocity: velocity.NewCalculator(cfg.Air, cfg.Velocity.Limits, cfg.Velocity.Table, cfg.Velocity.CFD),
		friction: fc,
	}, nil
}

func Default() *Engine {
	e, err := New(config.Default())
	if err != nil {
		panic(err)
	}
	return e
}

type AirResult struct {
	Conditions air.Conditions `json:"conditions"`
	Properties air.Properties `json:"properties"`
	Warnings   []string       `json:"warnings"`
}

// AirProperties derives properties for c. Out-of-range conditions are
// clamped and reported as warnings.
func (e *Engine) AirProperties(c air.Conditions) (AirResult, error) {
	if err := air.Validate(c); err != nil {
		return AirResult{}, err
	}
	var w validation.Warnings
	w.Append(e.air.Check(c)...)
	return AirResult{Conditions: c, Properties: e.air.Compute(c), Warnings: w.List()}, nil
}

func (e *Engine) VelocityPressure(in velocity.Input) (velocity.Result, error) {
	return e.velocity.Calculate(in)
}

func (e *Engine) VelocityFromPressure(vp float64) (velocity.VelocityResult, error) {
	return e.velocity.FromPressure(vp)
}

func (e *Engine) FrictionLoss(in friction.Input) (friction.Result, error) {
	return e.friction.Calculate(in)
}

func (e *Engine) OptimalVelocityPressureMethod(v float64, accuracy validation.Accuracy) velocity.Method {
	return e.velocity.OptimalMethod(v, accuracy)
}

func (e *Engine) OptimalFrictionMethod(re, rr float64, accuracy validation.Accuracy) friction.Method {
	return friction.OptimalMethod(re, rr, accuracy)
}

func (e *Engine) MaterialNames() []string {
	return e.friction.Materials()
}

// Roughness is the base roughness of a material in ft.
func (e *Engine) Roughness(material string) (float64, error) {
	return e.friction.Roughness(material)
}

// Comparison holds one result per correlation for the same duct.
type Comparison struct {
	Results []friction.Result `json:"results"`
	Min     float64           `json:"min_friction_loss"`
	Max     float64           `json:"max_friction_loss"`
	Spread  float64           `json:"spread"` // (max-min)/min
}

// CompareFrictionMethods runs every correlation on in. The requested
// method on in is ignored.
func (e *Engine) CompareFrictionMethods(in friction.Input) (Comparison, error) {
	cmp := Comparison{Results: make([]friction.Result, 0, len(friction.Correlations))}
	losses := make([]float64, 0, len(friction.Correlations))
	for _, m := range friction.Correlations {
		in.Method = m
		res, err := e.friction.Calculate(in)
		if err != nil {
			return Comparison{}, err
		}
		cmp.Results = append(cmp.Results, res)
		losses = append(losses, res.FrictionLoss)
	}
	cmp.Min = floats.Min(losses)
	cmp.Max = floats.Max(losses)
	cmp.Spread = (cmp.Max - cmp.Min) / cmp.Min
	return cmp, nil
}
