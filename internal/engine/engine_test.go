package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SizeWise/internal/calc/air"
	"SizeWise/internal/calc/friction"
	"SizeWise/internal/calc/validation"
	"SizeWise/internal/calc/velocity"
	"SizeWise/internal/config"
)

func TestAirProperties(t *testing.T) {
	e := Default()
	res, err := e.AirProperties(air.StandardConditions())
	require.NoError(t, err)
	assert.InDelta(t, 0.075, res.Properties.Density, 1e-12)
	assert.Empty(t, res.Warnings)

	res, err = e.AirProperties(air.Conditions{Temperature: 250, Humidity: 50})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Warnings)
}

func TestOperations(t *testing.T) {
	e := Default()

	vp, err := e.VelocityPressure(velocity.Input{Velocity: 4005, Method: velocity.MethodFormula})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, vp.VelocityPressure, 1e-9)

	v, err := e.VelocityFromPressure(1)
	require.NoError(t, err)
	assert.InDelta(t, 4005, v.Velocity, 1e-9)

	fr, err := e.FrictionLoss(friction.Input{Velocity: 2000, HydraulicDiameter: 12, Length: 100, Material: "galvanized_steel"})
	require.NoError(t, err)
	assert.Greater(t, fr.FrictionLoss, 0.0)

	assert.Equal(t, velocity.MethodEnhancedFormula, e.OptimalVelocityPressureMethod(1000, validation.AccuracyStandard))
	assert.Equal(t, friction.MethodColebrookWhite, e.OptimalFrictionMethod(1e5, 1e-3, validation.AccuracyMaximum))
	assert.Contains(t, e.MaterialNames(), "flexible_duct")
}

func TestCompareFrictionMethods(t *testing.T) {
	cmp, err := Default().CompareFrictionMethods(friction.Input{
		Velocity: 2000, HydraulicDiameter: 12, Length: 100, Material: "galvanized_steel",
		Method: friction.MethodEnhancedDarcy,
	})
	require.NoError(t, err)
	require.Len(t, cmp.Results, len(friction.Correlations))
	for i, m := range friction.Correlations {
		assert.Equal(t, m, cmp.Results[i].Method)
	}
	assert.LessOrEqual(t, cmp.Min, cmp.Max)
	assert.InDelta(t, 0.0113, cmp.Spread, 1e-3)
	assert.Less(t, cmp.Spread, 0.2)

	_, err = Default().CompareFrictionMethods(friction.Input{Velocity: 2000, HydraulicDiameter: 0, Length: 100})
	assert.ErrorIs(t, err, validation.ErrInvalidInput)
}

func TestConfiguredMaterials(t *testing.T) {
	cfg, err := config.Parse([]byte("[materials]\ncopper = 0.000005\n"))
	require.NoError(t, err)
	e, err := New(cfg)
	require.NoError(t, err)

	res, err := e.FrictionLoss(friction.Input{Velocity: 2000, HydraulicDiameter: 12, Length: 100, Material: "copper"})
	require.NoError(t, err)
	assert.Equal(t, 0.000005, res.Material.BaseRoughness)

	_, err = Default().FrictionLoss(friction.Input{Velocity: 2000, HydraulicDiameter: 12, Length: 100, Material: "copper"})
	assert.ErrorIs(t, err, validation.ErrInvalidInput)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Friction.Solver.MaxIterations = 0
	_, err := New(cfg)
	assert.ErrorIs(t, err, validation.ErrInvalidInput)
}
