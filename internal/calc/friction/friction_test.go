package friction

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SizeWise/internal/calc/air"
	"SizeWise/internal/calc/validation"
)

func baseInput() Input {
	return Input{
		Velocity:          2000,
		HydraulicDiameter: 12,
		Length:            100,
		Material:          "galvanized_steel",
	}
}

func TestEndToEnd(t *testing.T) {
	in := baseInput()
	in.Method = MethodEnhancedDarcy
	std := air.StandardConditions()
	in.Conditions = &std

	res, err := Calculate(in)
	require.NoError(t, err)

	assert.Greater(t, res.FrictionLoss, 0.0)
	assert.InDelta(t, 0.886494, res.FrictionLoss, 1e-4)
	assert.InDelta(t, res.FrictionLoss, res.FrictionRate, 1e-12)
	assert.InDelta(t, 6358.29, res.ReynoldsNumber, 0.5)
	assert.InDelta(t, 0.0355485, res.FrictionFactor, 1e-6)
	assert.True(t, res.FlowRegime.Turbulent())
	assert.Equal(t, RegimeTurbulentSmooth, res.FlowRegime)
	assert.Equal(t, MethodEnhancedDarcy, res.Method)
	assert.Equal(t, MethodColebrookWhite, res.BaseMethod)
	assert.Empty(t, res.Warnings)
	assert.NotNil(t, res.Warnings)

	assert.Equal(t, "galvanized_steel", res.Material.Material)
	assert.Equal(t, 0.0005, res.Material.CombinedRoughness)
	assert.InDelta(t, 0.0005, res.Flow.RelativeRoughness, 1e-12)
	assert.InDelta(t, 2000.0/60, res.Flow.VelocityFPS, 1e-12)
	assert.InDelta(t, 1.0, res.Flow.DensityRatio, 1e-12)
}

func TestAgingAndSurfaceIncreaseLoss(t *testing.T) {
	ages := []MaterialAge{AgeNew, AgeAverage, AgePoor}
	surfaces := []SurfaceCondition{SurfaceExcellent, SurfaceGood, SurfaceAverage, SurfacePoor}

	tests := []struct {
		name     string
		velocity float64
		material string
		regime   FlowRegime
	}{
		{"laminar galvanized", 200, "galvanized_steel", RegimeLaminar},
		{"laminar pvc", 200, "pvc", RegimeLaminar},
		{"near transition galvanized", 700, "galvanized_steel", RegimeLaminar},
		{"transitional galvanized", 900, "galvanized_steel", RegimeTransitional},
		{"transitional pvc", 900, "pvc", RegimeTransitional},
		{"turbulent galvanized", 2000, "galvanized_steel", RegimeTurbulentSmooth},
		{"turbulent pvc", 2000, "pvc", RegimeTurbulentSmooth},
		{"fast galvanized", 4000, "galvanized_steel", ""},
		{"fast pvc", 4000, "pvc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loss := func(age MaterialAge, surface SurfaceCondition) float64 {
				in := baseInput()
				in.Velocity = tt.velocity
				in.Material = tt.material
				in.Method = MethodEnhancedDarcy
				in.MaterialAge = age
				in.SurfaceCondition = surface
				res, err := Calculate(in)
				require.NoError(t, err)
				if tt.regime != "" {
					assert.Equal(t, tt.regime, res.FlowRegime)
				}
				return res.FrictionLoss
			}

			for i := 1; i < len(ages); i++ {
				assert.Greater(t, loss(ages[i], SurfaceAverage), loss(ages[i-1], SurfaceAverage),
					"%s over %s", ages[i], ages[i-1])
			}
			for i := 1; i < len(surfaces); i++ {
				assert.Greater(t, loss(AgeNew, surfaces[i]), loss(AgeNew, surfaces[i-1]),
					"%s over %s", surfaces[i], surfaces[i-1])
			}
			assert.Greater(t, loss(AgePoor, SurfacePoor), loss(AgeNew, SurfaceExcellent))
		})
	}
}

func TestAgedLossValues(t *testing.T) {
	tests := []struct {
		name     string
		velocity float64
		age      MaterialAge
		surface  SurfaceCondition
		want     float64
	}{
		{"turbulent poor", 2000, AgePoor, "", 0.909051},
		{"turbulent new", 2000, AgeNew, "", 0.886494},
		{"laminar new", 200, AgeNew, "", 0.0251012},
		{"laminar poor", 200, AgePoor, "", 0.0255645},
		{"laminar poor poor", 200, AgePoor, SurfacePoor, 0.0259446},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			in.Velocity = tt.velocity
			in.Method = MethodEnhancedDarcy
			in.MaterialAge = tt.age
			in.SurfaceCondition = tt.surface
			res, err := Calculate(in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, res.FrictionLoss, 1e-5)
		})
	}
}

func TestMultipliersOnlyApplyToEnhancedDarcy(t *testing.T) {
	in := baseInput()
	in.Method = MethodColebrookWhite
	plain, err := Calculate(in)
	require.NoError(t, err)

	in.MaterialAge = AgePoor
	in.SurfaceCondition = SurfacePoor
	aged, err := Calculate(in)
	require.NoError(t, err)

	assert.Equal(t, plain.FrictionLoss, aged.FrictionLoss)
	assert.Equal(t, 0.0005*2.5*1.5, aged.Material.CombinedRoughness)
}

func TestAutoMethod(t *testing.T) {
	in := baseInput()
	res, err := Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, MethodHaaland, res.Method)

	in.Accuracy = validation.AccuracyMaximum
	res, err = Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, MethodColebrookWhite, res.Method)

	in.MaterialAge = AgeAverage
	res, err = Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, MethodEnhancedDarcy, res.Method)
}

func TestCorrelationsAgree(t *testing.T) {
	cases := []struct {
		velocity, diameter float64
		material           string
	}{
		{2000, 12, "galvanized_steel"},
		{4000, 12, "galvanized_steel"},
		{1000, 24, "aluminum"},
		{3000, 8, "fiberglass_duct_board"},
		{5000, 36, "pvc"},
		{1500, 6, "flexible_duct"},
		{6000, 120, "concrete"},
	}
	for _, tc := range cases {
		var losses []float64
		for _, m := range Correlations {
			in := Input{Velocity: tc.velocity, HydraulicDiameter: tc.diameter, Length: 50, Material: tc.material, Method: m}
			res, err := Calculate(in)
			require.NoError(t, err)
			losses = append(losses, res.FrictionLoss)
		}
		lo, hi := losses[0], losses[0]
		for _, l := range losses {
			lo = math.Min(lo, l)
			hi = math.Max(hi, l)
		}
		assert.Less(t, (hi-lo)/lo, 0.2, "%g fpm %g in %s", tc.velocity, tc.diameter, tc.material)
	}
}

func TestRegimes(t *testing.T) {
	in := baseInput()
	in.Velocity = 200
	res, err := Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, RegimeLaminar, res.FlowRegime)
	assert.Equal(t, MethodLaminar, res.Method)
	assert.Empty(t, res.BaseMethod)
	assert.Contains(t, strings.Join(res.Warnings, "\n"), "laminar")
	assert.InDelta(t, 64/res.ReynoldsNumber, res.FrictionFactor, 1e-12)

	in.Method = MethodEnhancedDarcy
	res, err = Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, MethodEnhancedDarcy, res.Method)
	assert.Equal(t, MethodLaminar, res.BaseMethod)
	assert.InDelta(t, 64/res.ReynoldsNumber, res.FrictionFactor, 1e-12)
	in.Method = MethodAuto

	in.Velocity = 900
	res, err = Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, RegimeTransitional, res.FlowRegime)
	assert.Contains(t, strings.Join(res.Warnings, "\n"), "transitional")

	in.Velocity = 4000
	res, err = Calculate(in)
	require.NoError(t, err)
	assert.True(t, res.FlowRegime.Turbulent())
	assert.InDelta(t, 12716.6, res.ReynoldsNumber, 1)
}

func TestClassifyRegime(t *testing.T) {
	tests := []struct {
		name      string
		re, rr, f float64
		want      FlowRegime
	}{
		{"laminar", 1000, 0.001, 0.064, RegimeLaminar},
		{"transitional", 3000, 0.001, 0.04, RegimeTransitional},
		{"smooth", 1e5, 1e-5, 0.018, RegimeTurbulentSmooth},
		{"rough", 1e5, 1e-3, 0.022, RegimeTurbulentRough},
		{"fully rough", 1e6, 1e-2, 0.038, RegimeFullyRough},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRegime(tt.re, tt.rr, tt.f))
		})
	}
}

func TestOptimalMethod(t *testing.T) {
	tests := []struct {
		name     string
		re, rr   float64
		accuracy validation.Accuracy
		want     Method
	}{
		{"maximum", 1e5, 1e-3, validation.AccuracyMaximum, MethodColebrookWhite},
		{"smooth standard", 1e5, 1e-7, validation.AccuracyStandard, MethodSwameeJain},
		{"smooth high", 1e5, 1e-7, validation.AccuracyHigh, MethodHaaland},
		{"rough high Re", 2e5, 0.02, validation.AccuracyStandard, MethodChen},
		{"rough low Re", 5e4, 0.02, validation.AccuracyStandard, MethodHaaland},
		{"default", 1e5, 1e-3, validation.AccuracyStandard, MethodHaaland},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OptimalMethod(tt.re, tt.rr, tt.accuracy))
		})
	}
}

func TestColebrookFallsBackToHaaland(t *testing.T) {
	c, err := NewCalculator(air.DefaultStandard(), DefaultTables(), DefaultLimits(), Solver{MaxIterations: 1, Tolerance: 1e-15})
	require.NoError(t, err)

	in := baseInput()
	in.Method = MethodColebrookWhite
	res, err := c.Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, MethodHaaland, res.Method)
	assert.InDelta(t, haaland(res.ReynoldsNumber, 0.0005), res.FrictionFactor, 1e-15)
	assert.Contains(t, strings.Join(res.Warnings, "\n"), "did not converge")

	in.Method = MethodEnhancedDarcy
	res, err = c.Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, MethodEnhancedDarcy, res.Method)
	assert.Equal(t, MethodHaaland, res.BaseMethod)
}

func TestColebrookConverges(t *testing.T) {
	s := DefaultSolver()
	for _, re := range []float64{4000, 1e4, 1e5, 1e6, 1e8} {
		for _, rr := range []float64{0, 1e-6, 1e-4, 1e-2, 0.05} {
			f, n, ok := s.colebrook(re, rr)
			require.True(t, ok, "Re %g rr %g", re, rr)
			assert.LessOrEqual(t, n, s.MaxIterations)
			x := 1 / math.Sqrt(f)
			assert.InDelta(t, x, -2*math.Log10(rr/3.7+2.51*x/re), 1e-8)
		}
	}
}

func TestRangeWarnings(t *testing.T) {
	in := baseInput()
	in.Velocity = 8000
	in.HydraulicDiameter = 2
	res, err := Calculate(in)
	require.NoError(t, err)
	joined := strings.Join(res.Warnings, "\n")
	assert.Contains(t, joined, "velocity")
	assert.Contains(t, joined, "hydraulic diameter")
}

func TestNonStandardAir(t *testing.T) {
	hot := air.Conditions{Temperature: 100, Altitude: 5000, Humidity: 50}
	in := baseInput()
	in.Method = MethodColebrookWhite
	in.Conditions = &hot
	res, err := Calculate(in)
	require.NoError(t, err)
	assert.InDelta(t, 0.77954, res.Flow.DensityRatio, 1e-4)
	assert.InDelta(t, 4751.3, res.ReynoldsNumber, 1)
	assert.InDelta(t, 0.748245, res.FrictionLoss, 1e-3)
}

func TestInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Input)
	}{
		{"zero diameter", func(in *Input) { in.HydraulicDiameter = 0 }},
		{"negative length", func(in *Input) { in.Length = -1 }},
		{"zero length", func(in *Input) { in.Length = 0 }},
		{"zero velocity", func(in *Input) { in.Velocity = 0 }},
		{"NaN velocity", func(in *Input) { in.Velocity = math.NaN() }},
		{"unknown material", func(in *Input) { in.Material = "unobtainium" }},
		{"unknown age", func(in *Input) { in.MaterialAge = "ancient" }},
		{"unknown surface", func(in *Input) { in.SurfaceCondition = "sticky" }},
		{"unknown method", func(in *Input) { in.Method = "moody" }},
		{"laminar is not requestable", func(in *Input) { in.Method = MethodLaminar }},
		{"unknown accuracy", func(in *Input) { in.Accuracy = "extreme" }},
		{"NaN temperature", func(in *Input) { in.Conditions = &air.Conditions{Temperature: math.NaN()} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.modify(&in)
			_, err := Calculate(in)
			assert.ErrorIs(t, err, validation.ErrInvalidInput)
		})
	}
}

func TestMaterialNames(t *testing.T) {
	c := Default()
	names := c.Materials()
	assert.Contains(t, names, DefaultMaterial)
	assert.IsIncreasing(t, names)

	r, err := c.Roughness("Galvanized Steel")
	require.NoError(t, err)
	assert.Equal(t, 0.0005, r)

	in := baseInput()
	in.Material = ""
	res, err := c.Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaterial, res.Material.Material)
}

func TestTablesValidate(t *testing.T) {
	assert.NoError(t, DefaultTables().Validate())

	bad := DefaultTables()
	bad.Aging[AgePoor] = 1.2
	assert.ErrorIs(t, bad.Validate(), validation.ErrInvalidInput)

	bad = DefaultTables()
	bad.Materials["glass"] = 0
	assert.ErrorIs(t, bad.Validate(), validation.ErrInvalidInput)

	bad = DefaultTables()
	delete(bad.Surface, SurfaceGood)
	assert.ErrorIs(t, bad.Validate(), validation.ErrInvalidInput)

	_, err := NewCalculator(air.DefaultStandard(), Tables{}, DefaultLimits(), DefaultSolver())
	assert.ErrorIs(t, err, validation.ErrInvalidInput)
}

func TestCalculatorIsSafeForConcurrentUse(t *testing.T) {
	c := Default()
	want, err := c.Calculate(baseInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Calculate(baseInput())
			assert.NoError(t, err)
			assert.Equal(t, want.FrictionLoss, got.FrictionLoss)
		}()
	}
	wg.Wait()
}
