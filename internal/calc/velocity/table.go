package velocity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"SizeWise/internal/calc/validation"
)

// Standard-air velocity pressure table, ft/min -> in. w.g.
var defaultTable = [][2]float64{
	{500, 0.01559}, {600, 0.02244}, {700, 0.03055}, {800, 0.03990},
	{900, 0.05050}, {1000, 0.06235}, {1100, 0.07544}, {1200, 0.08978},
	{1300, 0.10537}, {1400, 0.12221}, {1500, 0.14029}, {1600, 0.15962},
	{1700, 0.18020}, {1800, 0.20203}, {1900, 0.22511}, {2000, 0.24943},
	{2100, 0.27500}, {2200, 0.30182}, {2300, 0.32990}, {2400, 0.35921},
	{2500, 0.38978}, {2600, 0.42160}, {2700, 0.45467}, {2800, 0.48899},
	{2900, 0.52455}, {3000, 0.56137}, {3100, 0.59944}, {3200, 0.63876},
	{3300, 0.67933}, {3400, 0.72115}, {3500, 0.76422}, {3600, 0.80855},
	{3700, 0.85413}, {3800, 0.90096}, {3900, 0.94904}, {4000, 0.99838},
}

// Table is an immutable velocity pressure table for standard air. It is
// safe for concurrent use once built.
type Table struct {
	velocities []float64
	pressures  []float64
	linear     interp.PiecewiseLinear
	logLinear  interp.PiecewiseLinear
}

// NewTable fits a table from strictly increasing velocities and the
// matching positive pressures.
func NewTable(velocities, pressures []float64) (*Table, error) {
	if len(velocities) != len(pressures) {
		return nil, fmt.Errorf("%w: table has %d velocities and %d pressures",
			validation.ErrInvalidInput, len(velocities), len(pressures))
	}
	if len(velocities) < 2 {
		return nil, fmt.Errorf("%w: table needs at least two entries", validation.ErrInvalidInput)
	}
	t := &Table{
		velocities: append([]float64(nil), velocities...),
		pressures:  append([]float64(nil), pressures...),
	}
	logV := make([]float64, len(velocities))
	logP := make([]float64, len(pressures))
	for i := range t.velocities {
		if err := validation.Positive("table velocity", t.velocities[i]); err != nil {
			return nil, err
		}
		if err := validation.Positive("table pressure", t.pressures[i]); err != nil {
			return nil, err
		}
		if i > 0 && t.velocities[i] <= t.velocities[i-1] {
			return nil, fmt.Errorf("%w: table velocities must increase, %g follows %g",
				validation.ErrInvalidInput, t.velocities[i], t.velocities[i-1])
		}
		logV[i] = math.Log(t.velocities[i])
		logP[i] = math.Log(t.pressures[i])
	}
	if err := t.linear.Fit(t.velocities, t.pressures); err != nil {
		return nil, err
	}
	if err := t.logLinear.Fit(logV, logP); err != nil {
		return nil, err
	}
	return t, nil
}

func DefaultTable() *Table {
	v := make([]float64, len(defaultTable))
	p := make([]float64, len(defaultTable))
	for i, row := range defaultTable {
		v[i], p[i] = row[0], row[1]
	}
	t, err := NewTable(v, p)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Range() validation.Range {
	return validation.Range{Min: t.velocities[0], Max: t.velocities[len(t.velocities)-1]}
}

// Linear interpolates linearly between table entries.
func (t *Table) Linear(velocity float64) float64 {
	return t.linear.Predict(velocity)
}

// LogLinear interpolates linearly in log-log space, where VP ∝ V² is a
// straight line.
func (t *Table) LogLinear(velocity float64) float64 {
	return math.Exp(t.logLinear.Predict(math.Log(velocity)))
}

func (t *Table) Len() int {
	return len(t.velocities)
}
