package friction

import (
	"fmt"
	"sort"
	"strings"

	"SizeWise/internal/calc/validation"
)

type MaterialAge string

const (
	AgeUnspecified MaterialAge = ""
	AgeNew         MaterialAge = "new"
	AgeAverage     MaterialAge = "average"
	AgePoor        MaterialAge = "poor"
)

type SurfaceCondition string

const (
	SurfaceUnspecified SurfaceCondition = ""
	SurfaceExcellent   SurfaceCondition = "excellent"
	SurfaceGood        SurfaceCondition = "good"
	SurfaceAverage     SurfaceCondition = "average"
	SurfacePoor        SurfaceCondition = "poor"
)

const DefaultMaterial = "galvanized_steel"

// Tables hold absolute roughness per material (ft) and the multipliers
// applied by ENHANCED_DARCY.
type Tables struct {
	Materials map[string]float64
	Aging     map[MaterialAge]float64
	Surface   map[SurfaceCondition]float64
}

func DefaultTables() Tables {
	return Tables{
		Materials: map[string]float64{
			"galvanized_steel":      0.0005,
			"aluminum":              0.00015,
			"stainless_steel":       0.00015,
			"carbon_steel":          0.00015,
			"pvc":                   0.00003,
			"fiberglass_duct_board": 0.003,
			"fiberglass_lined":      0.005,
			"flexible_duct":         0.01,
			"concrete":              0.004,
		},
		Aging: map[MaterialAge]float64{
			AgeNew:     1.0,
			AgeAverage: 1.5,
			AgePoor:    2.5,
		},
		Surface: map[SurfaceCondition]float64{
			SurfaceExcellent: 0.8,
			SurfaceGood:      0.9,
			SurfaceAverage:   1.0,
			SurfacePoor:      1.5,
		},
	}
}

// Validate checks the invariants the calculator relies on: positive
// roughness, aging factors ≥ 1 that grow with age, and surface factors
// that grow from excellent to poor.
func (t Tables) Validate() error {
	if len(t.Materials) == 0 {
		return fmt.Errorf("%w: materials table is empty", validation.ErrInvalidInput)
	}
	for name, r := range t.Materials {
		if err := validation.Positive("roughness of "+name, r); err != nil {
			return err
		}
	}
	ages := []MaterialAge{AgeNew, AgeAverage, AgePoor}
	prev := 1.0
	for _, a := range ages {
		f, ok := t.Aging[a]
		if !ok {
			return fmt.Errorf("%w: aging factor for %q missing", validation.ErrInvalidInput, a)
		}
		if f < prev {
			return fmt.Errorf("%w: aging factor for %q is %g, want at least %g", validation.ErrInvalidInput, a, f, prev)
		}
		prev = f
	}
	surfaces := []SurfaceCondition{SurfaceExcellent, SurfaceGood, SurfaceAverage, SurfacePoor}
	prev = 0
	for _, s := range surfaces {
		f, ok := t.Surface[s]
		if !ok {
			return fmt.Errorf("%w: surface factor for %q missing", validation.ErrInvalidInput, s)
		}
		if err := validation.Positive("surface factor", f); err != nil {
			return err
		}
		if f < prev {
			return fmt.Errorf("%w: surface factor for %q is %g, below %g", validation.ErrInvalidInput, s, f, prev)
		}
		prev = f
	}
	return nil
}

func (t Tables) clone() Tables {
	out := Tables{
		Materials: make(map[string]float64, len(t.Materials)),
		Aging:     make(map[MaterialAge]float64, len(t.Aging)),
		Surface:   make(map[SurfaceCondition]float64, len(t.Surface)),
	}
	for k, v := range t.Materials {
		out.Materials[NormalizeMaterial(k)] = v
	}
	for k, v := range t.Aging {
		out.Aging[k] = v
	}
	for k, v := range t.Surface {
		out.Surface[k] = v
	}
	return out
}

// NormalizeMaterial turns "Galvanized Steel" or "galvanized-steel" into
// "galvanized_steel".
func NormalizeMaterial(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

func (t Tables) roughness(name string) (string, float64, error) {
	key := NormalizeMaterial(name)
	if key == "" {
		key = DefaultMaterial
	}
	r, ok := t.Materials[key]
	if !ok {
		return key, 0, fmt.Errorf("%w: unknown material %q", validation.ErrInvalidInput, name)
	}
	return key, r, nil
}

func (t Tables) agingFactor(a MaterialAge) (float64, error) {
	if a == AgeUnspecified {
		return 1, nil
	}
	f, ok := t.Aging[a]
	if !ok {
		return 0, fmt.Errorf("%w: unknown material age %q", validation.ErrInvalidInput, a)
	}
	return f, nil
}

func (t Tables) surfaceFactor(s SurfaceCondition) (float64, error) {
	if s == SurfaceUnspecified {
		return 1, nil
	}
	f, ok := t.Surface[s]
	if !ok {
		return 0, fmt.Errorf("%w: unknown surface condition %q", validation.ErrInvalidInput, s)
	}
	return f, nil
}

func (t Tables) names() []string {
	names := make([]string, 0, len(t.Materials))
	for k := range t.Materials {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
