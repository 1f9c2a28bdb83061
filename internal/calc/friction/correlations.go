package friction

import "math"

// Darcy friction factor correlations. rr is the relative roughness ε/D.

func laminar(re float64) float64 {
	return 64 / re
}

func haaland(re, rr float64) float64 {
	x := -1.8 * math.Log10(math.Pow(rr/3.7, 1.11)+6.9/re)
	return 1 / (x * x)
}

func swameeJain(re, rr float64) float64 {
	l := math.Log10(rr/3.7 + 5.74/math.Pow(re, 0.9))
	return 0.25 / (l * l)
}

// chen is Chen's 1979 explicit form.
func chen(re, rr float64) float64 {
	inner := math.Log10(math.Pow(rr, 1.1098)/2.8257 + 5.8506/math.Pow(re, 0.8981))
	x := -2 * math.Log10(rr/3.7065-5.0452/re*inner)
	return 1 / (x * x)
}

// Solver bounds the Colebrook-White iteration.
type Solver struct {
	MaxIterations int
	Tolerance     float64 // on 1/√f
}

func DefaultSolver() Solver {
	return Solver{MaxIterations: 50, Tolerance: 1e-10}
}

// colebrook solves 1/√f = -2·log10(rr/3.7 + 2.51/(Re·√f)) by fixed-point
// iteration on 1/√f seeded with Haaland. ok is false when the iteration
// budget runs out or the iterate leaves the finite positive reals.
func (s Solver) colebrook(re, rr float64) (f float64, iterations int, ok bool) {
	x := 1 / math.Sqrt(haaland(re, rr))
	for i := 1; i <= s.MaxIterations; i++ {
		next := -2 * math.Log10(rr/3.7+2.51*x/re)
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= 0 {
			return 0, i, false
		}
		if math.Abs(next-x) < s.Tolerance {
			return 1 / (next * next), i, true
		}
		x = next
	}
	return 0, s.MaxIterations, false
}
