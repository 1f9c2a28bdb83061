package velocity

import "SizeWise/internal/calc/validation"

// OptimalMethod picks a method for the default calculator assuming
// standard air.
func OptimalMethod(velocity float64, accuracy validation.Accuracy) Method {
	return Default().OptimalMethod(velocity, accuracy)
}

func (c *Calculator) OptimalMethod(velocity float64, accuracy validation.Accuracy) Method {
	return c.optimalMethod(velocity, accuracy, false)
}

func (c *Calculator) optimalMethod(v float64, accuracy validation.Accuracy, nonStandardAir bool) Method {
	table := c.table.Range()
	switch {
	case accuracy == validation.AccuracyMaximum && c.cfd.Band.Contains(v):
		return MethodCFDCorrected
	case v < c.limits.LowVelocity:
		return MethodEnhancedFormula
	case table.Contains(v) && accuracy == validation.AccuracyStandard:
		return MethodLookupTable
	case table.Contains(v):
		return MethodInterpolated
	case nonStandardAir:
		return MethodEnhancedFormula
	}
	return MethodFormula
}
