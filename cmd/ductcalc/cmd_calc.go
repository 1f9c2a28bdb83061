package main

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"SizeWise/internal/calc/air"
	"SizeWise/internal/calc/friction"
	"SizeWise/internal/calc/validation"
	"SizeWise/internal/calc/velocity"
)

type airFlags struct {
	temperature float64
	altitude    float64
	humidity    float64
}

func (a *airFlags) register(fs *pflag.FlagSet) {
	std := air.StandardConditions()
	fs.Float64Var(&a.temperature, "temperature", std.Temperature, "air temperature (°F)")
	fs.Float64Var(&a.altitude, "altitude", std.Altitude, "altitude (ft)")
	fs.Float64Var(&a.humidity, "humidity", std.Humidity, "relative humidity (%)")
}

// conditions is nil unless one of the air flags was set.
func (a *airFlags) conditions(fs *pflag.FlagSet) *air.Conditions {
	if !fs.Changed("temperature") && !fs.Changed("altitude") && !fs.Changed("humidity") {
		return nil
	}
	return &air.Conditions{Temperature: a.temperature, Altitude: a.altitude, Humidity: a.humidity}
}

type ductFlags struct {
	air      airFlags
	velocity float64
	diameter float64
	length   float64
	material string
	age      string
	surface  string
	method   string
	accuracy string
}

func (d *ductFlags) register(fs *pflag.FlagSet, withMethod bool) {
	d.air.register(fs)
	fs.Float64Var(&d.velocity, "velocity", 0, "air velocity (ft/min)")
	fs.Float64Var(&d.diameter, "diameter", 0, "hydraulic diameter (in)")
	fs.Float64Var(&d.length, "length", 100, "duct length (ft)")
	fs.StringVar(&d.material, "material", friction.DefaultMaterial, "duct material")
	fs.StringVar(&d.age, "age", "", "material age (new, average, poor)")
	fs.StringVar(&d.surface, "surface", "", "surface condition (excellent, good, average, poor)")
	fs.StringVar(&d.accuracy, "accuracy", "", "accuracy tier (standard, high, maximum)")
	if withMethod {
		fs.StringVar(&d.method, "method", "", "friction method; empty selects automatically")
	}
}

func (d *ductFlags) input(fs *pflag.FlagSet) friction.Input {
	return friction.Input{
		Velocity:          d.velocity,
		HydraulicDiameter: d.diameter,
		Length:            d.length,
		Material:          d.material,
		MaterialAge:       friction.MaterialAge(d.age),
		SurfaceCondition:  friction.SurfaceCondition(d.surface),
		Method:            friction.Method(d.method),
		Conditions:        d.air.conditions(fs),
		Accuracy:          validation.Accuracy(d.accuracy),
	}
}

var (
	airOpts      airFlags
	velocityOpts struct {
		air        airFlags
		velocity   float64
		method     string
		accuracy   string
		validation string
	}
	frictionOpts ductFlags
	compareOpts  ductFlags
)

var airCmd = &cobra.Command{
	Use:   "air",
	Short: "Air properties at the given conditions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := air.StandardConditions()
		if cond := airOpts.conditions(cmd.Flags()); cond != nil {
			c = *cond
		}
		res, err := eng.AirProperties(c)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var velocityCmd = &cobra.Command{
	Use:   "velocity",
	Short: "Velocity pressure for an air velocity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := eng.VelocityPressure(velocity.Input{
			Velocity:   velocityOpts.velocity,
			Method:     velocity.Method(velocityOpts.method),
			Conditions: velocityOpts.air.conditions(cmd.Flags()),
			Validation: validation.Level(velocityOpts.validation),
			Accuracy:   validation.Accuracy(velocityOpts.accuracy),
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var fromPressureCmd = &cobra.Command{
	Use:   "from-pressure <in.w.g.>",
	Short: "Air velocity for a velocity pressure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vp, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}
		res, err := eng.VelocityFromPressure(vp)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var frictionCmd = &cobra.Command{
	Use:   "friction",
	Short: "Friction loss of a straight duct run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := eng.FrictionLoss(frictionOpts.input(cmd.Flags()))
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Friction loss by every correlation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := eng.CompareFrictionMethods(compareOpts.input(cmd.Flags()))
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "List duct materials and their roughness",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		type material struct {
			Name      string  `json:"name"`
			Roughness float64 `json:"roughness_ft"`
		}
		var out []material
		for _, name := range eng.MaterialNames() {
			r, err := eng.Roughness(name)
			if err != nil {
				return err
			}
			out = append(out, material{Name: name, Roughness: r})
		}
		return printJSON(cmd, out)
	},
}

func init() {
	airOpts.register(airCmd.Flags())

	fs := velocityCmd.Flags()
	velocityOpts.air.register(fs)
	fs.Float64Var(&velocityOpts.velocity, "velocity", 0, "air velocity (ft/min)")
	fs.StringVar(&velocityOpts.method, "method", "", "velocity pressure method; empty selects automatically")
	fs.StringVar(&velocityOpts.accuracy, "accuracy", "", "accuracy tier (standard, high, maximum)")
	fs.StringVar(&velocityOpts.validation, "validation", "", "validation level (none, standard, strict)")
	_ = velocityCmd.MarkFlagRequired("velocity")

	frictionOpts.register(frictionCmd.Flags(), true)
	compareOpts.register(compareCmd.Flags(), false)
	for _, c := range []*cobra.Command{frictionCmd, compareCmd} {
		_ = c.MarkFlagRequired("velocity")
		_ = c.MarkFlagRequired("diameter")
	}

	rootCmd.AddCommand(airCmd, velocityCmd, fromPressureCmd, frictionCmd, compareCmd, materialsCmd)
}
