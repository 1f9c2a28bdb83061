package config

import (
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/ini.v1"

	"SizeWise/internal/calc/air"
	"SizeWise/internal/calc/friction"
	"SizeWise/internal/calc/validation"
	"SizeWise/internal/calc/velocity"
)

// Config is the complete set of tables and constants the engine runs on.
// It is built once and passed by value to the calculators.
type Config struct {
	Air      air.Standard
	Velocity Velocity
	Friction Friction
}

type Velocity struct {
	Limits velocity.Limits
	Table  *velocity.Table
	CFD    velocity.CFDCoefficients
}

type Friction struct {
	Tables friction.Tables
	Limits friction.Limits
	Solver friction.Solver
}

func Default() Config {
	return Config{
		Air: air.DefaultStandard(),
		Velocity: Velocity{
			Limits: velocity.DefaultLimits(),
			Table:  velocity.DefaultTable(),
			CFD:    velocity.DefaultCFDCoefficients(),
		},
		Friction: Friction{
			Tables: friction.DefaultTables(),
			Limits: friction.DefaultLimits(),
			Solver: friction.DefaultSolver(),
		},
	}
}

// Load reads an INI file. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	file, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return fromFile(file)
}

// Parse reads INI data held in memory.
func Parse(data []byte) (Config, error) {
	file, err := ini.Load(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return fromFile(file)
}

func fromFile(file *ini.File) (Config, error) {
	cfg := Default()

	a := file.Section("air")
	cfg.Air.Conditions.Temperature = a.Key("temperature").MustFloat64(cfg.Air.Conditions.Temperature)
	cfg.Air.Conditions.Altitude = a.Key("altitude").MustFloat64(cfg.Air.Conditions.Altitude)
	cfg.Air.Conditions.Humidity = a.Key("humidity").MustFloat64(cfg.Air.Conditions.Humidity)
	cfg.Air.Density = a.Key("density").MustFloat64(cfg.Air.Density)
	cfg.Air.SeaLevelPressure = a.Key("sea_level_pressure").MustFloat64(cfg.Air.SeaLevelPressure)

	v := file.Section("velocity")
	lim := &cfg.Velocity.Limits
	lim.Standard = rangeOf(v, "standard", lim.Standard)
	lim.Strict = rangeOf(v, "strict", lim.Strict)
	lim.LowVelocity = v.Key("low_velocity").MustFloat64(lim.LowVelocity)
	cfd := &cfg.Velocity.CFD
	cfd.Band = rangeOf(v, "cfd_band", cfd.Band)
	cfd.Center = v.Key("cfd_center").MustFloat64(cfd.Center)
	cfd.Scale = v.Key("cfd_scale").MustFloat64(cfd.Scale)
	cfd.C0 = v.Key("cfd_c0").MustFloat64(cfd.C0)
	cfd.C1 = v.Key("cfd_c1").MustFloat64(cfd.C1)
	cfd.C2 = v.Key("cfd_c2").MustFloat64(cfd.C2)

	if keys := file.Section("lookup_table").Keys(); len(keys) > 0 {
		table, err := lookupTable(keys)
		if err != nil {
			return Config{}, err
		}
		cfg.Velocity.Table = table
	}

	f := file.Section("friction")
	fl := &cfg.Friction.Limits
	fl.Velocity = rangeOf(f, "velocity", fl.Velocity)
	fl.Diameter = rangeOf(f, "diameter", fl.Diameter)
	fl.MaxReynolds = f.Key("max_reynolds").MustFloat64(fl.MaxReynolds)
	fl.MaxRelativeRoughness = f.Key("max_relative_roughness").MustFloat64(fl.MaxRelativeRoughness)
	cfg.Friction.Solver.MaxIterations = f.Key("max_iterations").MustInt(cfg.Friction.Solver.MaxIterations)
	cfg.Friction.Solver.Tolerance = f.Key("tolerance").MustFloat64(cfg.Friction.Solver.Tolerance)

	tables := &cfg.Friction.Tables
	for _, k := range file.Section("materials").Keys() {
		r, err := k.Float64()
		if err != nil {
			return Config{}, fmt.Errorf("%w: roughness of %s: %v", validation.ErrInvalidInput, k.Name(), err)
		}
		tables.Materials[friction.NormalizeMaterial(k.Name())] = r
	}
	ag := file.Section("aging")
	for _, age := range []friction.MaterialAge{friction.AgeNew, friction.AgeAverage, friction.AgePoor} {
		tables.Aging[age] = ag.Key(string(age)).MustFloat64(tables.Aging[age])
	}
	sf := file.Section("surface")
	for _, s := range []friction.SurfaceCondition{friction.SurfaceExcellent, friction.SurfaceGood, friction.SurfaceAverage, friction.SurfacePoor} {
		tables.Surface[s] = sf.Key(string(s)).MustFloat64(tables.Surface[s])
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func rangeOf(s *ini.Section, prefix string, def validation.Range) validation.Range {
	return validation.Range{
		Min: s.Key(prefix + "_min").MustFloat64(def.Min),
		Max: s.Key(prefix + "_max").MustFloat64(def.Max),
	}
}

// lookupTable reads "velocity = pressure" pairs.
func lookupTable(keys []*ini.Key) (*velocity.Table, error) {
	type row struct{ v, p float64 }
	rows := make([]row, 0, len(keys))
	for _, k := range keys {
		v, err := strconv.ParseFloat(k.Name(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: lookup table velocity %q", validation.ErrInvalidInput, k.Name())
		}
		p, err := k.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: lookup table pressure at %g: %v", validation.ErrInvalidInput, v, err)
		}
		rows = append(rows, row{v, p})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].v < rows[j].v })
	vs := make([]float64, len(rows))
	ps := make([]float64, len(rows))
	for i, r := range rows {
		vs[i], ps[i] = r.v, r.p
	}
	return velocity.NewTable(vs, ps)
}

// Validate checks the cross-field invariants a hand-edited file can break.
func (c Config) Validate() error {
	if err := validation.Positive("standard air density", c.Air.Density); err != nil {
		return err
	}
	if err := validation.Positive("sea level pressure", c.Air.SeaLevelPressure); err != nil {
		return err
	}
	if err := air.Validate(c.Air.Conditions); err != nil {
		return err
	}
	ranges := map[string]validation.Range{
		"velocity standard limits": c.Velocity.Limits.Standard,
		"velocity strict limits":   c.Velocity.Limits.Strict,
		"cfd band":                 c.Velocity.CFD.Band,
		"friction velocity limits": c.Friction.Limits.Velocity,
		"friction diameter limits": c.Friction.Limits.Diameter,
	}
	for name, r := range ranges {
		if r.Min > r.Max {
			return fmt.Errorf("%w: %s: min %g above max %g", validation.ErrInvalidInput, name, r.Min, r.Max)
		}
	}
	if err := validation.Positive("cfd scale", c.Velocity.CFD.Scale); err != nil {
		return err
	}
	if c.Friction.Solver.MaxIterations <= 0 {
		return fmt.Errorf("%w: max_iterations must be positive", validation.ErrInvalidInput)
	}
	if err := validation.Positive("tolerance", c.Friction.Solver.Tolerance); err != nil {
		return err
	}
	return c.Friction.Tables.Validate()
}
