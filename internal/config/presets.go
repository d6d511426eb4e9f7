package config

import "sort"

// Presets are named variations of DefaultConfig.
var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"bouncy": func() *Config {
		c := DefaultConfig()
		c.Sphere.Restitution = 0.9
		c.Cube.Restitution = 0.9
		c.Solver.RestingSpeed = 0.1
		return c
	},
	"moon": func() *Config {
		c := DefaultConfig()
		c.Gravity = Vec{0, -1.62, 0}
		c.Duration = 20
		return c
	},
	"heavy": func() *Config {
		c := DefaultConfig()
		c.Sphere.Mass = 10
		c.Sphere.Restitution = 0.2
		c.ForceImpulse = Vec{0, 50, 0}
		return c
	},
	"static_cube": func() *Config {
		c := DefaultConfig()
		c.Cube.Mass = 0
		c.Sphere.Position = Vec{0, 5, 0}
		return c
	},
	"drop": func() *Config {
		c := DefaultConfig()
		c.Sphere.Position = Vec{0, 5, 0}
		c.Cube.Position = Vec{3, DefaultCubeHalf, 0}
		c.Duration = 5
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	c := fn()
	c.Name = name
	return c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
