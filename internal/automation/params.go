package automation

import (
	"fmt"
	"sort"

	"github.com/san-kum/rigidscene/internal/config"
	"github.com/san-kum/rigidscene/internal/dynamo"
)

// params are the scalar config fields scenarios and sweeps may set by name.
var params = map[string]func(*config.Config, float64){
	"gravity":            func(c *config.Config, v float64) { c.Gravity[1] = v },
	"sphere_height":      func(c *config.Config, v float64) { c.Sphere.Position[1] = v },
	"sphere_x":           func(c *config.Config, v float64) { c.Sphere.Position[0] = v },
	"sphere_mass":        func(c *config.Config, v float64) { c.Sphere.Mass = v },
	"sphere_radius":      func(c *config.Config, v float64) { c.Sphere.Radius = v },
	"cube_mass":          func(c *config.Config, v float64) { c.Cube.Mass = v },
	"cube_x":             func(c *config.Config, v float64) { c.Cube.Position[0] = v },
	"ground_restitution": func(c *config.Config, v float64) { c.Ground.Restitution = v },
	"ground_friction":    func(c *config.Config, v float64) { c.Ground.Friction = v },
	"restitution": func(c *config.Config, v float64) {
		c.Sphere.Restitution = v
		c.Cube.Restitution = v
	},
	"friction": func(c *config.Config, v float64) {
		c.Sphere.Friction = v
		c.Cube.Friction = v
	},
	"force": func(c *config.Config, v float64) { c.ForceImpulse[1] = v },
}

// SetParam sets the named field of cfg. The result is not validated.
func SetParam(cfg *config.Config, name string, v float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q (available: %v): %w", name, ParamNames(), dynamo.ErrInvalidInput)
	}
	set(cfg, v)
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
