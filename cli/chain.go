package cli

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/planarik/config"
	"go.viam.com/planarik/motionplan/ik"
	"go.viam.com/planarik/referenceframe"
	"go.viam.com/planarik/utils"
)

// loadConfig reads --config, or describes a chain of --links unit links when no file is given. The first
// link sits at the base and every later joint one unit further along x, with the end effector one unit
// past the last joint, so the fully extended reach equals the number of links.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String(configFlag); path != "" {
		return config.Read(path)
	}
	n := c.Int(linksFlag)
	if n < 1 {
		return nil, errors.Errorf("--%s must be at least 1, got %d", linksFlag, n)
	}
	cfg := &config.Config{
		Chain: referenceframe.NewChainConfig(fmt.Sprintf("uniform_%d", n), referenceframe.UniformLinks(n, 1), r2.Point{X: 1}),
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid chain")
	}
	return cfg, nil
}

// loadObjective builds the configured objective, moving its target to --target when given.
func loadObjective(c *cli.Context, cfg *config.Config) (*ik.LinkObjective, error) {
	chain, err := cfg.BuildChain()
	if err != nil {
		return nil, err
	}
	obj, err := cfg.BuildObjective(chain)
	if err != nil {
		return nil, err
	}
	if c.IsSet(targetFlag) {
		target := c.Float64Slice(targetFlag)
		if len(target) != 2 {
			return nil, errors.Errorf("--%s needs two values, got %v", targetFlag, target)
		}
		obj.SetTarget(target[0], target[1])
	}
	return obj, nil
}

// anglesFromFlag reads joint angles from the named flag. Unset means all zero.
func anglesFromFlag(c *cli.Context, name string, dof int) ([]float64, error) {
	if !c.IsSet(name) {
		return make([]float64, dof), nil
	}
	angles := append([]float64(nil), c.Float64Slice(name)...)
	if len(angles) != dof {
		return nil, errors.Wrapf(referenceframe.NewIncorrectDoFError(len(angles), dof), "--%s", name)
	}
	if c.Bool(degreesFlag) {
		for i, a := range angles {
			angles[i] = utils.DegToRad(a)
		}
	}
	return angles, nil
}

func formatAngles(c *cli.Context, angles []float64) string {
	unit := "rad"
	parts := make([]string, 0, len(angles))
	for _, a := range angles {
		if c.Bool(degreesFlag) {
			a = utils.RadToDeg(a)
		}
		parts = append(parts, fmt.Sprintf("%.6f", a))
	}
	if c.Bool(degreesFlag) {
		unit = "deg"
	}
	return fmt.Sprintf("[%s] %s", strings.Join(parts, ", "), unit)
}

func formatPoint(p r2.Point) string {
	return fmt.Sprintf("(%.6f, %.6f)", p.X, p.Y)
}
