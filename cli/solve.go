package cli

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/planarik/utils"
)

// SolveAction runs the combined solver --steps times toward the target, seeding every round with the
// previous result. Angles are wrapped to [-pi, pi] after each round.
func SolveAction(c *cli.Context) error {
	logger := newLogger(c)
	//nolint:errcheck
	defer logger.Sync()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	obj, err := loadObjective(c, cfg)
	if err != nil {
		return err
	}
	solver, err := cfg.BuildSolver(logger)
	if err != nil {
		return err
	}
	x, err := anglesFromFlag(c, seedFlag, obj.DoF())
	if err != nil {
		return err
	}
	steps := c.Int(stepsFlag)
	if steps < 1 {
		return errors.Errorf("--%s must be at least 1, got %d", stepsFlag, steps)
	}

	chain := obj.Chain()
	target := obj.Target()
	printf(c.App.Writer, "chain %q with %d joints, target %s", chain.Name(), chain.DoF(), formatPoint(target))
	for step := 0; step < steps; step++ {
		sol, err := solver.Solve(obj, x)
		if err != nil {
			return errors.Wrapf(err, "step %d", step)
		}
		x = utils.WrapAngles(sol.Configuration)
		tip, err := chain.Position(x)
		if err != nil {
			return err
		}
		logger.Debugw("step solved", "step", step, "solver", sol.Solver, "objective", sol.Score)

		printf(c.App.Writer, "step %d: kept %s result, f=%.6g", step, sol.Solver, sol.Score)
		printf(c.App.Writer, "  descent: %d iterations, f=%.6g", sol.DescentIterations, sol.DescentScore)
		printf(c.App.Writer, "  newton:  %d iterations, f=%.6g", sol.NewtonIterations, sol.NewtonScore)
		printf(c.App.Writer, "  angles:  %s", formatAngles(c, x))
		printf(c.App.Writer, "  tip:     %s, %.3g from target", formatPoint(tip), tip.Sub(target).Norm())
	}
	return nil
}
