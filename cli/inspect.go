package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/mat"
)

// InspectAction prints the end effector position, its first and second derivatives and the objective
// value, gradient and Hessian at --angles.
func InspectAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	obj, err := loadObjective(c, cfg)
	if err != nil {
		return err
	}
	chain := obj.Chain()
	x, err := anglesFromFlag(c, anglesFlag, chain.DoF())
	if err != nil {
		return err
	}

	p, err := chain.Position(x)
	if err != nil {
		return err
	}
	jac, err := chain.Jacobian(x)
	if err != nil {
		return err
	}
	tensor, err := chain.Hessian(x)
	if err != nil {
		return err
	}
	f, g, hess, err := obj.ValueGradientHessian(x)
	if err != nil {
		return err
	}

	w := c.App.Writer
	printf(w, "angles: %s", formatAngles(c, x))
	printf(w, "target: %s", formatPoint(obj.Target()))
	printf(w, "position: %s", formatPoint(p))
	printf(w, "jacobian:\n    %v", formatMatrix(jac))
	printf(w, "position hessian (block j, i = d2P/dthetai dthetaj):\n    %v", formatMatrix(tensor))
	printf(w, "objective: %.6g", f)
	printf(w, "gradient:\n    %v", formatMatrix(mat.NewVecDense(len(g), g).T()))
	printf(w, "hessian:\n    %v", formatMatrix(hess))
	return nil
}

func formatMatrix(m mat.Matrix) fmt.Formatter {
	return mat.Formatted(m, mat.Prefix("    "), mat.Squeeze())
}
