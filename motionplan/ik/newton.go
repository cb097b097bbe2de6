package ik

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/planarik/logging"
)

// Newton minimizes an objective with full Newton steps. Every iteration factorizes the Hessian with a
// Cholesky decomposition and solves H*s = g; the update is x -= s. A Hessian that is not positive definite
// or whose condition number exceeds maxCondition aborts the run.
type Newton struct {
	diagnostics
	logger       logging.Logger
	tol          float64
	iterMax      int
	maxCondition float64
}

// NewNewton returns a Newton optimizer with default settings.
func NewNewton(logger logging.Logger) *Newton {
	return newNewton(logger, NewDefaultSolverConfig())
}

// NewNewtonFromConfig returns a Newton optimizer configured by cfg.
func NewNewtonFromConfig(logger logging.Logger, cfg SolverConfig) (*Newton, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newNewton(logger, cfg), nil
}

func newNewton(logger logging.Logger, cfg SolverConfig) *Newton {
	if logger == nil {
		logger = logging.NewBlankLogger("newton")
	}
	nm := &Newton{
		logger:       logger,
		tol:          cfg.Tol,
		iterMax:      cfg.IterMax,
		maxCondition: cfg.MaxCondition,
	}
	nm.reset()
	return nm
}

// SetTol sets the step norm below which the iteration stops. It must be positive.
func (nm *Newton) SetTol(tol float64) error {
	cfg := nm.Config()
	cfg.Tol = tol
	return nm.apply(cfg)
}

// SetIterMax caps the number of Newton steps. It must be at least 1.
func (nm *Newton) SetIterMax(iterMax int) error {
	cfg := nm.Config()
	cfg.IterMax = iterMax
	return nm.apply(cfg)
}

// SetMaxCondition sets the largest Hessian condition number a step is still taken with. It must be at
// least 1.
func (nm *Newton) SetMaxCondition(maxCondition float64) error {
	cfg := nm.Config()
	cfg.MaxCondition = maxCondition
	return nm.apply(cfg)
}

// apply takes over the settings of cfg if they are valid and leaves the current ones otherwise.
func (nm *Newton) apply(cfg SolverConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	nm.tol = cfg.Tol
	nm.iterMax = cfg.IterMax
	nm.maxCondition = cfg.MaxCondition
	return nil
}

// Config returns the current settings.
func (nm *Newton) Config() SolverConfig {
	cfg := NewDefaultSolverConfig()
	cfg.Tol = nm.tol
	cfg.IterMax = nm.iterMax
	cfg.MaxCondition = nm.maxCondition
	return cfg
}

// Optimize runs Newton's method from seed and returns the final configuration. Solve failures return no
// configuration.
func (nm *Newton) Optimize(objective Objective, seed []float64) ([]float64, error) {
	nm.reset()
	x, err := checkSeed(objective, seed)
	if err != nil {
		return nil, err
	}

	dx := make([]float64, len(x))
	converged := false
	iter := 0
	for iter < nm.iterMax {
		iter++
		nm.iter = iter
		_, g, hess, err := objective.ValueGradientHessian(x)
		if err != nil {
			return nil, err
		}
		if err := nm.solve(dx, hess, g); err != nil {
			nm.logger.Debugw("newton solve failed", "iteration", iter, "error", err)
			return nil, errors.Wrapf(err, "newton iteration %d", iter)
		}
		// s solves H*s = g, the descent step is its negation
		floats.Scale(-1, dx)
		floats.Add(x, dx)
		if stepNorm(dx) < nm.tol {
			converged = true
			break
		}
	}

	fResult, err := objective.Value(x)
	if err != nil {
		return nil, err
	}
	nm.iter = iter
	nm.fResult = fResult
	nm.logger.Debugw("optimization finished", "optimizer", "newton", "iterations", iter, "objective", fResult, "converged", converged)
	return x, nil
}

// solve writes the solution of hess*s = g into dst.
func (nm *Newton) solve(dst []float64, hess *mat.SymDense, g []float64) error {
	var chol mat.Cholesky
	if ok := chol.Factorize(hess); !ok {
		return ErrHessianNotPositiveDefinite
	}
	if cond := chol.Cond(); cond > nm.maxCondition {
		return errors.Wrapf(ErrHessianIllConditioned, "condition number %g exceeds %g", cond, nm.maxCondition)
	}
	s := mat.NewVecDense(len(dst), dst)
	if err := chol.SolveVecTo(s, mat.NewVecDense(len(g), g)); err != nil {
		return errors.Wrap(ErrHessianIllConditioned, err.Error())
	}
	return nil
}
