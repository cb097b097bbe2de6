package ik

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/planarik/referenceframe"
)

const (
	defaultAlphaInit    = 1.
	defaultGamma        = 0.5
	defaultTol          = 1e-6
	defaultIterMax      = 100
	defaultMaxCondition = 1e12
)

// Optimizer refines a joint configuration by local descent on an Objective. Reaching the iteration cap is
// not an error: the configuration reached so far is returned and LastIterations equals the cap.
//
// An Optimizer carries its own settings and last-run diagnostics and is not safe for concurrent use.
// Optimizers never mutate the objective.
type Optimizer interface {
	Optimize(objective Objective, seed []float64) ([]float64, error)

	// LastIterations is the number of outer iterations executed by the last Optimize call.
	LastIterations() int

	// LastObjectiveValue is the objective at the configuration returned by the last Optimize call.
	LastObjectiveValue() float64
}

// SolverConfig holds the hyperparameters shared by the optimizers. Newton ignores AlphaInit and Gamma,
// gradient descent ignores MaxCondition.
type SolverConfig struct {
	AlphaInit    float64 `json:"alpha_init"`
	Gamma        float64 `json:"gamma"`
	Tol          float64 `json:"tol"`
	IterMax      int     `json:"iter_max"`
	MaxCondition float64 `json:"max_condition"`
}

// NewDefaultSolverConfig returns the default hyperparameters.
func NewDefaultSolverConfig() SolverConfig {
	return SolverConfig{
		AlphaInit:    defaultAlphaInit,
		Gamma:        defaultGamma,
		Tol:          defaultTol,
		IterMax:      defaultIterMax,
		MaxCondition: defaultMaxCondition,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *SolverConfig) Validate() error {
	var err error
	if cfg.AlphaInit <= 0 {
		err = multierr.Append(err, errors.Errorf("alpha_init must be positive, got %v", cfg.AlphaInit))
	}
	if cfg.Gamma <= 0 || cfg.Gamma >= 1 {
		err = multierr.Append(err, errors.Errorf("gamma must be in (0, 1), got %v", cfg.Gamma))
	}
	if cfg.Tol <= 0 {
		err = multierr.Append(err, errors.Errorf("tol must be positive, got %v", cfg.Tol))
	}
	if cfg.IterMax < 1 {
		err = multierr.Append(err, errors.Errorf("iter_max must be at least 1, got %d", cfg.IterMax))
	}
	if cfg.MaxCondition < 1 {
		err = multierr.Append(err, errors.Errorf("max_condition must be at least 1, got %v", cfg.MaxCondition))
	}
	return err
}

// diagnostics records how the last Optimize call ended.
type diagnostics struct {
	iter    int
	fResult float64
}

// LastIterations returns the number of outer iterations of the last run.
func (d *diagnostics) LastIterations() int {
	return d.iter
}

// LastObjectiveValue returns the objective at the result of the last run.
func (d *diagnostics) LastObjectiveValue() float64 {
	return d.fResult
}

// reset clears the diagnostics at the start of a run. A failed run leaves an infinite objective value so
// it never wins a comparison against a successful one.
func (d *diagnostics) reset() {
	d.iter = 0
	d.fResult = math.Inf(1)
}

func checkSeed(objective Objective, seed []float64) ([]float64, error) {
	if len(seed) != objective.DoF() {
		return nil, referenceframe.NewIncorrectDoFError(len(seed), objective.DoF())
	}
	return append([]float64(nil), seed...), nil
}

func stepNorm(dx []float64) float64 {
	return floats.Norm(dx, 2)
}
