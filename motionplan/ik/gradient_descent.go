package ik

import (
	"gonum.org/v1/gonum/floats"

	"go.viam.com/planarik/logging"
)

// GradientDescent minimizes an objective by steepest descent with a backtracking line search. Each outer
// iteration evaluates the gradient once; the line search starts at alphaInit and shrinks the step by gamma
// until the value decreases, using value-only evaluations. When no trial improves within the cap, the last
// and smallest step is taken anyway.
type GradientDescent struct {
	diagnostics
	name      string
	logger    logging.Logger
	alphaInit float64
	gamma     float64
	tol       float64
	iterMax   int
}

// NewGradientDescent returns a gradient descent optimizer with default settings.
func NewGradientDescent(logger logging.Logger) *GradientDescent {
	return newGradientDescent("gradient_descent", logger, NewDefaultSolverConfig())
}

// NewGradientDescentFromConfig returns a gradient descent optimizer configured by cfg.
func NewGradientDescentFromConfig(logger logging.Logger, cfg SolverConfig) (*GradientDescent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newGradientDescent("gradient_descent", logger, cfg), nil
}

func newGradientDescent(name string, logger logging.Logger, cfg SolverConfig) *GradientDescent {
	if logger == nil {
		logger = logging.NewBlankLogger(name)
	}
	gd := &GradientDescent{
		name:      name,
		logger:    logger,
		alphaInit: cfg.AlphaInit,
		gamma:     cfg.Gamma,
		tol:       cfg.Tol,
		iterMax:   cfg.IterMax,
	}
	gd.reset()
	return gd
}

// SetAlphaInit sets the first step size tried by every line search. It must be positive.
func (gd *GradientDescent) SetAlphaInit(alphaInit float64) error {
	cfg := gd.Config()
	cfg.AlphaInit = alphaInit
	return gd.apply(cfg)
}

// SetGamma sets the factor the step size shrinks by after a rejected trial. It must be in (0, 1).
func (gd *GradientDescent) SetGamma(gamma float64) error {
	cfg := gd.Config()
	cfg.Gamma = gamma
	return gd.apply(cfg)
}

// SetTol sets the step norm below which the descent stops. It must be positive.
func (gd *GradientDescent) SetTol(tol float64) error {
	cfg := gd.Config()
	cfg.Tol = tol
	return gd.apply(cfg)
}

// SetIterMax caps both the outer iterations and the trials of each line search. It must be at least 1.
func (gd *GradientDescent) SetIterMax(iterMax int) error {
	cfg := gd.Config()
	cfg.IterMax = iterMax
	return gd.apply(cfg)
}

// apply takes over the settings of cfg if they are valid and leaves the current ones otherwise.
func (gd *GradientDescent) apply(cfg SolverConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	gd.alphaInit = cfg.AlphaInit
	gd.gamma = cfg.Gamma
	gd.tol = cfg.Tol
	gd.iterMax = cfg.IterMax
	return nil
}

// Config returns the current settings.
func (gd *GradientDescent) Config() SolverConfig {
	cfg := NewDefaultSolverConfig()
	cfg.AlphaInit = gd.alphaInit
	cfg.Gamma = gd.gamma
	cfg.Tol = gd.tol
	cfg.IterMax = gd.iterMax
	return cfg
}

// Optimize runs the descent from seed and returns the final configuration.
func (gd *GradientDescent) Optimize(objective Objective, seed []float64) ([]float64, error) {
	gd.reset()
	x, err := checkSeed(objective, seed)
	if err != nil {
		return nil, err
	}

	fResult, err := objective.Value(x)
	if err != nil {
		return nil, err
	}
	n := len(x)
	dx := make([]float64, n)
	trial := make([]float64, n)
	converged := false
	iter := 0

	for iter < gd.iterMax {
		iter++
		f, g, err := objective.ValueGradient(x)
		if err != nil {
			return nil, err
		}

		alpha := gd.alphaInit
		fTrial := f
		for iterLS := 1; iterLS <= gd.iterMax; iterLS++ {
			floats.ScaleTo(dx, -alpha, g)
			floats.AddTo(trial, x, dx)
			// the gradient is not refreshed during the line search
			fTrial, err = objective.Value(trial)
			if err != nil {
				return nil, err
			}
			if fTrial < f {
				break
			}
			alpha *= gd.gamma
		}

		copy(x, trial)
		fResult = fTrial
		if stepNorm(dx) < gd.tol {
			converged = true
			break
		}
	}

	gd.iter = iter
	gd.fResult = fResult
	gd.logger.Debugw("optimization finished", "optimizer", gd.name, "iterations", iter, "objective", fResult, "converged", converged)
	return x, nil
}

// Hybrid is a second, independently configured gradient descent. It runs exactly the same loop as
// GradientDescent; pairing it with Newton and keeping the better result is the caller's job, see CombinedIK.
type Hybrid struct {
	GradientDescent
}

// NewHybrid returns a hybrid optimizer with default settings.
func NewHybrid(logger logging.Logger) *Hybrid {
	return &Hybrid{*newGradientDescent("hybrid", logger, NewDefaultSolverConfig())}
}

// NewHybridFromConfig returns a hybrid optimizer configured by cfg.
func NewHybridFromConfig(logger logging.Logger, cfg SolverConfig) (*Hybrid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Hybrid{*newGradientDescent("hybrid", logger, cfg)}, nil
}
