package ik

import (
	"go.uber.org/multierr"

	"go.viam.com/planarik/logging"
)

const (
	// SolverDescent labels solutions produced by the gradient descent stage of CombinedIK.
	SolverDescent = "descent"
	// SolverNewton labels solutions produced by the Newton stage of CombinedIK.
	SolverNewton = "newton"
)

// Solution is a configuration produced by CombinedIK together with its objective value.
type Solution struct {
	Configuration []float64
	Score         float64
	Solver        string

	// Per stage diagnostics. A failed stage reports an infinite score.
	DescentIterations int
	DescentScore      float64
	NewtonIterations  int
	NewtonScore       float64
}

// CombinedIK runs a gradient descent optimizer from the seed, refines its result with Newton's method and
// keeps whichever of the two reached the lower objective value. A failed Newton solve falls back to the
// descent result.
type CombinedIK struct {
	descent Optimizer
	newton  Optimizer
	logger  logging.Logger
}

// CreateCombinedIKSolver pairs a descent optimizer with a Newton optimizer.
func CreateCombinedIKSolver(logger logging.Logger, descent, newton Optimizer) *CombinedIK {
	if logger == nil {
		logger = logging.NewBlankLogger("combined")
	}
	return &CombinedIK{descent: descent, newton: newton, logger: logger}
}

// Solve runs both stages from seed. An error is returned only when neither stage produced a configuration.
func (ik *CombinedIK) Solve(objective Objective, seed []float64) (*Solution, error) {
	descentX, descentErr := ik.descent.Optimize(objective, seed)

	newtonSeed := descentX
	if descentErr != nil {
		ik.logger.Warnw("descent failed, seeding newton with the original seed", "error", descentErr)
		newtonSeed = seed
	}
	newtonX, newtonErr := ik.newton.Optimize(objective, newtonSeed)

	switch {
	case descentErr != nil && newtonErr != nil:
		return nil, multierr.Combine(descentErr, newtonErr)
	case newtonErr != nil:
		ik.logger.Debugw("newton failed, keeping descent result", "error", newtonErr)
		return ik.solution(descentX, SolverDescent), nil
	case descentErr != nil:
		return ik.solution(newtonX, SolverNewton), nil
	}

	if ik.descent.LastObjectiveValue() < ik.newton.LastObjectiveValue() {
		return ik.solution(descentX, SolverDescent), nil
	}
	return ik.solution(newtonX, SolverNewton), nil
}

func (ik *CombinedIK) solution(x []float64, solver string) *Solution {
	score := ik.newton.LastObjectiveValue()
	if solver == SolverDescent {
		score = ik.descent.LastObjectiveValue()
	}
	return &Solution{
		Configuration:     x,
		Score:             score,
		Solver:            solver,
		DescentIterations: ik.descent.LastIterations(),
		DescentScore:      ik.descent.LastObjectiveValue(),
		NewtonIterations:  ik.newton.LastIterations(),
		NewtonScore:       ik.newton.LastObjectiveValue(),
	}
}
