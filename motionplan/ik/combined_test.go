package ik

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/planarik/logging"
	"go.viam.com/planarik/referenceframe"
)

func newCombined(t *testing.T, logger logging.Logger) (*CombinedIK, *GradientDescent, *Newton) {
	t.Helper()
	gd := NewGradientDescent(logger)
	test.That(t, gd.SetTol(1e-3), test.ShouldBeNil)
	test.That(t, gd.SetIterMax(40), test.ShouldBeNil)
	nm := NewNewton(logger)
	test.That(t, nm.SetTol(1e-3), test.ShouldBeNil)
	test.That(t, nm.SetIterMax(40), test.ShouldBeNil)
	return CreateCombinedIKSolver(logger, gd, nm), gd, nm
}

func TestCombinedPrefersNewtonNearOptimum(t *testing.T) {
	logger := logging.NewTestLogger(t)
	obj := fourLinkObjective(t)
	obj.SetTarget(4, 0)
	ik, gd, nm := newCombined(t, logger)

	sol, err := ik.Solve(obj, []float64{0.02, 0.01, -0.01, 0.02})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol.Solver, test.ShouldEqual, SolverNewton)
	test.That(t, sol.Score, test.ShouldEqual, nm.LastObjectiveValue())
	test.That(t, sol.Score, test.ShouldBeLessThanOrEqualTo, gd.LastObjectiveValue())
	test.That(t, sol.DescentIterations, test.ShouldEqual, gd.LastIterations())
	test.That(t, sol.NewtonIterations, test.ShouldEqual, nm.LastIterations())
	test.That(t, sol.DescentScore, test.ShouldEqual, gd.LastObjectiveValue())
	test.That(t, sol.NewtonScore, test.ShouldEqual, sol.Score)

	p, err := obj.Chain().Position(sol.Configuration)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Sub(r2.Point{X: 4}).Norm(), test.ShouldBeLessThan, 1e-2)
}

func TestCombinedFallsBackToDescent(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	ik, gd, _ := newCombined(t, logger)
	// the Newton stage always sees an indefinite Hessian here
	obj := newQuadObjective([]float64{2, -1}, []float64{0, 0})

	sol, err := ik.Solve(obj, []float64{1, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol.Solver, test.ShouldEqual, SolverDescent)
	test.That(t, sol.Score, test.ShouldEqual, gd.LastObjectiveValue())
	test.That(t, math.IsInf(sol.NewtonScore, 1), test.ShouldBeTrue)
	test.That(t, logs.FilterMessage("newton failed, keeping descent result").Len(), test.ShouldEqual, 1)
}

func TestCombinedBothFail(t *testing.T) {
	ik, _, _ := newCombined(t, nil)
	obj := fourLinkObjective(t)
	_, err := ik.Solve(obj, []float64{0})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, referenceframe.NewIncorrectDoFError(1, 4).Error())
}

// Repeatedly solving toward a moving target, the way an interactive driver does.
func TestCombinedTracking(t *testing.T) {
	obj := fourLinkObjective(t)
	ik, _, _ := newCombined(t, logging.NewTestLogger(t))

	x := make([]float64, 4)
	prev := obj.Target()
	for _, target := range []r2.Point{{X: 3.9, Y: 0.3}, {X: 3.7, Y: 0.8}, {X: 3.4, Y: 1.2}} {
		obj.SetTarget(target.X, target.Y)
		before, err := obj.Value(x)
		test.That(t, err, test.ShouldBeNil)
		for step := 0; step < 5; step++ {
			sol, err := ik.Solve(obj, x)
			test.That(t, err, test.ShouldBeNil)
			x = sol.Configuration
		}
		after, err := obj.Value(x)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, after, test.ShouldBeLessThan, before)
		test.That(t, obj.Target(), test.ShouldNotResemble, prev)
		prev = obj.Target()
	}
}
