package ik

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/planarik/logging"
	"go.viam.com/planarik/referenceframe"
)

func TestSolverConfigValidate(t *testing.T) {
	cfg := NewDefaultSolverConfig()
	test.That(t, cfg.Validate(), test.ShouldBeNil)
	test.That(t, cfg.AlphaInit, test.ShouldEqual, 1.)
	test.That(t, cfg.Gamma, test.ShouldEqual, 0.5)
	test.That(t, cfg.Tol, test.ShouldEqual, 1e-6)
	test.That(t, cfg.IterMax, test.ShouldEqual, 100)

	bad := SolverConfig{AlphaInit: 0, Gamma: 1, Tol: -1, IterMax: 0, MaxCondition: 0}
	err := bad.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	for _, field := range []string{"alpha_init", "gamma", "tol", "iter_max", "max_condition"} {
		test.That(t, err.Error(), test.ShouldContainSubstring, field)
	}

	_, err = NewGradientDescentFromConfig(nil, bad)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewNewtonFromConfig(nil, bad)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewHybridFromConfig(nil, bad)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestOptimizersIncorrectDoF(t *testing.T) {
	obj := fourLinkObjective(t)
	expected := referenceframe.NewIncorrectDoFError(2, 4)
	for _, opt := range []Optimizer{NewGradientDescent(nil), NewNewton(nil), NewHybrid(nil)} {
		x, err := opt.Optimize(obj, []float64{0, 0})
		test.That(t, err, test.ShouldBeError, expected)
		test.That(t, x, test.ShouldBeNil)
		test.That(t, opt.LastIterations(), test.ShouldEqual, 0)
	}
}

// Starting at the extended pose with the target at the extended tip is already optimal.
func TestFourLinkExtended(t *testing.T) {
	logger := logging.NewTestLogger(t)
	obj := fourLinkObjective(t)
	obj.SetTarget(4, 0)

	gd := NewGradientDescent(logger)
	test.That(t, gd.SetTol(1e-3), test.ShouldBeNil)
	test.That(t, gd.SetIterMax(40), test.ShouldBeNil)
	nm := NewNewton(logger)
	test.That(t, nm.SetTol(1e-3), test.ShouldBeNil)
	test.That(t, nm.SetIterMax(40), test.ShouldBeNil)

	for _, opt := range []Optimizer{gd, nm} {
		x, err := opt.Optimize(obj, make([]float64, 4))
		test.That(t, err, test.ShouldBeNil)
		p, err := obj.Chain().Position(x)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, p.Sub(r2.Point{X: 4}).Norm(), test.ShouldBeLessThan, 1e-2)
		test.That(t, opt.LastIterations(), test.ShouldEqual, 1)
		test.That(t, opt.LastObjectiveValue(), test.ShouldEqual, 0.)
	}
}

func TestNewtonFromPerturbedSeed(t *testing.T) {
	obj := fourLinkObjective(t)
	obj.SetTarget(4, 0)
	nm := NewNewton(logging.NewTestLogger(t))
	test.That(t, nm.SetTol(1e-3), test.ShouldBeNil)
	test.That(t, nm.SetIterMax(40), test.ShouldBeNil)

	x, err := nm.Optimize(obj, []float64{0.02, 0.01, -0.01, 0.02})
	test.That(t, err, test.ShouldBeNil)
	p, err := obj.Chain().Position(x)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Sub(r2.Point{X: 4}).Norm(), test.ShouldBeLessThan, 1e-2)
	test.That(t, nm.LastIterations(), test.ShouldBeLessThan, 40)

	// running again from the converged configuration does not move it
	again, err := nm.Optimize(obj, x)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, nm.LastIterations(), test.ShouldEqual, 1)
	for i := range x {
		test.That(t, again[i], test.ShouldAlmostEqual, x[i], 1e-3)
	}
}

// Further from the optimum the residual curvature makes the Hessian indefinite.
func TestNewtonIndefiniteFarFromOptimum(t *testing.T) {
	obj := fourLinkObjective(t)
	obj.SetTarget(4, 0)
	nm := NewNewton(nil)
	x, err := nm.Optimize(obj, []float64{0.1, -0.1, 0.05, 0})
	test.That(t, x, test.ShouldBeNil)
	test.That(t, errors.Is(err, ErrHessianNotPositiveDefinite), test.ShouldBeTrue)
}

func TestGradientDescentFromPerturbedSeed(t *testing.T) {
	obj := fourLinkObjective(t)
	obj.SetTarget(4, 0)
	gd := NewGradientDescent(logging.NewTestLogger(t))
	test.That(t, gd.SetTol(1e-3), test.ShouldBeNil)
	test.That(t, gd.SetIterMax(40), test.ShouldBeNil)

	x, err := gd.Optimize(obj, []float64{0.1, -0.1, 0.05, 0})
	test.That(t, err, test.ShouldBeNil)
	p, err := obj.Chain().Position(x)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Sub(r2.Point{X: 4}).Norm(), test.ShouldBeLessThan, 1e-2)
	test.That(t, gd.LastIterations(), test.ShouldBeLessThan, 40)
}

func TestNewtonPureRegularization(t *testing.T) {
	obj := fourLinkObjective(t)
	test.That(t, obj.SetWeights(0, 3), test.ShouldBeNil)
	rest := []float64{0.5, -1, 2, 0.25}
	test.That(t, obj.SetRestPose(rest), test.ShouldBeNil)

	for _, seed := range [][]float64{{0, 0, 0, 0}, {4, -3, 10, 1}, {-0.5, 0.5, -2, 7}} {
		nm := NewNewton(nil)
		test.That(t, nm.SetIterMax(1), test.ShouldBeNil)
		x, err := nm.Optimize(obj, seed)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, nm.LastIterations(), test.ShouldEqual, 1)
		for i := range x {
			test.That(t, x[i], test.ShouldAlmostEqual, rest[i], 1e-12)
		}
		test.That(t, nm.LastObjectiveValue(), test.ShouldAlmostEqual, 0, 1e-20)

		// with room to continue, the second step is already below tolerance
		test.That(t, nm.SetIterMax(100), test.ShouldBeNil)
		_, err = nm.Optimize(obj, seed)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, nm.LastIterations(), test.ShouldEqual, 2)
	}
}

func TestNewtonSolveFailures(t *testing.T) {
	nm := NewNewton(nil)
	x, err := nm.Optimize(newQuadObjective([]float64{1, -1}, []float64{1, 1}), []float64{0, 0})
	test.That(t, x, test.ShouldBeNil)
	test.That(t, errors.Is(err, ErrHessianNotPositiveDefinite), test.ShouldBeTrue)
	test.That(t, nm.LastIterations(), test.ShouldEqual, 1)
	test.That(t, math.IsInf(nm.LastObjectiveValue(), 1), test.ShouldBeTrue)

	x, err = nm.Optimize(newQuadObjective([]float64{1, 1e-14}, []float64{1, 1}), []float64{0, 0})
	test.That(t, x, test.ShouldBeNil)
	test.That(t, errors.Is(err, ErrHessianIllConditioned), test.ShouldBeTrue)

	// a looser bound accepts the same system
	test.That(t, nm.SetMaxCondition(1e16), test.ShouldBeNil)
	x, err = nm.Optimize(newQuadObjective([]float64{1, 1e-6}, []float64{1, 1e-6}), []float64{0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, x[0], test.ShouldAlmostEqual, 1)
	test.That(t, x[1], test.ShouldAlmostEqual, 1)
	test.That(t, nm.Config().MaxCondition, test.ShouldEqual, 1e16)
}

func TestNewtonUsesHessianOncePerIteration(t *testing.T) {
	rec := &recordingObjective{Objective: newQuadObjective([]float64{2, 4}, []float64{2, 4})}
	nm := NewNewton(nil)
	x, err := nm.Optimize(rec, []float64{5, -5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, x[0], test.ShouldAlmostEqual, 1)
	test.That(t, x[1], test.ShouldAlmostEqual, 1)
	test.That(t, rec.hessianCalls, test.ShouldEqual, nm.LastIterations())
	test.That(t, len(rec.gradientValues), test.ShouldEqual, 0)
}

func TestGradientDescentMonotone(t *testing.T) {
	obj := fourLinkObjective(t)
	obj.SetTarget(2, 2)
	rec := &recordingObjective{Objective: obj}

	gd := NewGradientDescent(logging.NewTestLogger(t))
	test.That(t, gd.SetAlphaInit(1e-4), test.ShouldBeNil)
	test.That(t, gd.SetTol(1e-3), test.ShouldBeNil)
	test.That(t, gd.SetIterMax(40), test.ShouldBeNil)
	seed := []float64{0.1, 0.1, 0.1, 0.1}
	x, err := gd.Optimize(rec, seed)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(x), test.ShouldEqual, 4)
	test.That(t, len(rec.gradientValues), test.ShouldEqual, gd.LastIterations())
	test.That(t, rec.hessianCalls, test.ShouldEqual, 0)

	for i := 1; i < len(rec.gradientValues); i++ {
		test.That(t, rec.gradientValues[i], test.ShouldBeLessThan, rec.gradientValues[i-1])
	}
	f0, err := obj.Value(seed)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, gd.LastObjectiveValue(), test.ShouldBeLessThan, f0)

	fResult, err := obj.Value(x)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, gd.LastObjectiveValue(), test.ShouldEqual, fResult)
}

func TestGradientDescentQuadratic(t *testing.T) {
	gd := NewGradientDescent(nil)
	obj := newQuadObjective([]float64{1, 2, 3}, []float64{1, 2, 3})
	x, err := gd.Optimize(obj, []float64{3, -2, 0.5})
	test.That(t, err, test.ShouldBeNil)
	for i := range x {
		test.That(t, x[i], test.ShouldAlmostEqual, 1, 1e-5)
	}
	test.That(t, gd.LastIterations(), test.ShouldBeLessThan, 100)
	test.That(t, gd.LastObjectiveValue(), test.ShouldAlmostEqual, -3, 1e-9)

	// idempotent once converged
	again, err := gd.Optimize(obj, x)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, gd.LastIterations(), test.ShouldEqual, 1)
	for i := range x {
		test.That(t, again[i], test.ShouldAlmostEqual, x[i], 1e-6)
	}
}

func TestGradientDescentIterationCap(t *testing.T) {
	gd := NewGradientDescent(nil)
	test.That(t, gd.SetIterMax(3), test.ShouldBeNil)
	test.That(t, gd.SetTol(1e-12), test.ShouldBeNil)
	obj := newQuadObjective([]float64{1, 1.5}, []float64{0, 0})
	x, err := gd.Optimize(obj, []float64{10, 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, x, test.ShouldNotBeNil)
	test.That(t, gd.LastIterations(), test.ShouldEqual, 3)
}

func TestGradientDescentDoesNotMutateSeed(t *testing.T) {
	gd := NewGradientDescent(nil)
	seed := []float64{3, 3}
	_, err := gd.Optimize(newQuadObjective([]float64{1, 1}, []float64{0, 0}), seed)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, seed, test.ShouldResemble, []float64{3, 3})
}

func TestHybridIsIndependentDescent(t *testing.T) {
	obj := newQuadObjective([]float64{1, 4}, []float64{2, 4})
	seed := []float64{-3, 3}

	gd := NewGradientDescent(nil)
	hybrid := NewHybrid(nil)
	test.That(t, hybrid.SetIterMax(5), test.ShouldBeNil)
	test.That(t, gd.Config().IterMax, test.ShouldEqual, 100)
	test.That(t, hybrid.Config().IterMax, test.ShouldEqual, 5)

	test.That(t, hybrid.SetIterMax(100), test.ShouldBeNil)
	want, err := gd.Optimize(obj, seed)
	test.That(t, err, test.ShouldBeNil)
	got, err := hybrid.Optimize(obj, seed)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, want)
	test.That(t, hybrid.LastIterations(), test.ShouldEqual, gd.LastIterations())
	test.That(t, hybrid.LastObjectiveValue(), test.ShouldEqual, gd.LastObjectiveValue())

	cfg := NewDefaultSolverConfig()
	cfg.AlphaInit = 0.25
	fromCfg, err := NewHybridFromConfig(nil, cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fromCfg.Config().AlphaInit, test.ShouldEqual, 0.25)
}

func TestSettersRejectInvalidValues(t *testing.T) {
	gd := NewGradientDescent(nil)
	test.That(t, gd.SetIterMax(3), test.ShouldBeNil)

	err := gd.SetGamma(2)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "gamma must be in (0, 1), got 2")
	err = gd.SetAlphaInit(0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "alpha_init")
	err = gd.SetTol(-1)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "tol")
	err = gd.SetIterMax(0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "iter_max")

	// rejected values leave the previous settings in place
	expected := NewDefaultSolverConfig()
	expected.IterMax = 3
	test.That(t, gd.Config(), test.ShouldResemble, expected)

	hybrid := NewHybrid(nil)
	test.That(t, hybrid.SetGamma(1), test.ShouldNotBeNil)
	test.That(t, hybrid.Config().Gamma, test.ShouldEqual, 0.5)

	nm := NewNewton(nil)
	test.That(t, nm.SetMaxCondition(0.5), test.ShouldNotBeNil)
	test.That(t, nm.SetTol(0), test.ShouldNotBeNil)
	test.That(t, nm.SetIterMax(-1), test.ShouldNotBeNil)
	test.That(t, nm.Config(), test.ShouldResemble, NewDefaultSolverConfig())
}
