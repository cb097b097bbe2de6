package ik

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/planarik/kinematics"
	"go.viam.com/planarik/referenceframe"
)

// fourLinkObjective is four unit links along x with the end effector at the last joint, so the fully
// extended tip is (4, 0).
func fourLinkObjective(t *testing.T) *LinkObjective {
	t.Helper()
	chain, err := kinematics.NewChainFromOffsets([]r2.Point{{X: 1}, {X: 1}, {X: 1}, {X: 1}})
	test.That(t, err, test.ShouldBeNil)
	obj, err := NewLinkObjective(chain)
	test.That(t, err, test.ShouldBeNil)
	return obj
}

// quadObjective is f(x) = 0.5*x^T*H*x - b^T*x.
type quadObjective struct {
	h *mat.SymDense
	b []float64
}

func newQuadObjective(diag, b []float64) *quadObjective {
	h := mat.NewSymDense(len(diag), nil)
	for i, d := range diag {
		h.SetSym(i, i, d)
	}
	return &quadObjective{h: h, b: b}
}

func (q *quadObjective) DoF() int {
	return len(q.b)
}

func (q *quadObjective) Value(x []float64) (float64, error) {
	if len(x) != q.DoF() {
		return 0, referenceframe.NewIncorrectDoFError(len(x), q.DoF())
	}
	hx := mat.NewVecDense(len(x), nil)
	hx.MulVec(q.h, mat.NewVecDense(len(x), append([]float64(nil), x...)))
	return 0.5*floats.Dot(x, hx.RawVector().Data) - floats.Dot(q.b, x), nil
}

func (q *quadObjective) ValueGradient(x []float64) (float64, []float64, error) {
	f, err := q.Value(x)
	if err != nil {
		return 0, nil, err
	}
	hx := mat.NewVecDense(len(x), nil)
	hx.MulVec(q.h, mat.NewVecDense(len(x), append([]float64(nil), x...)))
	g := hx.RawVector().Data
	floats.Sub(g, q.b)
	return f, g, nil
}

func (q *quadObjective) ValueGradientHessian(x []float64) (float64, []float64, *mat.SymDense, error) {
	f, g, err := q.ValueGradient(x)
	if err != nil {
		return 0, nil, nil, err
	}
	h := mat.NewSymDense(q.DoF(), nil)
	h.CopySym(q.h)
	return f, g, h, nil
}

// recordingObjective remembers the value seen by every gradient evaluation.
type recordingObjective struct {
	Objective
	gradientValues []float64
	hessianCalls   int
}

func (r *recordingObjective) ValueGradient(x []float64) (float64, []float64, error) {
	f, g, err := r.Objective.ValueGradient(x)
	r.gradientValues = append(r.gradientValues, f)
	return f, g, err
}

func (r *recordingObjective) ValueGradientHessian(x []float64) (float64, []float64, *mat.SymDense, error) {
	r.hessianCalls++
	return r.Objective.ValueGradientHessian(x)
}
