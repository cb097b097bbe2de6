package ik

import (
	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/planarik/kinematics"
	"go.viam.com/planarik/referenceframe"
	"go.viam.com/planarik/utils"
)

const (
	// DefaultTargetWeight scales the squared distance between end effector and target.
	DefaultTargetWeight = 1000.
	// DefaultRegularizationWeight scales the squared distance between joint angles and the rest pose.
	DefaultRegularizationWeight = 1.
)

// LinkObjective drives the end effector of a planar chain toward a target while keeping the joint angles
// close to a rest pose:
//
//	f(x) = 0.5*wTarget*|P(x) - target|^2 + 0.5*wReg*|x - rest|^2
//
// The regularization also keeps the Hessian positive definite near the optimum even when the chain has
// more joints than the two positional degrees of freedom.
type LinkObjective struct {
	chain        *kinematics.Chain
	target       r2.Point
	targetWeight float64
	regWeight    float64
	restPose     []float64
}

// NewLinkObjective returns an objective bound to the given chain with default weights.
func NewLinkObjective(chain *kinematics.Chain) (*LinkObjective, error) {
	obj := &LinkObjective{
		targetWeight: DefaultTargetWeight,
		regWeight:    DefaultRegularizationWeight,
	}
	if err := obj.BindChain(chain); err != nil {
		return nil, err
	}
	return obj, nil
}

// BindChain replaces the chain. The rest pose is reset to all zeros and the target to the fully extended
// tip, the end effector position with every joint at zero.
func (obj *LinkObjective) BindChain(chain *kinematics.Chain) error {
	if chain == nil {
		return ErrNoChain
	}
	obj.chain = chain
	obj.restPose = make([]float64, chain.DoF())
	tip, err := chain.Position(obj.restPose)
	if err != nil {
		return err
	}
	obj.target = tip
	return nil
}

// Chain returns the bound chain.
func (obj *LinkObjective) Chain() *kinematics.Chain {
	return obj.chain
}

// DoF returns the number of joints of the bound chain.
func (obj *LinkObjective) DoF() int {
	return obj.chain.DoF()
}

// SetTarget moves the target.
func (obj *LinkObjective) SetTarget(x, y float64) {
	obj.target = r2.Point{X: x, Y: y}
}

// Target returns the current target.
func (obj *LinkObjective) Target() r2.Point {
	return obj.target
}

// SetRestPose replaces the regularization anchor.
func (obj *LinkObjective) SetRestPose(rest []float64) error {
	if len(rest) != obj.chain.DoF() {
		return referenceframe.NewIncorrectDoFError(len(rest), obj.chain.DoF())
	}
	obj.restPose = append(obj.restPose[:0], rest...)
	return nil
}

// RestPose returns a copy of the regularization anchor.
func (obj *LinkObjective) RestPose() []float64 {
	return append([]float64(nil), obj.restPose...)
}

// SetWeights sets the target tracking and regularization weights.
func (obj *LinkObjective) SetWeights(target, regularization float64) error {
	if target < 0 || regularization < 0 {
		return ErrNegativeWeight
	}
	obj.targetWeight = target
	obj.regWeight = regularization
	return nil
}

// Weights returns the target tracking and regularization weights.
func (obj *LinkObjective) Weights() (target, regularization float64) {
	return obj.targetWeight, obj.regWeight
}

// residuals returns P(x) - target, x - rest and the objective value.
func (obj *LinkObjective) residuals(x []float64) (r2.Point, []float64, float64, error) {
	p, err := obj.chain.Position(x)
	if err != nil {
		return r2.Point{}, nil, 0, err
	}
	deltaP := p.Sub(obj.target)
	deltaTheta := make([]float64, len(x))
	thetaSq := 0.
	for i, v := range x {
		deltaTheta[i] = v - obj.restPose[i]
		thetaSq += utils.Square(deltaTheta[i])
	}
	f := 0.5*obj.targetWeight*deltaP.Dot(deltaP) + 0.5*obj.regWeight*thetaSq
	return deltaP, deltaTheta, f, nil
}

// Value returns the objective at x.
func (obj *LinkObjective) Value(x []float64) (float64, error) {
	_, _, f, err := obj.residuals(x)
	return f, err
}

// ValueGradient returns the objective and its gradient wTarget*J^T*(P - target) + wReg*(x - rest).
func (obj *LinkObjective) ValueGradient(x []float64) (float64, []float64, error) {
	deltaP, deltaTheta, f, err := obj.residuals(x)
	if err != nil {
		return 0, nil, err
	}
	jac, err := obj.chain.Jacobian(x)
	if err != nil {
		return 0, nil, err
	}
	return f, obj.gradient(jac, deltaP, deltaTheta), nil
}

func (obj *LinkObjective) gradient(jac *mat.Dense, deltaP r2.Point, deltaTheta []float64) []float64 {
	g := make([]float64, len(deltaTheta))
	for i := range g {
		g[i] = obj.targetWeight*(jac.At(0, i)*deltaP.X+jac.At(1, i)*deltaP.Y) + obj.regWeight*deltaTheta[i]
	}
	return g
}

// ValueGradientHessian returns the objective, its gradient and the Hessian
//
//	wTarget*(J^T*J + sum_k (P - target)_k * d2P_k) + wReg*I
//
// where d2P_k is the NxN matrix of second derivatives of the k-th position coordinate.
func (obj *LinkObjective) ValueGradientHessian(x []float64) (float64, []float64, *mat.SymDense, error) {
	deltaP, deltaTheta, f, err := obj.residuals(x)
	if err != nil {
		return 0, nil, nil, err
	}
	jac, err := obj.chain.Jacobian(x)
	if err != nil {
		return 0, nil, nil, err
	}
	second, err := obj.chain.Hessian(x)
	if err != nil {
		return 0, nil, nil, err
	}

	n := len(x)
	var jtj mat.SymDense
	jtj.SymOuterK(1, jac.T())

	hess := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			curvature := deltaP.X*second.At(2*j, i) + deltaP.Y*second.At(2*j+1, i)
			v := obj.targetWeight * (jtj.At(i, j) + curvature)
			if i == j {
				v += obj.regWeight
			}
			hess.SetSym(i, j, v)
		}
	}
	return f, obj.gradient(jac, deltaP, deltaTheta), hess, nil
}
