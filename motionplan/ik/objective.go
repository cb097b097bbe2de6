// Package ik contains the inverse kinematics objective for planar chains and the local optimizers that
// minimize it.
package ik

import (
	"gonum.org/v1/gonum/mat"
)

// Objective is a twice differentiable scalar cost over joint angles. The three evaluation tiers are
// independent so that callers only pay for the derivatives they use: line searches call Value, descent
// directions come from ValueGradient and Newton steps from ValueGradientHessian.
type Objective interface {
	// DoF is the length of the joint angle vectors the objective accepts.
	DoF() int

	// Value returns f(x).
	Value(x []float64) (float64, error)

	// ValueGradient returns f(x) and its gradient.
	ValueGradient(x []float64) (float64, []float64, error)

	// ValueGradientHessian returns f(x), its gradient and its Hessian.
	ValueGradientHessian(x []float64) (float64, []float64, *mat.SymDense, error)
}
