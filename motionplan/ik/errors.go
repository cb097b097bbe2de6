package ik

import "github.com/pkg/errors"

var (
	// ErrNoChain is returned when an objective is built without a chain.
	ErrNoChain = errors.New("objective needs a kinematic chain")

	// ErrHessianNotPositiveDefinite is returned when the Newton system cannot be factorized.
	ErrHessianNotPositiveDefinite = errors.New("hessian is not positive definite")

	// ErrHessianIllConditioned is returned when the Newton system is too close to singular to trust its solution.
	ErrHessianIllConditioned = errors.New("hessian is ill-conditioned")

	// ErrNegativeWeight is returned when an objective weight is below zero.
	ErrNegativeWeight = errors.New("objective weights must not be negative")
)
