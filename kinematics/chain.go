// Package kinematics computes forward kinematics of a planar serial chain together with its exact first
// and second derivatives with respect to the joint angles.
package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/planarik/referenceframe"
)

// Chain is an ordered, immutable list of revolute links. Link i contributes the transform T_i * R_i(theta_i)
// where T_i translates by the link's fixed offset and R_i rotates by the joint angle. The end effector is a
// fixed point expressed in the last link's frame.
type Chain struct {
	name         string
	links        []referenceframe.Link
	translations []mgl64.Mat3
	endEffector  mgl64.Vec3
}

// ChainOption configures optional fields of a Chain.
type ChainOption func(*Chain)

// WithEndEffector places the end effector at p in the last link's frame. The default is the origin of the
// last link's frame.
func WithEndEffector(p r2.Point) ChainOption {
	return func(c *Chain) {
		c.endEffector = mgl64.Vec3{p.X, p.Y, 1}
	}
}

// WithName names the chain.
func WithName(name string) ChainOption {
	return func(c *Chain) {
		c.name = name
	}
}

// NewChain builds a chain from links given in root to tip order.
func NewChain(links []referenceframe.Link, opts ...ChainOption) (*Chain, error) {
	if len(links) == 0 {
		return nil, referenceframe.ErrNoLinks
	}
	c := &Chain{
		links:        append([]referenceframe.Link(nil), links...),
		translations: make([]mgl64.Mat3, len(links)),
		endEffector:  mgl64.Vec3{0, 0, 1},
	}
	for i, l := range links {
		c.translations[i] = translation(l.Translation.X, l.Translation.Y)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewChainFromOffsets builds a chain from bare link offsets in root to tip order.
func NewChainFromOffsets(offsets []r2.Point, opts ...ChainOption) (*Chain, error) {
	return NewChain(referenceframe.LinksFromOffsets(offsets), opts...)
}

// Name returns the name of the chain.
func (c *Chain) Name() string {
	return c.name
}

// DoF returns the number of joints.
func (c *Chain) DoF() int {
	return len(c.links)
}

// Links returns a copy of the chain's links.
func (c *Chain) Links() []referenceframe.Link {
	return append([]referenceframe.Link(nil), c.links...)
}

// EndEffector returns the end effector's position in the last link's frame.
func (c *Chain) EndEffector() r2.Point {
	return r2.Point{X: c.endEffector[0], Y: c.endEffector[1]}
}

func (c *Chain) checkDoF(angles []float64) error {
	if len(angles) != len(c.links) {
		return referenceframe.NewIncorrectDoFError(len(angles), len(c.links))
	}
	return nil
}

// project composes every link transform, substituting the order(i)-th derivative of the rotation at link i,
// and maps the end effector into the world frame.
func (c *Chain) project(angles []float64, order func(int) int) r2.Point {
	e := mgl64.Ident3()
	for i, t := range c.translations {
		e = e.Mul3(t).Mul3(rotation(angles[i], order(i)))
	}
	p := e.Mul3x1(c.endEffector)
	return r2.Point{X: p[0], Y: p[1]}
}

// Position returns the end effector position in the world frame.
func (c *Chain) Position(angles []float64) (r2.Point, error) {
	if err := c.checkDoF(angles); err != nil {
		return r2.Point{}, err
	}
	return c.project(angles, func(int) int { return 0 }), nil
}

// Jacobian returns the 2xN matrix whose column i is the derivative of the end effector position with
// respect to joint i.
func (c *Chain) Jacobian(angles []float64) (*mat.Dense, error) {
	if err := c.checkDoF(angles); err != nil {
		return nil, err
	}
	n := len(c.links)
	jac := mat.NewDense(2, n, nil)
	for i := 0; i < n; i++ {
		partial := i
		p := c.project(angles, func(k int) int {
			if k == partial {
				return 1
			}
			return 0
		})
		jac.Set(0, i, p.X)
		jac.Set(1, i, p.Y)
	}
	return jac, nil
}

// Hessian returns the second derivatives of the end effector position as a 2NxN matrix made of 2x1
// blocks: rows 2j and 2j+1 of column i hold d2P/(dtheta_i dtheta_j).
func (c *Chain) Hessian(angles []float64) (*mat.Dense, error) {
	if err := c.checkDoF(angles); err != nil {
		return nil, err
	}
	n := len(c.links)
	hess := mat.NewDense(2*n, n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			pi, pj := i, j
			// differentiating twice at the same joint yields the second derivative there
			p := c.project(angles, func(k int) int {
				order := 0
				if k == pi {
					order++
				}
				if k == pj {
					order++
				}
				return order
			})
			hess.Set(2*j, i, p.X)
			hess.Set(2*j+1, i, p.Y)
			hess.Set(2*i, j, p.X)
			hess.Set(2*i+1, j, p.Y)
		}
	}
	return hess, nil
}

// JointPositions returns the world position of every joint followed by the end effector, which is what a
// display needs to draw the chain.
func (c *Chain) JointPositions(angles []float64) ([]r2.Point, error) {
	if err := c.checkDoF(angles); err != nil {
		return nil, err
	}
	origin := mgl64.Vec3{0, 0, 1}
	points := make([]r2.Point, 0, len(c.links)+1)
	e := mgl64.Ident3()
	for i, t := range c.translations {
		e = e.Mul3(t)
		p := e.Mul3x1(origin)
		points = append(points, r2.Point{X: p[0], Y: p[1]})
		e = e.Mul3(rotation(angles[i], 0))
	}
	p := e.Mul3x1(c.endEffector)
	return append(points, r2.Point{X: p[0], Y: p[1]}), nil
}
