package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// rotation returns the order-th derivative with respect to theta of the homogeneous 2D rotation about the
// origin. Order 0 is the rotation itself. Derivatives zero out the homogeneous row and column since the
// constant entries vanish.
//
// mgl64 matrices are column major.
func rotation(theta float64, order int) mgl64.Mat3 {
	sin, cos := math.Sincos(theta)
	switch order {
	case 0:
		return mgl64.HomogRotate2D(theta)
	case 1:
		// [[-sin, -cos, 0], [cos, -sin, 0], [0, 0, 0]]
		return mgl64.Mat3{-sin, cos, 0, -cos, -sin, 0, 0, 0, 0}
	case 2:
		// [[-cos, sin, 0], [-sin, -cos, 0], [0, 0, 0]]
		return mgl64.Mat3{-cos, -sin, 0, sin, -cos, 0, 0, 0, 0}
	default:
		// only first and second derivatives are ever requested
		return mgl64.Mat3{}
	}
}

// translation returns the homogeneous transform moving the origin to (x, y).
func translation(x, y float64) mgl64.Mat3 {
	return mgl64.Translate2D(x, y)
}
