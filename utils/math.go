package utils

import "math"

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Square returns n squared.
func Square(n float64) float64 {
	return n * n
}

// WrapAngle maps an angle in radians onto [-pi, pi].
func WrapAngle(rad float64) float64 {
	if rad >= -math.Pi && rad <= math.Pi {
		return rad
	}
	wrapped := math.Mod(rad+math.Pi, 2*math.Pi)
	if wrapped < 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped - math.Pi
}

// WrapAngles returns a copy of the given joint angles with every entry mapped onto [-pi, pi].
// Optimizers work on unbounded angles, so callers that display or persist a configuration
// normalize it afterwards.
func WrapAngles(angles []float64) []float64 {
	wrapped := make([]float64, len(angles))
	for i, a := range angles {
		wrapped[i] = WrapAngle(a)
	}
	return wrapped
}
