package measure

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// defaultCurvatureStep is the sampling interval along the skeleton path
// when none is given. Sampling every pixel would measure discretization
// jitter rather than the object's bend.
const defaultCurvatureStep = 5

// Curvature returns the mean turning angle in radians along a skeleton
// path, sampled every step points. For each sampled triplet the angle
// between the two chord vectors is taken via the arccosine of their
// normalized dot product. A straight path yields ≈0; a right-angle bend
// sampled at the corner contributes ≈π/2.
func Curvature(path []image.Point, step int) float64 {
	if step <= 0 {
		step = defaultCurvatureStep
	}
	if len(path) < 2*step+1 {
		return 0
	}

	var angles []float64
	for i := step; i+step < len(path); i += step {
		prev := path[i-step]
		cur := path[i]
		next := path[i+step]

		v1x := float64(cur.X - prev.X)
		v1y := float64(cur.Y - prev.Y)
		v2x := float64(next.X - cur.X)
		v2y := float64(next.Y - cur.Y)

		n1 := math.Sqrt(v1x*v1x + v1y*v1y)
		n2 := math.Sqrt(v2x*v2x + v2y*v2y)
		if n1 == 0 || n2 == 0 {
			continue
		}

		cos := (v1x*v2x + v1y*v2y) / (n1 * n2)
		cos = math.Max(-1, math.Min(1, cos))
		angles = append(angles, math.Acos(cos))
	}

	if len(angles) == 0 {
		return 0
	}
	return stat.Mean(angles, nil)
}
