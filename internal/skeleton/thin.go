// Package skeleton reduces a filled binary mask to a one-pixel-wide
// topological skeleton and extracts curvilinear paths from it.
package skeleton

import (
	"image"

	"gocv.io/x/gocv"
)

// Algorithm selects the thinning implementation.
type Algorithm int

const (
	// Morphological is iterative erode/dilate/subtract thinning.
	Morphological Algorithm = iota
	// ZhangSuen is the classic two-subiteration pixel-removal algorithm.
	ZhangSuen
)

func (a Algorithm) String() string {
	switch a {
	case Morphological:
		return "morphological"
	case ZhangSuen:
		return "zhang-suen"
	default:
		return "unknown"
	}
}

// ThinWith thins the mask using the selected algorithm.
func ThinWith(mask gocv.Mat, alg Algorithm) gocv.Mat {
	if alg == ZhangSuen {
		return ThinZhangSuen(mask)
	}
	return Thin(mask)
}

// Thin reduces a binary mask to single-pixel-wide lines using iterative
// morphological erosion. Each iteration contributes the pixels that erosion
// removes but dilation cannot restore; the union over all iterations
// approximates the medial axis.
func Thin(mask gocv.Mat) gocv.Mat {
	skeleton := gocv.NewMatWithSize(mask.Rows(), mask.Cols(), gocv.MatTypeCV8UC1)
	if mask.Empty() || gocv.CountNonZero(mask) == 0 {
		return skeleton
	}

	temp := mask.Clone()
	defer temp.Close()

	eroded := gocv.NewMat()
	defer eroded.Close()

	element := gocv.GetStructuringElement(gocv.MorphCross, image.Point{X: 3, Y: 3})
	defer element.Close()

	for {
		gocv.Erode(temp, &eroded, element)

		dilated := gocv.NewMat()
		gocv.Dilate(eroded, &dilated, element)

		diff := gocv.NewMat()
		gocv.Subtract(temp, dilated, &diff)
		dilated.Close()

		gocv.BitwiseOr(skeleton, diff, &skeleton)
		diff.Close()

		eroded.CopyTo(&temp)

		if gocv.CountNonZero(eroded) == 0 {
			break
		}
	}

	return skeleton
}

// ThinZhangSuen thins a binary mask with the Zhang-Suen algorithm. Each pass
// runs two sub-iterations over the 8-neighborhood; passes repeat until no
// pixel is removed.
func ThinZhangSuen(mask gocv.Mat) gocv.Mat {
	result := mask.Clone()
	if mask.Empty() {
		return result
	}

	rows, cols := result.Rows(), result.Cols()
	snapshot := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	defer snapshot.Close()

	for {
		changed := false
		for sub := 0; sub < 2; sub++ {
			result.CopyTo(&snapshot)

			for y := 1; y < rows-1; y++ {
				for x := 1; x < cols-1; x++ {
					if snapshot.GetUCharAt(y, x) == 0 {
						continue
					}

					neighbors := neighborRing(snapshot, x, y)
					count := nonZeroNeighbors(neighbors)
					if count < 2 || count > 6 {
						continue
					}
					if ringTransitions(neighbors) != 1 {
						continue
					}
					if !removable(neighbors, sub) {
						continue
					}

					result.SetUCharAt(y, x, 0)
					changed = true
				}
			}
		}

		if !changed {
			break
		}
	}

	return result
}

// neighborRing returns the 8-neighborhood clockwise starting north:
// P2 P3 P4 P5 P6 P7 P8 P9 in Zhang-Suen's numbering.
func neighborRing(mat gocv.Mat, x, y int) [8]uint8 {
	return [8]uint8{
		mat.GetUCharAt(y-1, x),   // P2 north
		mat.GetUCharAt(y-1, x+1), // P3
		mat.GetUCharAt(y, x+1),   // P4 east
		mat.GetUCharAt(y+1, x+1), // P5
		mat.GetUCharAt(y+1, x),   // P6 south
		mat.GetUCharAt(y+1, x-1), // P7
		mat.GetUCharAt(y, x-1),   // P8 west
		mat.GetUCharAt(y-1, x-1), // P9
	}
}

// ringTransitions counts 0→1 transitions around the neighbor ring.
func ringTransitions(neighbors [8]uint8) int {
	transitions := 0
	for i := 0; i < 8; i++ {
		current := neighbors[i] > 0
		next := neighbors[(i+1)%8] > 0
		if !current && next {
			transitions++
		}
	}
	return transitions
}

func nonZeroNeighbors(neighbors [8]uint8) int {
	count := 0
	for _, v := range neighbors {
		if v > 0 {
			count++
		}
	}
	return count
}

// removable evaluates the alternating triple-product conditions:
// sub-iteration 0 requires P2·P4·P6 = 0 and P4·P6·P8 = 0, sub-iteration 1
// the mirrored P2·P4·P8 = 0 and P2·P6·P8 = 0.
func removable(neighbors [8]uint8, sub int) bool {
	p2, p4, p6, p8 := neighbors[0], neighbors[2], neighbors[4], neighbors[6]
	if sub == 0 {
		return (p2 == 0 || p4 == 0 || p6 == 0) && (p4 == 0 || p6 == 0 || p8 == 0)
	}
	return (p2 == 0 || p4 == 0 || p8 == 0) && (p2 == 0 || p6 == 0 || p8 == 0)
}
