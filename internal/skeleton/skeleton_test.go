package skeleton

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// makeMask builds a binary mask with a filled rectangle of foreground.
func makeMask(t *testing.T, w, h int, fill image.Rectangle) gocv.Mat {
	t.Helper()

	mask := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC1)
	for y := fill.Min.Y; y < fill.Max.Y; y++ {
		for x := fill.Min.X; x < fill.Max.X; x++ {
			mask.SetUCharAt(y, x, 255)
		}
	}
	return mask
}

// drawLine sets a run of foreground pixels.
func drawLine(mask *gocv.Mat, from, to image.Point) {
	dx := sign(to.X - from.X)
	dy := sign(to.Y - from.Y)
	cur := from
	for {
		mask.SetUCharAt(cur.Y, cur.X, 255)
		if cur == to {
			return
		}
		cur.X += dx
		cur.Y += dy
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func TestThinAlgorithms(t *testing.T) {
	algorithms := []Algorithm{Morphological, ZhangSuen}

	for _, alg := range algorithms {
		t.Run(alg.String(), func(t *testing.T) {
			// Long thin vertical bar: the skeleton should be a connected
			// line running close to the bar's full height.
			mask := makeMask(t, 21, 320, image.Rect(7, 10, 14, 310))
			defer mask.Close()

			thin := ThinWith(mask, alg)
			defer thin.Close()

			require.Positive(t, gocv.CountNonZero(thin))

			path := LongestPath(thin)
			require.NotEmpty(t, path)

			length := PathLength(path)
			assert.InEpsilon(t, 300, length, 0.08)

			// Thinned pixels must lie inside the original bar.
			for _, p := range Points(thin) {
				assert.True(t, p.In(image.Rect(7, 10, 14, 310)), "pixel %v outside bar", p)
			}
		})
	}
}

func TestThinEmptyMask(t *testing.T) {
	mask := gocv.NewMatWithSize(50, 50, gocv.MatTypeCV8UC1)
	defer mask.Close()

	for _, alg := range []Algorithm{Morphological, ZhangSuen} {
		thin := ThinWith(mask, alg)
		assert.Zero(t, gocv.CountNonZero(thin), alg.String())
		thin.Close()
	}
}

func TestThinIdempotent(t *testing.T) {
	// A skeleton is a fixed point of thinning.
	for _, alg := range []Algorithm{Morphological, ZhangSuen} {
		t.Run(alg.String(), func(t *testing.T) {
			mask := makeMask(t, 21, 200, image.Rect(7, 10, 14, 190))
			defer mask.Close()

			once := ThinWith(mask, alg)
			defer once.Close()
			twice := ThinWith(once, alg)
			defer twice.Close()

			diff := gocv.NewMat()
			defer diff.Close()
			gocv.AbsDiff(once, twice, &diff)
			assert.Zero(t, gocv.CountNonZero(diff))
		})
	}
}

func TestEndpointsOfLine(t *testing.T) {
	mask := gocv.NewMatWithSize(20, 60, gocv.MatTypeCV8UC1)
	defer mask.Close()
	drawLine(&mask, image.Point{X: 5, Y: 10}, image.Point{X: 50, Y: 10})

	ends := Endpoints(mask)
	require.Len(t, ends, 2)
	assert.Contains(t, ends, image.Point{X: 5, Y: 10})
	assert.Contains(t, ends, image.Point{X: 50, Y: 10})
}

func TestLongestPathStraightLine(t *testing.T) {
	mask := gocv.NewMatWithSize(20, 60, gocv.MatTypeCV8UC1)
	defer mask.Close()
	drawLine(&mask, image.Point{X: 5, Y: 10}, image.Point{X: 50, Y: 10})

	path := LongestPath(mask)
	require.Len(t, path, 46)
	assert.InDelta(t, 45, PathLength(path), 1e-9)
}

func TestLongestPathLShape(t *testing.T) {
	mask := gocv.NewMatWithSize(60, 60, gocv.MatTypeCV8UC1)
	defer mask.Close()
	drawLine(&mask, image.Point{X: 10, Y: 10}, image.Point{X: 10, Y: 40})
	drawLine(&mask, image.Point{X: 10, Y: 40}, image.Point{X: 45, Y: 40})

	path := LongestPath(mask)
	require.NotEmpty(t, path)

	// 30 vertical steps plus 35 horizontal steps.
	assert.InDelta(t, 65, PathLength(path), 1e-9)
	assert.ElementsMatch(t,
		[]image.Point{{X: 10, Y: 10}, {X: 45, Y: 40}},
		[]image.Point{path[0], path[len(path)-1]})
}

func TestLongestPathEmptyMask(t *testing.T) {
	mask := gocv.NewMatWithSize(30, 30, gocv.MatTypeCV8UC1)
	defer mask.Close()

	assert.Empty(t, LongestPath(mask))
	assert.Empty(t, Points(mask))
}

func TestPathLengthDiagonalWeighting(t *testing.T) {
	path := []image.Point{{0, 0}, {1, 1}, {2, 2}, {2, 3}}
	assert.InDelta(t, 2*1.41421356+1, PathLength(path), 1e-6)
}
