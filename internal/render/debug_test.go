package render

import (
	"image"
	"testing"

	"cucumeter/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestDebugOverlay(t *testing.T) {
	src := gocv.NewMatWithSize(200, 300, gocv.MatTypeCV8UC3)
	defer src.Close()
	src.SetTo(gocv.NewScalar(255, 255, 255, 0))

	sheet := geometry.RectInt{X: 10, Y: 10, Width: 280, Height: 180}
	contour := []image.Point{{50, 80}, {250, 80}, {250, 120}, {50, 120}}
	skel := []image.Point{{100, 100}, {150, 100}, {200, 100}}

	out := Debug(src, sheet, contour, skel)
	defer out.Close()

	require.False(t, out.Empty())
	assert.Equal(t, src.Rows(), out.Rows())
	assert.Equal(t, src.Cols(), out.Cols())

	// The overlay must not alias the source.
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(src, out, &diff)
	channels := gocv.Split(diff)
	nonZero := 0
	for _, ch := range channels {
		nonZero += gocv.CountNonZero(ch)
		ch.Close()
	}
	assert.Positive(t, nonZero)
}

func TestDebugEmptySource(t *testing.T) {
	src := gocv.NewMat()
	defer src.Close()

	out := Debug(src, geometry.RectInt{}, nil, nil)
	defer out.Close()

	assert.False(t, out.Empty())
}

func TestPlaceholder(t *testing.T) {
	out := Placeholder()
	defer out.Close()

	assert.False(t, out.Empty())
}
