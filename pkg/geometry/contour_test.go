package geometry

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectCorners(x, y, w, h int) []image.Point {
	return []image.Point{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}

func TestContourArea(t *testing.T) {
	tests := []struct {
		name    string
		contour []image.Point
		want    float64
	}{
		{"square", rectCorners(0, 0, 10, 10), 100},
		{"rectangle", rectCorners(5, 5, 20, 4), 80},
		{"triangle", []image.Point{{0, 0}, {10, 0}, {0, 10}}, 50},
		{"degenerate", []image.Point{{0, 0}, {10, 0}}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ContourArea(tt.contour), 1e-9)
		})
	}
}

func TestPerimeter(t *testing.T) {
	assert.InDelta(t, 40.0, Perimeter(rectCorners(0, 0, 10, 10)), 1e-9)
	assert.Zero(t, Perimeter([]image.Point{{3, 3}}))
}

func TestBoundingRect(t *testing.T) {
	rect := BoundingRect([]image.Point{{4, 7}, {20, 3}, {12, 30}})
	assert.Equal(t, RectInt{X: 4, Y: 3, Width: 17, Height: 28}, rect)

	assert.True(t, BoundingRect(nil).Empty())
}

func TestConvexHullDropsInteriorPoints(t *testing.T) {
	pts := append(rectCorners(0, 0, 20, 20), image.Point{X: 10, Y: 10})
	hull := ConvexHull(pts)

	require.Len(t, hull, 4)
	assert.NotContains(t, hull, image.Point{X: 10, Y: 10})
}

func TestMinAreaRectAxisAligned(t *testing.T) {
	rect := MinAreaRect(rectCorners(0, 0, 10, 4))

	assert.InDelta(t, 10, rect.LongSide(), 1e-6)
	assert.InDelta(t, 4, rect.ShortSide(), 1e-6)
	assert.InDelta(t, 2.5, rect.Elongation(), 1e-6)
	assert.InDelta(t, 5, rect.Center.X, 1e-6)
	assert.InDelta(t, 2, rect.Center.Y, 1e-6)
}

func TestMinAreaRectRotated(t *testing.T) {
	// Rectangle rotated 45°: sides 30√2 and 10√2.
	pts := []image.Point{{0, 0}, {30, 30}, {20, 40}, {-10, 10}}
	rect := MinAreaRect(pts)

	assert.InDelta(t, 30*math.Sqrt2, rect.LongSide(), 1e-6)
	assert.InDelta(t, 10*math.Sqrt2, rect.ShortSide(), 1e-6)
}

func TestMinAreaRectTighterThanAxisAligned(t *testing.T) {
	pts := []image.Point{{0, 0}, {30, 30}, {20, 40}, {-10, 10}}

	aligned := BoundingRect(pts).ToFloat()
	rotated := MinAreaRect(pts)

	assert.Less(t, rotated.Width*rotated.Height, aligned.Area())
}

func TestApproxPolygonRectangleOutline(t *testing.T) {
	// Dense pixel outline of a 100x60 rectangle.
	var contour []image.Point
	for x := 0; x <= 100; x++ {
		contour = append(contour, image.Point{X: x, Y: 0})
	}
	for y := 1; y <= 60; y++ {
		contour = append(contour, image.Point{X: 100, Y: y})
	}
	for x := 99; x >= 0; x-- {
		contour = append(contour, image.Point{X: x, Y: 60})
	}
	for y := 59; y >= 1; y-- {
		contour = append(contour, image.Point{X: 0, Y: y})
	}

	epsilon := 0.02 * Perimeter(contour)
	poly := ApproxPolygon(contour, epsilon)

	require.GreaterOrEqual(t, len(poly), 3)
	assert.LessOrEqual(t, len(poly), 8)

	// The simplification must preserve the overall extent.
	rect := BoundingRect(poly)
	assert.Equal(t, 101, rect.Width)
	assert.Equal(t, 61, rect.Height)
}

func TestAffineTransformApplyToPoints(t *testing.T) {
	pts := []image.Point{{2, 3}, {10, 20}}

	scaled := Scaling(2, 2).ApplyToPoints(pts)
	assert.Equal(t, []image.Point{{4, 6}, {20, 40}}, scaled)

	shifted := Translation(5, -1).ApplyToPoints(pts)
	assert.Equal(t, []image.Point{{7, 2}, {15, 19}}, shifted)
}
