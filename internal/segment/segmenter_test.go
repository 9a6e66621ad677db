package segment

import (
	"image"
	"image/color"
	"testing"

	"cucumeter/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// makeRegion builds a white sheet region; blobs are filled in per test.
func makeRegion(t *testing.T, w, h int) gocv.Mat {
	t.Helper()

	region := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	region.SetTo(gocv.NewScalar(255, 255, 255, 0))
	return region
}

func fillRect(region *gocv.Mat, r image.Rectangle, c color.RGBA) {
	gocv.Rectangle(region, r, c, -1)
}

func TestSegmentGreenBlob(t *testing.T) {
	region := makeRegion(t, 600, 400)
	defer region.Close()
	fillRect(&region, image.Rect(100, 150, 400, 230), color.RGBA{R: 35, G: 90, B: 40, A: 255})

	contour, strategy := Segment(region, DefaultParams())
	require.GreaterOrEqual(t, len(contour), 3)
	assert.Equal(t, "color-range", strategy)

	rect := geometry.BoundingRect(contour)
	assert.InEpsilon(t, 300, rect.Width, 0.1)
	assert.InEpsilon(t, 80, rect.Height, 0.1)
}

func TestSegmentDarkGrayBlob(t *testing.T) {
	// Achromatic blob: invisible to the color palette, found by Otsu.
	region := makeRegion(t, 600, 400)
	defer region.Close()
	fillRect(&region, image.Rect(100, 150, 400, 230), color.RGBA{R: 50, G: 50, B: 50, A: 255})

	contour, strategy := Segment(region, DefaultParams())
	require.GreaterOrEqual(t, len(contour), 3)
	assert.Equal(t, "otsu", strategy)

	rect := geometry.BoundingRect(contour)
	assert.InEpsilon(t, 300, rect.Width, 0.1)
	assert.InEpsilon(t, 80, rect.Height, 0.1)
}

func TestColorRangeRejectsRoundBlob(t *testing.T) {
	// A green square has elongation 1.0 — below the 1.3 filter that
	// rejects shadow and reflection blobs.
	region := makeRegion(t, 600, 400)
	defer region.Close()
	fillRect(&region, image.Rect(200, 100, 360, 260), color.RGBA{R: 35, G: 90, B: 40, A: 255})

	contour := byColorRange(region, DefaultParams())
	assert.Empty(t, contour)
}

func TestSegmentEmptyRegion(t *testing.T) {
	region := gocv.NewMat()
	defer region.Close()

	contour, strategy := Segment(region, DefaultParams())
	assert.Nil(t, contour)
	assert.Empty(t, strategy)
}

func TestSegmentBlankRegionFindsNothing(t *testing.T) {
	region := makeRegion(t, 500, 500)
	defer region.Close()

	contour, _ := Segment(region, DefaultParams())
	assert.Empty(t, contour)
}

func TestPlausibilityPrefersElongatedDark(t *testing.T) {
	gray := gocv.NewMatWithSize(400, 600, gocv.MatTypeCV8UC1)
	defer gray.Close()
	gray.SetTo(gocv.NewScalar(255, 0, 0, 0))

	// Dark elongated candidate vs. lighter square candidate.
	gocv.Rectangle(&gray, image.Rect(50, 50, 350, 130), color.RGBA{R: 30, G: 30, B: 30, A: 255}, -1)
	gocv.Rectangle(&gray, image.Rect(400, 200, 520, 320), color.RGBA{R: 200, G: 200, B: 200, A: 255}, -1)

	params := DefaultParams()
	elongated := []image.Point{{50, 50}, {349, 50}, {349, 129}, {50, 129}}
	square := []image.Point{{400, 200}, {519, 200}, {519, 319}, {400, 319}}

	scoreElongated := plausibility(elongated, geometry.ContourArea(elongated), gray, params)
	scoreSquare := plausibility(square, geometry.ContourArea(square), gray, params)

	assert.Greater(t, scoreElongated, scoreSquare)
}

func TestFillMaskMatchesContourArea(t *testing.T) {
	contour := []image.Point{{10, 10}, {110, 10}, {110, 40}, {10, 40}}

	mask := FillMask(contour, 100, 200)
	defer mask.Close()

	filled := gocv.CountNonZero(mask)
	assert.InEpsilon(t, 101*31, filled, 0.05)
}

func TestFillMaskDegenerateContour(t *testing.T) {
	mask := FillMask([]image.Point{{1, 1}}, 50, 50)
	defer mask.Close()

	assert.Zero(t, gocv.CountNonZero(mask))
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	assert.InDelta(t, 0.01, p.MinAreaFraction, 1e-9)
	assert.InDelta(t, 1.3, p.MinElongation, 1e-9)
	require.NotEmpty(t, p.ColorRanges)
	assert.Equal(t, "green", p.ColorRanges[0].Name)
}
