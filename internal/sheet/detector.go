// Package sheet locates the known-size reference sheet in a photograph and
// derives the pixel-to-millimeter scale from it.
package sheet

import (
	"errors"
	"image"

	"cucumeter/pkg/geometry"

	"gocv.io/x/gocv"
)

// ErrNotFound is returned when no detection strategy produced a usable
// reference rectangle.
var ErrNotFound = errors.New("sheet not found")

// Params configures reference sheet detection.
type Params struct {
	// Physical sheet dimensions. Defaults are A4 portrait.
	WidthMm  float64 `json:"width_mm"`
	HeightMm float64 `json:"height_mm"`

	// MarginFraction is the per-edge margin assumed by the last-resort
	// heuristic that takes the whole frame minus a border.
	MarginFraction float64 `json:"margin_fraction"`

	// BinaryThreshold is the fixed grayscale threshold used by the
	// largest-contour strategy. The sheet is assumed brighter than this.
	BinaryThreshold float32 `json:"binary_threshold"`

	// WorkingWidth is the width the image is downscaled to before the
	// adaptive-threshold strategy runs. Detection coordinates are scaled
	// back to the source resolution afterwards.
	WorkingWidth int `json:"working_width"`

	// ApproxEpsilonFraction sets the polygon approximation tolerance as a
	// fraction of the contour perimeter.
	ApproxEpsilonFraction float64 `json:"approx_epsilon_fraction"`

	// MinScale is the sanity floor for the computed scale in px/mm.
	MinScale float64 `json:"min_scale"`
}

// DefaultParams returns detection parameters tuned for an A4 sheet
// photographed roughly frame-filling.
func DefaultParams() Params {
	return Params{
		WidthMm:               210,
		HeightMm:              297,
		MarginFraction:        0.05, // 1/20 of each dimension
		BinaryThreshold:       150,
		WorkingWidth:          640,
		ApproxEpsilonFraction: 0.02,
		MinScale:              0.5,
	}
}

// WithSheetSize returns a copy of params with custom physical dimensions.
func (p Params) WithSheetSize(widthMm, heightMm float64) Params {
	p.WidthMm = widthMm
	p.HeightMm = heightMm
	return p
}

// Detection holds the outcome of a sheet search.
type Detection struct {
	Rect     geometry.RectInt
	Contour  []image.Point // nil for the margin heuristic
	Strategy string
}

// Detect locates the reference sheet. Strategies are tried in order of
// decreasing assumption strength: adaptive polygon approximation, fixed
// binary threshold, and finally the frame-margin heuristic, which always
// succeeds but only approximates a frame-filling sheet.
func Detect(img gocv.Mat, params Params) (Detection, error) {
	if img.Empty() {
		return Detection{}, ErrNotFound
	}

	if det, ok := detectAdaptive(img, params); ok {
		return det, nil
	}
	if det, ok := detectBinary(img, params); ok {
		return det, nil
	}
	return detectMargin(img, params), nil
}

// detectAdaptive is the primary strategy: downscale for speed, normalize
// brightness, blur, adaptive inverse threshold, close gaps, then approximate
// the largest external contour with a polygon.
func detectAdaptive(img gocv.Mat, params Params) (Detection, bool) {
	cols := img.Cols()
	if cols == 0 {
		return Detection{}, false
	}

	factor := 1.0
	work := gocv.NewMat()
	defer work.Close()
	if params.WorkingWidth > 0 && cols > params.WorkingWidth {
		factor = float64(cols) / float64(params.WorkingWidth)
		gocv.Resize(img, &work, image.Point{}, 1/factor, 1/factor, gocv.InterpolationArea)
	} else {
		img.CopyTo(&work)
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(work, &gray, gocv.ColorBGRToGray)
	gocv.Normalize(gray, &gray, 0, 255, gocv.NormMinMax)
	gocv.GaussianBlur(gray, &gray, image.Point{X: 5, Y: 5}, 0, 0, gocv.BorderDefault)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.AdaptiveThreshold(gray, &thresh, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, 51, 10)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 5, Y: 5})
	defer kernel.Close()
	gocv.MorphologyEx(thresh, &thresh, gocv.MorphClose, kernel)

	contour := sheetContour(thresh)
	if len(contour) < 3 {
		return Detection{}, false
	}

	epsilon := params.ApproxEpsilonFraction * geometry.Perimeter(contour)
	poly := geometry.ApproxPolygon(contour, epsilon)
	if len(poly) < 3 {
		return Detection{}, false
	}

	// Map back to source resolution.
	poly = geometry.Scaling(factor, factor).ApplyToPoints(poly)

	rect := geometry.BoundingRect(poly)
	if rect.Empty() {
		return Detection{}, false
	}

	return Detection{Rect: rect, Contour: poly, Strategy: "adaptive-polygon"}, true
}

// detectBinary thresholds the grayscale image at a fixed level and takes the
// bounding box of the largest bright contour.
func detectBinary(img gocv.Mat, params Params) (Detection, bool) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, params.BinaryThreshold, 255, gocv.ThresholdBinary)

	contour := largestContour(binary)
	if len(contour) < 3 {
		return Detection{}, false
	}

	rect := geometry.BoundingRect(contour)
	if rect.Empty() {
		return Detection{}, false
	}

	return Detection{Rect: rect, Contour: contour, Strategy: "binary-largest-contour"}, true
}

// detectMargin assumes the sheet fills the frame minus a fixed margin.
// It never fails and is only used as a last resort.
func detectMargin(img gocv.Mat, params Params) Detection {
	mx := int(float64(img.Cols()) * params.MarginFraction)
	my := int(float64(img.Rows()) * params.MarginFraction)

	return Detection{
		Rect: geometry.RectInt{
			X:      mx,
			Y:      my,
			Width:  img.Cols() - 2*mx,
			Height: img.Rows() - 2*my,
		},
		Strategy: "margin-heuristic",
	}
}

// sheetContour extracts the sheet boundary from the adaptive-inverse
// threshold result. The sheet edge shows up as a thin foreground ring (or
// as a hole in a foreground background blob); the largest hole inside the
// largest top-level contour hugs the true sheet edge far more tightly than
// the outer boundary, so it is preferred when it dominates the parent.
func sheetContour(binary gocv.Mat) []image.Point {
	hierarchy := gocv.NewMat()
	defer hierarchy.Close()
	contours := gocv.FindContoursWithParams(binary, &hierarchy, gocv.RetrievalCComp, gocv.ChainApproxSimple)
	defer contours.Close()

	best := -1
	bestArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		h := hierarchy.GetVeciAt(0, i)
		if h[3] != -1 {
			continue // not top-level
		}
		area := gocv.ContourArea(contours.At(i))
		if area > bestArea {
			bestArea = area
			best = i
		}
	}
	if best < 0 {
		return nil
	}

	childBest := -1
	childArea := 0.0
	for c := int(hierarchy.GetVeciAt(0, best)[2]); c != -1; c = int(hierarchy.GetVeciAt(0, c)[0]) {
		area := gocv.ContourArea(contours.At(c))
		if area > childArea {
			childArea = area
			childBest = c
		}
	}
	if childBest >= 0 && childArea > 0.5*bestArea {
		return contours.At(childBest).ToPoints()
	}
	return contours.At(best).ToPoints()
}

// largestContour returns the external contour with maximum area, or nil.
func largestContour(binary gocv.Mat) []image.Point {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	best := -1
	bestArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > bestArea {
			bestArea = area
			best = i
		}
	}

	if best < 0 {
		return nil
	}
	return contours.At(best).ToPoints()
}
