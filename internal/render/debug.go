// Package render builds the annotated diagnostic image that makes the
// pipeline's decisions auditable.
package render

import (
	"image"
	"image/color"

	"cucumeter/pkg/geometry"

	"gocv.io/x/gocv"
)

var (
	sheetColor    = color.RGBA{R: 0, G: 120, B: 255, A: 255}
	contourColor  = color.RGBA{R: 0, G: 220, B: 0, A: 255}
	boxColor      = color.RGBA{R: 255, G: 160, B: 0, A: 255}
	skeletonColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	fillColor     = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	textColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// fillOpacity keeps the object texture visible under the overlay.
const fillOpacity = 0.35

// Debug renders the detection overlay back to front: translucent object
// fill, sheet frame, contour outline, tight bounding box, skeleton dots,
// and text labels. Rendering is diagnostic only — any internal failure
// degrades to a placeholder image instead of propagating, so a failed
// overlay can never mask a successful measurement.
func Debug(src gocv.Mat, sheetRect geometry.RectInt, contour []image.Point, skelPoints []image.Point) (out gocv.Mat) {
	defer func() {
		if r := recover(); r != nil {
			out = Placeholder()
		}
	}()

	if src.Empty() {
		return Placeholder()
	}

	canvas := gocv.NewMat()
	src.CopyTo(&canvas)

	if len(contour) >= 3 {
		overlay := canvas.Clone()
		pts := gocv.NewPointsVectorFromPoints([][]image.Point{contour})
		gocv.FillPoly(&overlay, pts, fillColor)
		pts.Close()
		gocv.AddWeighted(overlay, fillOpacity, canvas, 1-fillOpacity, 0, &canvas)
		overlay.Close()
	}

	if !sheetRect.Empty() {
		gocv.Rectangle(&canvas, sheetRect.ToImageRect(), sheetColor, 3)
		label(&canvas, "sheet", image.Point{X: sheetRect.X + 8, Y: sheetRect.Y + 28})
	}

	if len(contour) >= 3 {
		pts := gocv.NewPointsVectorFromPoints([][]image.Point{contour})
		gocv.DrawContours(&canvas, pts, 0, contourColor, 2)
		pts.Close()

		box := geometry.BoundingRect(contour)
		gocv.Rectangle(&canvas, box.ToImageRect(), boxColor, 2)
		label(&canvas, "object", image.Point{X: box.X + 8, Y: box.Y - 8})
	}

	for _, p := range skelPoints {
		gocv.Circle(&canvas, p, 1, skeletonColor, -1)
	}

	return canvas
}

// Placeholder returns a minimal gray image used when rendering fails.
func Placeholder() gocv.Mat {
	mat := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(96, 96, 96, 0))
	return mat
}

func label(canvas *gocv.Mat, text string, origin image.Point) {
	gocv.PutText(canvas, text, origin, gocv.FontHersheySimplex, 0.8, textColor, 2)
}
