package segment

import (
	"image"
	"image/color"
	"math"

	"cucumeter/pkg/geometry"

	"gocv.io/x/gocv"
)

// Strategy is one interchangeable segmentation attempt. It returns the best
// candidate contour or nil when nothing passed its filters.
type Strategy struct {
	Name   string
	Detect func(region gocv.Mat, params Params) []image.Point
}

// Strategies returns the default ordered strategy list. Earlier entries make
// stronger assumptions about the object's appearance; later entries are
// fallbacks for unusual lighting or coloring.
func Strategies() []Strategy {
	return []Strategy{
		{Name: "color-range", Detect: byColorRange},
		{Name: "otsu", Detect: byOtsu},
		{Name: "edges", Detect: byEdges},
		{Name: "darkness", Detect: byDarkness},
	}
}

// Segment runs the strategy list in order and returns the first contour that
// passes the shape filters, along with the name of the strategy that
// produced it. A nil contour signals "object not found".
func Segment(region gocv.Mat, params Params) ([]image.Point, string) {
	if region.Empty() {
		return nil, ""
	}

	for _, s := range Strategies() {
		if contour := s.Detect(region, params); len(contour) >= 3 {
			return contour, s.Name
		}
	}
	return nil, ""
}

// byColorRange builds an in-range mask for each palette entry and keeps the
// largest contour passing the area and elongation filters.
func byColorRange(region gocv.Mat, params Params) []image.Point {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(region, &hsv, gocv.ColorBGRToHSV)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse,
		image.Point{X: params.MorphKernelSize, Y: params.MorphKernelSize})
	defer kernel.Close()

	regionArea := float64(region.Rows() * region.Cols())

	for _, cr := range params.ColorRanges {
		mask := gocv.NewMat()
		gocv.InRangeWithScalar(hsv,
			gocv.NewScalar(cr.HueMin, cr.SatMin, cr.ValMin, 0),
			gocv.NewScalar(cr.HueMax, cr.SatMax, cr.ValMax, 0),
			&mask)

		gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)
		gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)
		gocv.Dilate(mask, &mask, kernel)

		contour := largestPassing(mask, params.MinAreaFraction*regionArea, params.MinElongation)
		mask.Close()
		if contour != nil {
			return contour
		}
	}
	return nil
}

// byOtsu thresholds the grayscale region automatically, assuming the object
// is darker than the sheet background.
func byOtsu(region gocv.Mat, params Params) []image.Point {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(region, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinaryInv+gocv.ThresholdOtsu)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse,
		image.Point{X: params.MorphKernelSize, Y: params.MorphKernelSize})
	defer kernel.Close()
	gocv.MorphologyEx(binary, &binary, gocv.MorphClose, kernel)
	gocv.MorphologyEx(binary, &binary, gocv.MorphOpen, kernel)

	return largestPassing(binary, params.MinAbsoluteArea, 1.0)
}

// byEdges detects the object outline with Canny and bridges small gaps by
// dilating before contour extraction.
func byEdges(region gocv.Mat, params Params) []image.Point {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(region, &gray, gocv.ColorBGRToGray)
	gocv.GaussianBlur(gray, &gray, image.Point{X: 5, Y: 5}, 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, params.CannyLow, params.CannyHigh)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse,
		image.Point{X: params.MorphKernelSize, Y: params.MorphKernelSize})
	defer kernel.Close()
	gocv.Dilate(edges, &edges, kernel)

	regionArea := float64(region.Rows() * region.Cols())
	return largestPassing(edges, params.MinAreaFraction*regionArea, params.MinElongation)
}

// byDarkness is the fallback for low-contrast dark objects. Candidates from
// an adaptive inverse threshold are ranked by a composite plausibility score
// combining aspect ratio, fill ratio, solidity, and darkness.
func byDarkness(region gocv.Mat, params Params) []image.Point {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(region, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.AdaptiveThreshold(gray, &binary, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, 51, 15)

	// Larger kernel than the other strategies to bridge gaps in faint
	// silhouettes.
	size := params.MorphKernelSize * 2
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: size, Y: size})
	defer kernel.Close()
	gocv.MorphologyEx(binary, &binary, gocv.MorphClose, kernel)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	regionArea := float64(region.Rows() * region.Cols())
	minArea := params.MinAreaFraction * regionArea

	var best []image.Point
	bestScore := 0.0

	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area < minArea || area > maxAreaFraction*regionArea {
			continue
		}

		contour := contours.At(i).ToPoints()
		score := plausibility(contour, area, gray, params)
		if score > bestScore {
			bestScore = score
			best = contour
		}
	}

	return best
}

// plausibility scores a candidate contour for how likely it is to be the
// elongated target rather than a shadow or reflection.
func plausibility(contour []image.Point, area float64, gray gocv.Mat, params Params) float64 {
	rect := geometry.BoundingRect(contour)
	if rect.Empty() {
		return 0
	}

	elong := elongation(rect)
	// Saturates at elongation 3: anything longer is equally plausible.
	aspectScore := math.Min((elong-1)/2, 1)

	fillScore := area / rect.ToFloat().Area()

	solidityScore := 1.0
	if hullArea := geometry.ContourArea(geometry.ConvexHull(contour)); hullArea > 0 {
		solidityScore = math.Min(area/hullArea, 1)
	}

	darknessScore := 0.0
	bounds := rect.ToImageRect().Intersect(image.Rect(0, 0, gray.Cols(), gray.Rows()))
	if !bounds.Empty() {
		roi := gray.Region(bounds)
		mean := roi.Mean().Val1
		roi.Close()
		darknessScore = 1 - mean/255
	}

	return params.AspectWeight*aspectScore +
		params.FillWeight*fillScore +
		params.SolidityWeight*solidityScore +
		params.DarknessWeight*darknessScore
}

// maxAreaFraction rejects candidates covering nearly the whole region;
// such a "silhouette" is the background, not the object.
const maxAreaFraction = 0.9

// largestPassing returns the largest external contour in the mask that
// satisfies the area and elongation filters, or nil.
func largestPassing(mask gocv.Mat, minArea, minElongation float64) []image.Point {
	maxArea := maxAreaFraction * float64(mask.Rows()*mask.Cols())
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var best []image.Point
	bestArea := 0.0

	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area < minArea || area > maxArea || area <= bestArea {
			continue
		}

		contour := contours.At(i).ToPoints()
		if elongation(geometry.BoundingRect(contour)) < minElongation {
			continue
		}

		bestArea = area
		best = contour
	}

	return best
}

// elongation returns the long/short side ratio of a bounding rectangle.
func elongation(rect geometry.RectInt) float64 {
	if rect.Width <= 0 || rect.Height <= 0 {
		return 0
	}
	aspect := float64(rect.Width) / float64(rect.Height)
	return math.Max(aspect, 1/aspect)
}

// FillMask renders a filled binary mask of the contour, sized to the region.
func FillMask(contour []image.Point, rows, cols int) gocv.Mat {
	mask := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	if len(contour) < 3 {
		return mask
	}

	pts := gocv.NewPointsVectorFromPoints([][]image.Point{contour})
	defer pts.Close()
	gocv.FillPoly(&mask, pts, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	return mask
}
