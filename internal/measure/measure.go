// Package measure derives physical dimensions from a segmented contour and
// its skeleton, using an established pixel-to-millimeter scale.
package measure

import (
	"errors"
	"image"
	"math"

	"cucumeter/internal/skeleton"
	"cucumeter/pkg/geometry"
)

// ErrDegenerate is returned when the contour or skeleton carries too little
// geometry for a numeric result.
var ErrDegenerate = errors.New("degenerate geometry")

// curvedThreshold is the mean turning angle (radians) above which the
// object is flagged as visibly bent.
const curvedThreshold = 0.2

// Measurement holds physical dimensions of the measured object.
type Measurement struct {
	LengthMm     float64 `json:"length_mm"`
	WidthMm      float64 `json:"width_mm"`
	DiameterMm   float64 `json:"diameter_mm"`
	VolumeMm3    float64 `json:"volume_mm3"`
	CurvatureRad float64 `json:"curvature_rad"`
	Curved       bool    `json:"curved"`
}

// FromContour measures the object from its contour alone. Length and width
// come from the minimum-area rotated bounding rectangle, which stays tight
// for tilted objects; volume is a cylindrical approximation.
func FromContour(contour []image.Point, scale float64) (Measurement, error) {
	if len(contour) < 3 {
		return Measurement{}, ErrDegenerate
	}
	if scale <= 0 {
		return Measurement{}, errors.New("invalid scale")
	}

	rect := geometry.MinAreaRect(contour)
	if rect.LongSide() <= 0 || rect.ShortSide() <= 0 {
		return Measurement{}, ErrDegenerate
	}

	length := rect.LongSide() / scale
	width := rect.ShortSide() / scale

	m := Measurement{
		LengthMm:   length,
		WidthMm:    width,
		DiameterMm: width,
		VolumeMm3:  CylinderVolumeMm3(length, width),
	}
	return m, nil
}

// FromSkeleton measures the object using its skeleton's longest path for
// curvilinear length. This captures the true length of a bent object, which
// a bounding rectangle understates. The diameter is refined from contour
// area divided by skeleton length (the average cross-section), and the mean
// turning angle along the path quantifies how bent the object is.
// curvatureStep sets the sampling interval; zero selects the default.
func FromSkeleton(contour, path []image.Point, scale float64, curvatureStep int) (Measurement, error) {
	if len(contour) < 3 {
		return Measurement{}, ErrDegenerate
	}
	if len(path) < 2 {
		return Measurement{}, ErrDegenerate
	}
	if scale <= 0 {
		return Measurement{}, errors.New("invalid scale")
	}

	lengthPx := skeleton.PathLength(path)
	if lengthPx <= 0 {
		return Measurement{}, ErrDegenerate
	}

	rect := geometry.MinAreaRect(contour)
	width := rect.ShortSide() / scale

	diameter := width
	if area := geometry.ContourArea(contour); area > 0 {
		// Average cross-section width over the whole length.
		if avg := area / lengthPx / scale; avg > 0 && avg < width {
			diameter = avg
		}
	}

	length := lengthPx / scale
	curvature := Curvature(path, curvatureStep)

	m := Measurement{
		LengthMm:     length,
		WidthMm:      width,
		DiameterMm:   diameter,
		VolumeMm3:    CylinderVolumeMm3(length, diameter),
		CurvatureRad: curvature,
		Curved:       curvature > curvedThreshold,
	}
	return m, nil
}

// CylinderVolumeMm3 approximates volume as a cylinder of the given length
// and diameter.
func CylinderVolumeMm3(lengthMm, diameterMm float64) float64 {
	radius := diameterMm / 2
	return math.Pi * radius * radius * lengthMm
}
