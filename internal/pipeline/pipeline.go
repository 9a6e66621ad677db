// Package pipeline runs the full measurement flow: reference sheet
// detection, scale calculation, object segmentation, skeletonization,
// measurement, and debug rendering.
package pipeline

import (
	"errors"
	"fmt"
	"image"

	"cucumeter/internal/measure"
	"cucumeter/internal/render"
	"cucumeter/internal/segment"
	"cucumeter/internal/sheet"
	"cucumeter/internal/skeleton"
	"cucumeter/pkg/geometry"

	"gocv.io/x/gocv"
)

// MeasurementResult is the numeric outcome of one run. A non-zero Kind
// means the run failed; all numeric fields are then zero.
type MeasurementResult struct {
	measure.Measurement

	Kind FailureKind `json:"kind"`
	Err  string      `json:"error,omitempty"`
}

// Failed reports whether the run produced no usable measurement.
func (r MeasurementResult) Failed() bool {
	return r.Kind != KindNone
}

// ProcessedResult is the top-level return value of one end-to-end run. The
// Debug image is owned by the caller, who must Close it.
type ProcessedResult struct {
	Measurement MeasurementResult

	SheetRect     geometry.RectInt
	Contour       []image.Point
	Scale         float64
	SheetStrategy string
	ObjectFinder  string

	Debug gocv.Mat
}

// Pipeline is a reusable, stateless measurement pipeline. Concurrent
// Process calls on independent images are safe: no internal state is
// mutated after construction.
type Pipeline struct {
	cfg Config
}

// New creates a pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Process measures the object in one photograph. Every intermediate buffer
// is released before returning except the debug image, whose ownership
// transfers to the caller. The first stage failure short-circuits later
// stages, but a best-effort debug image is still rendered from whatever
// partial data was obtained.
func (p *Pipeline) Process(img gocv.Mat) (result ProcessedResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ProcessedResult{
				Measurement: failure(KindInternalError, fmt.Errorf("image operation panicked: %v", r)),
				Debug:       render.Placeholder(),
			}
		}
	}()

	if img.Empty() || img.Cols() < 2 || img.Rows() < 2 {
		return ProcessedResult{
			Measurement: failure(KindImageUnusable, errors.New("input image is empty")),
			Debug:       render.Placeholder(),
		}
	}

	// Stage 1: locate the reference sheet.
	det, err := sheet.Detect(img, p.cfg.Sheet)
	if err != nil || det.Rect.Empty() {
		if err == nil {
			err = sheet.ErrNotFound
		}
		return ProcessedResult{
			Measurement: failure(KindSheetNotFound, err),
			Debug:       render.Debug(img, geometry.RectInt{}, nil, nil),
		}
	}

	// Stage 2: establish the pixel-to-millimeter scale.
	scale, err := det.Scale(p.cfg.Sheet)
	if err != nil {
		kind := KindSheetNotFound
		if errors.Is(err, sheet.ErrScaleTooSmall) {
			kind = KindScaleTooSmall
		}
		return ProcessedResult{
			Measurement:   failure(kind, err),
			SheetRect:     det.Rect,
			SheetStrategy: det.Strategy,
			Debug:         render.Debug(img, det.Rect, nil, nil),
		}
	}

	// Stage 3: segment the object inside the sheet region. The crop is
	// cloned so downstream stages never alias the caller's buffer.
	bounds := det.Rect.ToImageRect().Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))
	roi := img.Region(bounds)
	region := roi.Clone()
	roi.Close()
	defer region.Close()

	contour, finder := segment.Segment(region, p.cfg.Segment)
	if len(contour) < 3 {
		return ProcessedResult{
			Measurement:   failure(KindObjectNotFound, errors.New("no strategy produced a plausible contour")),
			SheetRect:     det.Rect,
			Scale:         scale,
			SheetStrategy: det.Strategy,
			Debug:         render.Debug(img, det.Rect, nil, nil),
		}
	}

	// Contour coordinates are region-relative; shift into image space.
	toImage := geometry.Translation(float64(bounds.Min.X), float64(bounds.Min.Y))
	absContour := toImage.ApplyToPoints(contour)

	// Stage 4: skeletonize and measure.
	var skelPath, absSkelPoints []image.Point
	if p.cfg.UseSkeleton {
		mask := segment.FillMask(contour, region.Rows(), region.Cols())
		thin := skeleton.ThinWith(mask, p.cfg.Thinning)
		mask.Close()

		skelPath = skeleton.LongestPath(thin)
		absSkelPoints = toImage.ApplyToPoints(skeleton.Points(thin))
		thin.Close()
	}

	var m measure.Measurement
	if len(skelPath) >= 2 {
		m, err = measure.FromSkeleton(contour, skelPath, scale, p.cfg.CurvatureStep)
	} else {
		m, err = measure.FromContour(contour, scale)
	}
	if err != nil {
		return ProcessedResult{
			Measurement:   failure(KindMeasurementFailed, err),
			SheetRect:     det.Rect,
			Contour:       absContour,
			Scale:         scale,
			SheetStrategy: det.Strategy,
			ObjectFinder:  finder,
			Debug:         render.Debug(img, det.Rect, absContour, absSkelPoints),
		}
	}

	return ProcessedResult{
		Measurement:   MeasurementResult{Measurement: m},
		SheetRect:     det.Rect,
		Contour:       absContour,
		Scale:         scale,
		SheetStrategy: det.Strategy,
		ObjectFinder:  finder,
		Debug:         render.Debug(img, det.Rect, absContour, absSkelPoints),
	}
}

func failure(kind FailureKind, err error) MeasurementResult {
	return MeasurementResult{
		Kind: kind,
		Err:  fmt.Sprintf("%s: %v", kind, err),
	}
}
