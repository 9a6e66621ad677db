package sheet

import (
	"errors"
	"fmt"
)

// ErrScaleTooSmall is returned when the computed scale falls below the
// sanity floor, which usually means the photo was taken too far away.
var ErrScaleTooSmall = errors.New("scale below sanity floor")

// ComputeScale converts the sheet's pixel bounding box into pixels per
// millimeter. Orientation is inferred by matching the longer pixel dimension
// to the longer physical dimension; the two per-axis estimates are averaged,
// which compensates for minor perspective distortion without a full
// homography.
func ComputeScale(pxWidth, pxHeight int, widthMm, heightMm float64) (float64, error) {
	if pxWidth <= 0 || pxHeight <= 0 || widthMm <= 0 || heightMm <= 0 {
		return 0, errors.New("invalid sheet dimensions")
	}

	longPx, shortPx := float64(pxWidth), float64(pxHeight)
	if shortPx > longPx {
		longPx, shortPx = shortPx, longPx
	}
	longMm, shortMm := widthMm, heightMm
	if shortMm > longMm {
		longMm, shortMm = shortMm, longMm
	}

	return (longPx/longMm + shortPx/shortMm) / 2, nil
}

// Scale computes pixels per millimeter from a detection, enforcing the
// configured sanity floor.
func (d Detection) Scale(params Params) (float64, error) {
	s, err := ComputeScale(d.Rect.Width, d.Rect.Height, params.WidthMm, params.HeightMm)
	if err != nil {
		return 0, err
	}
	if s <= params.MinScale {
		return 0, fmt.Errorf("%w: %.3f px/mm", ErrScaleTooSmall, s)
	}
	return s, nil
}
