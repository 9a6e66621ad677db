// Package segment isolates the silhouette of the target produce item inside
// the reference sheet region.
package segment

// HSVRange defines a color range in HSV space for detection.
type HSVRange struct {
	Name   string  `json:"name"`
	HueMin float64 `json:"hue_min"` // 0-180 (OpenCV convention)
	HueMax float64 `json:"hue_max"` // 0-180
	SatMin float64 `json:"sat_min"` // 0-255
	SatMax float64 `json:"sat_max"` // 0-255
	ValMin float64 `json:"val_min"` // 0-255
	ValMax float64 `json:"val_max"` // 0-255
}

// DefaultColorRanges returns the ordered palette of HSV ranges tried by the
// color strategy. Order matters: the most common appearances come first.
func DefaultColorRanges() []HSVRange {
	return []HSVRange{
		{Name: "green", HueMin: 35, HueMax: 85, SatMin: 40, SatMax: 255, ValMin: 40, ValMax: 255},
		{Name: "yellow-green", HueMin: 22, HueMax: 40, SatMin: 40, SatMax: 255, ValMin: 40, ValMax: 255},
		{Name: "dark-green", HueMin: 35, HueMax: 90, SatMin: 25, SatMax: 255, ValMin: 15, ValMax: 120},
		{Name: "shadowed", HueMin: 25, HueMax: 95, SatMin: 15, SatMax: 200, ValMin: 10, ValMax: 90},
	}
}

// Params configures object segmentation.
type Params struct {
	// ColorRanges is the ordered HSV palette for the color strategy.
	ColorRanges []HSVRange `json:"color_ranges"`

	// MinAreaFraction is the minimum contour area as a fraction of the
	// region area. Empirical; tune per camera setup.
	MinAreaFraction float64 `json:"min_area_fraction"`

	// MinElongation is the minimum long/short bounding-box ratio. Rejects
	// round artifacts such as shadows and reflections.
	MinElongation float64 `json:"min_elongation"`

	// MinAbsoluteArea is the floor in px² used by the Otsu strategy.
	MinAbsoluteArea float64 `json:"min_absolute_area"`

	// MorphKernelSize is the elliptical kernel size for mask cleanup.
	MorphKernelSize int `json:"morph_kernel_size"`

	// Canny edge thresholds for the edge strategy.
	CannyLow  float32 `json:"canny_low"`
	CannyHigh float32 `json:"canny_high"`

	// Composite score weights for the darkness strategy.
	AspectWeight   float64 `json:"aspect_weight"`
	FillWeight     float64 `json:"fill_weight"`
	SolidityWeight float64 `json:"solidity_weight"`
	DarknessWeight float64 `json:"darkness_weight"`
}

// DefaultParams returns segmentation parameters tuned for an elongated
// produce item on a bright sheet.
func DefaultParams() Params {
	return Params{
		ColorRanges:     DefaultColorRanges(),
		MinAreaFraction: 0.01,
		MinElongation:   1.3,
		MinAbsoluteArea: 500,
		MorphKernelSize: 5,
		CannyLow:        50,
		CannyHigh:       150,
		AspectWeight:    0.4,
		FillWeight:      0.2,
		SolidityWeight:  0.2,
		DarknessWeight:  0.2,
	}
}

// WithColorRanges returns a copy of params with a custom HSV palette.
func (p Params) WithColorRanges(ranges []HSVRange) Params {
	p.ColorRanges = ranges
	return p
}

// WithShapeFilter returns a copy of params with custom shape thresholds.
func (p Params) WithShapeFilter(minAreaFraction, minElongation float64) Params {
	p.MinAreaFraction = minAreaFraction
	p.MinElongation = minElongation
	return p
}
