package pipeline

// FailureKind classifies why a pipeline run produced no measurement. All
// failures are reported through the result; no stage panics across the
// pipeline boundary.
type FailureKind int

const (
	// KindNone means the run succeeded.
	KindNone FailureKind = iota
	// KindImageUnusable means the input image was invalid or empty.
	KindImageUnusable
	// KindSheetNotFound means no detector strategy produced a usable
	// reference rectangle.
	KindSheetNotFound
	// KindScaleTooSmall means the computed scale fell below the sanity
	// floor — the photo was taken too far away to trust.
	KindScaleTooSmall
	// KindObjectNotFound means no segmentation strategy produced a contour
	// passing the shape filters.
	KindObjectNotFound
	// KindMeasurementFailed means the contour or skeleton was too
	// degenerate for numeric computation.
	KindMeasurementFailed
	// KindInternalError is any unexpected failure in an image operation,
	// caught at the pipeline boundary.
	KindInternalError
)

func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindImageUnusable:
		return "image unusable"
	case KindSheetNotFound:
		return "sheet not found"
	case KindScaleTooSmall:
		return "scale too small"
	case KindObjectNotFound:
		return "object not found"
	case KindMeasurementFailed:
		return "measurement failed"
	case KindInternalError:
		return "internal error"
	default:
		return "unknown"
	}
}
