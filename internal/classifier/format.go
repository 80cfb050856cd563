package classifier

import "github.com/xaenox/trendlens/internal/models"

const (
	landscapeRatio = 1.2
	verticalRatio  = 0.8
)

// DetectFormat buckets an aspect ratio. Both boundaries belong to square.
func DetectFormat(width, height float64) models.Format {
	if width <= 0 || height <= 0 {
		return models.UnknownFormat
	}
	ratio := width / height
	switch {
	case ratio > landscapeRatio:
		return models.LandscapeFormat
	case ratio < verticalRatio:
		return models.VerticalFormat
	default:
		return models.SquareFormat
	}
}

// boxSize prefers the rendered box and falls back to the intrinsic size.
func boxSize(d *models.RawDescriptor) (float64, float64) {
	if d.Box.Width > 0 && d.Box.Height > 0 {
		return d.Box.Width, d.Box.Height
	}
	return d.Width, d.Height
}
