package vision

import (
	"image"
	"math"
)

// Detection is a bounding box in normalized image space, every edge in [0,1].
type Detection struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

// Center returns the pixel center of the box on a width x height image.
// Coordinates are truncated toward zero.
func (d Detection) Center(width, height int) image.Point {
	cx := (d.XMin + d.XMax) / 2 * float64(width)
	cy := (d.YMin + d.YMax) / 2 * float64(height)
	return image.Point{X: int(cx), Y: int(cy)}
}

// Clamp pins every edge into [0,1]. Model output is not always well-formed.
func (d Detection) Clamp() Detection {
	return Detection{
		XMin: clamp01(d.XMin),
		YMin: clamp01(d.YMin),
		XMax: clamp01(d.XMax),
		YMax: clamp01(d.YMax),
	}
}

// Point is a normalized image location.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DetectResult is the answer to a detect call.
type DetectResult struct {
	Objects   []Detection `json:"objects"`
	RequestID string      `json:"request_id,omitempty"`
}

// PointResult is the answer to a point call.
type PointResult struct {
	Points    []Point `json:"points"`
	RequestID string  `json:"request_id,omitempty"`
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
