package domain

import (
	"fmt"
	"image"
	"strings"
)

// Detection a single candidate location of the object, in the coordinate space of the original image.
type Detection struct {
	// H, V the horizontal/vertical pixel coordinates of the object's center point
	H int
	V int
	// Confidence how much we trust the pattern which produced this detection, in [0, 1]
	Confidence float64
	// Source identifies which parser rule produced the detection. Not user-visible, useful for debugging.
	Source string
	// InstanceID the 1-based instance number as reported by the model, or auto-assigned if absent
	InstanceID int
}

// DetectionSet the result of parsing one model response. Detections are kept in discovery order.
type DetectionSet struct {
	Detections []Detection
	// Recognized is false iff the set is empty after removing all-zero/"not found" detections.
	Recognized bool
}

const notFoundCoordinateString = "0 | 0 | 0"

// CoordinateString renders the canonical "h | v | id; h | v | id; ..." representation, or the
// "0 | 0 | 0" sentinel when nothing was recognized.
func (d *DetectionSet) CoordinateString() string {
	if !d.Recognized || len(d.Detections) == 0 {
		return notFoundCoordinateString
	}
	parts := make([]string, 0, len(d.Detections))
	for _, detection := range d.Detections {
		parts = append(parts, fmt.Sprintf("%d | %d | %d", detection.H, detection.V, detection.InstanceID))
	}
	return strings.Join(parts, "; ")
}

// ClippedPoints returns the detection centers clamped to the original image bounds, for drawing.
// Validation is lenient (models sometimes answer slightly out of frame), so clamping happens here
// and not during parsing.
func (d *DetectionSet) ClippedPoints(geometry ImageGeometry) []image.Point {
	points := make([]image.Point, 0, len(d.Detections))
	for _, detection := range d.Detections {
		points = append(points, image.Point{
			X: clip(detection.H, geometry.OriginalWidth-1),
			Y: clip(detection.V, geometry.OriginalHeight-1),
		})
	}
	return points
}

func clip(value, max int) int {
	if value < 0 {
		return 0
	}
	if value > max {
		return max
	}
	return value
}
