package domain

import "image"

// Annotator draws markers at the detected points and saves the result next to the source image.
// Returns the path of the annotated copy.
type Annotator interface {
	Annotate(filePath string, points []image.Point) (string, error)
}
