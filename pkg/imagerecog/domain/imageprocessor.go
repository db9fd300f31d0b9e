package domain

// ProcessedImage an image prepared for transmission to a vision model: a base64-encoded,
// downscaled JPEG plus the geometry needed to map model answers back to the original resolution.
type ProcessedImage struct {
	Base64   string
	Geometry ImageGeometry
}

// ImageProcessor loads an image from disk and prepares it for a vision model.
type ImageProcessor interface {
	Process(filePath string) (*ProcessedImage, error)
}
