package domain

// ImageGeometry describes the two coordinate spaces a recognition works in: the resolution of the
// original image on disk, and the (possibly downscaled) resolution of the copy actually sent to the
// vision model. Model output is parsed in the processed space and rescaled to the original space.
type ImageGeometry struct {
	OriginalWidth   int
	OriginalHeight  int
	ProcessedWidth  int
	ProcessedHeight int
}

// NewIdentityGeometry describes an image which is sent to the model at its original resolution.
func NewIdentityGeometry(width, height int) ImageGeometry {
	return ImageGeometry{
		OriginalWidth:   width,
		OriginalHeight:  height,
		ProcessedWidth:  width,
		ProcessedHeight: height,
	}
}

// ScaleX the horizontal processed-to-original rescale factor. 1.0 when nothing was downscaled.
func (g ImageGeometry) ScaleX() float64 {
	if g.ProcessedWidth == 0 {
		return 1
	}
	return float64(g.OriginalWidth) / float64(g.ProcessedWidth)
}

// ScaleY the vertical processed-to-original rescale factor. 1.0 when nothing was downscaled.
func (g ImageGeometry) ScaleY() float64 {
	if g.ProcessedHeight == 0 {
		return 1
	}
	return float64(g.OriginalHeight) / float64(g.ProcessedHeight)
}
