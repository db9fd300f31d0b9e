package images

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"
	"os"

	"golang.org/x/image/draw"

	"yanbo.cc/imagerecog/pkg/common"
	"yanbo.cc/imagerecog/pkg/imagerecog/domain"
)

const jpegQuality = 85

// Processor prepares images for vision models: decode, downscale to a fixed width preserving the
// aspect ratio, re-encode as JPEG and base64 it for embedding in a request payload.
type Processor struct {
	resizeWidth int
}

func NewProcessor(config *common.Config) *Processor {
	return &Processor{
		resizeWidth: config.GetIntOrDefault(domain.ConfigKeyResizeWidth, 256),
	}
}

func (p *Processor) Process(filePath string) (*domain.ProcessedImage, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	decoded, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	bounds := decoded.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()
	processedWidth := p.resizeWidth
	processedHeight := int(math.Round(float64(originalHeight) * float64(processedWidth) / float64(originalWidth)))
	resized := image.NewRGBA(image.Rect(0, 0, processedWidth, processedHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), decoded, bounds, draw.Src, nil)
	var buf bytes.Buffer
	err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality})
	if err != nil {
		return nil, err
	}
	return &domain.ProcessedImage{
		Base64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Geometry: domain.ImageGeometry{
			OriginalWidth:   originalWidth,
			OriginalHeight:  originalHeight,
			ProcessedWidth:  processedWidth,
			ProcessedHeight: processedHeight,
		},
	}, nil
}
