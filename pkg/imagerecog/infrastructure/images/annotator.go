package images

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"yanbo.cc/imagerecog/pkg/common"
	"yanbo.cc/imagerecog/pkg/imagerecog/domain"
)

// StarAnnotator draws a five-pointed star at every detected center point and saves the result as
// a new JPEG next to the source image.
type StarAnnotator struct {
	starSize float64
}

func NewStarAnnotator(config *common.Config) *StarAnnotator {
	return &StarAnnotator{
		starSize: float64(config.GetIntOrDefault(domain.ConfigKeyAnnotationStarSize, 20)),
	}
}

func (a *StarAnnotator) Annotate(filePath string, points []image.Point) (string, error) {
	decoded, err := gg.LoadImage(filePath)
	if err != nil {
		return "", err
	}
	dc := gg.NewContextForImage(decoded)
	for _, point := range points {
		a.drawStar(dc, float64(point.X), float64(point.Y))
	}
	outputPath := annotatedPath(filePath)
	err = gg.SaveJPG(outputPath, dc.Image(), jpegQuality)
	if err != nil {
		return "", err
	}
	return outputPath, nil
}

func (a *StarAnnotator) drawStar(dc *gg.Context, x, y float64) {
	// 5 outer points, 144 degrees apart, starting at the top.
	for i := 0; i < 5; i++ {
		angle := gg.Radians(float64(i*144 - 90))
		pointX := x + a.starSize*math.Cos(angle)
		pointY := y + a.starSize*math.Sin(angle)
		if i == 0 {
			dc.MoveTo(pointX, pointY)
		} else {
			dc.LineTo(pointX, pointY)
		}
	}
	dc.ClosePath()
	dc.SetRGB(1, 1, 0)
	dc.FillPreserve()
	dc.SetRGB(1, 0, 0)
	dc.SetLineWidth(2)
	dc.Stroke()
}

func annotatedPath(filePath string) string {
	extension := filepath.Ext(filePath)
	stem := strings.TrimSuffix(filePath, extension)
	// A short unique suffix so that repeated runs on the same image don't overwrite each other.
	return fmt.Sprintf("%s_annotated_%s.jpg", stem, uuid.NewString()[:8])
}
