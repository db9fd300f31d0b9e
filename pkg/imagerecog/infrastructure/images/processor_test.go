package images

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yanbo.cc/imagerecog/pkg/common"
	"yanbo.cc/imagerecog/pkg/imagerecog/domain"
)

func writeTestJPEG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "scene.jpg")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = file.Close()
	}()
	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadImagesConfig(t *testing.T, content string) *common.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	config, err := common.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	return config
}

func TestProcessDownscalesPreservingAspectRatio(t *testing.T) {
	path := writeTestJPEG(t, 640, 480)
	processor := NewProcessor(loadImagesConfig(t, "resizeWidth: 256\n"))
	processed, err := processor.Process(path)
	if err != nil {
		t.Fatal(err)
	}
	expected := domain.ImageGeometry{
		OriginalWidth:   640,
		OriginalHeight:  480,
		ProcessedWidth:  256,
		ProcessedHeight: 192,
	}
	if processed.Geometry != expected {
		t.Errorf("unexpected geometry: %+v", processed.Geometry)
	}
	if processed.Base64 == "" {
		t.Error("expected a non-empty base64 payload")
	}
}

func TestProcessDefaultsResizeWidth(t *testing.T) {
	path := writeTestJPEG(t, 512, 512)
	processor := NewProcessor(loadImagesConfig(t, "logPath: log.txt\n"))
	processed, err := processor.Process(path)
	if err != nil {
		t.Fatal(err)
	}
	if processed.Geometry.ProcessedWidth != 256 || processed.Geometry.ProcessedHeight != 256 {
		t.Errorf("unexpected processed size: %+v", processed.Geometry)
	}
}

func TestProcessMissingFile(t *testing.T) {
	processor := NewProcessor(loadImagesConfig(t, "logPath: log.txt\n"))
	if _, err := processor.Process(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestAnnotateWritesNewFileNextToSource(t *testing.T) {
	path := writeTestJPEG(t, 320, 240)
	annotator := NewStarAnnotator(loadImagesConfig(t, "annotationStarSize: 10\n"))
	outputPath, err := annotator.Annotate(path, []image.Point{{X: 160, Y: 120}, {X: 10, Y: 10}})
	if err != nil {
		t.Fatal(err)
	}
	if outputPath == path {
		t.Error("the annotated image must not overwrite the source")
	}
	if !strings.Contains(filepath.Base(outputPath), "_annotated_") {
		t.Errorf("unexpected output path: %q", outputPath)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Errorf("the annotated image was not written: %v", err)
	}
	first, err := annotator.Annotate(path, []image.Point{{X: 1, Y: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if first == outputPath {
		t.Error("repeated annotations must not overwrite each other")
	}
}

func TestAnnotateMissingFile(t *testing.T) {
	annotator := NewStarAnnotator(loadImagesConfig(t, "logPath: log.txt\n"))
	if _, err := annotator.Annotate(filepath.Join(t.TempDir(), "missing.jpg"), nil); err == nil {
		t.Error("expected an error for a missing file")
	}
}
