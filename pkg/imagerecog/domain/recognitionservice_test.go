package domain

import (
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"yanbo.cc/imagerecog/pkg/common"
)

type fakeVisionModel struct {
	name     string
	response string
	err      error
	prompt   string
}

func (f *fakeVisionModel) Name() string {
	return f.name
}

func (f *fakeVisionModel) Infer(prompt, base64Image string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

type fakeImageProcessor struct {
	processedImage *ProcessedImage
	err            error
}

func (f *fakeImageProcessor) Process(filePath string) (*ProcessedImage, error) {
	return f.processedImage, f.err
}

type fakeAnnotator struct {
	path   string
	err    error
	points []image.Point
}

func (f *fakeAnnotator) Annotate(filePath string, points []image.Point) (string, error) {
	f.points = points
	return f.path, f.err
}

type fakeSpeaker struct {
	spoken chan string
}

func newFakeSpeaker() *fakeSpeaker {
	return &fakeSpeaker{spoken: make(chan string, 8)}
}

func (f *fakeSpeaker) Speak(text string) error {
	f.spoken <- text
	return nil
}

func (f *fakeSpeaker) waitForSpeech(t *testing.T) string {
	t.Helper()
	select {
	case text := <-f.spoken:
		return text
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for speech")
		return ""
	}
}

func newTestService(
	t *testing.T,
	visionModel *fakeVisionModel,
	imageProcessor *fakeImageProcessor,
	annotator *fakeAnnotator,
	speaker *fakeSpeaker,
	configContent string,
) *RecognitionService {
	t.Helper()
	config := testConfig(t, configContent)
	logger := common.NewNullLogger()
	service := NewRecognitionService(
		NewCommandInterpreter(NewTranslator(), config, logger),
		NewPromptBuilder(),
		NewCoordinateParser(logger),
		NewResponseFormatter(),
		NewVisionModelSelector([]VisionModel{visionModel}, visionModel.name),
		imageProcessor,
		annotator,
		speaker,
		config,
		logger,
	)
	t.Cleanup(service.Stop)
	return service
}

func scaledProcessedImage() *ProcessedImage {
	return &ProcessedImage{
		Base64: "aW1hZ2U=",
		Geometry: ImageGeometry{
			OriginalWidth:   640,
			OriginalHeight:  480,
			ProcessedWidth:  256,
			ProcessedHeight: 192,
		},
	}
}

func TestRecognizeHappyPath(t *testing.T) {
	visionModel := &fakeVisionModel{name: "grok", response: "| 128 | 96 | 1 |"}
	annotator := &fakeAnnotator{path: "scene_annotated.jpg"}
	speaker := newFakeSpeaker()
	service := newTestService(t, visionModel, &fakeImageProcessor{processedImage: scaledProcessedImage()}, annotator, speaker, "logPath: log.txt\n")

	result, err := service.Recognize("please grab the coke to me", "scene.jpg", "")
	if err != nil {
		t.Fatal(err)
	}
	if result.ObjectPhrase != "coke" {
		t.Errorf("expected the phrase %q, got %q", "coke", result.ObjectPhrase)
	}
	if result.ID == "" {
		t.Error("expected a non-empty invocation ID")
	}
	detection := result.Detections.Detections
	if len(detection) != 1 || detection[0].H != 320 || detection[0].V != 240 {
		t.Errorf("expected one detection at (320, 240), got %+v", detection)
	}
	if !strings.Contains(result.Summary, "coke is recognized") {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
	if !strings.Contains(result.Summary, "320 | 240 | 1") {
		t.Errorf("expected the rescaled coordinates in the summary: %q", result.Summary)
	}
	if result.AnnotatedPath != "scene_annotated.jpg" {
		t.Errorf("unexpected annotated path: %q", result.AnnotatedPath)
	}
	if len(annotator.points) != 1 || annotator.points[0] != (image.Point{X: 320, Y: 240}) {
		t.Errorf("unexpected annotation points: %v", annotator.points)
	}
	if !strings.Contains(visionModel.prompt, "coke") || !strings.Contains(visionModel.prompt, "256x192") {
		t.Errorf("the prompt must carry the phrase and the processed resolution: %q", visionModel.prompt)
	}
	if spoken := speaker.waitForSpeech(t); spoken != "coke found" {
		t.Errorf("expected %q to be spoken, got %q", "coke found", spoken)
	}
}

func TestRecognizeNotFound(t *testing.T) {
	visionModel := &fakeVisionModel{name: "grok", response: "Sorry, the object was not found in the image."}
	annotator := &fakeAnnotator{path: "never.jpg"}
	speaker := newFakeSpeaker()
	service := newTestService(t, visionModel, &fakeImageProcessor{processedImage: scaledProcessedImage()}, annotator, speaker, "logPath: log.txt\n")

	result, err := service.Recognize("find the unicorn", "scene.jpg", "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Detections.Recognized {
		t.Error("expected an unrecognized result")
	}
	if !strings.Contains(result.Summary, "sorry, I cannot locate it") {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
	if result.AnnotatedPath != "" {
		t.Error("nothing must be annotated when the object was not recognized")
	}
	if annotator.points != nil {
		t.Error("the annotator must not be called when the object was not recognized")
	}
	if spoken := speaker.waitForSpeech(t); spoken != "Object not found" {
		t.Errorf("expected %q to be spoken, got %q", "Object not found", spoken)
	}
}

func TestRecognizeModelFailureIsFatal(t *testing.T) {
	visionModel := &fakeVisionModel{name: "grok", err: errors.New("api unreachable")}
	service := newTestService(t, visionModel, &fakeImageProcessor{processedImage: scaledProcessedImage()}, &fakeAnnotator{}, newFakeSpeaker(), "logPath: log.txt\n")
	if _, err := service.Recognize("find the cup", "scene.jpg", ""); err == nil {
		t.Error("expected a model failure to be returned")
	}
}

func TestRecognizeImageLoadFailureIsFatal(t *testing.T) {
	visionModel := &fakeVisionModel{name: "grok", response: "| 10 | 10 | 1 |"}
	service := newTestService(t, visionModel, &fakeImageProcessor{err: errors.New("no such file")}, &fakeAnnotator{}, newFakeSpeaker(), "logPath: log.txt\n")
	if _, err := service.Recognize("find the cup", "missing.jpg", ""); err == nil {
		t.Error("expected an image load failure to be returned")
	}
}

func TestRecognizeAnnotationFailureIsSwallowed(t *testing.T) {
	visionModel := &fakeVisionModel{name: "grok", response: "| 128 | 96 | 1 |"}
	annotator := &fakeAnnotator{err: errors.New("disk full")}
	service := newTestService(t, visionModel, &fakeImageProcessor{processedImage: scaledProcessedImage()}, annotator, newFakeSpeaker(), "logPath: log.txt\n")
	result, err := service.Recognize("find the cup", "scene.jpg", "")
	if err != nil {
		t.Fatalf("an annotation failure must not abort the recognition: %v", err)
	}
	if result.AnnotatedPath != "" {
		t.Errorf("expected an empty annotated path, got %q", result.AnnotatedPath)
	}
	if !result.Detections.Recognized {
		t.Error("the detections must survive an annotation failure")
	}
}

func TestRecognizeUnknownProviderIsFatal(t *testing.T) {
	visionModel := &fakeVisionModel{name: "grok", response: "| 10 | 10 | 1 |"}
	service := newTestService(t, visionModel, &fakeImageProcessor{processedImage: scaledProcessedImage()}, &fakeAnnotator{}, newFakeSpeaker(), "logPath: log.txt\n")
	if _, err := service.Recognize("find the cup", "scene.jpg", "gemini"); err == nil {
		t.Error("expected an unknown provider to be rejected")
	}
}

func TestRecognizeEchoesModelResponseWhenConfigured(t *testing.T) {
	visionModel := &fakeVisionModel{name: "grok", response: "| 128 | 96 | 1 |"}
	service := newTestService(t, visionModel, &fakeImageProcessor{processedImage: scaledProcessedImage()}, &fakeAnnotator{path: "a.jpg"}, newFakeSpeaker(), "logPath: log.txt\nechoModelResponse: true\n")
	result, err := service.Recognize("find the cup", "scene.jpg", "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Summary, "Model Response:\n| 128 | 96 | 1 |") {
		t.Errorf("expected the raw model response in the summary: %q", result.Summary)
	}
}

func TestRecognizeSpeechDisabledByConfig(t *testing.T) {
	visionModel := &fakeVisionModel{name: "grok", response: "| 128 | 96 | 1 |"}
	speaker := newFakeSpeaker()
	service := newTestService(t, visionModel, &fakeImageProcessor{processedImage: scaledProcessedImage()}, &fakeAnnotator{path: "a.jpg"}, speaker, "logPath: log.txt\nenableSpeech: false\n")
	if _, err := service.Recognize("find the cup", "scene.jpg", ""); err != nil {
		t.Fatal(err)
	}
	// With speech disabled nothing is ever enqueued, so the channel can be checked right away.
	select {
	case text := <-speaker.spoken:
		t.Errorf("expected no speech, got %q", text)
	default:
	}
}
