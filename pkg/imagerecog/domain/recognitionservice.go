package domain

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"yanbo.cc/imagerecog/pkg/common"
)

// RecognitionResult everything one invocation produced. Created fresh per model call, consumed
// immediately by the caller and discarded; nothing persists across invocations.
type RecognitionResult struct {
	// ID correlates the result with log lines
	ID            string
	ObjectPhrase  string
	Detections    DetectionSet
	Summary       string
	SpeechText    string
	RawResponse   string
	AnnotatedPath string
}

// RecognitionService is the main orchestrator: it sequences phrase extraction, prompt building,
// the model call, coordinate extraction, formatting, annotation and speech. One user command
// produces exactly one image load, one model call, one parse and one formatted output.
type RecognitionService struct {
	mutex             sync.Mutex
	interpreter       *CommandInterpreter
	promptBuilder     *PromptBuilder
	coordinateParser  *CoordinateParser
	formatter         *ResponseFormatter
	modelSelector     *VisionModelSelector
	imageProcessor    ImageProcessor
	annotator         Annotator
	speaker           Speaker
	speechQueue       *common.JobQueue
	logger            common.Logger
	enableSpeech      bool
	echoModelResponse bool
}

func NewRecognitionService(
	interpreter *CommandInterpreter,
	promptBuilder *PromptBuilder,
	coordinateParser *CoordinateParser,
	formatter *ResponseFormatter,
	modelSelector *VisionModelSelector,
	imageProcessor ImageProcessor,
	annotator Annotator,
	speaker Speaker,
	config *common.Config,
	logger common.Logger,
) *RecognitionService {
	return &RecognitionService{
		interpreter:       interpreter,
		promptBuilder:     promptBuilder,
		coordinateParser:  coordinateParser,
		formatter:         formatter,
		modelSelector:     modelSelector,
		imageProcessor:    imageProcessor,
		annotator:         annotator,
		speaker:           speaker,
		speechQueue:       common.NewJobQueue(logger),
		logger:            logger,
		enableSpeech:      config.GetBoolOrDefault(ConfigKeyEnableSpeech, true),
		echoModelResponse: config.GetBoolOrDefault(ConfigKeyEchoModelResponse, false),
	}
}

// Recognize runs the whole pipeline for one command against one image. Phrase-extraction and
// provider failures are fatal for the invocation and returned to the caller; annotation and
// speech failures are logged and swallowed because they must never abort a successful detection.
func (s *RecognitionService) Recognize(commandText, imagePath, providerName string) (*RecognitionResult, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	result := &RecognitionResult{ID: uuid.NewString()}
	objectPhrase, err := s.interpreter.ObjectPhrase(commandText)
	if err != nil {
		return nil, err
	}
	result.ObjectPhrase = objectPhrase
	s.logger.Log(fmt.Sprintf("[%s] object phrase: \"%s\"\n", result.ID, objectPhrase))
	visionModel, err := s.modelSelector.Select(providerName)
	if err != nil {
		return nil, err
	}
	processedImage, err := s.imageProcessor.Process(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load image \"%s\": %w", imagePath, err)
	}
	geometry := processedImage.Geometry
	prompt := s.promptBuilder.Build(objectPhrase, geometry.ProcessedWidth, geometry.ProcessedHeight, visionModel.Name())
	response, err := visionModel.Infer(prompt, processedImage.Base64)
	if err != nil {
		return nil, fmt.Errorf("vision model \"%s\" failed: %w", visionModel.Name(), err)
	}
	result.RawResponse = response
	s.logger.Log(fmt.Sprintf("[%s] raw response from %s:\n%s\n", result.ID, visionModel.Name(), response))
	result.Detections = s.coordinateParser.Parse(response, geometry)
	echoedResponse := ""
	if s.echoModelResponse {
		echoedResponse = response
	}
	result.Summary = s.formatter.Format(objectPhrase, result.Detections, echoedResponse)
	result.SpeechText = s.formatter.SpeechText(objectPhrase, result.Detections)
	if result.Detections.Recognized && s.annotator != nil {
		annotatedPath, err := s.annotator.Annotate(imagePath, result.Detections.ClippedPoints(geometry))
		if err != nil {
			s.logger.Log(fmt.Sprintf("[%s] failed to annotate the image: %s\n", result.ID, err.Error()))
		} else {
			result.AnnotatedPath = annotatedPath
		}
	}
	s.speakLater(result.SpeechText)
	return result, nil
}

// Speak announces arbitrary text (error messages etc.) without blocking the caller.
func (s *RecognitionService) Speak(text string) {
	s.speakLater(text)
}

// Stop waits for pending speech to finish.
func (s *RecognitionService) Stop() {
	s.speechQueue.Stop()
}

func (s *RecognitionService) speakLater(text string) {
	if !s.enableSpeech || s.speaker == nil || text == "" {
		return
	}
	s.speechQueue.Enqueue(func() error {
		return s.speaker.Speak(text)
	})
}
