package api

import (
	"os"

	"yanbo.cc/imagerecog/pkg/common"
	"yanbo.cc/imagerecog/pkg/imagerecog/domain"
	"yanbo.cc/imagerecog/pkg/imagerecog/infrastructure/espeak"
	"yanbo.cc/imagerecog/pkg/imagerecog/infrastructure/grok"
	"yanbo.cc/imagerecog/pkg/imagerecog/infrastructure/images"
	"yanbo.cc/imagerecog/pkg/imagerecog/infrastructure/ollama"
	"yanbo.cc/imagerecog/pkg/imagerecog/infrastructure/qwen"
)

// See domain/config.go
const (
	ConfigKeyLogPath         = domain.ConfigKeyLogPath
	ConfigKeyImagePath       = domain.ConfigKeyImagePath
	ConfigKeyDefaultProvider = domain.ConfigKeyDefaultProvider
)

// Environment variables holding provider credentials. Providers without credentials are simply
// not registered.
const (
	grokAPIKeyVariable = "XAI_API_KEY"
	qwenAPIKeyVariable = "DASHSCOPE_API_KEY"
)

type api struct {
	recognitionService *domain.RecognitionService
	modelSelector      *domain.VisionModelSelector
}

// API is the entrypoint to the recognizer. It shouldn't contain any logic of its own; it glues
// all the components together and provides a public interface for domain.RecognitionService.
// This API can be used in various contexts: a console, an IRC chat, an HTTP server etc.
type API interface {
	// Recognize runs one full recognition: extracts the object phrase from `commandText`, asks
	// the vision model to locate it in the image at `imagePath`, and returns the parsed result.
	// `providerName` selects the vision model; an empty string means the configured default.
	Recognize(commandText, imagePath, providerName string) (*domain.RecognitionResult, error)
	// Speak announces arbitrary text (such as error messages) without blocking.
	Speak(text string)
	// ProviderNames lists the registered vision model providers.
	ProviderNames() []string
	// Stop waits for pending background work (speech) to finish.
	Stop()
}

func NewAPI(config *common.Config) API {
	logger := common.NewFileLogger(config.GetStringOrDefault(ConfigKeyLogPath, "log.txt"))
	var visionModels []domain.VisionModel
	if apiKey := os.Getenv(grokAPIKeyVariable); apiKey != "" {
		visionModels = append(visionModels, grok.NewVisionModel(apiKey, config, logger))
	}
	if apiKey := os.Getenv(qwenAPIKeyVariable); apiKey != "" {
		visionModels = append(visionModels, qwen.NewVisionModel(apiKey, config, logger))
	}
	llavaModel := ollama.NewVisionModel(config)
	if llavaModel.IsAvailable() {
		visionModels = append(visionModels, llavaModel)
	}
	modelSelector := domain.NewVisionModelSelector(
		visionModels,
		config.GetStringOrDefault(ConfigKeyDefaultProvider, "grok"),
	)
	recognitionService := domain.NewRecognitionService(
		domain.NewCommandInterpreter(domain.NewTranslator(), config, logger),
		domain.NewPromptBuilder(),
		domain.NewCoordinateParser(logger),
		domain.NewResponseFormatter(),
		modelSelector,
		images.NewProcessor(config),
		images.NewStarAnnotator(config),
		espeak.NewSpeaker(config),
		config,
		logger,
	)
	return &api{
		recognitionService: recognitionService,
		modelSelector:      modelSelector,
	}
}

func (a *api) Recognize(commandText, imagePath, providerName string) (*domain.RecognitionResult, error) {
	return a.recognitionService.Recognize(commandText, imagePath, providerName)
}

func (a *api) Speak(text string) {
	a.recognitionService.Speak(text)
}

func (a *api) ProviderNames() []string {
	return a.modelSelector.Names()
}

func (a *api) Stop() {
	a.recognitionService.Stop()
}
