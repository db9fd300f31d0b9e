package domain

// A list of built-in config keys supported by the recognizer's core (settings of concrete
// vision model providers are not included, see the infrastructure packages).

const (
	// ConfigKeyLogPath file path where to save the logs
	ConfigKeyLogPath = "logPath"
	// ConfigKeyImagePath the default image the recognizer works on when the command doesn't mention one
	ConfigKeyImagePath = "imagePath"
	// ConfigKeyDefaultProvider which vision model provider to use when the caller doesn't name one
	ConfigKeyDefaultProvider = "defaultProvider"
	// ConfigKeyResizeWidth the width (in pixels) the image is downscaled to before it's sent to the model.
	// Vision models don't need the full resolution, and smaller payloads are cheaper and faster.
	ConfigKeyResizeWidth = "resizeWidth"
	// ConfigKeyEnableSpeech whether recognition results should also be spoken out loud
	ConfigKeyEnableSpeech = "enableSpeech"
	// ConfigKeyEchoModelResponse whether the raw model response is echoed in the summary (useful for audit/debugging)
	ConfigKeyEchoModelResponse = "echoModelResponse"
	// ConfigKeyTranslationTablePath an optional file with extra noun translations, one "<foreign>=<english>" pair per line
	ConfigKeyTranslationTablePath = "translationTablePath"
	// ConfigKeyAnnotationStarSize the size (in pixels) of the star markers drawn on the annotated image
	ConfigKeyAnnotationStarSize = "annotationStarSize"
)
