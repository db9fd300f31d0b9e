package domain

// VisionModel a generic interface for a vision-language model (VLM): a service which accepts an
// image and a text prompt and returns free-text analysis. The recognizer is provider-agnostic
// and operates purely on the returned text.
type VisionModel interface {
	// Name the provider tag of the model ("grok", "qwen", "llava"). Used for prompt template
	// selection and for choosing a model by name.
	Name() string
	// Infer sends the prompt together with a base64-encoded JPEG image and returns the raw
	// response text.
	Infer(prompt, base64Image string) (string, error)
}
