package grok

import (
	"yanbo.cc/imagerecog/pkg/common"
	"yanbo.cc/imagerecog/pkg/imagerecog/infrastructure/openai"
)

const (
	// ConfigKeyGrokModel which X.AI model to query
	ConfigKeyGrokModel = "grokModel"
	// ConfigKeyGrokEndpoint the chat-completions endpoint, overridable for tests/self-hosted gateways
	ConfigKeyGrokEndpoint = "grokEndpoint"
)

type VisionModel struct {
	client *openai.Client
}

// NewVisionModel creates a vision model backed by X.AI's Grok.
func NewVisionModel(apiKey string, config *common.Config, logger common.Logger) *VisionModel {
	return &VisionModel{
		client: openai.NewClient(
			config.GetStringOrDefault(ConfigKeyGrokEndpoint, "https://api.x.ai/v1/chat/completions"),
			apiKey,
			config.GetStringOrDefault(ConfigKeyGrokModel, "grok-4-0709"),
			config,
			logger,
		),
	}
}

func (v *VisionModel) Name() string {
	return "grok"
}

func (v *VisionModel) Infer(prompt, base64Image string) (string, error) {
	return v.client.Complete(prompt, base64Image)
}
