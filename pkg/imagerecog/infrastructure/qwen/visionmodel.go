package qwen

import (
	"yanbo.cc/imagerecog/pkg/common"
	"yanbo.cc/imagerecog/pkg/imagerecog/infrastructure/openai"
)

const (
	// ConfigKeyQwenModel which DashScope model to query
	ConfigKeyQwenModel = "qwenModel"
	// ConfigKeyQwenEndpoint the OpenAI-compatible DashScope endpoint
	ConfigKeyQwenEndpoint = "qwenEndpoint"
)

type VisionModel struct {
	client *openai.Client
}

// NewVisionModel creates a vision model backed by Alibaba's Qwen-VL via the DashScope
// OpenAI-compatible endpoint.
func NewVisionModel(apiKey string, config *common.Config, logger common.Logger) *VisionModel {
	return &VisionModel{
		client: openai.NewClient(
			config.GetStringOrDefault(ConfigKeyQwenEndpoint, "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"),
			apiKey,
			config.GetStringOrDefault(ConfigKeyQwenModel, "qwen-vl-max-0809"),
			config,
			logger,
		),
	}
}

func (v *VisionModel) Name() string {
	return "qwen"
}

func (v *VisionModel) Infer(prompt, base64Image string) (string, error) {
	return v.client.Complete(prompt, base64Image)
}
