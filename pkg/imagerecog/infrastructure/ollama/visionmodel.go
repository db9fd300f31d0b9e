package ollama

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"yanbo.cc/imagerecog/pkg/common"
	"yanbo.cc/imagerecog/pkg/imagerecog/infrastructure/openai"
)

const (
	// ConfigKeyOllamaURL where the local Ollama server listens
	ConfigKeyOllamaURL = "ollamaURL"
	// ConfigKeyLlavaModel which local vision model Ollama should run
	ConfigKeyLlavaModel = "llavaModel"
)

// VisionModel a locally hosted LLaVA model behind an Ollama server. No API key required;
// the payload dialect is Ollama's own /api/generate, not chat completions.
type VisionModel struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewVisionModel(config *common.Config) *VisionModel {
	return &VisionModel{
		baseURL: config.GetStringOrDefault(ConfigKeyOllamaURL, "http://localhost:11434"),
		model:   config.GetStringOrDefault(ConfigKeyLlavaModel, "llava"),
		httpClient: &http.Client{
			Timeout: config.GetDurationOrDefault(openai.ConfigKeyRequestTimeout, 2*time.Minute),
		},
	}
}

func (v *VisionModel) Name() string {
	return "llava"
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (v *VisionModel) Infer(prompt, base64Image string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  v.model,
		Prompt: prompt,
		Images: []string{base64Image},
		Stream: false,
	})
	if err != nil {
		return "", err
	}
	response, err := v.httpClient.Post(v.baseURL+"/api/generate", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer func() {
		_ = response.Body.Close()
	}()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d: %s", response.StatusCode, string(body))
	}
	var parsed generateResponse
	err = json.Unmarshal(body, &parsed)
	if err != nil {
		return "", err
	}
	return parsed.Response, nil
}

// IsAvailable reports whether the local Ollama server responds at all. Useful at startup so that
// the console can hide the provider instead of failing on first use.
func (v *VisionModel) IsAvailable() bool {
	response, err := v.httpClient.Get(v.baseURL + "/api/tags")
	if err != nil {
		return false
	}
	defer func() {
		_ = response.Body.Close()
	}()
	return response.StatusCode == http.StatusOK
}
