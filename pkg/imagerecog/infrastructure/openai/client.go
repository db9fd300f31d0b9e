package openai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"yanbo.cc/imagerecog/pkg/common"
)

const (
	// ConfigKeyRequestTimeout when to give up on a single request to a hosted provider, in milliseconds
	ConfigKeyRequestTimeout = "requestTimeout"
	// ConfigKeyRequestRetryCount how many attempts are made in total before a transient failure becomes fatal
	ConfigKeyRequestRetryCount = "requestRetryCount"
	// ConfigKeyProxyURL an optional HTTP proxy for hosted providers which are not reachable directly
	ConfigKeyProxyURL = "proxyURL"
)

var errEmptyResponse = errors.New("the model returned no choices")

// Client speaks the chat-completions dialect shared by the hosted vision providers: a messages
// array whose content mixes a text part with a base64 data-URL image part.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	retryCount int
	logger     common.Logger
}

func NewClient(endpoint, apiKey, model string, config *common.Config, logger common.Logger) *Client {
	transport := http.DefaultTransport
	proxyURL := config.GetString(ConfigKeyProxyURL)
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport = &http.Transport{Proxy: http.ProxyURL(parsed)}
		} else {
			logger.Log("ignoring unparsable proxy URL: " + err.Error() + "\n")
		}
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{
			Timeout:   config.GetDurationOrDefault(ConfigKeyRequestTimeout, 2*time.Minute),
			Transport: transport,
		},
		retryCount: config.GetIntOrDefault(ConfigKeyRequestRetryCount, 3),
		logger:     logger,
	}
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and the image and returns the raw response text. Transient server
// errors (HTTP 5xx) are retried with exponential backoff; everything else fails immediately.
func (c *Client) Complete(prompt, base64Image string) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []message{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + base64Image}},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	backoff := time.Second
	var lastErr error
	for attempt := 0; attempt < c.retryCount; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}
		var retriable bool
		var content string
		content, retriable, lastErr = c.completeOnce(payload)
		if lastErr == nil {
			return content, nil
		}
		c.logger.Log(fmt.Sprintf("request to %s failed (attempt %d): %s\n", c.endpoint, attempt+1, lastErr.Error()))
		if !retriable {
			return "", lastErr
		}
	}
	return "", fmt.Errorf("request failed after %d attempts: %w", c.retryCount, lastErr)
}

func (c *Client) completeOnce(payload []byte) (content string, retriable bool, err error) {
	request, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", false, err
	}
	request.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", false, err
	}
	defer func() {
		_ = response.Body.Close()
	}()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", false, err
	}
	if response.StatusCode != http.StatusOK {
		return "", response.StatusCode >= 500, fmt.Errorf("status %d: %s", response.StatusCode, string(body))
	}
	var parsed completionResponse
	err = json.Unmarshal(body, &parsed)
	if err != nil {
		return "", false, err
	}
	if len(parsed.Choices) == 0 {
		return "", false, errEmptyResponse
	}
	return parsed.Choices[0].Message.Content, false, nil
}
